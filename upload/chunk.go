package upload

import "fmt"

// ChunkSize is the fixed transfer unit. Every chunk is exactly this
// size except the final partial one.
const ChunkSize = 10 * 1024 * 1024 // 10MB

// MaxUploadBytes is the platform's file-size ceiling, enforced before
// any network call.
const MaxUploadBytes = 4 * 1024 * 1024 * 1024 // 4GB

// Chunk is one contiguous byte range of the file. End is inclusive,
// matching the Content-Range wire format.
type Chunk struct {
	Index int
	Start int64
	End   int64
	Total int64
}

// Size returns the chunk's byte count.
func (c Chunk) Size() int64 {
	return c.End - c.Start + 1
}

// ContentRange renders the chunk's range header value.
func (c Chunk) ContentRange() string {
	return fmt.Sprintf("bytes %d-%d/%d", c.Start, c.End, c.Total)
}

// BuildChunks splits a file of the given size into sequential chunks.
// Sizes over MaxUploadBytes are rejected here so oversized files never
// reach the network.
func BuildChunks(total int64) ([]Chunk, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: empty file", ErrFileUnreadable)
	}
	if total > MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, total, int64(MaxUploadBytes))
	}

	chunks := make([]Chunk, 0, (total+ChunkSize-1)/ChunkSize)
	for start := int64(0); start < total; start += ChunkSize {
		end := start + ChunkSize - 1
		if end >= total {
			end = total - 1
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Start: start,
			End:   end,
			Total: total,
		})
	}
	return chunks, nil
}
