package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// ProgressFunc receives the fraction of bytes acknowledged so far,
// reported after each chunk completes.
type ProgressFunc func(fraction float64)

// ChunkedUploader streams a local file to a pre-negotiated destination
// in sequential fixed-size byte ranges. The first failed chunk aborts
// the whole transfer; there is no partial resume.
type ChunkedUploader struct {
	httpClient  *http.Client
	contentType string
}

// UploaderOption adjusts uploader construction.
type UploaderOption func(*ChunkedUploader)

// WithUploadHTTPClient replaces the transport, for tests.
func WithUploadHTTPClient(hc *http.Client) UploaderOption {
	return func(u *ChunkedUploader) {
		if hc != nil {
			u.httpClient = hc
		}
	}
}

// NewChunkedUploader creates an uploader for AVI payloads.
func NewChunkedUploader(opts ...UploaderOption) *ChunkedUploader {
	u := &ChunkedUploader{
		// Large chunks over slow links need generous timeouts.
		httpClient:  &http.Client{Timeout: 5 * time.Minute},
		contentType: "video/avi",
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload transfers the file at path to the session's upload URL,
// advancing the session's chunk cursor as chunks acknowledge. Progress
// is reported after each acknowledged chunk.
func (u *ChunkedUploader) Upload(ctx context.Context, path string, session *UploadSession, onProgress ProgressFunc) error {
	dest, err := url.ParseRequestURI(session.UploadURL)
	if err != nil || (dest.Scheme != "http" && dest.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidUploadURL, session.UploadURL)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}

	chunks, err := BuildChunks(info.Size())
	if err != nil {
		return err
	}
	session.TotalBytes = info.Size()
	session.ChunkSize = ChunkSize

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}
	defer file.Close()

	logrus.WithFields(logrus.Fields{
		"function":    "Upload",
		"publish_id":  session.PublishID,
		"total_bytes": info.Size(),
		"chunks":      len(chunks),
	}).Info("Starting chunked upload")

	for _, chunk := range chunks {
		if err := u.putChunk(ctx, session.UploadURL, file, chunk); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Upload",
				"chunk":    chunk.Index,
				"range":    chunk.ContentRange(),
				"error":    err.Error(),
			}).Error("Chunk upload failed, aborting transfer")
			return err
		}
		session.NextChunk = chunk.Index + 1
		if onProgress != nil {
			onProgress(float64(chunk.End+1) / float64(chunk.Total))
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Upload",
		"publish_id": session.PublishID,
		"chunks":     len(chunks),
	}).Info("Upload complete")

	return nil
}

// putChunk sends one byte range. The request body is a section reader
// over the already open file, so chunks are never buffered in full.
func (u *ChunkedUploader) putChunk(ctx context.Context, uploadURL string, file *os.File, chunk Chunk) error {
	body := io.NewSectionReader(file, chunk.Start, chunk.Size())

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return fmt.Errorf("building chunk request: %w", err)
	}
	req.ContentLength = chunk.Size()
	req.Header.Set("Content-Type", u.contentType)
	req.Header.Set("Content-Range", chunk.ContentRange())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: chunk %d: %v", ErrChunkUploadFailed, chunk.Index, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: chunk %d: %w", ErrChunkUploadFailed, chunk.Index, statusError(resp.StatusCode))
	}
	return nil
}
