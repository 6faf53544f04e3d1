// Package upload publishes finished videos to the remote platform.
//
// The flow is init → chunked transfer → status polling. The init call
// reserves a publish identifier and an upload destination; the chunked
// uploader then streams the file sequentially in fixed 10MB byte
// ranges, each addressed with a Content-Range header, aborting the
// whole transfer on the first failed chunk. Status polling reports the
// remote processing state until a terminal status arrives.
//
// Authentication uses a cached bearer token refreshed through the
// platform's OAuth endpoint. Any 401 response clears the cache, so the
// next call surfaces ErrNoValidToken instead of retrying with a dead
// token.
package upload
