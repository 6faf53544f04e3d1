package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Platform endpoints, relative to the client's base URL.
const (
	pathPublishInit = "/v2/post/publish/video/init/"
	pathStatusFetch = "/v2/post/publish/status/fetch/"
	pathTokenCreate = "/v2/oauth/token/"
)

// SourceFileUpload and SourcePullFromURL are the platform's two
// ingestion modes.
const (
	SourceFileUpload  = "FILE_UPLOAD"
	SourcePullFromURL = "PULL_FROM_URL"
)

// PostInfo is the caption and distribution settings for one publish.
type PostInfo struct {
	Title                 string `json:"title"`
	PrivacyLevel          string `json:"privacy_level"`
	DisableComment        bool   `json:"disable_comment"`
	DisableDuet           bool   `json:"disable_duet"`
	DisableStitch         bool   `json:"disable_stitch"`
	VideoCoverTimestampMs int64  `json:"video_cover_timestamp_ms"`
}

// SourceInfo tells the platform how the video arrives.
type SourceInfo struct {
	Source    string `json:"source"`
	VideoURL  string `json:"video_url,omitempty"`
	VideoSize int64  `json:"video_size,omitempty"`
	ChunkSize int64  `json:"chunk_size,omitempty"`
}

// UploadSession is the state of one publish, created by the init call
// and advanced by sequential chunk uploads.
type UploadSession struct {
	PublishID  string
	UploadURL  string
	TotalBytes int64
	ChunkSize  int64
	NextChunk  int
}

// PublishStatus is the remote processing state of a publish.
type PublishStatus string

// Statuses returned by the status-fetch endpoint.
const (
	StatusProcessingUpload   PublishStatus = "PROCESSING_UPLOAD"
	StatusProcessingDownload PublishStatus = "PROCESSING_DOWNLOAD"
	StatusProcessing         PublishStatus = "PROCESSING"
	StatusSentToUserInbox    PublishStatus = "SENT_TO_USER_INBOX"
	StatusFailed             PublishStatus = "FAILED"
)

// IsTerminal reports whether polling can stop.
func (s PublishStatus) IsTerminal() bool {
	return s == StatusSentToUserInbox || s == StatusFailed
}

// Client talks to the publishing platform's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	tokens     *TokenManager
}

// ClientOption adjusts client construction.
type ClientOption func(*Client)

// WithHTTPClient replaces the transport, for tests and custom timeouts.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a platform client. The token cache starts empty;
// call RefreshAccessToken before publishing.
func NewClient(baseURL string, creds Credentials, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		creds:      creds,
		tokens:     NewTokenManager(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens exposes the token cache, mainly so sessions can pre-seed it.
func (c *Client) Tokens() *TokenManager {
	return c.tokens
}

// RefreshAccessToken exchanges the refresh token for a fresh access
// token and caches it. The rotated refresh token replaces the old one.
func (c *Client) RefreshAccessToken(ctx context.Context) error {
	if c.creds.RefreshToken == "" {
		return fmt.Errorf("%w: no refresh token", ErrNoValidToken)
	}

	form := url.Values{}
	form.Set("client_key", c.creds.ClientKey)
	form.Set("client_secret", c.creds.ClientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.creds.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+pathTokenCreate, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token refresh: %w", statusError(resp.StatusCode))
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("%w: token response: %v", ErrDecodeFailed, err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("%w: empty access token in response", ErrDecodeFailed)
	}

	c.tokens.Store(payload.AccessToken, time.Duration(payload.ExpiresIn)*time.Second)
	if payload.RefreshToken != "" {
		c.creds.RefreshToken = payload.RefreshToken
	}

	logrus.WithFields(logrus.Fields{
		"function":   "RefreshAccessToken",
		"expires_in": payload.ExpiresIn,
	}).Info("Access token refreshed")

	return nil
}

// InitPublish reserves a publish identifier and upload destination for
// a file of the given size.
func (c *Client) InitPublish(ctx context.Context, post PostInfo, source SourceInfo) (*UploadSession, error) {
	body := struct {
		PostInfo   PostInfo   `json:"post_info"`
		SourceInfo SourceInfo `json:"source_info"`
	}{post, source}

	var out struct {
		Data struct {
			PublishID string `json:"publish_id"`
			UploadURL string `json:"upload_url"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, pathPublishInit, body, &out); err != nil {
		return nil, fmt.Errorf("publish init: %w", err)
	}
	if out.Data.PublishID == "" {
		return nil, fmt.Errorf("%w: missing publish_id", ErrDecodeFailed)
	}
	if source.Source == SourceFileUpload && out.Data.UploadURL == "" {
		return nil, fmt.Errorf("%w: missing upload_url", ErrInvalidUploadURL)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "InitPublish",
		"publish_id": out.Data.PublishID,
		"source":     source.Source,
	}).Info("Publish session created")

	return &UploadSession{
		PublishID:  out.Data.PublishID,
		UploadURL:  out.Data.UploadURL,
		TotalBytes: source.VideoSize,
		ChunkSize:  source.ChunkSize,
	}, nil
}

// FetchStatus returns the publish's remote processing state and, for
// failures, the platform's reason string.
func (c *Client) FetchStatus(ctx context.Context, publishID string) (PublishStatus, string, error) {
	body := struct {
		PublishID string `json:"publish_id"`
	}{publishID}

	var out struct {
		Data struct {
			Status     string `json:"status"`
			FailReason string `json:"fail_reason"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, pathStatusFetch, body, &out); err != nil {
		return "", "", fmt.Errorf("status fetch: %w", err)
	}
	if out.Data.Status == "" {
		return "", "", fmt.Errorf("%w: missing status", ErrDecodeFailed)
	}
	return PublishStatus(out.Data.Status), out.Data.FailReason, nil
}

// postJSON sends an authenticated JSON request and decodes the
// response. A 401 clears the token cache before surfacing.
func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Invalidate()
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return nil
}
