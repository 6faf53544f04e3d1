package upload

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(serverURL string) *Client {
	c := NewClient(serverURL, Credentials{
		ClientKey:    "key",
		ClientSecret: "secret",
		RefreshToken: "refresh",
	})
	c.Tokens().Store("access-token", time.Hour)
	return c
}

func TestInitPublishDecodesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathPublishInit {
			t.Errorf("Path = %s, want %s", r.URL.Path, pathPublishInit)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer access-token" {
			t.Errorf("Authorization = %q", got)
		}

		var req struct {
			PostInfo   PostInfo   `json:"post_info"`
			SourceInfo SourceInfo `json:"source_info"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Request decode failed: %v", err)
		}
		if req.PostInfo.Title != "Smoky beans #dinner" {
			t.Errorf("Title = %q", req.PostInfo.Title)
		}
		if req.SourceInfo.Source != SourceFileUpload {
			t.Errorf("Source = %q", req.SourceInfo.Source)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{
				"publish_id": "pub-42",
				"upload_url": "https://upload.example.com/u/42",
			},
		})
	}))
	defer server.Close()

	session, err := testClient(server.URL).InitPublish(context.Background(),
		PostInfo{Title: "Smoky beans #dinner", PrivacyLevel: "SELF_ONLY"},
		SourceInfo{Source: SourceFileUpload, VideoSize: 123, ChunkSize: ChunkSize})
	if err != nil {
		t.Fatalf("InitPublish failed: %v", err)
	}
	if session.PublishID != "pub-42" {
		t.Errorf("PublishID = %q, want pub-42", session.PublishID)
	}
	if session.UploadURL != "https://upload.example.com/u/42" {
		t.Errorf("UploadURL = %q", session.UploadURL)
	}
}

func TestUnauthorizedClearsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, _, err := client.FetchStatus(context.Background(), "pub-1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}

	// The dead token must not be reused.
	if _, err := client.Tokens().Token(); !errors.Is(err, ErrNoValidToken) {
		t.Errorf("Expected ErrNoValidToken after 401, got %v", err)
	}
	if _, _, err := client.FetchStatus(context.Background(), "pub-1"); !errors.Is(err, ErrNoValidToken) {
		t.Errorf("Expected ErrNoValidToken on next call, got %v", err)
	}
}

func TestFetchStatusDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PublishID string `json:"publish_id"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.PublishID != "pub-9" {
			t.Errorf("publish_id = %q", req.PublishID)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{
				"status":      "FAILED",
				"fail_reason": "video_too_long",
			},
		})
	}))
	defer server.Close()

	status, reason, err := testClient(server.URL).FetchStatus(context.Background(), "pub-9")
	if err != nil {
		t.Fatalf("FetchStatus failed: %v", err)
	}
	if status != StatusFailed || reason != "video_too_long" {
		t.Errorf("Status = %q reason = %q", status, reason)
	}
}

func TestFetchStatusRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, _, err := testClient(server.URL).FetchStatus(context.Background(), "pub-1")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("Expected ErrRateLimited, got %v", err)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathTokenCreate {
			t.Errorf("Path = %s, want %s", r.URL.Path, pathTokenCreate)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("grant_type") != "refresh_token" {
			t.Errorf("grant_type = %q", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("refresh_token") != "refresh" {
			t.Errorf("refresh_token = %q", r.PostForm.Get("refresh_token"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "fresh-token",
			"refresh_token": "rotated-refresh",
			"expires_in":    3600,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, Credentials{
		ClientKey:    "key",
		ClientSecret: "secret",
		RefreshToken: "refresh",
	})
	if err := client.RefreshAccessToken(context.Background()); err != nil {
		t.Fatalf("RefreshAccessToken failed: %v", err)
	}

	token, err := client.Tokens().Token()
	if err != nil {
		t.Fatalf("Token not cached: %v", err)
	}
	if token != "fresh-token" {
		t.Errorf("Token = %q, want fresh-token", token)
	}
	if client.creds.RefreshToken != "rotated-refresh" {
		t.Errorf("Refresh token not rotated: %q", client.creds.RefreshToken)
	}
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	client := NewClient("https://example.com", Credentials{ClientKey: "k", ClientSecret: "s"})
	err := client.RefreshAccessToken(context.Background())
	if !errors.Is(err, ErrNoValidToken) {
		t.Errorf("Expected ErrNoValidToken, got %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	m := NewTokenManager()
	current := time.Unix(1000, 0)
	m.now = func() time.Time { return current }

	m.Store("tok", 10*time.Second)
	if _, err := m.Token(); err != nil {
		t.Fatalf("Fresh token rejected: %v", err)
	}

	current = current.Add(11 * time.Second)
	if _, err := m.Token(); !errors.Is(err, ErrNoValidToken) {
		t.Errorf("Expected ErrNoValidToken after expiry, got %v", err)
	}
}
