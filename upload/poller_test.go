package upload

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// scriptedFetcher replays a fixed status sequence.
type scriptedFetcher struct {
	statuses []PublishStatus
	reason   string
	calls    int
}

func (f *scriptedFetcher) FetchStatus(_ context.Context, _ string) (PublishStatus, string, error) {
	if f.calls >= len(f.statuses) {
		return f.statuses[len(f.statuses)-1], f.reason, nil
	}
	s := f.statuses[f.calls]
	f.calls++
	return s, f.reason, nil
}

func instantPoller(fetcher StatusFetcher) *StatusPoller {
	p := NewStatusPoller(fetcher)
	p.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return p
}

func TestWaitUntilInboxDelivery(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []PublishStatus{
		StatusProcessingUpload,
		StatusProcessing,
		StatusSentToUserInbox,
	}}

	var seen []PublishStatus
	status, err := instantPoller(fetcher).Wait(context.Background(), "pub-1", func(s PublishStatus) {
		seen = append(seen, s)
	})
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if status != StatusSentToUserInbox {
		t.Errorf("Status = %q, want SENT_TO_USER_INBOX", status)
	}
	if len(seen) != 3 {
		t.Errorf("Saw %d updates, want 3", len(seen))
	}
}

func TestWaitSurfacesFailureReason(t *testing.T) {
	fetcher := &scriptedFetcher{
		statuses: []PublishStatus{StatusProcessing, StatusFailed},
		reason:   "video_format_check_failed",
	}

	_, err := instantPoller(fetcher).Wait(context.Background(), "pub-1", nil)
	if !errors.Is(err, ErrPublishFailed) {
		t.Fatalf("Expected ErrPublishFailed, got %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "video_format_check_failed") {
		t.Errorf("Error %q should carry the platform reason", got)
	}
}

func TestWaitTimesOut(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []PublishStatus{StatusProcessing}}
	p := instantPoller(fetcher)
	p.maxPolls = 5

	_, err := p.Wait(context.Background(), "pub-1", nil)
	if !errors.Is(err, ErrStatusTimeout) {
		t.Errorf("Expected ErrStatusTimeout, got %v", err)
	}
}

func TestWaitCancellable(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []PublishStatus{StatusProcessing}}
	p := NewStatusPoller(fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	p.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := p.Wait(ctx, "pub-1", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
