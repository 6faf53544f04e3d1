package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPollInterval paces status-fetch calls. The platform processes
// short videos in a handful of seconds.
const DefaultPollInterval = 2 * time.Second

// DefaultMaxPolls bounds how long a publish may sit in a processing
// state before polling gives up.
const DefaultMaxPolls = 60

// ErrStatusTimeout indicates the publish never reached a terminal
// status within the polling budget.
var ErrStatusTimeout = fmt.Errorf("status polling timed out")

// StatusFetcher is the slice of Client the poller needs.
type StatusFetcher interface {
	FetchStatus(ctx context.Context, publishID string) (PublishStatus, string, error)
}

// StatusPoller repeatedly fetches a publish's status until it reaches a
// terminal state.
type StatusPoller struct {
	fetcher  StatusFetcher
	interval time.Duration
	maxPolls int

	// sleep is swappable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewStatusPoller creates a poller with the default pacing.
func NewStatusPoller(fetcher StatusFetcher) *StatusPoller {
	return &StatusPoller{
		fetcher:  fetcher,
		interval: DefaultPollInterval,
		maxPolls: DefaultMaxPolls,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Wait polls until the publish succeeds, fails, or the polling budget
// runs out. Intermediate statuses are reported through onUpdate. A
// FAILED status surfaces as ErrPublishFailed carrying the platform's
// reason.
func (p *StatusPoller) Wait(ctx context.Context, publishID string, onUpdate func(PublishStatus)) (PublishStatus, error) {
	for poll := 0; poll < p.maxPolls; poll++ {
		status, failReason, err := p.fetcher.FetchStatus(ctx, publishID)
		if err != nil {
			return "", err
		}

		logrus.WithFields(logrus.Fields{
			"function":   "Wait",
			"publish_id": publishID,
			"status":     string(status),
			"poll":       poll,
		}).Debug("Publish status")

		if onUpdate != nil {
			onUpdate(status)
		}

		switch status {
		case StatusSentToUserInbox:
			return status, nil
		case StatusFailed:
			return status, fmt.Errorf("%w: %s", ErrPublishFailed, failReason)
		}

		if err := p.sleep(ctx, p.interval); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: publish %s", ErrStatusTimeout, publishID)
}
