package snapchef

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cameronsaddress/SnapChef-sub002/recipe"
	"github.com/cameronsaddress/SnapChef-sub002/retry"
	"github.com/cameronsaddress/SnapChef-sub002/upload"
)

// PublishRequest describes one video to publish.
type PublishRequest struct {
	VideoPath string

	// Caption inputs; the final title is capped at the platform's
	// 2200 UTF-16-unit limit with hashtags and the app link appended.
	Caption  string
	Hashtags []string
	AppLink  string

	// Distribution settings, passed through to the platform.
	PrivacyLevel   string
	DisableComment bool
	DisableDuet    bool
	DisableStitch  bool
	CoverTimestamp time.Duration
}

// PublishResult is the outcome of a successful publish.
type PublishResult struct {
	PublishID string
	Status    upload.PublishStatus
}

// Publisher is the publishing facade: init, chunked upload, and status
// polling, each network stage wrapped by the retry coordinator.
type Publisher struct {
	client   *upload.Client
	uploader *upload.ChunkedUploader
	poller   *upload.StatusPoller
	retries  *retry.Coordinator
}

// PublisherOption adjusts publisher construction.
type PublisherOption func(*Publisher)

// WithUploader replaces the chunked uploader, for tests.
func WithUploader(u *upload.ChunkedUploader) PublisherOption {
	return func(p *Publisher) {
		if u != nil {
			p.uploader = u
		}
	}
}

// WithPoller replaces the status poller, for tests.
func WithPoller(sp *upload.StatusPoller) PublisherOption {
	return func(p *Publisher) {
		if sp != nil {
			p.poller = sp
		}
	}
}

// WithPublishRetries replaces the retry coordinator.
func WithPublishRetries(c *retry.Coordinator) PublisherOption {
	return func(p *Publisher) {
		if c != nil {
			p.retries = c
		}
	}
}

// NewPublisher creates a publisher over the given platform client.
func NewPublisher(client *upload.Client, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		client:   client,
		uploader: upload.NewChunkedUploader(),
		poller:   upload.NewStatusPoller(client),
		retries:  retry.NewCoordinator(retry.NewMemoryStore()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish uploads the video and polls until the platform reaches a
// terminal status. Progress covers the chunk transfer only; polling
// outcomes arrive through the result.
func (p *Publisher) Publish(ctx context.Context, req PublishRequest, onProgress upload.ProgressFunc) (*PublishResult, error) {
	info, err := os.Stat(req.VideoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", upload.ErrFileUnreadable, err)
	}
	if info.Size() > upload.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes", upload.ErrFileTooLarge, info.Size())
	}

	caption := recipe.BuildCaption(req.Caption, req.Hashtags, req.AppLink)
	privacy := req.PrivacyLevel
	if privacy == "" {
		// Inbox delivery drafts default to the safest visibility.
		privacy = "SELF_ONLY"
	}

	post := upload.PostInfo{
		Title:                 caption,
		PrivacyLevel:          privacy,
		DisableComment:        req.DisableComment,
		DisableDuet:           req.DisableDuet,
		DisableStitch:         req.DisableStitch,
		VideoCoverTimestampMs: req.CoverTimestamp.Milliseconds(),
	}
	source := upload.SourceInfo{
		Source:    upload.SourceFileUpload,
		VideoSize: info.Size(),
		ChunkSize: upload.ChunkSize,
	}

	var session *upload.UploadSession
	err = p.retries.Do(ctx, "publish-init-"+uuid.NewString(), func(ctx context.Context) error {
		s, initErr := p.client.InitPublish(ctx, post, source)
		if initErr != nil {
			return initErr
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Publish",
		"publish_id": session.PublishID,
		"video_size": info.Size(),
	}).Info("Publish initialized")

	err = p.retries.Do(ctx, "publish-upload-"+session.PublishID, func(ctx context.Context) error {
		return p.uploader.Upload(ctx, req.VideoPath, session, onProgress)
	})
	if err != nil {
		return nil, err
	}

	var status upload.PublishStatus
	err = p.retries.Do(ctx, "publish-status-"+session.PublishID, func(ctx context.Context) error {
		s, waitErr := p.poller.Wait(ctx, session.PublishID, nil)
		if waitErr != nil {
			return waitErr
		}
		status = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Publish",
		"publish_id": session.PublishID,
		"status":     string(status),
	}).Info("Publish complete")

	return &PublishResult{PublishID: session.PublishID, Status: status}, nil
}
