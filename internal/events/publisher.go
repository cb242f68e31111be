// Package events publishes check lifecycle events to Redis Streams so
// downstream consumers (alerting, digests) can react without polling the
// database.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/sitepulse/internal/logger"
)

// StreamName is the Redis stream check events are appended to.
const StreamName = "sitepulse:check-events"

// asyncPublishTimeout is the context timeout for async publish operations.
const asyncPublishTimeout = 5 * time.Second

// Event types emitted by the acquisition pipeline.
const (
	EventPerformanceSaved = "check.performance.saved"
	EventCertificateSaved = "check.certificate.saved"
	EventDeepScanSaved    = "check.deep_scan.saved"
	EventUptimeSynced     = "check.uptime.synced"
	EventSiteCreated      = "site.created"
	EventSiteDeleted      = "site.deleted"
)

// CheckEvent is the payload appended to the stream.
type CheckEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id"`
	SiteID    string    `json:"site_id,omitempty"`
	PageID    string    `json:"page_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher publishes check events to Redis Streams.
type Publisher struct {
	client *redis.Client
	log    logger.Logger
}

// NewPublisher creates a new event publisher.
// Returns nil if client is nil.
func NewPublisher(client *redis.Client, log logger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	return &Publisher{
		client: client,
		log:    log,
	}
}

// Publish sends an event to the Redis stream.
func (p *Publisher) Publish(ctx context.Context, event CheckEvent) error {
	if p == nil || p.client == nil {
		return nil // No-op if publisher not configured
	}

	// Ensure event has ID and timestamp
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		Values: map[string]any{
			"event": string(payload),
		},
	})

	if publishErr := result.Err(); publishErr != nil {
		if p.log != nil {
			p.log.Error("Failed to publish event",
				logger.String("event_type", event.EventType),
				logger.String("site_id", event.SiteID),
				logger.Error(publishErr),
			)
		}
		return fmt.Errorf("publish to stream: %w", publishErr)
	}

	if p.log != nil {
		p.log.Info("Published check event",
			logger.String("event_type", event.EventType),
			logger.String("site_id", event.SiteID),
			logger.String("stream_id", result.Val()),
		)
	}

	return nil
}

// PublishAsync publishes an event asynchronously.
// Errors are logged but not returned.
func (p *Publisher) PublishAsync(event CheckEvent) {
	if p == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil && p.log != nil {
			p.log.Error("Async publish failed",
				logger.String("event_type", event.EventType),
				logger.String("site_id", event.SiteID),
				logger.Error(err),
			)
		}
	}()
}
