// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vidcast"

var (
	// CacheOperationsTotal tracks cache operations (get, set, delete).
	// Labels:
	//   - operation: get, set, delete
	//   - status: hit, miss, success, error
	//   - cache_type: redis
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status", "cache_type"},
	)

	// FeedPagesTotal tracks cursor-paginated feed pages served.
	// Labels:
	//   - feed: videos, trending, comments, streams, subscriptions, blocks,
	//     playlists, playlist_videos, liked, history
	//   - page: first (no cursor), continuation
	FeedPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_pages_total",
			Help:      "Total number of feed pages served",
		},
		[]string{"feed", "page"},
	)

	// WebhookEventsTotal tracks inbound webhook events.
	// Labels:
	//   - source: media, identity
	//   - event: the event type as received
	//   - status: ok, ignored, rejected, error
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Total number of webhook events received",
		},
		[]string{"source", "event", "status"},
	)

	// StreamEventsPublishedTotal tracks events published on stream topics.
	// Labels:
	//   - event: statusChanged, userBanned
	//   - status: success, error
	StreamEventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_events_published_total",
			Help:      "Total number of events published on stream topics",
		},
		[]string{"event", "status"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet    = "get"
	CacheOpSet    = "set"
	CacheOpDelete = "delete"
)

// Cache type constants.
const (
	CacheTypeRedis = "redis"
)

// Feed page constants.
const (
	FeedPageFirst        = "first"
	FeedPageContinuation = "continuation"
)

// Webhook source constants.
const (
	WebhookSourceMedia    = "media"
	WebhookSourceIdentity = "identity"
)

// Webhook status constants.
const (
	WebhookStatusOK       = "ok"
	WebhookStatusIgnored  = "ignored"
	WebhookStatusRejected = "rejected"
	WebhookStatusError    = "error"
)

// Publish status constants.
const (
	PublishStatusSuccess = "success"
	PublishStatusError   = "error"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)
