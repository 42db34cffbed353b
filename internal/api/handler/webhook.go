package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/infrastructure/metrics"
	"github.com/vidcast-dev/vidcast/internal/usecase"
)

// Webhook signature headers. Both platforms sign with the scheme
// t=<unix>,v1=<hex> where the hex digest is HMAC-SHA256 over "<t>.<body>".
const (
	mediaSignatureHeader    = "Media-Signature"
	identitySignatureHeader = "Identity-Signature"
)

// maxWebhookBody caps inbound webhook payloads at 1 MiB.
const maxWebhookBody = 1 << 20

// Media platform event types.
const (
	eventAssetCreated       = "video.asset.created"
	eventAssetReady         = "video.asset.ready"
	eventAssetErrored       = "video.asset.errored"
	eventAssetDeleted       = "video.asset.deleted"
	eventStreamActive       = "video.live_stream.active"
	eventStreamIdle         = "video.live_stream.idle"
	eventStreamDisconnected = "video.live_stream.disconnected"
)

// Identity platform event types.
const (
	eventUserCreated = "user.created"
	eventUserUpdated = "user.updated"
	eventUserDeleted = "user.deleted"
)

type mediaEvent struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Data      struct {
		ID        string `json:"id"`
		StreamKey string `json:"stream_key"`
	} `json:"data"`
}

type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		Subject  string `json:"subject"`
		Name     string `json:"name"`
		ImageURL string `json:"image_url"`
	} `json:"data"`
}

// WebhookConfig holds the shared secrets and the timestamp tolerance for
// inbound webhook verification.
type WebhookConfig struct {
	MediaSecret    string
	IdentitySecret string
	Tolerance      time.Duration
}

// WebhookHandler verifies and dispatches events pushed by the media and
// identity platforms.
type WebhookHandler struct {
	streams usecase.StreamService
	users   usecase.UserService
	cfg     WebhookConfig

	now func() time.Time
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(streams usecase.StreamService, users usecase.UserService, cfg WebhookConfig) *WebhookHandler {
	return &WebhookHandler{
		streams: streams,
		users:   users,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Media handles POST /v1/webhooks/media
func (h *WebhookHandler) Media(w http.ResponseWriter, r *http.Request) {
	body, ok := h.verifiedBody(w, r, mediaSignatureHeader, h.cfg.MediaSecret)
	if !ok {
		return
	}

	var event mediaEvent
	if err := json.Unmarshal(body, &event); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookSourceMedia, "unparseable", metrics.WebhookStatusRejected).Inc()
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	eventTime := event.CreatedAt
	if eventTime.IsZero() {
		eventTime = h.now()
	}

	switch event.Type {
	case eventStreamActive:
		h.applyStreamTransition(w, r, event, eventTime, h.streams.HandleStreamActive)

	case eventStreamIdle, eventStreamDisconnected:
		h.applyStreamTransition(w, r, event, eventTime, h.streams.HandleStreamDisconnected)

	case eventAssetCreated, eventAssetReady, eventAssetErrored, eventAssetDeleted:
		// Transcoding runs in the worker pipeline; platform asset
		// notifications carry no state this system tracks.
		if event.Data.ID == "" {
			metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookSourceMedia, event.Type, metrics.WebhookStatusRejected).Inc()
			Error(w, http.StatusBadRequest, "invalid_request", "Asset events require a data.id")
			return
		}
		metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookSourceMedia, event.Type, metrics.WebhookStatusIgnored).Inc()
		JSON(w, http.StatusOK, map[string]string{"status": "ignored"})

	default:
		metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookSourceMedia, event.Type, metrics.WebhookStatusIgnored).Inc()
		JSON(w, http.StatusOK, map[string]string{"status": "ignored"})
	}
}

func (h *WebhookHandler) applyStreamTransition(
	w http.ResponseWriter,
	r *http.Request,
	event mediaEvent,
	eventTime time.Time,
	apply func(ctx context.Context, streamKey string, eventTime time.Time) error,
) {
	if event.Data.StreamKey == "" {
		metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookSourceMedia, event.Type, metrics.WebhookStatusRejected).Inc()
		Error(w, http.StatusBadRequest, "invalid_request", "Live stream events require a data.stream_key")
		return
	}

	err := apply(r.Context(), event.Data.StreamKey, eventTime)
	switch {
	case err == nil:
		metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookSourceMedia, event.Type, metrics.WebhookStatusOK).Inc()
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})

	case errors.Is(err, repository.ErrStaleStreamEvent):
		// A newer transition already landed. Acknowledge so the
		// platform stops retrying.
		metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookSourceMedia, event.Type, metrics.WebhookStatusIgnored).Inc()
		JSON(w, http.StatusOK, map[string]string{"status": "ignored"})

	case errors.Is(err, repository.ErrStreamNotFound):
		metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookSourceMedia, event.Type, metrics.WebhookStatusRejected).Inc()
		Error(w, http.StatusNotFound, "not_found", "No stream session matches the stream key")

	default:
		slog.Error("failed to apply stream transition",
			slog.String("event", event.Type),
			slog.String("error", err.Error()),
		)
		metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookSourceMedia, event.Type, metrics.WebhookStatusError).Inc()
		Error(w, http.StatusInternalServerError, "internal_error", "Failed to process event")
	}
}

// Identity handles POST /v1/webhooks/identity
func (h *WebhookHandler) Identity(w http.ResponseWriter, r *http.Request) {
	body, ok := h.verifiedBody(w, r, identitySignatureHeader, h.cfg.IdentitySecret)
	if !ok {
		return
	}

	var event identityEvent
	if err := json.Unmarshal(body, &event); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookSourceIdentity, "unparseable", metrics.WebhookStatusRejected).Inc()
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if event.Type == eventUserCreated || event.Type == eventUserUpdated || event.Type == eventUserDeleted {
		if event.Data.Subject == "" {
			metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookSourceIdentity, event.Type, metrics.WebhookStatusRejected).Inc()
			Error(w, http.StatusBadRequest, "invalid_request", "User events require a data.subject")
			return
		}
	}

	var err error
	switch event.Type {
	case eventUserCreated, eventUserUpdated:
		_, err = h.users.UpsertUser(r.Context(), usecase.UpsertUserInput{
			Subject:  event.Data.Subject,
			Name:     event.Data.Name,
			ImageURL: event.Data.ImageURL,
		})

	case eventUserDeleted:
		err = h.users.DeleteUser(r.Context(), event.Data.Subject)
		if errors.Is(err, repository.ErrUserNotFound) {
			err = nil
		}

	default:
		metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookSourceIdentity, event.Type, metrics.WebhookStatusIgnored).Inc()
		JSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	if err != nil {
		slog.Error("failed to apply identity event",
			slog.String("event", event.Type),
			slog.String("error", err.Error()),
		)
		metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookSourceIdentity, event.Type, metrics.WebhookStatusError).Inc()
		Error(w, http.StatusInternalServerError, "internal_error", "Failed to process event")
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookSourceIdentity, event.Type, metrics.WebhookStatusOK).Inc()
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// verifiedBody reads the request body and checks its signature. On failure
// it writes the error response and returns ok=false.
func (h *WebhookHandler) verifiedBody(w http.ResponseWriter, r *http.Request, header, secret string) ([]byte, bool) {
	if secret == "" {
		Error(w, http.StatusInternalServerError, "internal_error", "Webhook secret is not configured")
		return nil, false
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Failed to read request body")
		return nil, false
	}

	if err := verifySignature(r.Header.Get(header), secret, body, h.now(), h.cfg.Tolerance); err != nil {
		Error(w, http.StatusUnauthorized, "invalid_signature", "Webhook signature verification failed")
		return nil, false
	}

	return body, true
}

// verifySignature checks a t=<unix>,v1=<hex> signature header: the digest
// must be HMAC-SHA256 over "<t>.<body>" and the timestamp must fall within
// the tolerance window.
func verifySignature(header, secret string, body []byte, now time.Time, tolerance time.Duration) error {
	if header == "" {
		return errors.New("missing signature header")
	}

	var ts int64
	var sig []byte
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("parse signature timestamp: %w", err)
			}
			ts = parsed
		case "v1":
			decoded, err := hex.DecodeString(value)
			if err != nil {
				return fmt.Errorf("decode signature digest: %w", err)
			}
			sig = decoded
		}
	}

	if ts == 0 || len(sig) == 0 {
		return errors.New("malformed signature header")
	}

	if tolerance > 0 {
		age := now.Sub(time.Unix(ts, 0))
		if age > tolerance || age < -tolerance {
			return errors.New("signature timestamp outside tolerance")
		}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)

	if !hmac.Equal(sig, mac.Sum(nil)) {
		return errors.New("signature mismatch")
	}
	return nil
}
