package ingestion

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	v1 "github.com/hearth-im/hearth/internal/api/v1"
	httperr "github.com/hearth-im/hearth/internal/core/errors"
	"github.com/hearth-im/hearth/internal/core/storage"
	"github.com/hearth-im/hearth/internal/crypto"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgPersistFailed  = "Failed to persist event"
	msgEventNotFound  = "Event not found"
	msgStateFailed    = "Failed to read room state"
)

// ingestionError carries the structured HTTP error shape from a helper back to the handler.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// ReceiveHandler accepts a fully-formed event, typically relayed from a
// federation peer. The query flags select the persistence mode:
// backfilled=true orders the event behind everything already stored,
// outlier=true stores it without full ancestry.
func (s *Service) ReceiveHandler(c *gin.Context) {
	evt, payloadSize, err := s.parseEvent(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if vErr := evt.Validate(); vErr != nil {
		slog.Warn("Event validation failed", "error", vErr, "event_id", evt.EventID)
		writeError(c, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidEventError,
			message:    vErr.Error(),
		})
		return
	}

	backfilled := boolQuery(c, "backfilled")
	evt.Outlier = boolQuery(c, "outlier")

	slog.Info("Received event",
		"event_id", evt.EventID,
		"room_id", evt.RoomID,
		"event_type", evt.Type,
		"backfilled", backfilled,
		"outlier", evt.Outlier,
		"payload_size", payloadSize)

	// A live, fully-integrated state event becomes the current state for its
	// cell. Outliers and backfilled events never displace the pointer.
	isNewState := evt.IsState() && !evt.Outlier && !backfilled

	if err := s.persistEvent(c.Request.Context(), evt, backfilled, isNewState); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":   "accepted",
		"event_id": evt.EventID,
	})
}

// SendHandler authors a new event in a room on behalf of a local user: the
// server assigns the event id, snapshots the room to fill the predecessor
// links and depth, and hashes the content before persisting.
func (s *Service) SendHandler(c *gin.Context) {
	evt, payloadSize, err := s.parseEvent(c)
	if err != nil {
		writeError(c, err)
		return
	}

	evt.RoomID = c.Param("room_id")
	evt.EventID = "$" + uuid.NewString() + ":" + s.serverName

	if vErr := evt.Validate(); vErr != nil {
		slog.Warn("Event validation failed", "error", vErr, "room_id", evt.RoomID)
		writeError(c, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidEventError,
			message:    vErr.Error(),
		})
		return
	}

	snapshot, snapErr := s.store.SnapshotRoom(c.Request.Context(), evt)
	if snapErr != nil {
		slog.Error("Failed to snapshot room", "error", snapErr, "room_id", evt.RoomID)
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
		})
		return
	}
	snapshot.FillPrevEvents(evt)

	alg, hash, hashErr := crypto.ContentHash(evt.Content)
	if hashErr != nil {
		slog.Error("Failed to hash event content", "error", hashErr, "room_id", evt.RoomID)
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
		})
		return
	}
	evt.Hashes = map[string]string{alg: hash}

	slog.Info("Sending event",
		"event_id", evt.EventID,
		"room_id", evt.RoomID,
		"event_type", evt.Type,
		"depth", evt.Depth,
		"payload_size", payloadSize)

	if err := s.persistEvent(c.Request.Context(), evt, false, evt.IsState()); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id":        evt.EventID,
		"depth":           evt.Depth,
		"stream_ordering": evt.StreamOrdering,
	})
}

// GetEventHandler returns one event by id, with its redaction annotation.
func (s *Service) GetEventHandler(c *gin.Context) {
	eventID := c.Param("event_id")

	evt, err := s.store.GetEvent(c.Request.Context(), eventID, false)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(c, &ingestionError{
				statusCode: http.StatusNotFound,
				errorType:  httperr.HttpNotFoundError,
				message:    msgEventNotFound,
			})
			return
		}
		slog.Error("Failed to fetch event", "error", err, "event_id", eventID)
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgEventNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event":    evt,
		"redacted": evt.Redacted,
	})
}

// StateHandler returns the room's current state events. The optional type
// and state_key query params narrow the result to a single state cell.
func (s *Service) StateHandler(c *gin.Context) {
	roomID := c.Param("room_id")
	eventType := c.Query("type")
	stateKey := c.Query("state_key")

	state, err := s.store.GetCurrentState(c.Request.Context(), roomID, eventType, stateKey)
	if err != nil {
		slog.Error("Failed to fetch current state", "error", err, "room_id", roomID)
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgStateFailed,
		})
		return
	}

	if state == nil {
		state = []*v1.Event{}
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}

// parseEvent reads the raw request body and binds it into an Event struct.
// Returns the parsed event and the raw payload size (used for structured logging upstream).
func (s *Service) parseEvent(c *gin.Context) (*v1.Event, int, *ingestionError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpPayloadTooLargeError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var evt v1.Event
	if err := c.ShouldBindJSON(&evt); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	return &evt, len(bodyBytes), nil
}

// persistEvent saves the event to the backing store.
func (s *Service) persistEvent(ctx context.Context, evt *v1.Event, backfilled, isNewState bool) *ingestionError {
	if err := s.store.PersistEvent(ctx, evt, backfilled, isNewState, nil); err != nil {
		slog.Error("Failed to persist event", "error", err, "event_id", evt.EventID)
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
		}
	}
	return nil
}

func boolQuery(c *gin.Context, name string) bool {
	value, err := strconv.ParseBool(c.DefaultQuery(name, "false"))
	return err == nil && value
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
