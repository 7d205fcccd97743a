package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	v1 "github.com/hearth-im/hearth/internal/api/v1"
	httperr "github.com/hearth-im/hearth/internal/core/errors"
	"github.com/hearth-im/hearth/internal/core/storage"
	storagemocks "github.com/hearth-im/hearth/internal/mocks/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, *storagemocks.RoomStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockStore := storagemocks.NewRoomStore(t)
	svc := NewService(mockStore, "hearth.test", 1)

	r := gin.New()
	svc.RegisterRoutes(r)
	return r, mockStore
}

func TestReceiveHandler_Success(t *testing.T) {
	r, mockStore := newTestRouter(t)

	evt := &v1.Event{
		EventID: "$remote-1:other.test",
		RoomID:  "!room-1:hearth.test",
		Type:    "m.room.message",
		Sender:  "@carol:other.test",
		Depth:   12,
		Content: map[string]interface{}{"body": "hi"},
	}
	body, _ := json.Marshal(evt)

	mockStore.EXPECT().
		PersistEvent(mock.Anything, mock.MatchedBy(func(e *v1.Event) bool {
			return e.EventID == "$remote-1:other.test" && !e.Outlier
		}), false, false, []*v1.Event(nil)).
		Return(nil).
		Once()

	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusAccepted, resp.Code)
	var result map[string]string
	json.Unmarshal(resp.Body.Bytes(), &result)
	require.Equal(t, "accepted", result["status"])
	require.Equal(t, "$remote-1:other.test", result["event_id"])
}

func TestReceiveHandler_BackfilledOutlierFlags(t *testing.T) {
	r, mockStore := newTestRouter(t)

	stateKey := "@carol:other.test"
	evt := &v1.Event{
		EventID:  "$remote-2:other.test",
		RoomID:   "!room-1:hearth.test",
		Type:     v1.TypeMember,
		Sender:   "@carol:other.test",
		StateKey: &stateKey,
		Content:  map[string]interface{}{"membership": "join"},
	}
	body, _ := json.Marshal(evt)

	// Backfilled state never becomes the current pointer.
	mockStore.EXPECT().
		PersistEvent(mock.Anything, mock.MatchedBy(func(e *v1.Event) bool {
			return e.Outlier
		}), true, false, []*v1.Event(nil)).
		Return(nil).
		Once()

	req := httptest.NewRequest(http.MethodPost, "/v1/events?backfilled=true&outlier=true", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusAccepted, resp.Code)
}

func TestReceiveHandler_InvalidJSON(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var errResp httperr.ErrorResponse
	json.Unmarshal(resp.Body.Bytes(), &errResp)
	require.Equal(t, httperr.HttpInvalidJsonError, errResp.ErrorType)
}

func TestReceiveHandler_ValidationFailure(t *testing.T) {
	r, _ := newTestRouter(t)

	// Redaction event with no redacts target.
	evt := &v1.Event{
		EventID: "$bad-1:other.test",
		RoomID:  "!room-1:hearth.test",
		Type:    v1.TypeRedaction,
	}
	body, _ := json.Marshal(evt)

	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var errResp httperr.ErrorResponse
	json.Unmarshal(resp.Body.Bytes(), &errResp)
	require.Equal(t, httperr.HttpInvalidEventError, errResp.ErrorType)
}

func TestReceiveHandler_OversizedBody(t *testing.T) {
	r, _ := newTestRouter(t)

	body := bytes.Repeat([]byte("x"), 1024*1024+1)
	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)

	var errResp httperr.ErrorResponse
	json.Unmarshal(resp.Body.Bytes(), &errResp)
	require.Equal(t, httperr.HttpPayloadTooLargeError, errResp.ErrorType)
}

func TestSendHandler_FillsEventFromSnapshot(t *testing.T) {
	r, mockStore := newTestRouter(t)

	payload := map[string]interface{}{
		"type":    "m.room.message",
		"sender":  "@alice:hearth.test",
		"content": map[string]interface{}{"body": "hello"},
	}
	body, _ := json.Marshal(payload)

	snapshot := &storage.Snapshot{
		RoomID: "!room-1:hearth.test",
		PrevEvents: []storage.SnapshotEvent{
			{EventID: "$frontier-1:hearth.test", Depth: 5, Hashes: map[string]string{"sha256": "abc"}},
		},
	}

	mockStore.EXPECT().
		SnapshotRoom(mock.Anything, mock.MatchedBy(func(e *v1.Event) bool {
			return e.RoomID == "!room-1:hearth.test" &&
				strings.HasPrefix(e.EventID, "$") &&
				strings.HasSuffix(e.EventID, ":hearth.test")
		})).
		Return(snapshot, nil).
		Once()

	mockStore.EXPECT().
		PersistEvent(mock.Anything, mock.MatchedBy(func(e *v1.Event) bool {
			if e.Depth != 6 || len(e.PrevEvents) != 1 {
				return false
			}
			return e.PrevEvents[0].EventID == "$frontier-1:hearth.test" &&
				len(e.Hashes["sha256"]) > 0
		}), false, false, []*v1.Event(nil)).
		Return(nil).
		Once()

	req := httptest.NewRequest(http.MethodPost, "/v1/rooms/!room-1:hearth.test/send", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var result map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &result)
	require.Contains(t, result["event_id"], ":hearth.test")
	require.Equal(t, float64(6), result["depth"])
}

func TestSendHandler_SnapshotFailure(t *testing.T) {
	r, mockStore := newTestRouter(t)

	payload := map[string]interface{}{
		"type":    "m.room.message",
		"sender":  "@alice:hearth.test",
		"content": map[string]interface{}{"body": "hello"},
	}
	body, _ := json.Marshal(payload)

	mockStore.EXPECT().
		SnapshotRoom(mock.Anything, mock.Anything).
		Return(nil, errors.New("database unavailable")).
		Once()

	req := httptest.NewRequest(http.MethodPost, "/v1/rooms/!room-1:hearth.test/send", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestGetEventHandler(t *testing.T) {
	r, mockStore := newTestRouter(t)

	mockStore.EXPECT().
		GetEvent(mock.Anything, "$msg-1:hearth.test", false).
		Return(&v1.Event{
			EventID:  "$msg-1:hearth.test",
			RoomID:   "!room-1:hearth.test",
			Type:     "m.room.message",
			Content:  map[string]interface{}{"body": "hello"},
			Redacted: true,
		}, nil).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/events/$msg-1:hearth.test", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var result struct {
		Event    *v1.Event `json:"event"`
		Redacted bool      `json:"redacted"`
	}
	json.Unmarshal(resp.Body.Bytes(), &result)
	require.Equal(t, "$msg-1:hearth.test", result.Event.EventID)
	require.True(t, result.Redacted)
}

func TestGetEventHandler_NotFound(t *testing.T) {
	r, mockStore := newTestRouter(t)

	mockStore.EXPECT().
		GetEvent(mock.Anything, "$missing:hearth.test", false).
		Return(nil, storage.ErrNotFound).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/events/$missing:hearth.test", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)

	var errResp httperr.ErrorResponse
	json.Unmarshal(resp.Body.Bytes(), &errResp)
	require.Equal(t, httperr.HttpNotFoundError, errResp.ErrorType)
}

func TestStateHandler(t *testing.T) {
	r, mockStore := newTestRouter(t)

	stateKey := ""
	mockStore.EXPECT().
		GetCurrentState(mock.Anything, "!room-1:hearth.test", v1.TypeName, "").
		Return([]*v1.Event{
			{
				EventID:  "$name-1:hearth.test",
				RoomID:   "!room-1:hearth.test",
				Type:     v1.TypeName,
				StateKey: &stateKey,
				Content:  map[string]interface{}{"name": "The Hearth"},
			},
		}, nil).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms/!room-1:hearth.test/state?type=m.room.name", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var result struct {
		State []*v1.Event `json:"state"`
	}
	json.Unmarshal(resp.Body.Bytes(), &result)
	require.Len(t, result.State, 1)
	require.Equal(t, "$name-1:hearth.test", result.State[0].EventID)
}

func TestStateHandler_EmptyRoom(t *testing.T) {
	r, mockStore := newTestRouter(t)

	mockStore.EXPECT().
		GetCurrentState(mock.Anything, "!empty:hearth.test", "", "").
		Return(nil, nil).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms/!empty:hearth.test/state", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"state":[]}`, resp.Body.String())
}
