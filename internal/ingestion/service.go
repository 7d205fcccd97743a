package ingestion

import (
	"github.com/gin-gonic/gin"
	"github.com/hearth-im/hearth/internal/core/storage"
)

type Service struct {
	store            storage.RoomStore
	serverName       string
	maxBodySizeBytes int
}

func NewService(store storage.RoomStore, serverName string, maxBodySizeMB int) *Service {
	if store == nil {
		panic("ingestion: store must not be nil")
	}
	if serverName == "" {
		panic("ingestion: server name must not be empty")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		store:            store,
		serverName:       serverName,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the event persistence routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	// Federation receive path: events arrive fully formed.
	r.POST("/v1/events", s.ReceiveHandler)

	// Local send path: the server assigns the id and fills the DAG links.
	r.POST("/v1/rooms/:room_id/send", s.SendHandler)

	r.GET("/v1/events/:event_id", s.GetEventHandler)
	r.GET("/v1/rooms/:room_id/state", s.StateHandler)
}
