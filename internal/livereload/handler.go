package livereload

import (
	"encoding/json"
	"time"

	"github.com/mschirtzinger/mdsync/internal/engine"
	"github.com/mschirtzinger/mdsync/internal/logging"
)

// SyncCompleteData contains full sync information
type SyncCompleteData struct {
	Files    int           `json:"files"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// Handler turns engine changes into broadcast messages. It implements
// engine.Notifier.
type Handler struct {
	server *Server
	logger logging.Logger
}

// NewHandler creates a handler broadcasting through server
func NewHandler(server *Server, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{server: server, logger: logger}
}

// Notify implements engine.Notifier.
func (h *Handler) Notify(c engine.Change) {
	typ := MessageTypeChange
	if c.Op == "unlink" || c.Op == "unlinkDir" {
		typ = MessageTypeRemove
	}
	h.send(typ, c)
}

// OnSyncComplete announces a finished full sync
func (h *Handler) OnSyncComplete(stats engine.SyncStats, duration time.Duration) {
	h.send(MessageTypeSyncComplete, SyncCompleteData{
		Files:    stats.Files,
		Failed:   stats.Failed,
		Duration: duration,
	})
}

func (h *Handler) send(typ MessageType, data any) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		h.logger.Errorf("Failed to marshal %s data: %v", typ, err)
		return
	}
	h.server.Broadcast(Message{
		Type:      typ,
		Timestamp: time.Now(),
		Data:      dataJSON,
	})
}
