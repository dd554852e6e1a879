// File: internal/server/sse.go
package server

import (
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
)

// sseSink adapts an investigation event stream to Server-Sent Events. Emit
// is safe for concurrent use and never fails the investigation: once the
// client has gone away, remaining events are dropped.
type sseSink struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	logger  *zap.Logger
	dead    bool
}

func newSSESink(w http.ResponseWriter, flusher http.Flusher, logger *zap.Logger) *sseSink {
	return &sseSink{w: w, flusher: flusher, logger: logger.Named("sse")}
}

func (s *sseSink) Emit(ev schemas.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dead {
		return
	}

	payload, err := json.Marshal(ev.Data)
	if err != nil {
		s.logger.Error("Failed to encode event.", zap.String("type", string(ev.Type)), zap.Error(err))
		return
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", ev.Type, payload); err != nil {
		s.logger.Debug("Client disconnected; dropping remaining events.", zap.Error(err))
		s.dead = true
		return
	}
	s.flusher.Flush()
}
