package progress

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StageEvent is pushed to subscribers as the pipeline advances.
type StageEvent struct {
	JobID  string `json:"jobId"`
	Stage  string `json:"stage,omitempty"`
	Status string `json:"status"`
}

// Hub fans stage events out to the WebSocket subscribers of each job.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[*websocket.Conn]bool),
	}
}

// Publish sends an event to every subscriber of the job. Dead connections are
// dropped on write failure.
func (h *Hub) Publish(event StageEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.subs[event.JobID]
	if len(conns) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ [Progress] Failed to marshal event: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(conns, conn)
		}
	}
}

// HandleWS upgrades the connection and subscribes it to ?job=<id> events.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job")
	if jobID == "" {
		http.Error(w, "job parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ [Progress] WebSocket upgrade failed: %v", err)
		return
	}

	h.subscribe(jobID, conn)
	log.Printf("🔍 [Progress] New subscriber for job %s", jobID)

	// Read loop only detects the close; subscribers never send anything.
	go func() {
		defer func() {
			h.unsubscribe(jobID, conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) subscribe(jobID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[jobID] == nil {
		h.subs[jobID] = make(map[*websocket.Conn]bool)
	}
	h.subs[jobID][conn] = true
}

func (h *Hub) unsubscribe(jobID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns := h.subs[jobID]; conns != nil {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subs, jobID)
		}
	}
}
