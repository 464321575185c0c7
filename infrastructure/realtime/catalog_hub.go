package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// CatalogEvent represents an SSE payload for catalog mutations
type CatalogEvent struct {
	Type    string    `json:"type"`
	VideoID string    `json:"video_id"`
	At      time.Time `json:"at"`
}

// Hub maintains subscribers listening for catalog mutation events
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan CatalogEvent]struct{}
}

func NewCatalogHub() *Hub {
	return &Hub{subscribers: make(map[chan CatalogEvent]struct{})}
}

// Serve registers an SSE stream on the request connection
func (h *Hub) Serve(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan CatalogEvent, 8)
	h.addSubscriber(ch)
	defer h.removeSubscriber(ch)

	// Initial comment to keep connection open
	c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case evt := <-ch:
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: catalog\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (h *Hub) addSubscriber(ch chan CatalogEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[ch] = struct{}{}
}

func (h *Hub) removeSubscriber(ch chan CatalogEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// Broadcast fans a mutation event out to every subscriber
func (h *Hub) Broadcast(eventType, videoID string) {
	evt := CatalogEvent{Type: eventType, VideoID: videoID, At: time.Now().UTC()}
	h.mu.RLock()
	for ch := range h.subscribers {
		select { // non-blocking
		case ch <- evt:
		default:
		}
	}
	h.mu.RUnlock()
}
