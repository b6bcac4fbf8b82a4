package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vashonai/Dietlytic/models"
)

type WSClient struct {
	UserID uint
	Conn   *websocket.Conn
}

// AdvisoryHub pushes generated advisories to every websocket session a
// user has open, so a scan on one device surfaces on all of them.
type AdvisoryHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewAdvisoryHub() *AdvisoryHub {
	return &AdvisoryHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *AdvisoryHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *AdvisoryHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

type advisoryEvent struct {
	Event     string          `json:"event"`
	FoodLabel string          `json:"food_label"`
	Score     int             `json:"score"`
	Advisory  models.Advisory `json:"advisory"`
}

// BroadcastAdvisory fans an advisory out to the user's sessions. Write
// failures are ignored; a dead connection is cleaned up on its next
// read by the websocket handler.
func (h *AdvisoryHub) BroadcastAdvisory(userID uint, foodLabel string, analysis models.FoodAnalysis, adv models.Advisory) {
	msg, _ := json.Marshal(advisoryEvent{
		Event:     "advisory",
		FoodLabel: foodLabel,
		Score:     analysis.HealthScore,
		Advisory:  adv,
	})
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
