package main

import (
	"log"
	"sync"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// Hub manages all connected clients and owns the room registry plus the
// shared persistence and auth services.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client // connID -> client
	unregister chan *Client
	registry   *Registry

	// Connection limiting (separate mutex, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int

	db        *DB
	auth      *Auth
	analytics *Analytics
}

// NewHub creates a Hub. db may be nil, which disables accounts and the
// match archive but not gameplay.
func NewHub(db *DB) *Hub {
	h := &Hub{
		clients:    make(map[string]*Client),
		unregister: make(chan *Client, 64),
		registry:   NewRegistry(),
		ipConns:    make(map[string]int),
		db:         db,
	}
	if db != nil {
		h.auth = NewAuth(db)
		h.analytics = NewAnalytics(db)
	}
	return h
}

// CanAccept reports whether a new connection from the IP fits the limits.
func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

// TrackConnect counts an accepted connection.
func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

// TrackDisconnect releases a connection slot.
func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Register adds an accepted connection to the client map. Registration is
// synchronous: by the time the pumps start, the client is visible, so an
// immediate disconnect cannot have its unregister processed first.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.connID] = client
}

// Run processes unregister events for the life of the process.
func (h *Hub) Run() {
	for client := range h.unregister {
		h.mu.Lock()
		if _, ok := h.clients[client.connID]; ok {
			delete(h.clients, client.connID)
			close(client.send)
		}
		h.mu.Unlock()
		h.handleDeparture(client.connID)
	}
}

// handleDeparture removes a disconnected client from its room and tells the
// remaining members, promoting a new host when the departing one held
// authority.
func (h *Hub) handleDeparture(connID string) {
	info := h.registry.Leave(connID)
	if info == nil {
		return
	}
	h.Track(EvtPlayerLeave, info.RoomID, connID)
	if info.Destroyed {
		h.Track(EvtRoomClosed, info.RoomID, "")
		return
	}

	state := info.Game.Snapshot()
	if info.NewHostID != "" {
		if next := h.ClientByID(info.NewHostID); next != nil {
			next.SendJSON(Envelope{T: MsgHostTransferred, Data: "You are now the host"})
		}
		info.Game.Broadcast(Envelope{T: MsgNewHost, Data: NewHostMsg{
			HostID:    info.NewHostID,
			GameState: state,
		}})
	}
	info.Game.Broadcast(Envelope{T: MsgPlayerLeft, Data: PlayerLeftMsg{
		PlayerID:  connID,
		GameState: state,
	}})
}

// ClientByID returns the connected client with the given connection id.
func (h *Hub) ClientByID(connID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[connID]
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Track forwards an analytics event when tracking is enabled.
func (h *Hub) Track(evtType, roomID, detail string) {
	if h.analytics != nil {
		h.analytics.Track(evtType, roomID, detail)
	}
}

// ArchiveMatch records a finished game off the tick path.
func (h *Hub) ArchiveMatch(room *Game, state GameState, reason string) {
	if h.db == nil {
		return
	}
	row := MatchRow{
		RoomID:    room.roomID,
		MapType:   room.MapType(),
		ScoreRed:  state.Score.Red,
		ScoreBlue: state.Score.Blue,
		Duration:  room.Elapsed().Seconds(),
		Reason:    reason,
	}
	go func() {
		if err := h.db.SaveMatch(row, state); err != nil {
			log.Printf("archive match: %v", err)
		}
	}()
	h.Track(EvtGameEnd, room.roomID, reason)
}
