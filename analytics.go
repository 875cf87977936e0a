package main

import (
	"log"
	"sync"
	"time"
)

// Event types for room lifecycle tracking
const (
	EvtPlayerJoin  = "player_join"
	EvtPlayerLeave = "player_leave"
	EvtRoomClosed  = "room_closed"
	EvtGoal        = "goal"
	EvtGameEnd     = "game_end"
	EvtMapChange   = "map_change"
	EvtKick        = "kick"
	EvtBan         = "ban"
)

// AnalyticsEvent is a single trackable room event.
type AnalyticsEvent struct {
	Type      string
	RoomID    string
	Detail    string
	Timestamp time.Time
}

// Analytics persists room events with a batched background writer so
// tracking never blocks a game tick or a message handler.
type Analytics struct {
	db     *DB
	events chan AnalyticsEvent
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewAnalytics creates and starts the analytics background writer.
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan AnalyticsEvent, 1024),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking).
func (a *Analytics) Track(evtType, roomID, detail string) {
	select {
	case a.events <- AnalyticsEvent{
		Type:      evtType,
		RoomID:    roomID,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// Channel full, drop the event rather than blocking the game loop
	}
}

// Close drains pending events and stops the writer.
func (a *Analytics) Close() {
	close(a.stop)
	a.wg.Wait()
}

func (a *Analytics) writer() {
	defer a.wg.Done()
	for {
		select {
		case evt := <-a.events:
			a.persist(evt)
		case <-a.stop:
			for {
				select {
				case evt := <-a.events:
					a.persist(evt)
				default:
					return
				}
			}
		}
	}
}

func (a *Analytics) persist(evt AnalyticsEvent) {
	if err := a.db.InsertEvent(evt.Type, evt.RoomID, evt.Detail, evt.Timestamp); err != nil {
		log.Printf("analytics write: %v", err)
	}
}
