package main

import (
	"encoding/json"
	"time"
)

const (
	TickRate     = 60 // physics ticks per second
	TickDuration = time.Second / TickRate
	ClockPeriod  = time.Second // game-clock cadence
)

// Scheduler drives the two periodic cycles over all live rooms: the 60 Hz
// physics/broadcast tick and the 1 Hz game-clock tick. The cycles are
// independent and unsynchronized; an empty room simply never shows up in
// the iteration because the registry destroyed it.
type Scheduler struct {
	hub  *Hub
	stop chan struct{}
}

// NewScheduler creates a Scheduler over the hub's room registry.
func NewScheduler(hub *Hub) *Scheduler {
	return &Scheduler{hub: hub, stop: make(chan struct{})}
}

// Run blocks driving both tick cycles until Stop is called.
func (s *Scheduler) Run() {
	physics := time.NewTicker(TickDuration)
	clock := time.NewTicker(ClockPeriod)
	defer physics.Stop()
	defer clock.Stop()

	for {
		select {
		case <-physics.C:
			s.physicsTick()
		case <-clock.C:
			s.clockTick()
		case <-s.stop:
			return
		}
	}
}

// Stop terminates the tick loops.
func (s *Scheduler) Stop() {
	close(s.stop)
}

// physicsTick steps ball physics in every room, emits goal and score-end
// notifications, and broadcasts each room's full state snapshot.
func (s *Scheduler) physicsTick() {
	for _, room := range s.hub.registry.Rooms() {
		scored, endedByScore := room.StepBall()
		state := room.Snapshot()

		if scored != "" {
			room.Broadcast(Envelope{T: MsgGoal, Data: GoalMsg{
				Team:      scored,
				Score:     state.Score,
				GameState: state,
			}})
			s.hub.Track(EvtGoal, room.roomID, string(scored))
		}
		if endedByScore {
			room.Broadcast(Envelope{T: MsgGameEnded, Data: GameEndedMsg{
				Reason:    "score",
				GameState: state,
			}})
			s.hub.ArchiveMatch(room, state, "score")
		}

		s.broadcastState(room, state)
	}
}

// broadcastState marshals the snapshot once and fans the bytes out to every
// client in the room.
func (s *Scheduler) broadcastState(room *Game, state GameState) {
	data, err := json.Marshal(Envelope{T: MsgGameUpdate, Data: state})
	if err != nil {
		return
	}
	room.BroadcastRaw(data)
}

// clockTick advances each occupied room's match clock and emits time-limit
// endings.
func (s *Scheduler) clockTick() {
	for _, room := range s.hub.registry.Rooms() {
		if room.PlayerCount() == 0 {
			continue
		}
		if room.TickClock() {
			state := room.Snapshot()
			room.Broadcast(Envelope{T: MsgGameEnded, Data: GameEndedMsg{
				Reason:    "time",
				GameState: state,
			}})
			s.hub.ArchiveMatch(room, state, "time")
		}
	}
}
