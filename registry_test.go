package main

import (
	"errors"
	"testing"
)

func TestJoinCreatesRoomWithJoinerAsHost(t *testing.T) {
	r := NewRegistry()

	game, isHost, err := r.Join("c1", "Alice", TeamRed, "room1", "big")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if !isHost {
		t.Error("first joiner must become host")
	}
	if game.MapType() != "big" {
		t.Errorf("new room should use the requested map, got %q", game.MapType())
	}
	if r.RoomCount() != 1 {
		t.Errorf("expected 1 room, got %d", r.RoomCount())
	}
}

func TestJoinExistingRoomKeepsMap(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", "Alice", TeamRed, "room1", "small")

	game, isHost, err := r.Join("c2", "Bob", TeamBlue, "room1", "rounded")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if isHost {
		t.Error("second joiner must not become host")
	}
	if game.MapType() != "small" {
		t.Errorf("existing room must keep its map, got %q", game.MapType())
	}
	if game.PlayerCount() != 2 {
		t.Errorf("expected 2 players, got %d", game.PlayerCount())
	}
}

func TestJoinInvalidTeamDefaultsToRed(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", "Alice", Team("green"), "room1", "small")

	sess, ok := r.Session("c1")
	if !ok || sess.Team != TeamRed {
		t.Errorf("invalid team should default to red, got %q", sess.Team)
	}
}

func TestLeaveDestroysEmptyRoom(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", "Alice", TeamRed, "room1", "small")

	info := r.Leave("c1")
	if info == nil || !info.Destroyed {
		t.Fatal("last departure must destroy the room")
	}
	if r.RoomCount() != 0 {
		t.Errorf("expected 0 rooms, got %d", r.RoomCount())
	}
	if _, ok := r.Session("c1"); ok {
		t.Error("session must be cleared on leave")
	}
	if r.Leave("c1") != nil {
		t.Error("second leave must be a no-op")
	}
}

func TestHostPromotionFollowsJoinOrder(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", "Alice", TeamRed, "room1", "small")
	r.Join("c2", "Bob", TeamBlue, "room1", "small")
	r.Join("c3", "Carol", TeamRed, "room1", "small")

	info := r.Leave("c1")
	if info.NewHostID != "c2" {
		t.Errorf("earliest remaining joiner should be promoted, got %q", info.NewHostID)
	}
	if !info.Game.IsHost("c2") {
		t.Error("room must record the promoted host")
	}

	// Non-host departures never move authority
	info = r.Leave("c3")
	if info.NewHostID != "" {
		t.Errorf("non-host leave must not transfer, got %q", info.NewHostID)
	}
}

func TestHostPromotionSkipsDepartedMembers(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", "Alice", TeamRed, "room1", "small")
	r.Join("c2", "Bob", TeamBlue, "room1", "small")
	r.Join("c3", "Carol", TeamRed, "room1", "small")
	r.Leave("c2")

	info := r.Leave("c1")
	if info.NewHostID != "c3" {
		t.Errorf("promotion should skip members who already left, got %q", info.NewHostID)
	}
}

func TestKickAllowsRejoin(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", "Alice", TeamRed, "room1", "small")
	r.Join("c2", "Bob", TeamBlue, "room1", "small")

	info := r.Kick("c2")
	if info == nil || info.Game.HasPlayer("c2") {
		t.Fatal("kick must remove the target")
	}

	if _, _, err := r.Join("c2", "Bob", TeamBlue, "room1", "small"); err != nil {
		t.Errorf("kicked player must be able to rejoin, got %v", err)
	}
}

func TestBanBlocksRejoin(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", "Alice", TeamRed, "room1", "small")
	r.Join("c2", "Bob", TeamBlue, "room1", "small")

	info := r.Ban("c2")
	if info == nil || info.Game.HasPlayer("c2") {
		t.Fatal("ban must remove the target")
	}
	if !r.IsBanned("room1", "c2") {
		t.Error("ban must be recorded")
	}

	if _, _, err := r.Join("c2", "Bob", TeamBlue, "room1", "small"); !errors.Is(err, ErrBanned) {
		t.Errorf("banned player must be rejected with ErrBanned, got %v", err)
	}

	// Other rooms are unaffected
	if _, _, err := r.Join("c2", "Bob", TeamBlue, "room2", "small"); err != nil {
		t.Errorf("ban is per-room, got %v", err)
	}
}

func TestBanClearedWhenRoomDies(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", "Alice", TeamRed, "room1", "small")
	r.Join("c2", "Bob", TeamBlue, "room1", "small")
	r.Ban("c2")
	r.Leave("c1")

	if r.IsBanned("room1", "c2") {
		t.Error("bans must die with the room")
	}
	if _, _, err := r.Join("c2", "Bob", TeamBlue, "room1", "small"); err != nil {
		t.Errorf("recreated room starts with a clean ban list, got %v", err)
	}
}

func TestBanUnknownTarget(t *testing.T) {
	r := NewRegistry()
	if r.Ban("ghost") != nil {
		t.Error("banning an untracked connection must be a no-op")
	}
}

func TestChangeMapPreservesMembership(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", "Alice", TeamRed, "room1", "small")
	r.Join("c2", "Bob", TeamBlue, "room1", "small")

	old := r.Room("room1")
	old.UpdateSettings(intPtr(60), intPtr(1))
	m := &mockBroadcaster{}
	old.SetClient("c1", m)

	game := r.ChangeMap("room1", "rounded")
	if game == nil {
		t.Fatal("change to a valid map must succeed")
	}
	if game == old {
		t.Fatal("map change must rebuild the room")
	}
	if game.MapType() != "rounded" {
		t.Errorf("expected rounded map, got %q", game.MapType())
	}
	if !game.HasPlayer("c1") || !game.HasPlayer("c2") {
		t.Error("members must carry over")
	}
	if !game.IsHost("c1") {
		t.Error("host must carry over")
	}
	if r.Room("room1") != game {
		t.Error("registry must serve the rebuilt room")
	}

	// Client links survive the rebuild
	game.Broadcast(Envelope{T: MsgMapChanged})
	if len(m.messages) != 1 {
		t.Error("carried-over client should receive broadcasts")
	}

	// Settings and score reset with the rebuild
	maxTime, maxScore := game.Settings()
	if maxTime != DefaultMaxTime || maxScore != DefaultMaxScore {
		t.Errorf("rebuild resets settings, got (%d,%d)", maxTime, maxScore)
	}

	// Members carry over with their original teams
	sess, _ := r.Session("c2")
	if sess.Team != TeamBlue {
		t.Errorf("team must survive the rebuild, got %q", sess.Team)
	}
}

func TestChangeMapKeepsBans(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", "Alice", TeamRed, "room1", "small")
	r.Join("c2", "Bob", TeamBlue, "room1", "small")
	r.Ban("c2")

	r.ChangeMap("room1", "big")
	if !r.IsBanned("room1", "c2") {
		t.Error("bans must survive a map change")
	}
}

func TestChangeMapRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", "Alice", TeamRed, "room1", "small")

	if r.ChangeMap("room1", "moon") != nil {
		t.Error("unknown map type must be rejected")
	}
	if r.ChangeMap("nosuch", "big") != nil {
		t.Error("unknown room must be rejected")
	}
	if r.Room("room1").MapType() != "small" {
		t.Error("rejected change must leave the room alone")
	}
}

func TestRoomFor(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", "Alice", TeamRed, "room1", "small")

	if r.RoomFor("c1") != r.Room("room1") {
		t.Error("RoomFor should resolve through the session")
	}
	if r.RoomFor("ghost") != nil {
		t.Error("unknown connection resolves to nil")
	}
}

func TestRoomsSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", "Alice", TeamRed, "room1", "small")
	r.Join("c2", "Bob", TeamRed, "room2", "small")

	if len(r.Rooms()) != 2 {
		t.Errorf("expected 2 rooms, got %d", len(r.Rooms()))
	}
}
