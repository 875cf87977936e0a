package main

import "testing"

func TestMapCatalogue(t *testing.T) {
	for id, m := range Maps {
		if m.Width <= 0 || m.Height <= 0 {
			t.Errorf("%s: degenerate dimensions", id)
		}
		if len(m.Walls) == 0 {
			t.Errorf("%s: no walls", id)
		}
		left, right := m.Goals.Left, m.Goals.Right
		if left.X != 0 {
			t.Errorf("%s: left goal must sit on the left edge", id)
		}
		if right.X+right.Width != m.Width {
			t.Errorf("%s: right goal must sit on the right edge", id)
		}
		if left.Height != right.Height || left.Y != right.Y {
			t.Errorf("%s: goal mouths must mirror each other", id)
		}
		// Mouths vertically centered
		if left.Y+left.Height/2 != m.Height/2 {
			t.Errorf("%s: goal mouth off center", id)
		}
	}
}

func TestWallsLeaveGoalMouthsOpen(t *testing.T) {
	for id, m := range Maps {
		mouth := m.Goals.Left
		midY := mouth.Y + mouth.Height/2
		for _, w := range m.Walls {
			if w.X <= mouth.Width && midY >= w.Y && midY <= w.Y+w.Height {
				t.Errorf("%s: wall blocks the left goal mouth", id)
			}
		}
	}
}

func TestOnlyRoundedHasCorners(t *testing.T) {
	for id, m := range Maps {
		if id == "rounded" {
			if len(m.Corners) != 4 {
				t.Errorf("rounded map should have 4 corners, got %d", len(m.Corners))
			}
			continue
		}
		if len(m.Corners) != 0 {
			t.Errorf("%s: unexpected corners", id)
		}
	}
}

func TestGetMapFallback(t *testing.T) {
	if GetMap("nope") != Maps[DefaultMapType] {
		t.Error("unknown type must fall back to the default map")
	}
	if GetMap("big") != Maps["big"] {
		t.Error("known type must resolve directly")
	}
}

func TestValidMapType(t *testing.T) {
	for _, id := range []string{"small", "big", "rounded"} {
		if !ValidMapType(id) {
			t.Errorf("%s should be valid", id)
		}
	}
	if ValidMapType("moon") || ValidMapType("") {
		t.Error("unknown types must be invalid")
	}
}

func TestAvailableMapsStableOrder(t *testing.T) {
	list := AvailableMaps()
	want := []string{"small", "big", "rounded"}
	if len(list) != len(want) {
		t.Fatalf("expected %d maps, got %d", len(want), len(list))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, list[i].ID)
		}
		if list[i].Name == "" {
			t.Errorf("%s: empty display name", id)
		}
	}
}
