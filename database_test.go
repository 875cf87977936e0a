package main

import "testing"

func TestSettingsUpsert(t *testing.T) {
	db := testDB(t)

	if got := db.GetSetting("missing"); got != "" {
		t.Errorf("absent key should read empty, got %q", got)
	}
	if err := db.SetSetting("k", "v1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := db.SetSetting("k", "v2"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if got := db.GetSetting("k"); got != "v2" {
		t.Errorf("expected v2, got %q", got)
	}
}

func TestMatchArchive(t *testing.T) {
	db := testDB(t)

	g := NewGame("room1", "big", "host")
	g.AddPlayer("p1", "One", TeamRed)
	g.score = Score{Red: 3, Blue: 1}
	state := g.Snapshot()

	row := MatchRow{
		RoomID:    "room1",
		MapType:   "big",
		ScoreRed:  3,
		ScoreBlue: 1,
		Duration:  187.5,
		Reason:    "score",
	}
	if err := db.SaveMatch(row, state); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	matches, err := db.RecentMatches(10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.RoomID != "room1" || m.ScoreRed != 3 || m.ScoreBlue != 1 || m.Reason != "score" {
		t.Errorf("unexpected row %+v", m)
	}

	snap, err := db.MatchSnapshot(m.ID)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if snap == nil {
		t.Fatal("snapshot should exist")
	}
	if snap.Score.Red != 3 || snap.Score.Blue != 1 {
		t.Errorf("snapshot score mismatch: %+v", snap.Score)
	}
	if len(snap.Players) != 1 || snap.Players["p1"].Name != "One" {
		t.Error("snapshot should carry the final player list")
	}
}

func TestMatchSnapshotUnknownID(t *testing.T) {
	db := testDB(t)
	snap, err := db.MatchSnapshot(42)
	if err != nil || snap != nil {
		t.Errorf("unknown id should yield (nil, nil), got (%v, %v)", snap, err)
	}
}

func TestRecentMatchesOrder(t *testing.T) {
	db := testDB(t)
	state := NewGame("r", "small", "h").Snapshot()

	for _, id := range []string{"first", "second", "third"} {
		if err := db.SaveMatch(MatchRow{RoomID: id, MapType: "small"}, state); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	matches, err := db.RecentMatches(2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(matches) != 2 || matches[0].RoomID != "third" || matches[1].RoomID != "second" {
		t.Errorf("expected newest first with limit, got %+v", matches)
	}
}
