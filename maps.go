package main

// Rect is an axis-aligned rectangle used for walls and goal mouths.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Corner is a circular arena corner. Only the rounded preset has them.
type Corner struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Type   string  `json:"type"` // "top-left", "bottom-left", ...
}

// Goals holds the two goal mouths of an arena.
type Goals struct {
	Left  Rect `json:"left"`
	Right Rect `json:"right"`
}

// GameMap is the static arena definition selected at room creation.
// Immutable after selection.
type GameMap struct {
	Name    string   `json:"name"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Goals   Goals    `json:"goals"`
	Walls   []Rect   `json:"walls"`
	Corners []Corner `json:"corners,omitempty"`
}

const DefaultMapType = "small"

// Maps is the built-in arena catalogue, keyed by map type.
var Maps = map[string]*GameMap{
	"small": {
		Name:   "Small Arena",
		Width:  800,
		Height: 400,
		Goals: Goals{
			Left:  Rect{X: 0, Y: 150, Width: 10, Height: 100},
			Right: Rect{X: 790, Y: 150, Width: 10, Height: 100},
		},
		Walls: []Rect{
			{X: 0, Y: 0, Width: 800, Height: 10},    // top
			{X: 0, Y: 390, Width: 800, Height: 10},  // bottom
			{X: 0, Y: 0, Width: 10, Height: 150},    // left top
			{X: 0, Y: 250, Width: 10, Height: 150},  // left bottom
			{X: 790, Y: 0, Width: 10, Height: 150},  // right top
			{X: 790, Y: 250, Width: 10, Height: 150}, // right bottom
		},
	},
	"big": {
		Name:   "Big Arena",
		Width:  1200,
		Height: 600,
		Goals: Goals{
			Left:  Rect{X: 0, Y: 225, Width: 15, Height: 150},
			Right: Rect{X: 1185, Y: 225, Width: 15, Height: 150},
		},
		Walls: []Rect{
			{X: 0, Y: 0, Width: 1200, Height: 15},     // top
			{X: 0, Y: 585, Width: 1200, Height: 15},   // bottom
			{X: 0, Y: 0, Width: 15, Height: 225},      // left top
			{X: 0, Y: 375, Width: 15, Height: 225},    // left bottom
			{X: 1185, Y: 0, Width: 15, Height: 225},   // right top
			{X: 1185, Y: 375, Width: 15, Height: 225}, // right bottom
		},
	},
	"rounded": {
		Name:   "Rounded Big Arena",
		Width:  1200,
		Height: 600,
		Goals: Goals{
			Left:  Rect{X: 0, Y: 225, Width: 15, Height: 150},
			Right: Rect{X: 1185, Y: 225, Width: 15, Height: 150},
		},
		Walls: []Rect{
			{X: 50, Y: 0, Width: 1100, Height: 15},    // top
			{X: 50, Y: 585, Width: 1100, Height: 15},  // bottom
			{X: 0, Y: 50, Width: 15, Height: 175},     // left top
			{X: 0, Y: 375, Width: 15, Height: 175},    // left bottom
			{X: 1185, Y: 50, Width: 15, Height: 175},  // right top
			{X: 1185, Y: 375, Width: 15, Height: 175}, // right bottom
		},
		Corners: []Corner{
			{X: 50, Y: 50, Radius: 50, Type: "top-left"},
			{X: 50, Y: 550, Radius: 50, Type: "bottom-left"},
			{X: 1150, Y: 50, Radius: 50, Type: "top-right"},
			{X: 1150, Y: 550, Radius: 50, Type: "bottom-right"},
		},
	},
}

// MapInfo is a catalogue entry sent to joining clients.
type MapInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AvailableMaps lists the catalogue in a stable order.
func AvailableMaps() []MapInfo {
	ids := []string{"small", "big", "rounded"}
	list := make([]MapInfo, 0, len(ids))
	for _, id := range ids {
		list = append(list, MapInfo{ID: id, Name: Maps[id].Name})
	}
	return list
}

// GetMap returns the map for the given type, falling back to the default.
func GetMap(mapType string) *GameMap {
	if m, ok := Maps[mapType]; ok {
		return m
	}
	return Maps[DefaultMapType]
}

// ValidMapType reports whether the catalogue contains the given type.
func ValidMapType(mapType string) bool {
	_, ok := Maps[mapType]
	return ok
}
