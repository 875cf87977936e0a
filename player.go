package main

import "math"

const (
	PlayerRadius   = 15.0
	BallRadius     = 10.0
	PlayerAccel    = 0.15 // velocity gained per tick per held direction
	PlayerFriction = 0.95 // velocity multiplier per tick
	BallFriction   = 0.98 // ball velocity multiplier per tick
	KickRange      = 20.0 // extra reach beyond touching distance
	KickPower      = 1.0  // impulse magnitude added to the ball
	laneSpacing    = 40.0 // horizontal fan-out between spawn lanes
)

// Team identifies a side. The zero value means no team / no restriction.
type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// Valid reports whether t names an actual side.
func (t Team) Valid() bool {
	return t == TeamRed || t == TeamBlue
}

// Player is a connected participant's avatar. All mutation goes through
// the owning Game's methods.
type Player struct {
	Body
	ID   string `json:"id"`
	Name string `json:"name"`
	Team Team   `json:"team"`
}

// Ball is the single match ball of a room.
type Ball struct {
	Body
}

// PlayerInput is the held-key state applied immediately on receipt.
type PlayerInput struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Kick  bool `json:"kick"`
}

// NewPlayer creates a player at the spawn lane for the given team, fanning
// out by how many teammates are already present: red spawns around 25% of
// the arena width, blue around 75%, alternating between two vertical slots.
func NewPlayer(id, name string, team Team, m *GameMap, teamCount int) *Player {
	var spawnX float64
	if team == TeamRed {
		spawnX = m.Width*0.25 - math.Floor(float64(teamCount)/2)*laneSpacing
	} else {
		spawnX = m.Width*0.75 + math.Floor(float64(teamCount)/2)*laneSpacing
	}
	spawnY := (m.Height / 3) * float64(teamCount%2+1)

	return &Player{
		Body: Body{X: spawnX, Y: spawnY, Radius: PlayerRadius},
		ID:   id,
		Name: name,
		Team: team,
	}
}

// NewBall creates the ball at rest in the arena center.
func NewBall(m *GameMap) *Ball {
	return &Ball{Body: Body{X: m.Width / 2, Y: m.Height / 2, Radius: BallRadius}}
}

// Reset puts the ball back at the arena center with zero velocity.
func (b *Ball) Reset(m *GameMap) {
	b.X = m.Width / 2
	b.Y = m.Height / 2
	b.VX = 0
	b.VY = 0
}
