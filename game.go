package main

import (
	"math"
	"sync"
	"time"
)

const (
	DefaultMaxTime  = 300 // seconds, 0 = unlimited
	DefaultMaxScore = 3   // goals, 0 = unlimited
	MaxTimeLimit    = 3600
	MaxScoreLimit   = 50

	kickEffectRadius = 25.0
	kickEffectAge    = 300 * time.Millisecond
)

// Broadcaster delivers outbound messages to one connected client.
type Broadcaster interface {
	SendJSON(msg interface{})
	SendRaw(data []byte)
}

// KickEffect is a transient visual ring spawned at the ball on each kick.
// Advisory only, it carries no physics meaning.
type KickEffect struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"radius"`
	Opacity float64 `json:"opacity"`

	createdAt time.Time
}

// Score is the running goal count per team.
type Score struct {
	Red  int `json:"red"`
	Blue int `json:"blue"`
}

// Game owns the full authoritative state of one room. Every mutation,
// whether from a player message or a scheduler tick, happens under its
// mutex so no caller ever observes a half-updated tick.
type Game struct {
	mu      sync.Mutex
	roomID  string
	hostID  string
	mapType string
	gameMap *GameMap

	players map[string]*Player
	clients map[string]Broadcaster
	ball    *Ball

	score       Score
	kickoffTeam Team // team permitted to touch the ball next, "" = unrestricted
	ballTouched bool

	gameTime    int // elapsed whole seconds
	maxTime     int
	maxScore    int
	gameStarted bool
	gameEnded   bool

	kickEffects []*KickEffect
	startedAt   time.Time
}

// NewGame creates a room with the given map. Unknown map types fall back
// to the default arena.
func NewGame(roomID, mapType string, hostID string) *Game {
	if !ValidMapType(mapType) {
		mapType = DefaultMapType
	}
	m := GetMap(mapType)
	return &Game{
		roomID:    roomID,
		hostID:    hostID,
		mapType:   mapType,
		gameMap:   m,
		players:   make(map[string]*Player),
		clients:   make(map[string]Broadcaster),
		ball:      NewBall(m),
		maxTime:   DefaultMaxTime,
		maxScore:  DefaultMaxScore,
		startedAt: time.Now(),
	}
}

// AddPlayer spawns a player into the team's lane. An existing player with
// the same id is replaced.
func (g *Game) AddPlayer(id, name string, team Team) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	teamCount := 0
	for _, p := range g.players {
		if p.Team == team && p.ID != id {
			teamCount++
		}
	}
	player := NewPlayer(id, name, team, g.gameMap, teamCount)
	g.players[id] = player
	return player
}

// RemovePlayer deletes a player and its client link. No-op if absent.
func (g *Game) RemovePlayer(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.players, id)
	delete(g.clients, id)
}

// SetClient associates a broadcaster with a player.
func (g *Game) SetClient(playerID string, client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[playerID] = client
}

// Clients returns a copy of the playerID -> broadcaster links. The registry
// uses it to carry connections over when a map change rebuilds the room.
func (g *Game) Clients() map[string]Broadcaster {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]Broadcaster, len(g.clients))
	for id, c := range g.clients {
		out[id] = c
	}
	return out
}

// HasPlayer reports whether the player is a current member.
func (g *Game) HasPlayer(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.players[id]
	return ok
}

// PlayerCount returns the number of current members.
func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// Host returns the current host connection id.
func (g *Game) Host() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hostID
}

// SetHost replaces the host connection id.
func (g *Game) SetHost(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hostID = id
}

// IsHost reports whether the given connection id holds room authority.
func (g *Game) IsHost(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hostID == id
}

// MapType returns the selected map's catalogue key.
func (g *Game) MapType() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mapType
}

// Settings returns the current time and score limits.
func (g *Game) Settings() (maxTime, maxScore int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maxTime, g.maxScore
}

// HandleInput applies one input message to a player: acceleration, damping,
// integration, then the full collision pass against the arena, the ball and
// the other players. No-op for unknown ids.
func (g *Game) HandleInput(id string, input PlayerInput) {
	g.mu.Lock()
	defer g.mu.Unlock()

	player, ok := g.players[id]
	if !ok {
		return
	}

	if input.Up {
		player.VY -= PlayerAccel
	}
	if input.Down {
		player.VY += PlayerAccel
	}
	if input.Left {
		player.VX -= PlayerAccel
	}
	if input.Right {
		player.VX += PlayerAccel
	}

	player.VX *= PlayerFriction
	player.VY *= PlayerFriction

	player.X += player.VX
	player.Y += player.VY

	g.clampKickoffLine(player)
	g.clampToArena(player)
	g.collidePlayerWalls(player)
	g.collidePlayerBall(player)
	g.collidePlayers(player)

	if input.Kick {
		g.kickBall(player)
	}
}

// clampKickoffLine holds players of the non-kickoff team behind the center
// line until the permitted team touches the ball.
func (g *Game) clampKickoffLine(player *Player) {
	if g.kickoffTeam == "" || g.ballTouched || player.Team == g.kickoffTeam {
		return
	}
	centerLine := g.gameMap.Width / 2
	if player.Team == TeamRed && player.X > centerLine {
		player.X = centerLine
		player.VX = 0
	} else if player.Team == TeamBlue && player.X < centerLine {
		player.X = centerLine
		player.VX = 0
	}
}

// clampToArena keeps a player inside the outer bounds, stopping dead on the
// clamped axis.
func (g *Game) clampToArena(player *Player) {
	if player.X-player.Radius < 0 {
		player.X = player.Radius
		player.VX = 0
	}
	if player.X+player.Radius > g.gameMap.Width {
		player.X = g.gameMap.Width - player.Radius
		player.VX = 0
	}
	if player.Y-player.Radius < 0 {
		player.Y = player.Radius
		player.VY = 0
	}
	if player.Y+player.Radius > g.gameMap.Height {
		player.Y = g.gameMap.Height - player.Radius
		player.VY = 0
	}
}

func (g *Game) collidePlayerWalls(player *Player) {
	for _, wall := range g.gameMap.Walls {
		player.Body, _ = ResolveCircleRect(player.Body, wall, 0)
	}
	for _, corner := range g.gameMap.Corners {
		player.Body, _ = ResolveCircleCorner(player.Body, corner, 0, false)
	}
}

// mayTouchBall reports whether kickoff rules allow the team to contact the
// ball right now.
func (g *Game) mayTouchBall(team Team) bool {
	return g.kickoffTeam == "" || g.ballTouched || team == g.kickoffTeam
}

// markBallTouched ends the kickoff restriction on first permitted contact.
// Clearing kickoffTeam and setting ballTouched happen together under the
// room lock, so no snapshot can ever show one without the other.
func (g *Game) markBallTouched() {
	if g.kickoffTeam != "" && !g.ballTouched {
		g.ballTouched = true
		g.kickoffTeam = ""
	}
}

func (g *Game) collidePlayerBall(player *Player) {
	if !g.mayTouchBall(player.Team) {
		return
	}
	pb, bb, hit := ResolvePush(player.Body, g.ball.Body)
	if !hit {
		return
	}
	g.markBallTouched()
	player.Body = pb
	g.ball.Body = bb
}

func (g *Game) collidePlayers(player *Player) {
	for _, other := range g.players {
		if other.ID == player.ID {
			continue
		}
		pa, pb, hit := ResolveBump(player.Body, other.Body)
		if !hit {
			continue
		}
		player.Body = pa
		other.Body = pb
	}
}

// kickBall applies a kick impulse when the player is in reach and kickoff
// rules permit contact, and records the visual effect.
func (g *Game) kickBall(player *Player) {
	if !g.mayTouchBall(player.Team) {
		return
	}
	dx := g.ball.X - player.X
	dy := g.ball.Y - player.Y
	distance := math.Sqrt(dx*dx + dy*dy)
	if distance >= player.Radius+g.ball.Radius+KickRange {
		return
	}
	g.markBallTouched()

	angle := math.Atan2(dy, dx)
	g.ball.VX += math.Cos(angle) * KickPower
	g.ball.VY += math.Sin(angle) * KickPower

	g.kickEffects = append(g.kickEffects, &KickEffect{
		X:         g.ball.X,
		Y:         g.ball.Y,
		Opacity:   1,
		createdAt: time.Now(),
	})
}

// StepBall advances ball physics by one tick: friction, integration, player
// contacts, boundary and wall bounces, effect aging, then goal detection.
// It returns the scoring team ("" if none) and whether that goal ended the
// game by reaching the score limit.
func (g *Game) StepBall() (scored Team, endedByScore bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ball.VX *= BallFriction
	g.ball.VY *= BallFriction
	g.ball.X += g.ball.VX
	g.ball.Y += g.ball.VY

	g.collideBallPlayers()
	g.bounceBallOffBounds()
	g.collideBallWalls()
	g.stepKickEffects()

	return g.checkGoals()
}

func (g *Game) collideBallPlayers() {
	for _, player := range g.players {
		if !g.mayTouchBall(player.Team) {
			continue
		}
		bb, pb, hit := ResolveBounce(g.ball.Body, player.Body)
		if !hit {
			continue
		}
		g.markBallTouched()
		g.ball.Body = bb
		player.Body = pb
	}
}

func (g *Game) bounceBallOffBounds() {
	if g.ball.X-g.ball.Radius < 0 {
		g.ball.X = g.ball.Radius
		g.ball.VX = -g.ball.VX * WallRestitution
	}
	if g.ball.X+g.ball.Radius > g.gameMap.Width {
		g.ball.X = g.gameMap.Width - g.ball.Radius
		g.ball.VX = -g.ball.VX * WallRestitution
	}
	if g.ball.Y-g.ball.Radius < 0 {
		g.ball.Y = g.ball.Radius
		g.ball.VY = -g.ball.VY * WallRestitution
	}
	if g.ball.Y+g.ball.Radius > g.gameMap.Height {
		g.ball.Y = g.gameMap.Height - g.ball.Radius
		g.ball.VY = -g.ball.VY * WallRestitution
	}
}

func (g *Game) collideBallWalls() {
	for _, wall := range g.gameMap.Walls {
		g.ball.Body, _ = ResolveCircleRect(g.ball.Body, wall, WallRestitution)
	}
	for _, corner := range g.gameMap.Corners {
		g.ball.Body, _ = ResolveCircleCorner(g.ball.Body, corner, WallRestitution, true)
	}
}

// stepKickEffects ages effects toward full radius and zero opacity, dropping
// the expired ones.
func (g *Game) stepKickEffects() {
	now := time.Now()
	kept := g.kickEffects[:0]
	for _, effect := range g.kickEffects {
		age := now.Sub(effect.createdAt)
		if age >= kickEffectAge {
			continue
		}
		progress := float64(age) / float64(kickEffectAge)
		effect.Radius = kickEffectRadius * progress
		effect.Opacity = 1 - progress
		kept = append(kept, effect)
	}
	g.kickEffects = kept
}

// checkGoals registers a goal when the ball's leading edge reaches a goal
// mouth with its center inside the mouth's vertical extent. The conceding
// team gets the next kickoff.
func (g *Game) checkGoals() (Team, bool) {
	goals := g.gameMap.Goals

	left := goals.Left
	if g.ball.X-g.ball.Radius <= left.X+left.Width &&
		g.ball.Y >= left.Y && g.ball.Y <= left.Y+left.Height {
		g.score.Blue++
		g.registerGoal(TeamRed)
		return TeamBlue, g.endIfScoreReached(g.score.Blue)
	}

	right := goals.Right
	if g.ball.X+g.ball.Radius >= right.X &&
		g.ball.Y >= right.Y && g.ball.Y <= right.Y+right.Height {
		g.score.Red++
		g.registerGoal(TeamBlue)
		return TeamRed, g.endIfScoreReached(g.score.Red)
	}

	return "", false
}

// endIfScoreReached flips gameEnded exactly once when a team's total hits
// the score limit. Goals after the end still count but never re-signal the
// ending, so no duplicate gameEnded broadcast or archive row is produced.
func (g *Game) endIfScoreReached(total int) bool {
	if g.gameEnded || g.maxScore == 0 || total < g.maxScore {
		return false
	}
	g.gameEnded = true
	return true
}

// registerGoal arms the kickoff restriction for the conceding team and
// resets the field.
func (g *Game) registerGoal(concedingTeam Team) {
	g.kickoffTeam = concedingTeam
	g.ballTouched = false
	g.ball.Reset(g.gameMap)
	g.positionForKickoff()
}

// positionForKickoff packs each team into its own half: red around 25% of
// the width, blue around 75%, rows fanning toward the own goal.
func (g *Game) positionForKickoff() {
	var red, blue []*Player
	for _, p := range g.players {
		if p.Team == TeamRed {
			red = append(red, p)
		} else {
			blue = append(blue, p)
		}
	}
	g.placeTeam(red, g.gameMap.Width*0.25, -laneSpacing)
	g.placeTeam(blue, g.gameMap.Width*0.75, laneSpacing)
}

func (g *Game) placeTeam(team []*Player, baseX, rowStep float64) {
	if len(team) == 0 {
		return
	}
	rows := int(math.Ceil(float64(len(team)) / 2))
	playersInRow := int(math.Ceil(float64(len(team)) / float64(rows)))
	for i, player := range team {
		row := i / playersInRow
		col := i % playersInRow
		player.X = baseX + float64(row)*rowStep
		player.Y = (g.gameMap.Height / float64(playersInRow+1)) * float64(col+1)
		player.VX = 0
		player.VY = 0
	}
}

// TickClock advances the match clock by one second. The clock only runs
// once the room has ever had a player and stops for good when the game
// ends. Returns true when this tick hit the time limit.
func (g *Game) TickClock() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.players) > 0 {
		g.gameStarted = true
	}
	if g.gameEnded || !g.gameStarted {
		return false
	}
	g.gameTime++
	if g.maxTime > 0 && g.gameTime >= g.maxTime {
		g.gameEnded = true
		return true
	}
	return false
}

// UpdateSettings applies a partial settings update, clamping each limit to
// its allowed range. A nil field leaves the current value alone.
func (g *Game) UpdateSettings(maxTime, maxScore *int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if maxTime != nil {
		g.maxTime = int(Clamp(float64(*maxTime), 0, MaxTimeLimit))
	}
	if maxScore != nil {
		g.maxScore = int(Clamp(float64(*maxScore), 0, MaxScoreLimit))
	}
}

// Restart resets clock, score, kickoff state and field positions while
// keeping membership, host and settings.
func (g *Game) Restart() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gameTime = 0
	g.score = Score{}
	g.gameEnded = false
	g.kickoffTeam = ""
	g.ballTouched = false
	g.kickEffects = nil
	g.ball.Reset(g.gameMap)
	g.positionForKickoff()
	g.startedAt = time.Now()
}

// Elapsed returns the wall-clock duration since room creation or the last
// restart.
func (g *Game) Elapsed() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return time.Since(g.startedAt)
}

// Snapshot returns a deep copy of the full broadcastable room state.
func (g *Game) Snapshot() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() GameState {
	players := make(map[string]Player, len(g.players))
	for id, p := range g.players {
		players[id] = *p
	}
	effects := make([]KickEffect, 0, len(g.kickEffects))
	for _, e := range g.kickEffects {
		effects = append(effects, *e)
	}
	return GameState{
		Players:     players,
		Ball:        *g.ball,
		Score:       g.score,
		Map:         g.gameMap,
		KickoffTeam: g.kickoffTeam,
		BallTouched: g.ballTouched,
		HostID:      g.hostID,
		GameTime:    g.gameTime,
		MaxTime:     g.maxTime,
		MaxScore:    g.maxScore,
		GameEnded:   g.gameEnded,
		KickEffects: effects,
	}
}

// Broadcast sends a message to every client in the room.
func (g *Game) Broadcast(msg Envelope) {
	for _, c := range g.broadcasters() {
		c.SendJSON(msg)
	}
}

// BroadcastRaw fans pre-marshaled bytes out to every client in the room.
// The per-tick state broadcast uses it to marshal once per room.
func (g *Game) BroadcastRaw(data []byte) {
	for _, c := range g.broadcasters() {
		c.SendRaw(data)
	}
}

func (g *Game) broadcasters() []Broadcaster {
	g.mu.Lock()
	defer g.mu.Unlock()
	clients := make([]Broadcaster, 0, len(g.clients))
	for _, c := range g.clients {
		clients = append(clients, c)
	}
	return clients
}
