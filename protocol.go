package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoinRoom       = "joinRoom"
	MsgPlayerInput    = "playerInput"
	MsgChangeMap      = "changeMap"
	MsgKickPlayer     = "kickPlayer"
	MsgBanPlayer      = "banPlayer"
	MsgUpdateSettings = "updateGameSettings"
	MsgRestartGame    = "restartGame"
	MsgPing           = "ping"
	MsgRegister       = "register"
	MsgLogin          = "login"
	MsgAuth           = "auth"
)

// Server -> Client message types
const (
	MsgJoined          = "joined"
	MsgBanned          = "banned"
	MsgKicked          = "kicked"
	MsgPlayerJoined    = "playerJoined"
	MsgPlayerLeft      = "playerLeft"
	MsgGameUpdate      = "gameUpdate"
	MsgGoal            = "goal"
	MsgMapChanged      = "mapChanged"
	MsgSettingsUpdated = "gameSettingsUpdated"
	MsgGameRestarted   = "gameRestarted"
	MsgGameEnded       = "gameEnded"
	MsgHostTransferred = "hostTransferred"
	MsgNewHost         = "newHost"
	MsgError           = "error"
	MsgPong            = "pong"
	MsgAuthOK          = "authOk"
)

// Envelope wraps all outgoing messages with a type tag.
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is the incoming counterpart — json.RawMessage defers payload
// decoding to the per-type handler.
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// GameState is the full per-room snapshot broadcast every physics tick.
type GameState struct {
	Players     map[string]Player `json:"players"`
	Ball        Ball              `json:"ball"`
	Score       Score             `json:"score"`
	Map         *GameMap          `json:"map"`
	KickoffTeam Team              `json:"kickoffTeam"`
	BallTouched bool              `json:"ballTouched"`
	HostID      string            `json:"hostId"`
	GameTime    int               `json:"gameTime"`
	MaxTime     int               `json:"maxTime"`
	MaxScore    int               `json:"maxScore"`
	GameEnded   bool              `json:"gameEnded"`
	KickEffects []KickEffect      `json:"kickEffects"`
}

// JoinRoomMsg asks to create or join a room.
type JoinRoomMsg struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	Team       Team   `json:"team"`
	MapType    string `json:"mapType"`
}

// JoinedMsg is unicast to a player who entered a room.
type JoinedMsg struct {
	PlayerID      string    `json:"playerId"`
	GameState     GameState `json:"gameState"`
	AvailableMaps []MapInfo `json:"availableMaps"`
	IsHost        bool      `json:"isHost"`
}

// PlayerJoinedMsg is broadcast when a member enters.
type PlayerJoinedMsg struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Team       Team      `json:"team"`
	GameState  GameState `json:"gameState"`
}

// PlayerLeftMsg is broadcast when a member leaves, is kicked or banned.
type PlayerLeftMsg struct {
	PlayerID  string    `json:"playerId"`
	GameState GameState `json:"gameState"`
}

// GoalMsg is broadcast on every goal.
type GoalMsg struct {
	Team      Team      `json:"team"`
	Score     Score     `json:"score"`
	GameState GameState `json:"gameState"`
}

// MapChangedMsg is broadcast after a host map change rebuilt the room.
type MapChangedMsg struct {
	MapType   string    `json:"mapType"`
	GameState GameState `json:"gameState"`
}

// ChangeMapMsg carries the requested map type.
type ChangeMapMsg struct {
	MapType string `json:"mapType"`
}

// TargetMsg names the player a kick/ban is aimed at.
type TargetMsg struct {
	PlayerID string `json:"playerId"`
}

// SettingsMsg is a partial settings update; nil fields stay unchanged.
type SettingsMsg struct {
	MaxTime  *int `json:"maxTime,omitempty"`
	MaxScore *int `json:"maxScore,omitempty"`
}

// SettingsUpdatedMsg is broadcast after a settings change.
type SettingsUpdatedMsg struct {
	MaxTime   int       `json:"maxTime"`
	MaxScore  int       `json:"maxScore"`
	GameState GameState `json:"gameState"`
}

// GameEndedMsg is broadcast when the time or score limit is reached.
type GameEndedMsg struct {
	Reason    string    `json:"reason"` // "time" or "score"
	GameState GameState `json:"gameState"`
}

// NewHostMsg is broadcast after host authority moved to another member.
type NewHostMsg struct {
	HostID    string    `json:"hostId"`
	GameState GameState `json:"gameState"`
}

// ErrorMsg is unicast on rejected actions; no state change accompanies it.
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// RegisterMsg / LoginMsg / AuthMsg are the optional account flow.
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms a successful register/login/token resume.
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"playerId"`
}
