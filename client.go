package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 120 // inputs arrive at ~60Hz, leave headroom
	maxNameLen        = 16
	maxRoomIDLen      = 32
)

// Client represents one WebSocket connection. Its connection id doubles as
// the player id inside whatever room it joins.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	connID     string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time

	// Account state, zero values for guests
	authPlayerID int64
	authUsername string
}

// NewClient creates a Client with a fresh connection id.
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		connID:     uuid.NewString(),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection until it closes.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes queued messages and protocol-level pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON marshals and queues a message for the client.
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw queues pre-marshaled bytes, dropping them if the client is too
// slow to drain its buffer.
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
	}
}

// handleMessage routes one incoming message by its type tag.
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgJoinRoom:
		c.handleJoinRoom(env.D)
	case MsgPlayerInput:
		c.handlePlayerInput(env.D)
	case MsgChangeMap:
		c.handleChangeMap(env.D)
	case MsgKickPlayer:
		c.handleKick(env.D, false)
	case MsgBanPlayer:
		c.handleKick(env.D, true)
	case MsgUpdateSettings:
		c.handleUpdateSettings(env.D)
	case MsgRestartGame:
		c.handleRestartGame()
	case MsgPing:
		c.SendJSON(Envelope{T: MsgPong})
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	}
}

func (c *Client) handleJoinRoom(data json.RawMessage) {
	var msg JoinRoomMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if msg.RoomID == "" || len(msg.RoomID) > maxRoomIDLen {
		return
	}
	name := msg.PlayerName
	if name == "" {
		name = GenerateGuestName()
	}
	if r := []rune(name); len(r) > maxNameLen {
		name = string(r[:maxNameLen])
	}
	if !msg.Team.Valid() {
		msg.Team = TeamRed
	}

	// Joining while already in a room counts as leaving the old one first.
	c.hub.handleDeparture(c.connID)

	game, isHost, err := c.hub.registry.Join(c.connID, name, msg.Team, msg.RoomID, msg.MapType)
	if err != nil {
		c.SendJSON(Envelope{T: MsgBanned, Data: "You have been banned from this room"})
		return
	}
	game.SetClient(c.connID, c)
	c.hub.Track(EvtPlayerJoin, msg.RoomID, c.connID)

	state := game.Snapshot()
	c.SendJSON(Envelope{T: MsgJoined, Data: JoinedMsg{
		PlayerID:      c.connID,
		GameState:     state,
		AvailableMaps: AvailableMaps(),
		IsHost:        isHost,
	}})
	game.Broadcast(Envelope{T: MsgPlayerJoined, Data: PlayerJoinedMsg{
		PlayerID:   c.connID,
		PlayerName: name,
		Team:       msg.Team,
		GameState:  state,
	}})
}

func (c *Client) handlePlayerInput(data json.RawMessage) {
	var input PlayerInput
	if err := json.Unmarshal(data, &input); err != nil {
		return
	}
	game := c.hub.registry.RoomFor(c.connID)
	if game == nil {
		return
	}
	game.HandleInput(c.connID, input)
}

func (c *Client) handleChangeMap(data json.RawMessage) {
	var msg ChangeMapMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		// The original protocol sends the map type as a bare string.
		var mapType string
		if err := json.Unmarshal(data, &mapType); err != nil {
			return
		}
		msg.MapType = mapType
	}

	sess, ok := c.hub.registry.Session(c.connID)
	if !ok || !ValidMapType(msg.MapType) {
		return
	}
	game := c.hub.registry.Room(sess.RoomID)
	if game == nil {
		return
	}
	if !game.IsHost(c.connID) {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "Only the host can change maps"}})
		return
	}

	rebuilt := c.hub.registry.ChangeMap(sess.RoomID, msg.MapType)
	if rebuilt == nil {
		return
	}
	c.hub.Track(EvtMapChange, sess.RoomID, msg.MapType)
	rebuilt.Broadcast(Envelope{T: MsgMapChanged, Data: MapChangedMsg{
		MapType:   msg.MapType,
		GameState: rebuilt.Snapshot(),
	}})
}

// handleKick handles both kickPlayer and banPlayer; ban additionally records
// the target on the room's ban list.
func (c *Client) handleKick(data json.RawMessage, ban bool) {
	var target string
	if err := json.Unmarshal(data, &target); err != nil {
		var msg TargetMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		target = msg.PlayerID
	}

	game := c.hub.registry.RoomFor(c.connID)
	if game == nil {
		return
	}
	if !game.IsHost(c.connID) {
		action := "kick players"
		if ban {
			action = "ban players"
		}
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "Only the host can " + action}})
		return
	}
	if game.IsHost(target) {
		verb := "kick"
		if ban {
			verb = "ban"
		}
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "Cannot " + verb + " the host"}})
		return
	}
	if !game.HasPlayer(target) {
		return
	}

	var info *LeaveInfo
	if ban {
		info = c.hub.registry.Ban(target)
		c.hub.Track(EvtBan, game.roomID, target)
	} else {
		info = c.hub.registry.Kick(target)
		c.hub.Track(EvtKick, game.roomID, target)
	}
	if info == nil {
		return
	}

	if victim := c.hub.ClientByID(target); victim != nil {
		if ban {
			victim.SendJSON(Envelope{T: MsgBanned, Data: "You have been banned from the room"})
		} else {
			victim.SendJSON(Envelope{T: MsgKicked, Data: "You have been kicked from the room"})
		}
	}
	game.Broadcast(Envelope{T: MsgPlayerLeft, Data: PlayerLeftMsg{
		PlayerID:  target,
		GameState: game.Snapshot(),
	}})
}

func (c *Client) handleUpdateSettings(data json.RawMessage) {
	var msg SettingsMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	game := c.hub.registry.RoomFor(c.connID)
	if game == nil {
		return
	}
	if !game.IsHost(c.connID) {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "Only the host can update game settings"}})
		return
	}

	game.UpdateSettings(msg.MaxTime, msg.MaxScore)
	maxTime, maxScore := game.Settings()
	game.Broadcast(Envelope{T: MsgSettingsUpdated, Data: SettingsUpdatedMsg{
		MaxTime:   maxTime,
		MaxScore:  maxScore,
		GameState: game.Snapshot(),
	}})
}

func (c *Client) handleRestartGame() {
	game := c.hub.registry.RoomFor(c.connID)
	if game == nil {
		return
	}
	if !game.IsHost(c.connID) {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "Only the host can restart the game"}})
		return
	}
	game.Restart()
	game.Broadcast(Envelope{T: MsgGameRestarted, Data: game.Snapshot()})
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "invalid token"}})
		return
	}
	c.authPlayerID = id
	c.authUsername = username
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    msg.Token,
		Username: username,
		PlayerID: id,
	}})
}
