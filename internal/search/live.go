package search

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/olahol/melody"

	"neeklo-backend/internal/shared/telemetry"
)

const liveStateKey = "search.live"

// Live message types.
const (
	MsgQuery   = "query"
	MsgKey     = "key"
	MsgResults = "results"
	MsgCursor  = "cursor"
	MsgOpen    = "open"
	MsgError   = "error"
)

// Keys accepted in key messages.
const (
	KeyDown  = "ArrowDown"
	KeyUp    = "ArrowUp"
	KeyEnter = "Enter"
)

// ClientMessage is sent by the search modal.
type ClientMessage struct {
	Type string `json:"type"`
	Q    string `json:"q"`
	Key  string `json:"key,omitempty"`
}

// ServerMessage is pushed to the search modal.
type ServerMessage struct {
	Type        string     `json:"type"`
	Seq         uint64     `json:"seq,omitempty"`
	Query       string     `json:"query,omitempty"`
	Results     []Hit      `json:"results,omitempty"`
	Suggestions []string   `json:"suggestions,omitempty"`
	Index       int        `json:"index"`
	Href        string     `json:"href,omitempty"`
	Target      TargetKind `json:"target,omitempty"`
	Message     string     `json:"message,omitempty"`
}

// liveConn is the per-connection search state.
type liveConn struct {
	deb *Debouncer[[]Hit]

	mu      sync.Mutex
	results []Hit
	cursor  Cursor
}

// Live serves debounced search over websockets. Each connection owns one Debouncer.
type Live struct {
	Index    *Index
	Debounce time.Duration
	M        *melody.Melody
}

// NewLive wires melody handlers for idx.
func NewLive(idx *Index, debounce time.Duration) *Live {
	m := melody.New()
	m.Config.MaxMessageSize = 4096
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	l := &Live{Index: idx, Debounce: debounce, M: m}
	m.HandleConnect(l.connect)
	m.HandleDisconnect(l.disconnect)
	m.HandleMessage(l.message)
	m.HandleError(func(s *melody.Session, err error) {
		telemetry.Warn("search.live_error", map[string]any{"error": err})
	})
	return l
}

func (l *Live) connect(s *melody.Session) {
	conn := &liveConn{}
	conn.deb = NewDebouncer(l.Debounce,
		func(_ context.Context, q string) []Hit { return l.Index.Search(q) },
		func(seq uint64, q string, hits []Hit) {
			conn.mu.Lock()
			conn.results = hits
			conn.cursor.Reset(len(hits))
			conn.mu.Unlock()
			msg := ServerMessage{Type: MsgResults, Seq: seq, Query: q, Results: hits}
			if len(hits) == 0 && strings.TrimSpace(q) == "" {
				msg.Suggestions = l.Index.Suggestions()
			}
			push(s, msg)
		},
	)
	s.Set(liveStateKey, conn)
	push(s, ServerMessage{Type: MsgResults, Suggestions: l.Index.Suggestions()})
}

func (l *Live) disconnect(s *melody.Session) {
	if conn, ok := stateOf(s); ok {
		conn.deb.Close()
	}
}

func (l *Live) message(s *melody.Session, raw []byte) {
	conn, ok := stateOf(s)
	if !ok {
		return
	}
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		push(s, ServerMessage{Type: MsgError, Message: "invalid message"})
		return
	}
	switch msg.Type {
	case "", MsgQuery:
		conn.deb.Submit(msg.Q)
	case MsgKey:
		if out, ok := conn.key(msg.Key); ok {
			push(s, out)
		}
	default:
		push(s, ServerMessage{Type: MsgError, Message: "unknown message type"})
	}
}

// key applies keyboard navigation to the current results.
func (c *liveConn) key(k string) (ServerMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch k {
	case KeyDown:
		c.cursor.Down()
	case KeyUp:
		c.cursor.Up()
	case KeyEnter:
		i, ok := c.cursor.Selected()
		if !ok {
			return ServerMessage{}, false
		}
		href := c.results[i].Href
		return ServerMessage{Type: MsgOpen, Index: i, Href: href, Target: Target(href)}, true
	default:
		return ServerMessage{}, false
	}
	return ServerMessage{Type: MsgCursor, Index: c.cursor.Index()}, true
}

func stateOf(s *melody.Session) (*liveConn, bool) {
	v, ok := s.Get(liveStateKey)
	if !ok {
		return nil, false
	}
	conn, ok := v.(*liveConn)
	return conn, ok
}

func push(s *melody.Session, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		telemetry.Error("search.live_encode_failed", map[string]any{"error": err})
		return
	}
	if err := s.Write(data); err != nil {
		telemetry.Debug("search.live_write_failed", map[string]any{"error": err})
	}
}

// AllowOrigins restricts websocket upgrades to the given origins. An empty list
// keeps the same-origin check.
func (l *Live) AllowOrigins(origins []string) {
	if len(origins) == 0 {
		return
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	l.M.Upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}

// Close disconnects every live session.
func (l *Live) Close() error {
	return l.M.Close()
}
