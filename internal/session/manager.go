package session

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/park285/dama-server/internal/dama"
	"github.com/park285/dama-server/internal/msgcat"
	"github.com/park285/dama-server/internal/obslog"
	"github.com/park285/dama-server/pkg/damadto"
	"go.uber.org/zap"
)

// ReasonCancelled ends a room that never got an opponent.
const ReasonCancelled = "cancelled"

const (
	maxNameRunes   = 24
	defaultName    = "Player"
	publishTimeout = 3 * time.Second
)

// Notifier delivers outbound events to a connected identity. Send must not block.
type Notifier interface {
	Send(identityID string, ev damadto.Event)
}

// ResultSink receives finished games.
type ResultSink interface {
	Publish(ctx context.Context, r *Result) error
}

// Result summarises a finished session.
type Result struct {
	SessionID  string    `json:"sessionId"`
	Kind       Kind      `json:"kind"`
	WinnerRole Role      `json:"winnerRole"`
	WinnerName string    `json:"winnerName"`
	LoserName  string    `json:"loserName"`
	Reason     string    `json:"reason"`
	Plies      int       `json:"moves"`
	StartedAt  time.Time `json:"startedAt"`
	EndedAt    time.Time `json:"endedAt"`
}

// Ticket tells a room creator or joiner where they sit.
type Ticket struct {
	RoomID string
	Role   Role
}

// Manager runs matchmaking, rooms and moves on top of a Store. Work on a session
// happens under that session's lock; store calls made while holding it follow the
// session-then-store lock order.
type Manager struct {
	store   *Store
	notify  Notifier
	rules   dama.Rules
	catalog *msgcat.Catalog
	sink    ResultSink
}

func NewManager(store *Store, notify Notifier, rules dama.Rules) *Manager {
	if store == nil {
		store = NewStore()
	}
	return &Manager{store: store, notify: notify, rules: rules}
}

// AttachCatalog wires user-facing message templates.
func (m *Manager) AttachCatalog(c *msgcat.Catalog) {
	if m != nil {
		m.catalog = c
	}
}

// AttachResultSink wires a sink that receives every finished game.
func (m *Manager) AttachResultSink(s ResultSink) {
	if m != nil {
		m.sink = s
	}
}

func (m *Manager) Store() *Store { return m.store }

func (m *Manager) text(key string, data any, fallback string) string {
	return m.catalog.Text(key, data, fallback)
}

func (m *Manager) send(id string, ev damadto.Event) {
	if m.notify == nil || id == "" {
		return
	}
	m.notify.Send(id, ev)
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultName
	}
	if utf8.RuneCountInString(name) > maxNameRunes {
		name = string([]rune(name)[:maxNameRunes])
	}
	return name
}

// Register records a display name for identityID and returns the stored name.
func (m *Manager) Register(identityID, displayName string) (string, error) {
	ident, err := m.store.Register(identityID, normalizeName(displayName))
	if err != nil {
		return "", err
	}
	obslog.L().Info("identity_register", zap.String("identity_id", ident.ID), zap.String("name", ident.Name))
	return ident.Name, nil
}

// Enqueue puts identityID into the ranked queue and pairs whoever can be paired.
func (m *Manager) Enqueue(identityID string) error {
	pos, err := m.store.Enqueue(identityID)
	if err != nil {
		return err
	}
	obslog.L().Info("queue_enqueue", zap.String("identity_id", identityID), zap.Int("position", pos))
	m.pair(identityID)
	return nil
}

// pair drains the queue. Queue positions are re-announced to everyone still
// waiting when pairs formed; otherwise only trigger hears its position.
func (m *Manager) pair(trigger string) {
	started, waiting := m.store.DrainPairs(m.rules)
	for _, sess := range started {
		obslog.L().Info("queue_pair",
			zap.String("session_id", sess.ID),
			zap.String("player_a", sess.Players[0].ID),
			zap.String("player_b", sess.Players[1].ID))
		m.announceStart(sess)
		sess.mu.Unlock()
	}
	for _, w := range waiting {
		if len(started) == 0 && w.ID != trigger {
			continue
		}
		m.send(w.ID, damadto.QueueStatus{
			Message:  m.text("queue.waiting", map[string]any{"Position": w.Position}, "Waiting for an opponent."),
			Position: w.Position,
		})
	}
}

// CancelQueue removes identityID from the ranked queue. Cancelling when not queued
// is a no-op.
func (m *Manager) CancelQueue(identityID string) {
	if !m.store.Dequeue(identityID) {
		return
	}
	obslog.L().Info("queue_cancel", zap.String("identity_id", identityID))
	m.send(identityID, damadto.QueueStatus{Message: m.text("queue.left", nil, "You left the ranked queue."), Position: 0})
	m.pair("")
}

// CreateRoom opens a room for identityID, who takes role A.
func (m *Manager) CreateRoom(identityID string) (*Ticket, error) {
	sess, err := m.store.CreateRoom(identityID, m.rules)
	if err != nil {
		return nil, err
	}
	obslog.L().Info("room_create", zap.String("session_id", sess.ID), zap.String("creator_id", identityID))
	return &Ticket{RoomID: sess.ID, Role: RoleA}, nil
}

// JoinRoom seats identityID as role B in the room under code and starts the game.
func (m *Manager) JoinRoom(identityID, code string) (*Ticket, error) {
	sess, ok := m.store.Get(code)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	switch sess.Status {
	case StatusAwaiting:
	case StatusActive:
		return nil, ErrRoomFull
	default:
		return nil, ErrSessionNotFound
	}
	ident, err := m.store.BindJoiner(sess.ID, identityID)
	if err != nil {
		return nil, err
	}
	sess.Players[RoleB.index()] = Player{ID: ident.ID, Name: ident.Name}
	sess.Status = StatusActive
	sess.UpdatedAt = m.store.now()
	obslog.L().Info("room_join", zap.String("session_id", sess.ID), zap.String("joiner_id", identityID))
	m.announceStart(sess)
	return &Ticket{RoomID: sess.ID, Role: RoleB}, nil
}

func (m *Manager) announceStart(sess *Session) {
	board := sess.Game.Board.Ints()
	for _, role := range []Role{RoleA, RoleB} {
		m.send(sess.Player(role).ID, damadto.SessionStarted{
			RoomID:      sess.ID,
			Board:       board,
			SideToMove:  sess.Game.Turn.String(),
			PlayerAName: sess.Players[0].Name,
			PlayerBName: sess.Players[1].Name,
			Role:        string(role),
		})
	}
	obslog.L().Info("session_start", zap.String("session_id", sess.ID), zap.String("kind", string(sess.Kind)))
}

// withSession runs fn under the lock of a session identityID is seated in.
func (m *Manager) withSession(identityID, roomID string, fn func(sess *Session, role Role) error) error {
	sess, ok := m.store.Get(roomID)
	if !ok {
		return ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.Status == StatusFinished || sess.Status == StatusAborted {
		return ErrSessionNotFound
	}
	role, ok := sess.RoleOf(identityID)
	if !ok {
		return ErrSessionNotFound
	}
	return fn(sess, role)
}

// LegalMoves returns the destinations of the piece on from. It is empty unless the
// piece belongs to the caller and the caller is to move.
func (m *Manager) LegalMoves(identityID, roomID string, from dama.Square) ([]dama.Square, error) {
	var out []dama.Square
	err := m.withSession(identityID, roomID, func(sess *Session, role Role) error {
		if sess.Status != StatusActive {
			return ErrNotStarted
		}
		g := sess.Game
		if g.Turn != role.Side() || g.Board.At(from).Side() != role.Side() {
			return nil
		}
		for _, mv := range g.LegalMovesFrom(from) {
			out = append(out, mv.To)
		}
		return nil
	})
	return out, err
}

// SubmitMove validates and applies a move by identityID. Rejections leave the game
// untouched and are returned to the caller only.
func (m *Manager) SubmitMove(identityID, roomID string, from, to dama.Square) (*dama.MoveResult, error) {
	var res *dama.MoveResult
	err := m.withSession(identityID, roomID, func(sess *Session, role Role) error {
		if sess.Status != StatusActive {
			return ErrNotStarted
		}
		r, err := sess.Game.Apply(role.Side(), from, to)
		if err != nil {
			obslog.L().Debug("session_move_rejected",
				zap.String("session_id", sess.ID),
				zap.String("role", string(role)),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
				zap.Error(err))
			return err
		}
		res = r
		sess.UpdatedAt = m.store.now()
		obslog.L().Info("session_move",
			zap.String("session_id", sess.ID),
			zap.String("role", string(role)),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
			zap.Bool("capture", r.Move.Capture),
			zap.Bool("promoted", r.Promoted),
			zap.Bool("chaining", r.Chaining))

		update := damadto.BoardUpdated{
			Board:      sess.Game.Board.Ints(),
			SideToMove: r.Turn.String(),
			Chaining:   r.Chaining,
			LastFrom:   toDTOSquare(from),
			LastTo:     toDTOSquare(to),
		}
		for _, id := range sess.memberIDs() {
			m.send(id, update)
		}
		if r.Outcome != nil {
			m.finish(sess, r.Outcome)
		}
		return nil
	})
	return res, err
}

// Leave removes identityID from a session it is seated in. A game in progress is
// forfeited to the opponent; an unjoined room is cancelled.
func (m *Manager) Leave(identityID, roomID string) error {
	return m.withSession(identityID, roomID, func(sess *Session, _ Role) error {
		m.depart(sess, identityID, "leave")
		return nil
	})
}

// Disconnect forgets identityID, dropping its queue entry and forfeiting its game.
func (m *Manager) Disconnect(identityID string) {
	ident, ok := m.store.Unregister(identityID)
	if !ok {
		return
	}
	if ident.Queued {
		obslog.L().Info("queue_cancel", zap.String("identity_id", identityID), zap.String("cause", "disconnect"))
	}
	if ident.SessionID == "" {
		return
	}
	sess, ok := m.store.Get(ident.SessionID)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	m.depart(sess, identityID, "disconnect")
}

// depart runs with the session lock held.
func (m *Manager) depart(sess *Session, leaverID, cause string) {
	role, ok := sess.RoleOf(leaverID)
	if !ok {
		return
	}
	switch sess.Status {
	case StatusAwaiting:
		sess.Status = StatusAborted
		m.store.Remove(sess.ID, sess.memberIDs()...)
		obslog.L().Info("room_cancel", zap.String("session_id", sess.ID), zap.String("cause", cause))
		m.send(leaverID, damadto.SessionEnded{Reason: ReasonCancelled})
	case StatusActive:
		opp := sess.Player(role.Opponent())
		obslog.L().Info("session_forfeit",
			zap.String("session_id", sess.ID),
			zap.String("leaver_id", leaverID),
			zap.String("cause", cause))
		m.send(opp.ID, damadto.OpponentDeparted{
			Message: m.text("session.opponent_departed", map[string]any{"Name": sess.Player(role).Name}, "Your opponent left the game."),
		})
		m.finish(sess, sess.Game.Forfeit(role.Side()))
	}
}

// finish runs with the session lock held.
func (m *Manager) finish(sess *Session, out *dama.Outcome) {
	sess.Status = StatusFinished
	now := m.store.now()
	sess.UpdatedAt = now
	winner := roleOfSide(out.Winner)
	ended := damadto.SessionEnded{WinningRole: string(winner), Reason: string(out.Reason)}
	ids := sess.memberIDs()
	for _, id := range ids {
		m.send(id, ended)
	}
	m.store.Remove(sess.ID, ids...)
	obslog.L().Info("session_end",
		zap.String("session_id", sess.ID),
		zap.String("winner", string(winner)),
		zap.String("reason", string(out.Reason)),
		zap.Int("plies", sess.Game.Plies))

	if m.sink == nil {
		return
	}
	res := &Result{
		SessionID:  sess.ID,
		Kind:       sess.Kind,
		WinnerRole: winner,
		WinnerName: sess.Player(winner).Name,
		LoserName:  sess.Player(winner.Opponent()).Name,
		Reason:     string(out.Reason),
		Plies:      sess.Game.Plies,
		StartedAt:  sess.CreatedAt,
		EndedAt:    now,
	}
	sink := m.sink
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := sink.Publish(ctx, res); err != nil {
			obslog.L().Warn("result_publish_error", zap.String("session_id", res.SessionID), zap.Error(err))
		}
	}()
}

func (m *Manager) Stats() Stats { return m.store.Stats() }
