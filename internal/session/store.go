package session

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/park285/dama-server/internal/dama"
	"github.com/park285/dama-server/internal/obslog"
	"go.uber.org/zap"
)

const maxCodeAttempts = 64

// Identity is a registered connection.
type Identity struct {
	ID        string
	Name      string
	SessionID string
	Queued    bool
}

func (i *Identity) busy() bool { return i.Queued || i.SessionID != "" }

// Waiting is a queue entry still unpaired after a drain.
type Waiting struct {
	ID       string
	Position int
}

// Stats is a point-in-time count of the store.
type Stats struct {
	Identities int `json:"identities"`
	Queued     int `json:"queued"`
	Sessions   int `json:"sessions"`
	Awaiting   int `json:"awaiting"`
}

// Store owns the identity registry, the ranked queue and the session registry.
// All three sit behind one mutex; Store never takes a session lock.
type Store struct {
	mu         sync.Mutex
	identities map[string]*Identity
	queue      []string
	sessions   map[string]*Session
	awaiting   map[string]struct{}

	codeGen func() (string, error)
	newID   func() string
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		identities: make(map[string]*Identity),
		sessions:   make(map[string]*Session),
		awaiting:   make(map[string]struct{}),
		codeGen:    roomCode,
		newID:      func() string { return "m-" + uuid.NewString() },
		now:        time.Now,
	}
}

// roomCode returns a 4-digit numeric code.
func roomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// Register binds a display name to id, creating the identity on first use.
func (s *Store) Register(id, name string) (Identity, error) {
	if strings.TrimSpace(id) == "" {
		return Identity{}, ErrInvalidArgs
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ident, ok := s.identities[id]
	if !ok {
		ident = &Identity{ID: id}
		s.identities[id] = ident
	}
	ident.Name = name
	return *ident, nil
}

func (s *Store) Identity(id string) (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ident, ok := s.identities[id]
	if !ok {
		return Identity{}, false
	}
	return *ident, true
}

// Unregister forgets id and drops its queue entry. The returned copy still carries
// the session binding so the caller can tear the session down.
func (s *Store) Unregister(id string) (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ident, ok := s.identities[id]
	if !ok {
		return Identity{}, false
	}
	delete(s.identities, id)
	if ident.Queued {
		s.removeQueued(id)
	}
	return *ident, true
}

// Enqueue appends id to the ranked queue and returns its 1-based position.
func (s *Store) Enqueue(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ident, ok := s.identities[id]
	if !ok {
		return 0, ErrNotRegistered
	}
	if ident.busy() {
		return 0, ErrBusy
	}
	ident.Queued = true
	s.queue = append(s.queue, id)
	return len(s.queue), nil
}

// Dequeue removes id from the queue. It reports whether an entry was removed.
func (s *Store) Dequeue(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ident, ok := s.identities[id]
	if !ok || !ident.Queued {
		return false
	}
	ident.Queued = false
	s.removeQueued(id)
	return true
}

func (s *Store) removeQueued(id string) {
	for i, qid := range s.queue {
		if qid == id {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

// popLive pops the queue head, skipping entries whose identity vanished.
func (s *Store) popLive() (*Identity, bool) {
	for len(s.queue) > 0 {
		id := s.queue[0]
		s.queue = s.queue[1:]
		ident, ok := s.identities[id]
		if ok && ident.Queued {
			return ident, true
		}
		obslog.L().Debug("queue_race_retry", zap.String("identity_id", id))
	}
	return nil, false
}

// DrainPairs pairs queued identities two at a time in FIFO order until fewer than
// two remain. The earlier identity takes role A. Each new session is registered
// and returned locked: it is reachable only after the caller unlocks it, so the
// caller can announce the start before any move is accepted.
func (s *Store) DrainPairs(rules dama.Rules) ([]*Session, []Waiting) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var started []*Session
	for budget := len(s.queue); budget > 0 && len(s.queue) >= 2; budget-- {
		a, ok := s.popLive()
		if !ok {
			break
		}
		b, ok := s.popLive()
		if !ok {
			s.queue = append([]string{a.ID}, s.queue...)
			break
		}
		now := s.now()
		sess := &Session{
			ID:        s.newID(),
			Kind:      KindRanked,
			Status:    StatusActive,
			Game:      dama.NewGame(rules),
			Players:   [2]Player{{ID: a.ID, Name: a.Name}, {ID: b.ID, Name: b.Name}},
			CreatedAt: now,
			UpdatedAt: now,
		}
		sess.mu.Lock()
		a.Queued, b.Queued = false, false
		a.SessionID, b.SessionID = sess.ID, sess.ID
		s.sessions[sess.ID] = sess
		started = append(started, sess)
	}

	waiting := make([]Waiting, 0, len(s.queue))
	for i, id := range s.queue {
		waiting = append(waiting, Waiting{ID: id, Position: i + 1})
	}
	return started, waiting
}

// CreateRoom opens a room session under a fresh code with creatorID as role A.
func (s *Store) CreateRoom(creatorID string, rules dama.Rules) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ident, ok := s.identities[creatorID]
	if !ok {
		return nil, ErrNotRegistered
	}
	if ident.busy() {
		return nil, ErrBusy
	}

	for i := 0; i < maxCodeAttempts; i++ {
		code, err := s.codeGen()
		if err != nil {
			return nil, fmt.Errorf("room code: %w", err)
		}
		if _, taken := s.sessions[code]; taken {
			continue
		}
		now := s.now()
		sess := &Session{
			ID:        code,
			Kind:      KindRoom,
			Status:    StatusAwaiting,
			Game:      dama.NewGame(rules),
			Players:   [2]Player{{ID: ident.ID, Name: ident.Name}},
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.sessions[code] = sess
		s.awaiting[code] = struct{}{}
		ident.SessionID = code
		return sess, nil
	}
	return nil, ErrCodeExhausted
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[strings.TrimSpace(id)]
	return sess, ok
}

// BindJoiner binds joinerID to the awaiting room sessionID. The caller holds the
// session lock and fills the seat itself.
func (s *Store) BindJoiner(sessionID, joinerID string) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return Identity{}, ErrSessionNotFound
	}
	if _, ok := s.awaiting[sessionID]; !ok {
		return Identity{}, ErrRoomFull
	}
	ident, ok := s.identities[joinerID]
	if !ok {
		return Identity{}, ErrNotRegistered
	}
	if ident.busy() {
		return Identity{}, ErrBusy
	}
	ident.SessionID = sessionID
	delete(s.awaiting, sessionID)
	return *ident, nil
}

// Remove drops the session and clears the binding of every identity still bound to it.
func (s *Store) Remove(sessionID string, identityIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	delete(s.awaiting, sessionID)
	for _, id := range identityIDs {
		if ident, ok := s.identities[id]; ok && ident.SessionID == sessionID {
			ident.SessionID = ""
		}
	}
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Identities: len(s.identities),
		Queued:     len(s.queue),
		Sessions:   len(s.sessions),
		Awaiting:   len(s.awaiting),
	}
}
