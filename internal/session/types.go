package session

import (
	"sync"
	"time"

	"github.com/park285/dama-server/internal/dama"
)

// Role is a player's seat. Role A moves first.
type Role string

const (
	RoleA Role = "A"
	RoleB Role = "B"
)

func roleOfSide(s dama.Side) Role {
	if s == dama.SideB {
		return RoleB
	}
	return RoleA
}

func (r Role) Side() dama.Side {
	if r == RoleB {
		return dama.SideB
	}
	return dama.SideA
}

func (r Role) Opponent() Role {
	if r == RoleB {
		return RoleA
	}
	return RoleB
}

func (r Role) index() int {
	if r == RoleB {
		return 1
	}
	return 0
}

type Kind string

const (
	KindRanked Kind = "ranked"
	KindRoom   Kind = "room"
)

// Status is the lifecycle of a session.
type Status string

const (
	StatusAwaiting Status = "AWAITING_OPPONENT"
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
	StatusAborted  Status = "ABORTED"
)

type Player struct {
	ID   string
	Name string
}

// Session is one game between two bound players. Fields are guarded by mu; the
// store hands out pointers and callers lock before reading or mutating.
type Session struct {
	mu sync.Mutex

	ID        string
	Kind      Kind
	Status    Status
	Game      *dama.Game
	Players   [2]Player
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Session) Player(r Role) Player { return s.Players[r.index()] }

// RoleOf returns the seat bound to identityID.
func (s *Session) RoleOf(identityID string) (Role, bool) {
	switch {
	case identityID == "":
		return "", false
	case s.Players[0].ID == identityID:
		return RoleA, true
	case s.Players[1].ID == identityID:
		return RoleB, true
	}
	return "", false
}

func (s *Session) memberIDs() []string {
	ids := make([]string, 0, 2)
	for _, p := range s.Players {
		if p.ID != "" {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Errors
var (
	ErrInvalidArgs     = errf("invalid arguments")
	ErrSessionNotFound = errf("session not found")
	ErrRoomFull        = errf("room already has two players")
	ErrBusy            = errf("identity already queued or in a session")
	ErrNotRegistered   = errf("identity not registered")
	ErrNotStarted      = errf("session has not started")
	ErrCodeExhausted   = errf("no free room code")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }
