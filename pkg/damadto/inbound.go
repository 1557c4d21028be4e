package damadto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Inbound message types.
const (
	TypeRegisterIdentity = "register-identity"
	TypeEnqueueRanked    = "enqueue-ranked"
	TypeCancelRanked     = "cancel-ranked"
	TypeCreateRoom       = "create-room"
	TypeJoinRoom         = "join-room"
	TypeQueryLegalMoves  = "query-legal-moves"
	TypeSubmitMove       = "submit-move"
	TypeLeaveSession     = "leave-session"
)

// Envelope is the tagged frame every message travels in.
type Envelope struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Square is a board coordinate on the wire.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) valid() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

// Intent is a decoded, validated inbound message.
type Intent interface {
	IntentType() string
	Validate() error
}

type RegisterIdentity struct {
	DisplayName string `json:"displayName"`
}

type EnqueueRanked struct{}

type CancelRanked struct{}

type CreateRoom struct{}

type JoinRoom struct {
	RoomID string `json:"roomId"`
}

type QueryLegalMoves struct {
	RoomID string  `json:"roomId"`
	From   *Square `json:"from"`
}

type SubmitMove struct {
	RoomID string  `json:"roomId"`
	From   *Square `json:"from"`
	To     *Square `json:"to"`
}

type LeaveSession struct {
	RoomID string `json:"roomId"`
}

func (RegisterIdentity) IntentType() string { return TypeRegisterIdentity }
func (EnqueueRanked) IntentType() string    { return TypeEnqueueRanked }
func (CancelRanked) IntentType() string     { return TypeCancelRanked }
func (CreateRoom) IntentType() string       { return TypeCreateRoom }
func (JoinRoom) IntentType() string         { return TypeJoinRoom }
func (QueryLegalMoves) IntentType() string  { return TypeQueryLegalMoves }
func (SubmitMove) IntentType() string       { return TypeSubmitMove }
func (LeaveSession) IntentType() string     { return TypeLeaveSession }

func (r RegisterIdentity) Validate() error { return nil }
func (EnqueueRanked) Validate() error      { return nil }
func (CancelRanked) Validate() error       { return nil }
func (CreateRoom) Validate() error         { return nil }

func (j JoinRoom) Validate() error { return requireRoom(j.RoomID) }

func (q QueryLegalMoves) Validate() error {
	if err := requireRoom(q.RoomID); err != nil {
		return err
	}
	return requireSquare("from", q.From)
}

func (s SubmitMove) Validate() error {
	if err := requireRoom(s.RoomID); err != nil {
		return err
	}
	if err := requireSquare("from", s.From); err != nil {
		return err
	}
	return requireSquare("to", s.To)
}

func (l LeaveSession) Validate() error { return requireRoom(l.RoomID) }

func requireRoom(id string) error {
	if strings.TrimSpace(id) == "" {
		return badRequest("roomId is required")
	}
	return nil
}

func requireSquare(field string, sq *Square) error {
	if sq == nil {
		return badRequest(field + " is required")
	}
	if !sq.valid() {
		return badRequest(fmt.Sprintf("%s out of range: (%d,%d)", field, sq.Row, sq.Col))
	}
	return nil
}

// DecodeIntent turns an envelope into a validated intent. Every failure is a
// DomainError with CodeBadRequest.
func DecodeIntent(env Envelope) (Intent, error) {
	var in Intent
	switch env.Type {
	case TypeRegisterIdentity:
		in = &RegisterIdentity{}
	case TypeEnqueueRanked:
		in = &EnqueueRanked{}
	case TypeCancelRanked:
		in = &CancelRanked{}
	case TypeCreateRoom:
		in = &CreateRoom{}
	case TypeJoinRoom:
		in = &JoinRoom{}
	case TypeQueryLegalMoves:
		in = &QueryLegalMoves{}
	case TypeSubmitMove:
		in = &SubmitMove{}
	case TypeLeaveSession:
		in = &LeaveSession{}
	case "":
		return nil, badRequest("type is required")
	default:
		return nil, badRequest("unknown message type: " + env.Type)
	}
	if len(env.Payload) > 0 && string(env.Payload) != "null" {
		if err := json.Unmarshal(env.Payload, in); err != nil {
			return nil, badRequest("malformed payload: " + err.Error())
		}
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}
