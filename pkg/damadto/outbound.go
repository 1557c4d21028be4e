package damadto

// Outbound message types.
const (
	TypeQueueStatus      = "queue-status"
	TypeSessionStarted   = "session-started"
	TypeLegalMoves       = "legal-moves"
	TypeBoardUpdated     = "board-updated"
	TypeMoveRejected     = "move-rejected"
	TypeSessionEnded     = "session-ended"
	TypeOpponentDeparted = "opponent-departed"
	TypeError            = "error"
	TypeAck              = "ack"
)

// Event is an outbound payload.
type Event interface {
	EventType() string
}

// Message is the outbound frame.
type Message struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Payload any    `json:"payload"`
}

func NewMessage(ev Event) Message {
	return Message{Type: ev.EventType(), Payload: ev}
}

type QueueStatus struct {
	Message  string `json:"message"`
	Position int    `json:"position"`
}

type SessionStarted struct {
	RoomID      string    `json:"roomId"`
	Board       [8][8]int `json:"board"`
	SideToMove  string    `json:"sideToMove"`
	PlayerAName string    `json:"playerAName"`
	PlayerBName string    `json:"playerBName"`
	Role        string    `json:"role"`
}

// LegalMoves lists destination squares of one piece.
type LegalMoves []Square

type BoardUpdated struct {
	Board      [8][8]int `json:"board"`
	SideToMove string    `json:"sideToMove"`
	Chaining   bool      `json:"chaining"`
	LastFrom   Square    `json:"lastFrom"`
	LastTo     Square    `json:"lastTo"`
}

type MoveRejected struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type SessionEnded struct {
	WinningRole string `json:"winningRole"`
	Reason      string `json:"reason"`
}

type OpponentDeparted struct {
	Message string `json:"message"`
}

type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterAck struct {
	Name string `json:"displayName"`
}

type CreateRoomAck struct {
	RoomID string `json:"roomId"`
	Role   string `json:"role"`
}

type JoinRoomAck struct {
	Success bool   `json:"success"`
	Role    string `json:"role,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (QueueStatus) EventType() string      { return TypeQueueStatus }
func (SessionStarted) EventType() string   { return TypeSessionStarted }
func (LegalMoves) EventType() string       { return TypeLegalMoves }
func (BoardUpdated) EventType() string     { return TypeBoardUpdated }
func (MoveRejected) EventType() string     { return TypeMoveRejected }
func (SessionEnded) EventType() string     { return TypeSessionEnded }
func (OpponentDeparted) EventType() string { return TypeOpponentDeparted }
func (ErrorEvent) EventType() string       { return TypeError }
func (RegisterAck) EventType() string      { return TypeAck }
func (CreateRoomAck) EventType() string    { return TypeAck }
func (JoinRoomAck) EventType() string      { return TypeAck }
