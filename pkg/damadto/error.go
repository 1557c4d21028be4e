package damadto

// Error codes carried by DomainError and the outbound error/move-rejected events.
const (
	CodeWrongTurn                 = "WrongTurn"
	CodeIllegalMove               = "IllegalMove"
	CodeMandatoryCaptureViolation = "MandatoryCaptureViolation"
	CodeSessionNotFound           = "SessionNotFound"
	CodeRoomFull                  = "RoomFull"
	CodeOpponentDeparted          = "OpponentDeparted"
	CodeQueueRaceRetry            = "QueueRaceRetry"
	CodeGameOver                  = "GameOver"
	CodeBusy                      = "Busy"
	CodeNotRegistered             = "NotRegistered"
	CodeBadRequest                = "BadRequest"
	CodeInternal                  = "Internal"
)

type DomainError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "dama service error"
}

func badRequest(msg string) DomainError {
	return DomainError{Code: CodeBadRequest, Message: msg}
}
