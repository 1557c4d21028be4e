package wsgate

import (
	"errors"

	"github.com/park285/dama-server/internal/dama"
	"github.com/park285/dama-server/internal/session"
	"github.com/park285/dama-server/pkg/damadto"
)

// codeOf maps engine and session errors onto wire codes.
func codeOf(err error) string {
	var de damadto.DomainError
	switch {
	case errors.As(err, &de):
		return de.Code
	case errors.Is(err, dama.ErrWrongTurn):
		return damadto.CodeWrongTurn
	case errors.Is(err, dama.ErrMandatoryCapture):
		return damadto.CodeMandatoryCaptureViolation
	case errors.Is(err, dama.ErrIllegalMove), errors.Is(err, session.ErrNotStarted):
		return damadto.CodeIllegalMove
	case errors.Is(err, dama.ErrGameOver):
		return damadto.CodeGameOver
	case errors.Is(err, session.ErrSessionNotFound):
		return damadto.CodeSessionNotFound
	case errors.Is(err, session.ErrRoomFull):
		return damadto.CodeRoomFull
	case errors.Is(err, session.ErrBusy):
		return damadto.CodeBusy
	case errors.Is(err, session.ErrNotRegistered):
		return damadto.CodeNotRegistered
	case errors.Is(err, session.ErrInvalidArgs):
		return damadto.CodeBadRequest
	default:
		return damadto.CodeInternal
	}
}

func (s *Server) toDomainError(err error) damadto.DomainError {
	var de damadto.DomainError
	if errors.As(err, &de) {
		return de
	}
	code := codeOf(err)
	fallback := err.Error()
	if code == damadto.CodeInternal {
		fallback = "internal error"
	}
	return damadto.DomainError{
		Code:      code,
		Message:   s.catalog.Text("reject."+code, nil, fallback),
		Retryable: errors.Is(err, session.ErrCodeExhausted),
	}
}
