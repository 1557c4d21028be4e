package wsgate

import (
	"fmt"

	"github.com/park285/dama-server/internal/obslog"
	"github.com/park285/dama-server/internal/session"
	"github.com/park285/dama-server/pkg/damadto"
	"go.uber.org/zap"
)

func (s *Server) dispatch(c *client, env damadto.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			obslog.L().Error("ws_handler_panic",
				zap.String("conn_id", c.id),
				zap.String("type", env.Type),
				zap.String("panic", fmt.Sprint(r)))
			s.replyError(c, env.ID, fmt.Errorf("panic: %v", r))
		}
	}()

	in, err := damadto.DecodeIntent(env)
	if err != nil {
		obslog.L().Debug("ws_bad_request", zap.String("conn_id", c.id), zap.String("type", env.Type), zap.Error(err))
		s.replyError(c, env.ID, err)
		return
	}

	switch v := in.(type) {
	case *damadto.RegisterIdentity:
		name, err := s.mgr.Register(c.id, v.DisplayName)
		if err != nil {
			s.replyError(c, env.ID, err)
			return
		}
		s.reply(c, env.ID, damadto.RegisterAck{Name: name})
	case *damadto.EnqueueRanked:
		if err := s.mgr.Enqueue(c.id); err != nil {
			s.replyError(c, env.ID, err)
		}
	case *damadto.CancelRanked:
		s.mgr.CancelQueue(c.id)
	case *damadto.CreateRoom:
		tk, err := s.mgr.CreateRoom(c.id)
		if err != nil {
			s.replyError(c, env.ID, err)
			return
		}
		s.reply(c, env.ID, damadto.CreateRoomAck{RoomID: tk.RoomID, Role: string(tk.Role)})
	case *damadto.JoinRoom:
		tk, err := s.mgr.JoinRoom(c.id, v.RoomID)
		if err != nil {
			s.reply(c, env.ID, damadto.JoinRoomAck{Success: false, Error: codeOf(err)})
			return
		}
		s.reply(c, env.ID, damadto.JoinRoomAck{Success: true, Role: string(tk.Role)})
	case *damadto.QueryLegalMoves:
		dests, err := s.mgr.LegalMoves(c.id, v.RoomID, session.FromDTOSquare(*v.From))
		if err != nil {
			s.replyError(c, env.ID, err)
			return
		}
		s.reply(c, env.ID, session.DTOSquares(dests))
	case *damadto.SubmitMove:
		_, err := s.mgr.SubmitMove(c.id, v.RoomID, session.FromDTOSquare(*v.From), session.FromDTOSquare(*v.To))
		if err != nil {
			de := s.toDomainError(err)
			s.reply(c, env.ID, damadto.MoveRejected{Reason: de.Code, Message: de.Error()})
		}
	case *damadto.LeaveSession:
		if err := s.mgr.Leave(c.id, v.RoomID); err != nil {
			s.replyError(c, env.ID, err)
		}
	default:
		s.replyError(c, env.ID, damadto.DomainError{Code: damadto.CodeBadRequest, Message: "unsupported intent " + in.IntentType()})
	}
}
