package session

import (
	"github.com/park285/dama-server/internal/dama"
	"github.com/park285/dama-server/pkg/damadto"
)

func toDTOSquare(sq dama.Square) damadto.Square {
	return damadto.Square{Row: sq.Row, Col: sq.Col}
}

// FromDTOSquare converts a wire coordinate.
func FromDTOSquare(sq damadto.Square) dama.Square {
	return dama.Sq(sq.Row, sq.Col)
}

// DTOSquares converts a list of squares for the legal-moves event.
func DTOSquares(in []dama.Square) damadto.LegalMoves {
	out := make(damadto.LegalMoves, 0, len(in))
	for _, sq := range in {
		out = append(out, toDTOSquare(sq))
	}
	return out
}
