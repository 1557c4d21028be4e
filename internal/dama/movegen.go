package dama

// Move describes one displacement. Captured is meaningful only when Capture is set.
type Move struct {
	From     Square
	To       Square
	Captured Square
	Capture  bool
}

// Rules holds the rule switches of a game.
type Rules struct {
	// FlyingKings lets kings slide along a whole line and capture at a distance.
	// When false a king reaches only the adjacent square, like a man.
	FlyingKings bool
}

var (
	dirLeft       = Square{Row: 0, Col: -1}
	dirRight      = Square{Row: 0, Col: 1}
	allDirections = []Square{{Row: -1}, {Row: 1}, dirLeft, dirRight}
)

// directionsFor returns the directions a piece may travel in. Men never go backward.
func directionsFor(c Cell) []Square {
	if c.IsKing() {
		return allDirections
	}
	return []Square{{Row: c.Side().forward()}, dirLeft, dirRight}
}

// PieceMoves returns the quiet steps and captures of the piece on from, without
// applying the mandatory capture rule.
func (r Rules) PieceMoves(b *Board, from Square) (steps, captures []Move) {
	piece := b.At(from)
	if piece == Empty {
		return nil, nil
	}
	side := piece.Side()
	for _, d := range directionsFor(piece) {
		if piece.IsKing() && r.FlyingKings {
			s, c := flyingMoves(b, from, d, side)
			steps = append(steps, s...)
			captures = append(captures, c...)
			continue
		}
		next := from.add(d)
		if !next.Valid() {
			continue
		}
		occupant := b.At(next)
		switch {
		case occupant == Empty:
			steps = append(steps, Move{From: from, To: next})
		case occupant.Side() == side.Opponent():
			land := next.add(d)
			if land.Valid() && b.At(land) == Empty {
				captures = append(captures, Move{From: from, To: land, Captured: next, Capture: true})
			}
		}
	}
	return steps, captures
}

func flyingMoves(b *Board, from, d Square, side Side) (steps, captures []Move) {
	cur := from.add(d)
	for cur.Valid() && b.At(cur) == Empty {
		steps = append(steps, Move{From: from, To: cur})
		cur = cur.add(d)
	}
	if !cur.Valid() || b.At(cur).Side() != side.Opponent() {
		return steps, nil
	}
	jumped := cur
	for land := jumped.add(d); land.Valid() && b.At(land) == Empty; land = land.add(d) {
		captures = append(captures, Move{From: from, To: land, Captured: jumped, Capture: true})
	}
	return steps, captures
}

// Captures returns the captures available to the piece on from.
func (r Rules) Captures(b *Board, from Square) []Move {
	_, captures := r.PieceMoves(b, from)
	return captures
}

// LegalMoves returns the legal-move set of side. When any piece of the side can
// capture, the set holds every capture of the army and nothing else.
func (r Rules) LegalMoves(b *Board, side Side) []Move {
	var steps, captures []Move
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			sq := Square{Row: row, Col: col}
			piece := b.At(sq)
			if piece == Empty || piece.Side() != side {
				continue
			}
			s, c := r.PieceMoves(b, sq)
			steps = append(steps, s...)
			captures = append(captures, c...)
		}
	}
	if len(captures) > 0 {
		return captures
	}
	return steps
}

func findMove(moves []Move, from, to Square) (Move, bool) {
	for _, mv := range moves {
		if mv.From == from && mv.To == to {
			return mv, true
		}
	}
	return Move{}, false
}
