package dama

// TurnState is the state of the turn machine.
type TurnState int

const (
	// AwaitingMove is a normal turn boundary.
	AwaitingMove TurnState = iota
	// AwaitingChainContinuation means the piece on ChainFrom must capture again.
	AwaitingChainContinuation
)

func (t TurnState) String() string {
	if t == AwaitingChainContinuation {
		return "awaiting_chain_continuation"
	}
	return "awaiting_move"
}

// Game is the server-side state of one match. It is not safe for concurrent use;
// callers serialize access per game.
type Game struct {
	Board     Board
	Turn      Side
	State     TurnState
	ChainFrom Square
	Rules     Rules
	Outcome   *Outcome
	Plies     int
}

// NewGame returns a game at the starting position with side A to move.
func NewGame(rules Rules) *Game {
	return &Game{Board: NewBoard(), Turn: SideA, Rules: rules}
}

// NewGameFromBoard returns a game at an arbitrary position.
func NewGameFromBoard(b Board, turn Side, rules Rules) *Game {
	return &Game{Board: b, Turn: turn, Rules: rules}
}

func (g *Game) Over() bool { return g.Outcome != nil }

// LegalMoves recomputes the legal-move set of the side to move. Mid-chain only the
// chaining piece's captures are legal.
func (g *Game) LegalMoves() []Move {
	if g.Over() {
		return nil
	}
	if g.State == AwaitingChainContinuation {
		return g.Rules.Captures(&g.Board, g.ChainFrom)
	}
	return g.Rules.LegalMoves(&g.Board, g.Turn)
}

// LegalMovesFrom narrows LegalMoves to the piece on from.
func (g *Game) LegalMovesFrom(from Square) []Move {
	var out []Move
	for _, mv := range g.LegalMoves() {
		if mv.From == from {
			out = append(out, mv)
		}
	}
	return out
}

// MoveResult reports what Apply did.
type MoveResult struct {
	Move     Move
	Promoted bool
	Chaining bool
	// Turn is the side to move after the move.
	Turn    Side
	Outcome *Outcome
}

// Apply validates a move submitted by side against a freshly computed legal-move
// set and applies it. A rejected move leaves the game untouched.
func (g *Game) Apply(side Side, from, to Square) (*MoveResult, error) {
	if g.Over() {
		return nil, ErrGameOver
	}
	if side != g.Turn {
		return nil, ErrWrongTurn
	}
	if !from.Valid() || !to.Valid() {
		return nil, ErrIllegalMove
	}
	legal := g.LegalMoves()
	mv, ok := findMove(legal, from, to)
	if !ok {
		if g.quietInsteadOfCapture(legal, from, to) {
			return nil, ErrMandatoryCapture
		}
		return nil, ErrIllegalMove
	}

	res := &MoveResult{Move: mv}
	piece := g.Board.At(from)
	g.Board.Set(from, Empty)
	if mv.Capture {
		g.Board.Set(mv.Captured, Empty)
	}
	if piece.IsMan() && to.Row == PromotionRow(side) {
		piece = piece.crowned()
		res.Promoted = true
	}
	g.Board.Set(to, piece)
	g.Plies++

	if mv.Capture && len(g.Rules.Captures(&g.Board, to)) > 0 {
		g.State = AwaitingChainContinuation
		g.ChainFrom = to
		res.Chaining = true
		res.Turn = g.Turn
		return res, nil
	}

	g.State = AwaitingMove
	g.ChainFrom = Square{}
	g.Turn = side.Opponent()
	res.Turn = g.Turn
	if out := Evaluate(&g.Board, g.Turn, g.Rules); out != nil {
		g.Outcome = out
		res.Outcome = out
	}
	return res, nil
}

// Forfeit ends the game in favour of loser's opponent.
func (g *Game) Forfeit(loser Side) *Outcome {
	if g.Outcome == nil {
		g.Outcome = &Outcome{Winner: loser.Opponent(), Reason: ReasonForfeit}
	}
	return g.Outcome
}

// quietInsteadOfCapture reports whether from->to is a quiet step of the mover's own
// piece that was refused only because captures are available.
func (g *Game) quietInsteadOfCapture(legal []Move, from, to Square) bool {
	if len(legal) == 0 || !legal[0].Capture {
		return false
	}
	if g.Board.At(from).Side() != g.Turn {
		return false
	}
	steps, _ := g.Rules.PieceMoves(&g.Board, from)
	_, ok := findMove(steps, from, to)
	return ok
}
