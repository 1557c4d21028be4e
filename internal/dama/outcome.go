package dama

// Reason explains how a game ended.
type Reason string

const (
	ReasonNoPieces    Reason = "no_pieces"
	ReasonImmobilized Reason = "immobilized"
	ReasonForfeit     Reason = "forfeit"
)

// Outcome is a terminal result. There is no draw.
type Outcome struct {
	Winner Side
	Reason Reason
}

// Evaluate reports the outcome of a position at a turn boundary with toMove to
// play, or nil while the game goes on. It must not be called mid-chain.
func Evaluate(b *Board, toMove Side, r Rules) *Outcome {
	if b.Count(toMove) == 0 {
		return &Outcome{Winner: toMove.Opponent(), Reason: ReasonNoPieces}
	}
	if b.Count(toMove.Opponent()) == 0 {
		return &Outcome{Winner: toMove, Reason: ReasonNoPieces}
	}
	if len(r.LegalMoves(b, toMove)) == 0 {
		return &Outcome{Winner: toMove.Opponent(), Reason: ReasonImmobilized}
	}
	return nil
}
