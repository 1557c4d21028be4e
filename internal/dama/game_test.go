package dama

import (
	"errors"
	"math/rand"
	"testing"
)

func TestOpeningStepFlipsTurn(t *testing.T) {
	g := NewGame(Rules{})
	res, err := g.Apply(SideA, Sq(5, 0), Sq(4, 0))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Chaining || res.Turn != SideB || g.Turn != SideB {
		t.Fatalf("expected B to move without chaining, got %+v", res)
	}
	if g.Board.At(Sq(4, 0)) != ManA || g.Board.At(Sq(5, 0)) != Empty {
		t.Fatalf("piece not relocated")
	}
}

func TestWrongTurnLeavesGameUntouched(t *testing.T) {
	g := NewGame(Rules{})
	before := g.Board
	if _, err := g.Apply(SideB, Sq(2, 0), Sq(3, 0)); !errors.Is(err, ErrWrongTurn) {
		t.Fatalf("expected ErrWrongTurn, got %v", err)
	}
	if g.Board != before || g.Turn != SideA {
		t.Fatalf("state changed on rejected move")
	}
}

func TestQuietMoveRejectedWhenCaptureAvailable(t *testing.T) {
	b := boardWith(map[Square]Cell{Sq(4, 2): ManA, Sq(3, 2): ManB, Sq(6, 6): ManA})
	g := NewGameFromBoard(b, SideA, Rules{})
	before := g.Board

	for _, tc := range []struct {
		from, to Square
	}{
		{Sq(4, 2), Sq(4, 3)},
		{Sq(6, 6), Sq(5, 6)},
	} {
		if _, err := g.Apply(SideA, tc.from, tc.to); !errors.Is(err, ErrMandatoryCapture) {
			t.Fatalf("%v->%v: expected ErrMandatoryCapture, got %v", tc.from, tc.to, err)
		}
	}
	if _, err := g.Apply(SideA, Sq(6, 6), Sq(2, 2)); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for nonsense move, got %v", err)
	}
	if g.Board != before {
		t.Fatalf("board changed on rejected move")
	}
}

func TestCaptureRemovesExactlyOneOpponent(t *testing.T) {
	b := boardWith(map[Square]Cell{Sq(4, 2): ManA, Sq(3, 2): ManB, Sq(1, 6): ManB, Sq(6, 6): ManA})
	g := NewGameFromBoard(b, SideA, Rules{})
	res, err := g.Apply(SideA, Sq(4, 2), Sq(2, 2))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !res.Move.Capture || res.Move.Captured != Sq(3, 2) {
		t.Fatalf("expected capture of (3,2), got %+v", res.Move)
	}
	if g.Board.Count(SideB) != 1 || g.Board.Count(SideA) != 2 {
		t.Fatalf("counts after capture: A=%d B=%d", g.Board.Count(SideA), g.Board.Count(SideB))
	}
}

func TestChainCapture(t *testing.T) {
	b := boardWith(map[Square]Cell{
		Sq(6, 0): ManA,
		Sq(5, 0): ManB,
		Sq(3, 0): ManB,
		Sq(6, 7): ManA,
		Sq(0, 7): ManB,
	})
	g := NewGameFromBoard(b, SideA, Rules{})

	res, err := g.Apply(SideA, Sq(6, 0), Sq(4, 0))
	if err != nil {
		t.Fatalf("first capture: %v", err)
	}
	if !res.Chaining || g.State != AwaitingChainContinuation || g.Turn != SideA || g.ChainFrom != Sq(4, 0) {
		t.Fatalf("expected chain continuation from (4,0), got %+v state=%v", res, g.State)
	}

	// another piece may not move mid-chain
	if _, err := g.Apply(SideA, Sq(6, 7), Sq(5, 7)); !errors.Is(err, ErrMandatoryCapture) {
		t.Fatalf("expected ErrMandatoryCapture mid-chain, got %v", err)
	}
	if _, err := g.Apply(SideB, Sq(0, 7), Sq(1, 7)); !errors.Is(err, ErrWrongTurn) {
		t.Fatalf("expected ErrWrongTurn mid-chain, got %v", err)
	}

	res, err = g.Apply(SideA, Sq(4, 0), Sq(2, 0))
	if err != nil {
		t.Fatalf("second capture: %v", err)
	}
	if res.Chaining || g.State != AwaitingMove || g.Turn != SideB {
		t.Fatalf("expected turn handover after chain, got %+v", res)
	}
	if res.Outcome != nil {
		t.Fatalf("game should go on, got %+v", res.Outcome)
	}
	if g.Board.Count(SideB) != 1 {
		t.Fatalf("expected one B piece left, got %d", g.Board.Count(SideB))
	}
}

func TestPromotionWithinMove(t *testing.T) {
	b := boardWith(map[Square]Cell{Sq(1, 3): ManA, Sq(7, 7): KingB})
	g := NewGameFromBoard(b, SideA, Rules{})
	res, err := g.Apply(SideA, Sq(1, 3), Sq(0, 3))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !res.Promoted || g.Board.At(Sq(0, 3)) != KingA || g.Board.Kings(SideA) != 1 {
		t.Fatalf("expected promotion on landing, got %+v cell=%d", res, g.Board.At(Sq(0, 3)))
	}

	if _, err := g.Apply(SideB, Sq(7, 7), Sq(6, 7)); err != nil {
		t.Fatalf("B move: %v", err)
	}
	// a king moving backward stays a king
	res, err = g.Apply(SideA, Sq(0, 3), Sq(1, 3))
	if err != nil {
		t.Fatalf("king move: %v", err)
	}
	if res.Promoted || g.Board.At(Sq(1, 3)) != KingA {
		t.Fatalf("king changed: %+v cell=%d", res, g.Board.At(Sq(1, 3)))
	}
}

func TestPromotionOnCapture(t *testing.T) {
	b := boardWith(map[Square]Cell{Sq(2, 3): ManA, Sq(1, 3): ManB, Sq(7, 7): KingB})
	g := NewGameFromBoard(b, SideA, Rules{})
	res, err := g.Apply(SideA, Sq(2, 3), Sq(0, 3))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !res.Promoted || g.Board.At(Sq(0, 3)) != KingA {
		t.Fatalf("capture onto promotion row did not crown: %+v", res)
	}
}

func TestWinByCapturingLastPiece(t *testing.T) {
	b := boardWith(map[Square]Cell{Sq(4, 2): ManA, Sq(3, 2): ManB})
	g := NewGameFromBoard(b, SideA, Rules{})
	res, err := g.Apply(SideA, Sq(4, 2), Sq(2, 2))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Outcome == nil || res.Outcome.Winner != SideA || res.Outcome.Reason != ReasonNoPieces {
		t.Fatalf("expected A to win by no_pieces, got %+v", res.Outcome)
	}
	if _, err := g.Apply(SideB, Sq(0, 0), Sq(1, 0)); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
}

func TestWinByImmobilization(t *testing.T) {
	b := boardWith(map[Square]Cell{
		Sq(6, 0): ManB,
		Sq(7, 0): ManA,
		Sq(6, 1): ManA,
		Sq(6, 2): ManA,
		Sq(5, 0): ManA,
		Sq(3, 5): ManA,
	})
	g := NewGameFromBoard(b, SideA, Rules{})
	res, err := g.Apply(SideA, Sq(3, 5), Sq(2, 5))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Outcome == nil || res.Outcome.Winner != SideA || res.Outcome.Reason != ReasonImmobilized {
		t.Fatalf("expected A to win by immobilization, got %+v", res.Outcome)
	}
}

func TestForfeit(t *testing.T) {
	g := NewGame(Rules{})
	out := g.Forfeit(SideA)
	if out.Winner != SideB || out.Reason != ReasonForfeit || !g.Over() {
		t.Fatalf("unexpected forfeit outcome %+v", out)
	}
}

// Random playouts check the capture, mandatory-capture and promotion properties on
// positions reached by real play.
func TestRandomPlayoutProperties(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		rules := Rules{FlyingKings: seed%2 == 0}
		g := NewGame(rules)
		for ply := 0; ply < 400 && !g.Over(); ply++ {
			legal := g.LegalMoves()
			if len(legal) == 0 {
				t.Fatalf("seed %d: no legal moves but game not over", seed)
			}
			anyCapture := false
			if g.State == AwaitingMove {
				for row := 0; row < Size; row++ {
					for col := 0; col < Size; col++ {
						if g.Board.At(Sq(row, col)).Side() == g.Turn && len(rules.Captures(&g.Board, Sq(row, col))) > 0 {
							anyCapture = true
						}
					}
				}
				for _, mv := range legal {
					if mv.Capture != anyCapture {
						t.Fatalf("seed %d: move %+v breaks the mandatory capture rule", seed, mv)
					}
				}
			}

			mv := legal[rng.Intn(len(legal))]
			mover := g.Turn
			ownBefore, oppBefore := g.Board.Count(mover), g.Board.Count(mover.Opponent())
			kingsBefore := g.Board.Kings(mover)
			if _, err := g.Apply(mover, mv.From, mv.To); err != nil {
				t.Fatalf("seed %d: legal move %+v rejected: %v", seed, mv, err)
			}
			if g.Board.Count(mover) != ownBefore {
				t.Fatalf("seed %d: mover lost a piece on its own move", seed)
			}
			wantOpp := oppBefore
			if mv.Capture {
				wantOpp--
			}
			if got := g.Board.Count(mover.Opponent()); got != wantOpp {
				t.Fatalf("seed %d: opponent count %d want %d", seed, got, wantOpp)
			}
			if g.Board.Kings(mover) < kingsBefore {
				t.Fatalf("seed %d: king demoted", seed)
			}
		}
	}
}
