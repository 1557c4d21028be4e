package dama

import (
	"sort"
	"testing"
)

func boardWith(cells map[Square]Cell) Board {
	var b Board
	for sq, c := range cells {
		b.Set(sq, c)
	}
	return b
}

func destinations(moves []Move) []Square {
	out := make([]Square, 0, len(moves))
	for _, mv := range moves {
		out = append(out, mv.To)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

func sameSquares(a, b []Square) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewBoardLayout(t *testing.T) {
	b := NewBoard()
	if got := b.Count(SideA); got != 16 {
		t.Fatalf("side A pieces: got %d want 16", got)
	}
	if got := b.Count(SideB); got != 16 {
		t.Fatalf("side B pieces: got %d want 16", got)
	}
	for _, row := range []int{0, 3, 4, 7} {
		for col := 0; col < Size; col++ {
			if c := b.At(Sq(row, col)); c != Empty {
				t.Fatalf("row %d col %d: expected empty, got %d", row, col, c)
			}
		}
	}
	if b.At(Sq(5, 0)) != ManA || b.At(Sq(2, 0)) != ManB {
		t.Fatalf("unexpected front rows: %v %v", b.At(Sq(5, 0)), b.At(Sq(2, 0)))
	}
}

func TestManNeverMovesBackward(t *testing.T) {
	b := boardWith(map[Square]Cell{Sq(4, 4): ManA, Sq(1, 1): ManB})
	steps, captures := Rules{}.PieceMoves(&b, Sq(4, 4))
	if len(captures) != 0 {
		t.Fatalf("unexpected captures: %v", captures)
	}
	want := []Square{Sq(3, 4), Sq(4, 3), Sq(4, 5)}
	if got := destinations(steps); !sameSquares(got, want) {
		t.Fatalf("side A man steps: got %v want %v", got, want)
	}

	steps, _ = Rules{}.PieceMoves(&b, Sq(1, 1))
	want = []Square{Sq(1, 0), Sq(1, 2), Sq(2, 1)}
	if got := destinations(steps); !sameSquares(got, want) {
		t.Fatalf("side B man steps: got %v want %v", got, want)
	}
}

func TestManCannotCaptureBackward(t *testing.T) {
	b := boardWith(map[Square]Cell{Sq(4, 2): ManA, Sq(5, 2): ManB})
	if caps := (Rules{}).Captures(&b, Sq(4, 2)); len(caps) != 0 {
		t.Fatalf("man captured backward: %v", caps)
	}
}

func TestKingReachIsOneSquareByDefault(t *testing.T) {
	b := boardWith(map[Square]Cell{Sq(4, 4): KingA, Sq(7, 0): KingB, Sq(3, 0): ManA})
	steps, _ := Rules{}.PieceMoves(&b, Sq(4, 4))
	want := []Square{Sq(3, 4), Sq(4, 3), Sq(4, 5), Sq(5, 4)}
	if got := destinations(steps); !sameSquares(got, want) {
		t.Fatalf("king steps: got %v want %v", got, want)
	}

	// a distant opponent is out of reach
	if caps := (Rules{}).Captures(&b, Sq(7, 0)); len(caps) != 0 {
		t.Fatalf("short king captured at distance: %v", caps)
	}
}

func TestFlyingKings(t *testing.T) {
	rules := Rules{FlyingKings: true}

	lone := boardWith(map[Square]Cell{Sq(0, 0): KingA})
	steps, _ := rules.PieceMoves(&lone, Sq(0, 0))
	if len(steps) != 14 {
		t.Fatalf("flying king on empty board: got %d steps want 14", len(steps))
	}

	b := boardWith(map[Square]Cell{Sq(7, 0): KingA, Sq(3, 0): ManB})
	legal := rules.LegalMoves(&b, SideA)
	want := []Square{Sq(0, 0), Sq(1, 0), Sq(2, 0)}
	if got := destinations(legal); !sameSquares(got, want) {
		t.Fatalf("flying capture landings: got %v want %v", got, want)
	}
	for _, mv := range legal {
		if !mv.Capture || mv.Captured != Sq(3, 0) {
			t.Fatalf("expected capture of (3,0), got %+v", mv)
		}
	}

	// two pieces in a row cannot be jumped
	blocked := boardWith(map[Square]Cell{Sq(7, 0): KingA, Sq(3, 0): ManB, Sq(2, 0): ManB})
	if caps := rules.Captures(&blocked, Sq(7, 0)); len(caps) != 0 {
		t.Fatalf("jumped over two pieces: %v", caps)
	}
}

func TestMandatoryCaptureIsArmyWide(t *testing.T) {
	b := boardWith(map[Square]Cell{
		Sq(4, 2): ManA,
		Sq(3, 2): ManB,
		Sq(6, 6): ManA,
		Sq(6, 0): KingA,
	})
	legal := Rules{}.LegalMoves(&b, SideA)
	if len(legal) != 1 {
		t.Fatalf("expected only the capture, got %v", legal)
	}
	mv := legal[0]
	if !mv.Capture || mv.From != Sq(4, 2) || mv.To != Sq(2, 2) || mv.Captured != Sq(3, 2) {
		t.Fatalf("unexpected capture: %+v", mv)
	}
}

func TestLegalMovesUnionOfCaptures(t *testing.T) {
	b := boardWith(map[Square]Cell{
		Sq(4, 2): ManA,
		Sq(3, 2): ManB,
		Sq(4, 5): ManA,
		Sq(4, 6): ManB,
		Sq(6, 6): ManA,
	})
	var union []Move
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.At(Sq(row, col)).Side() == SideA {
				union = append(union, Rules{}.Captures(&b, Sq(row, col))...)
			}
		}
	}
	legal := Rules{}.LegalMoves(&b, SideA)
	if !sameSquares(destinations(legal), destinations(union)) || len(legal) != 2 {
		t.Fatalf("legal %v != union of captures %v", legal, union)
	}
}
