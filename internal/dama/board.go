package dama

import "fmt"

// Size is the edge length of the board.
const Size = 8

// Side identifies one of the two armies. Side A moves first and advances toward row 0.
type Side int8

const (
	NoSide Side = iota
	SideA
	SideB
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return ""
	}
}

// Opponent returns the other army. NoSide has no opponent.
func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return NoSide
	}
}

// forward is the row delta a man of this side advances by.
func (s Side) forward() int {
	if s == SideA {
		return -1
	}
	return 1
}

// PromotionRow returns the row on which a man of side s is crowned.
func PromotionRow(s Side) int {
	if s == SideA {
		return 0
	}
	return Size - 1
}

// Cell is the content of one square. The numeric values are the wire encoding.
type Cell uint8

const (
	Empty Cell = iota
	ManA
	ManB
	KingA
	KingB
)

func (c Cell) Side() Side {
	switch c {
	case ManA, KingA:
		return SideA
	case ManB, KingB:
		return SideB
	default:
		return NoSide
	}
}

func (c Cell) IsMan() bool  { return c == ManA || c == ManB }
func (c Cell) IsKing() bool { return c == KingA || c == KingB }

func (c Cell) crowned() Cell {
	switch c {
	case ManA:
		return KingA
	case ManB:
		return KingB
	default:
		return c
	}
}

// ManOf and KingOf return the cell values for a side's pieces.
func ManOf(s Side) Cell {
	if s == SideA {
		return ManA
	}
	return ManB
}

func KingOf(s Side) Cell {
	if s == SideA {
		return KingA
	}
	return KingB
}

// Square addresses a cell by row and column, both in [0, Size).
type Square struct {
	Row int
	Col int
}

func Sq(row, col int) Square { return Square{Row: row, Col: col} }

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

func (s Square) add(d Square) Square { return Square{Row: s.Row + d.Row, Col: s.Col + d.Col} }

func (s Square) String() string { return fmt.Sprintf("(%d,%d)", s.Row, s.Col) }

// Board is the 8x8 grid. It is a value type; copying a Board copies every cell.
type Board [Size][Size]Cell

// NewBoard returns the starting position: B men on rows 1-2, A men on rows 5-6.
func NewBoard() Board {
	var b Board
	for col := 0; col < Size; col++ {
		b[1][col] = ManB
		b[2][col] = ManB
		b[5][col] = ManA
		b[6][col] = ManA
	}
	return b
}

// At returns the cell at sq, or Empty when sq is off the board.
func (b *Board) At(sq Square) Cell {
	if !sq.Valid() {
		return Empty
	}
	return b[sq.Row][sq.Col]
}

// Set places c on sq. Off-board squares are ignored.
func (b *Board) Set(sq Square, c Cell) {
	if !sq.Valid() {
		return
	}
	b[sq.Row][sq.Col] = c
}

// Count returns the number of pieces side has on the board.
func (b *Board) Count(side Side) int {
	n := 0
	for row := range b {
		for _, c := range b[row] {
			if c != Empty && c.Side() == side {
				n++
			}
		}
	}
	return n
}

// Kings returns the number of kings side has on the board.
func (b *Board) Kings(side Side) int {
	n := 0
	for row := range b {
		for _, c := range b[row] {
			if c.IsKing() && c.Side() == side {
				n++
			}
		}
	}
	return n
}

// Ints returns the row-major wire encoding of the board.
func (b *Board) Ints() [Size][Size]int {
	var out [Size][Size]int
	for row := range b {
		for col, c := range b[row] {
			out[row][col] = int(c)
		}
	}
	return out
}
