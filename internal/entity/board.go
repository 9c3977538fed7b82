package entity

// Mark is the content of a single board cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

const BoardSize = 9

// Board is a 3x3 grid stored row-major.
type Board [BoardSize]Mark

// HistoryEntry is the game state right after a move. LastMove is nil for the initial entry.
type HistoryEntry struct {
	Board    Board `json:"board"`
	LastMove *int  `json:"last_move,omitempty"`
}

// Outcome is a completed line and the player who owns it.
type Outcome struct {
	Player       Mark   `json:"player"`
	WinningCells [3]int `json:"winning_cells"`
}

// MoveListItem is one row of the move history shown to the player.
type MoveListItem struct {
	Move      int    `json:"move"`
	Label     string `json:"label"`
	IsCurrent bool   `json:"is_current"`
}

func (that Mark) IsEmpty() bool {
	return that == EmptyCell
}

// Opponent returns the other player's mark. The empty mark has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

// Clone returns an entry that shares no memory with the original.
func (that HistoryEntry) Clone() HistoryEntry {
	if that.LastMove != nil {
		move := *that.LastMove
		that.LastMove = &move
	}
	return that
}

// CloneHistory deep-copies every entry of history.
func CloneHistory(history []HistoryEntry) []HistoryEntry {
	cloned := make([]HistoryEntry, len(history))
	for i, entry := range history {
		cloned[i] = entry.Clone()
	}
	return cloned
}

// With returns a copy of the board with cell set to mark.
func (that Board) With(cell int, mark Mark) Board {
	that[cell] = mark
	return that
}

// Count returns the number of occupied cells.
func (that Board) Count() int {
	n := 0
	for _, cell := range that {
		if !cell.IsEmpty() {
			n++
		}
	}
	return n
}

func (that Board) IsEmpty() bool {
	return that.Count() == 0
}

func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}
