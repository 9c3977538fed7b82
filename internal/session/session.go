// Package session holds the state of a single game: its move history, the step
// currently viewed and the order in which the history is listed.
//
// A Session is not safe for concurrent use. It is meant to be owned by one
// event loop that handles each action to completion before the next one.
package session

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

type Phase string

const (
	PhaseEmpty      Phase = "empty"
	PhaseInProgress Phase = "in_progress"
	PhaseWon        Phase = "won"
	PhaseDrawn      Phase = "drawn"
)

const (
	statusWinner = "Winner: %s"
	statusDraw   = "It's a draw!"
	statusNext   = "Next player: %s"

	labelGameStart = "Go to game start"
	labelGoToMove  = "Go to move: "
)

type Session struct {
	history         []entity.HistoryEntry
	cursor          int
	displayReversed bool
}

// State is the serializable form of a Session.
type State struct {
	History         []entity.HistoryEntry `json:"history"`
	Cursor          int                   `json:"cursor"`
	DisplayReversed bool                  `json:"display_reversed"`
}

// View is an immutable snapshot of everything a presentation layer renders.
type View struct {
	Board           entity.Board          `json:"board"`
	Status          string                `json:"status"`
	NextPlayer      entity.Mark           `json:"next_player"`
	Phase           Phase                 `json:"phase"`
	Cursor          int                   `json:"cursor"`
	Moves           []entity.MoveListItem `json:"moves"`
	WinningCells    []int                 `json:"winning_cells"`
	DisplayReversed bool                  `json:"display_reversed"`
}

// New - creates a session with the empty board as its only entry.
func New() *Session {
	return &Session{
		history: []entity.HistoryEntry{{}},
	}
}

// Restore - rebuilds a session from its serialized state.
// A state that could not have been produced by playing is rejected with apperror.ErrCorruptState.
func Restore(state State) (*Session, error) {
	if err := validateHistory(state.History); err != nil {
		return nil, err
	}

	if state.Cursor < 0 || state.Cursor >= len(state.History) {
		return nil, fmt.Errorf("%w: cursor %d outside history of %d entries", apperror.ErrCorruptState, state.Cursor, len(state.History))
	}

	return &Session{
		history:         entity.CloneHistory(state.History),
		cursor:          state.Cursor,
		displayReversed: state.DisplayReversed,
	}, nil
}

// ApplyMove - places the next player's mark on cell.
// Moves on an occupied cell or after the game is won are ignored and report false.
// Playing from a rewound step discards every entry after it.
func (that *Session) ApplyMove(cell int) (bool, error) {
	if !entity.IsValidCell(cell) {
		return false, fmt.Errorf("%w: cell %d", apperror.ErrInvalidIndex, cell)
	}

	current := that.CurrentBoard()
	if _, won := tictactoe.EvaluateWinner(current); won {
		return false, nil
	}

	if !current[cell].IsEmpty() {
		return false, nil
	}

	mark := that.NextPlayer()
	move := cell

	that.history = append(that.history[:that.cursor+1], entity.HistoryEntry{
		Board:    current.With(cell, mark),
		LastMove: &move,
	})
	that.cursor = len(that.history) - 1

	return true, nil
}

// JumpTo - moves the cursor to a recorded step without touching the history.
func (that *Session) JumpTo(step int) error {
	if step < 0 || step >= len(that.history) {
		return fmt.Errorf("%w: step %d, history has %d entries", apperror.ErrInvalidStep, step, len(that.history))
	}

	that.cursor = step

	return nil
}

// ToggleDisplayOrder - flips the order of MoveList.
func (that *Session) ToggleDisplayOrder() {
	that.displayReversed = !that.displayReversed
}

func (that *Session) CurrentBoard() entity.Board {
	return that.history[that.cursor].Board
}

// NextPlayer - X moves on even steps, O on odd ones.
func (that *Session) NextPlayer() entity.Mark {
	if that.cursor%2 == 0 {
		return entity.PlayerX
	}
	return entity.PlayerO
}

func (that *Session) Cursor() int {
	return that.cursor
}

func (that *Session) Len() int {
	return len(that.history)
}

func (that *Session) DisplayReversed() bool {
	return that.displayReversed
}

// History - returns a deep copy of all recorded entries.
func (that *Session) History() []entity.HistoryEntry {
	return entity.CloneHistory(that.history)
}

func (that *Session) Phase() Phase {
	board := that.CurrentBoard()

	switch _, won := tictactoe.EvaluateWinner(board); {
	case won:
		return PhaseWon
	case tictactoe.IsFull(board):
		return PhaseDrawn
	case that.cursor == 0:
		return PhaseEmpty
	default:
		return PhaseInProgress
	}
}

func (that *Session) Status() string {
	board := that.CurrentBoard()

	if outcome, won := tictactoe.EvaluateWinner(board); won {
		return fmt.Sprintf(statusWinner, outcome.Player)
	}

	if tictactoe.IsFull(board) {
		return statusDraw
	}

	return fmt.Sprintf(statusNext, that.NextPlayer())
}

// WinningCells - the cells of the completed line on the current board, or an empty slice.
func (that *Session) WinningCells() []int {
	outcome, won := tictactoe.EvaluateWinner(that.CurrentBoard())
	if !won {
		return []int{}
	}

	return outcome.WinningCells[:]
}

// MoveList - one item per history entry, reversed when the display order is toggled.
func (that *Session) MoveList() []entity.MoveListItem {
	moves := make([]entity.MoveListItem, len(that.history))

	for move, entry := range that.history {
		item := entity.MoveListItem{
			Move:      move,
			Label:     moveLabel(entry),
			IsCurrent: move == that.cursor,
		}

		if that.displayReversed {
			moves[len(moves)-1-move] = item
		} else {
			moves[move] = item
		}
	}

	return moves
}

func (that *Session) State() State {
	return State{
		History:         that.History(),
		Cursor:          that.cursor,
		DisplayReversed: that.displayReversed,
	}
}

func (that *Session) View() View {
	return View{
		Board:           that.CurrentBoard(),
		Status:          that.Status(),
		NextPlayer:      that.NextPlayer(),
		Phase:           that.Phase(),
		Cursor:          that.cursor,
		Moves:           that.MoveList(),
		WinningCells:    that.WinningCells(),
		DisplayReversed: that.displayReversed,
	}
}

func moveLabel(entry entity.HistoryEntry) string {
	if entry.LastMove == nil {
		return labelGameStart
	}

	// LastMove is checked on every write and on Restore.
	desc, _ := tictactoe.DescribeCell(*entry.LastMove)

	return labelGoToMove + desc
}

// validateHistory - checks that every entry follows from the previous one by a single legal move.
func validateHistory(history []entity.HistoryEntry) error {
	if len(history) == 0 {
		return fmt.Errorf("%w: empty history", apperror.ErrCorruptState)
	}

	if !history[0].Board.IsEmpty() || history[0].LastMove != nil {
		return fmt.Errorf("%w: history must start with the empty board", apperror.ErrCorruptState)
	}

	// X plays step 1, then the marks alternate
	mark := entity.PlayerX

	for step := 1; step < len(history); step++ {
		prev, entry := history[step-1], history[step]

		if entry.LastMove == nil || !entity.IsValidCell(*entry.LastMove) {
			return fmt.Errorf("%w: step %d has no valid last move", apperror.ErrCorruptState, step)
		}

		if _, won := tictactoe.EvaluateWinner(prev.Board); won {
			return fmt.Errorf("%w: step %d follows a finished game", apperror.ErrCorruptState, step)
		}

		cell := *entry.LastMove
		if !prev.Board[cell].IsEmpty() {
			return fmt.Errorf("%w: step %d plays occupied cell %d", apperror.ErrCorruptState, step, cell)
		}

		if entry.Board != prev.Board.With(cell, mark) {
			return fmt.Errorf("%w: step %d does not follow from step %d", apperror.ErrCorruptState, step, step-1)
		}

		mark = mark.Opponent()
	}

	return nil
}
