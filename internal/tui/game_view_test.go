package tui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-history/internal/session"
	"github.com/rocketscienceinc/tictactoe-history/testing/suite"
)

func newView(t *testing.T) *GameView {
	t.Helper()

	return New(suite.Logger(), tview.NewApplication())
}

func cellText(view *GameView, cell int) string {
	return strings.TrimSpace(view.board.GetCell(cell/boardSide, cell%boardSide).Text)
}

func moveLabels(view *GameView) []string {
	labels := make([]string, view.moves.GetItemCount())
	for i := range labels {
		labels[i], _ = view.moves.GetItemText(i)
	}
	return labels
}

func TestGameView_Initial(t *testing.T) {
	// When: the view is created
	view := newView(t)

	// Then: an empty board, X to move and a single start entry are shown
	for cell := 0; cell < 9; cell++ {
		assert.Empty(t, cellText(view, cell))
	}
	assert.Equal(t, "Next player: X", view.status.GetText(true))
	assert.Equal(t, []string{"Go to game start"}, moveLabels(view))
}

func TestGameView_Play(t *testing.T) {
	t.Run("Marks alternate and the list grows", func(t *testing.T) {
		// Given: a new view
		view := newView(t)

		// When: two cells are played
		view.Play(4)
		view.Play(0)

		// Then: both marks are drawn and X is next
		assert.Equal(t, "X", cellText(view, 4))
		assert.Equal(t, "O", cellText(view, 0))
		assert.Equal(t, "Next player: X", view.status.GetText(true))
		assert.Equal(t, []string{
			"Go to game start",
			"Go to move: row: 2, col: 2",
			"Go to move: row: 1, col: 1",
		}, moveLabels(view))
		assert.Equal(t, 2, view.moves.GetCurrentItem())
	})

	t.Run("Occupied cell is ignored", func(t *testing.T) {
		view := newView(t)
		view.Play(4)

		view.Play(4)

		assert.Equal(t, 1, view.game.Cursor())
		assert.Equal(t, "Next player: O", view.status.GetText(true))
	})

	t.Run("Winning line is highlighted", func(t *testing.T) {
		// Given: X about to complete the left column
		view := newView(t)
		for _, cell := range []int{0, 1, 3, 4} {
			view.Play(cell)
		}

		// When: X plays the last cell of the column
		view.Play(6)

		// Then: the winner is announced and only the column is highlighted
		assert.Equal(t, "Winner: X", view.status.GetText(true))
		assert.Equal(t, session.PhaseWon, view.game.Phase())

		for cell := 0; cell < 9; cell++ {
			got := view.board.GetCell(cell/boardSide, cell%boardSide).BackgroundColor
			if cell == 0 || cell == 3 || cell == 6 {
				assert.Equal(t, tcell.ColorDarkGreen, got, "cell %d", cell)
			} else {
				assert.NotEqual(t, tcell.ColorDarkGreen, got, "cell %d", cell)
			}
		}

		// When: another cell is played after the win
		view.Play(8)

		// Then: nothing changes
		assert.Empty(t, cellText(view, 8))
	})
}

func TestGameView_Jump(t *testing.T) {
	// Given: a game with three moves
	view := newView(t)
	for _, cell := range []int{0, 4, 8} {
		view.Play(cell)
	}

	// When: the user jumps back to the first move
	view.Jump(1)

	// Then: only the first mark is shown and the history is kept
	assert.Equal(t, "X", cellText(view, 0))
	assert.Empty(t, cellText(view, 4))
	assert.Empty(t, cellText(view, 8))
	assert.Equal(t, "Next player: O", view.status.GetText(true))
	assert.Equal(t, 4, view.moves.GetItemCount())
	assert.Equal(t, 1, view.moves.GetCurrentItem())

	// When: a new move is played from there
	view.Play(2)

	// Then: the discarded future is gone from the list
	assert.Equal(t, 3, view.moves.GetItemCount())
	assert.Equal(t, "O", cellText(view, 2))

	t.Run("Out of range step is ignored", func(t *testing.T) {
		view.Jump(10)

		assert.Equal(t, 2, view.game.Cursor())
	})
}

func TestGameView_HandleKey(t *testing.T) {
	t.Run("r reverses the move list", func(t *testing.T) {
		// Given: a game with one move
		view := newView(t)
		view.Play(8)

		// When: r is pressed
		got := view.handleKey(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))

		// Then: the key is consumed and the newest move is listed first
		require.Nil(t, got)
		assert.Equal(t, []string{"Go to move: row: 3, col: 3", "Go to game start"}, moveLabels(view))
		assert.Equal(t, 0, view.moves.GetCurrentItem())

		// When: r is pressed again
		view.handleKey(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))

		// Then: the original order is back
		assert.Equal(t, []string{"Go to game start", "Go to move: row: 3, col: 3"}, moveLabels(view))
	})

	t.Run("Tab moves focus between board and moves", func(t *testing.T) {
		view := newView(t)
		view.app.SetFocus(view.board)

		require.Nil(t, view.handleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)))
		assert.True(t, view.moves.HasFocus())

		require.Nil(t, view.handleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)))
		assert.True(t, view.board.HasFocus())
	})

	t.Run("Other keys pass through", func(t *testing.T) {
		view := newView(t)
		event := tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)

		assert.Same(t, event, view.handleKey(event))
	})
}
