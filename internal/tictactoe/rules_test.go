package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

func TestEvaluateWinner(t *testing.T) {
	t.Run("Finds every line for both players", func(t *testing.T) {
		for _, player := range []entity.Mark{x, o} {
			for _, combo := range WinCombos {
				// Given: a board where only the combo cells are filled by the player
				var board entity.Board
				for _, cell := range combo {
					board[cell] = player
				}

				// When: evaluating the board
				outcome, ok := EvaluateWinner(board)

				// Then: the player wins on exactly that combo
				require.True(t, ok, "combo %v", combo)
				assert.Equal(t, player, outcome.Player)
				assert.Equal(t, combo, outcome.WinningCells)
			}
		}
	})

	t.Run("Column win", func(t *testing.T) {
		// Given: X holds the left column
		board := entity.Board{
			x, o, e,
			x, o, e,
			x, e, e,
		}

		// When: evaluating the board
		outcome, ok := EvaluateWinner(board)

		// Then: X wins on 0, 3, 6
		require.True(t, ok)
		assert.Equal(t, x, outcome.Player)
		assert.Equal(t, [3]int{0, 3, 6}, outcome.WinningCells)
	})

	t.Run("Mixed lines are not a win", func(t *testing.T) {
		// Given: a full board without a uniform line
		board := entity.Board{
			x, o, x,
			x, o, o,
			o, x, x,
		}

		// When: evaluating the board
		_, ok := EvaluateWinner(board)

		// Then: there is no winner
		assert.False(t, ok)
	})

	t.Run("Empty board has no winner", func(t *testing.T) {
		_, ok := EvaluateWinner(entity.Board{})

		assert.False(t, ok)
	})

	t.Run("Several complete lines report the first in order", func(t *testing.T) {
		// Given: a board where the top row and the left column are both X
		board := entity.Board{
			x, x, x,
			x, o, o,
			x, o, o,
		}

		// When: evaluating the board
		outcome, ok := EvaluateWinner(board)

		// Then: the top row wins because rows come first
		require.True(t, ok)
		assert.Equal(t, [3]int{0, 1, 2}, outcome.WinningCells)
	})

	t.Run("Reports a winner iff some line is uniform", func(t *testing.T) {
		// Every board over {empty, X, O} is checked against a direct scan.
		marks := []entity.Mark{e, x, o}
		total := 1
		for i := 0; i < entity.BoardSize; i++ {
			total *= len(marks)
		}

		for n := 0; n < total; n++ {
			var board entity.Board
			code := n
			for i := range board {
				board[i] = marks[code%len(marks)]
				code /= len(marks)
			}

			expected := false
			for _, combo := range WinCombos {
				a := board[combo[0]]
				if a != e && a == board[combo[1]] && a == board[combo[2]] {
					expected = true
					break
				}
			}

			_, ok := EvaluateWinner(board)
			if ok != expected {
				t.Fatalf("board %v: expected winner=%v, got %v", board, expected, ok)
			}
		}
	})
}

func TestIsFull(t *testing.T) {
	assert.False(t, IsFull(entity.Board{}))
	assert.False(t, IsFull(entity.Board{x, o, x, o, x, o, o, x, e}))
	assert.True(t, IsFull(entity.Board{x, o, x, x, o, o, o, x, x}))
}

func TestDescribeCell(t *testing.T) {
	t.Run("Valid cells", func(t *testing.T) {
		expected := []string{
			"row: 1, col: 1", "row: 1, col: 2", "row: 1, col: 3",
			"row: 2, col: 1", "row: 2, col: 2", "row: 2, col: 3",
			"row: 3, col: 1", "row: 3, col: 2", "row: 3, col: 3",
		}

		for cell, want := range expected {
			got, err := DescribeCell(cell)

			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Out of range", func(t *testing.T) {
		for _, cell := range []int{-1, 9, 20} {
			// When: describing a cell outside the board
			_, err := DescribeCell(cell)

			// Then: ErrInvalidIndex is returned
			require.ErrorIs(t, err, apperror.ErrInvalidIndex)
		}
	})
}
