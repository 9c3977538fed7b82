package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

// WinCombos - rows top-to-bottom, columns left-to-right, then both diagonals.
// EvaluateWinner reports the first complete combo in this order.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

const boardWidth = 3

// EvaluateWinner - returns the first completed line on the board, if any.
func EvaluateWinner(board entity.Board) (entity.Outcome, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if !a.IsEmpty() && a == b && b == c {
			return entity.Outcome{Player: a, WinningCells: combo}, true
		}
	}

	return entity.Outcome{}, false
}

// IsFull - checks that no empty cell is left on the board.
func IsFull(board entity.Board) bool {
	return board.Count() == entity.BoardSize
}

// DescribeCell - returns the 1-based row and column of a cell as "row: R, col: C".
func DescribeCell(cell int) (string, error) {
	if !entity.IsValidCell(cell) {
		return "", fmt.Errorf("%w: cell %d", apperror.ErrInvalidIndex, cell)
	}

	row := cell/boardWidth + 1
	col := cell%boardWidth + 1

	return fmt.Sprintf("row: %d, col: %d", row, col), nil
}
