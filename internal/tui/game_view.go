// Package tui renders a game session in the terminal with tview.
package tui

import (
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/session"
)

const (
	boardSide = 3

	hint = "enter: play / jump   tab: board <-> moves   r: reverse moves   q: quit"
)

var (
	winningStyle = tcell.StyleDefault.Background(tcell.ColorDarkGreen).Foreground(tcell.ColorWhite).Bold(true)
	markColors   = map[entity.Mark]tcell.Color{
		entity.PlayerX: tcell.ColorDodgerBlue,
		entity.PlayerO: tcell.ColorOrange,
	}
)

// GameView owns one session and is driven only from the tview event loop.
type GameView struct {
	logger *slog.Logger
	app    *tview.Application
	game   *session.Session

	root   *tview.Flex
	board  *tview.Table
	status *tview.TextView
	moves  *tview.List
}

func New(logger *slog.Logger, app *tview.Application) *GameView {
	that := &GameView{
		logger: logger.With("component", "tui"),
		app:    app,
		game:   session.New(),
		board:  tview.NewTable(),
		status: tview.NewTextView(),
		moves:  tview.NewList(),
	}

	that.board.
		SetBorders(true).
		SetSelectable(true, true).
		SetSelectedFunc(func(row, column int) {
			that.Play(row*boardSide + column)
		})
	that.board.SetBorder(true).SetTitle(" Board ")

	that.status.SetTextAlign(tview.AlignCenter)

	that.moves.ShowSecondaryText(false)
	that.moves.SetBorder(true).SetTitle(" Moves ")

	footer := tview.NewTextView().SetText(hint).SetTextAlign(tview.AlignCenter)

	that.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewFlex().
			AddItem(that.board, 0, 1, true).
			AddItem(that.moves, 0, 1, false), 0, 1, true).
		AddItem(that.status, 1, 0, false).
		AddItem(footer, 1, 0, false)
	that.root.SetInputCapture(that.handleKey)

	that.redraw()

	return that
}

// Run - blocks until the user quits.
func (that *GameView) Run() error {
	return that.app.SetRoot(that.root, true).SetFocus(that.board).Run()
}

// Play - places the next mark on cell.
func (that *GameView) Play(cell int) {
	applied, err := that.game.ApplyMove(cell)
	if err != nil {
		that.logger.Error("failed to apply move", "cell", cell, "error", err)
		return
	}

	if !applied {
		that.logger.Debug("move ignored", "cell", cell)
		return
	}

	that.logger.Debug("move applied", "cell", cell, "cursor", that.game.Cursor())
	that.redraw()
}

// Jump - shows the board as it was at step.
func (that *GameView) Jump(step int) {
	if err := that.game.JumpTo(step); err != nil {
		that.logger.Error("failed to jump", "step", step, "error", err)
		return
	}

	that.redraw()
	that.app.SetFocus(that.board)
}

func (that *GameView) ToggleOrder() {
	that.game.ToggleDisplayOrder()
	that.redraw()
}

func (that *GameView) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch {
	case event.Key() == tcell.KeyTab:
		if that.board.HasFocus() {
			that.app.SetFocus(that.moves)
		} else {
			that.app.SetFocus(that.board)
		}
		return nil
	case event.Key() == tcell.KeyRune && event.Rune() == 'r':
		that.ToggleOrder()
		return nil
	case event.Key() == tcell.KeyRune && event.Rune() == 'q':
		that.app.Stop()
		return nil
	}

	return event
}

// redraw - rebuilds every widget from the current view.
func (that *GameView) redraw() {
	view := that.game.View()

	that.drawBoard(view)
	that.drawMoves(view)

	that.status.SetText(view.Status)
	if next, ok := markColors[view.NextPlayer]; ok && view.Phase != session.PhaseWon && view.Phase != session.PhaseDrawn {
		that.status.SetTextColor(next)
	} else {
		that.status.SetTextColor(tcell.ColorWhite)
	}
}

func (that *GameView) drawBoard(view session.View) {
	winning := make(map[int]bool, len(view.WinningCells))
	for _, cell := range view.WinningCells {
		winning[cell] = true
	}

	for cell, mark := range view.Board {
		text := " " + string(mark) + " "
		if mark.IsEmpty() {
			text = "   "
		}

		tableCell := tview.NewTableCell(text).SetAlign(tview.AlignCenter).SetExpansion(1)
		if color, ok := markColors[mark]; ok {
			tableCell.SetTextColor(color)
		}

		if winning[cell] {
			tableCell.SetStyle(winningStyle)
		}

		that.board.SetCell(cell/boardSide, cell%boardSide, tableCell)
	}
}

func (that *GameView) drawMoves(view session.View) {
	that.moves.Clear()

	for index, item := range view.Moves {
		step := item.Move
		that.moves.AddItem(item.Label, "", 0, func() {
			that.Jump(step)
		})

		if item.IsCurrent {
			that.moves.SetCurrentItem(index)
		}
	}
}
