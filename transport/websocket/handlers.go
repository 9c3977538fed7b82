package websocket

import (
	"context"
	"encoding/json"
	"errors"

	gorilla "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/session"
)

// connection is served by a single goroutine, so gameID needs no locking.
type connection struct {
	ws     *gorilla.Conn
	gameID string
}

func (that *Server) handleNewGame(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleNewGame")

	id, view, err := that.gameUseCase.NewGame(ctx)
	if err != nil {
		log.Error("failed to create game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new game")
	}

	conn.gameID = id

	return that.sendGame(conn, msg.Action, id, view)
}

func (that *Server) handleGameState(ctx context.Context, conn *connection, msg *Message) error {
	req, ok, err := that.readPayload(conn, msg)
	if !ok {
		return err
	}

	id := conn.resolveGameID(req)
	view, err := that.gameUseCase.GetGame(ctx, id)

	return that.reply(conn, msg.Action, id, view, err)
}

func (that *Server) handleMove(ctx context.Context, conn *connection, msg *Message) error {
	req, ok, err := that.readPayload(conn, msg)
	if !ok {
		return err
	}

	if req.Cell == nil {
		return that.sendErrorResponse(conn, msg.Action, "cell is required")
	}

	id := conn.resolveGameID(req)
	view, err := that.gameUseCase.ApplyMove(ctx, id, *req.Cell)

	return that.reply(conn, msg.Action, id, view, err)
}

func (that *Server) handleJump(ctx context.Context, conn *connection, msg *Message) error {
	req, ok, err := that.readPayload(conn, msg)
	if !ok {
		return err
	}

	if req.Step == nil {
		return that.sendErrorResponse(conn, msg.Action, "step is required")
	}

	id := conn.resolveGameID(req)
	view, err := that.gameUseCase.JumpTo(ctx, id, *req.Step)

	return that.reply(conn, msg.Action, id, view, err)
}

func (that *Server) handleReverse(ctx context.Context, conn *connection, msg *Message) error {
	req, ok, err := that.readPayload(conn, msg)
	if !ok {
		return err
	}

	id := conn.resolveGameID(req)
	view, err := that.gameUseCase.ToggleDisplayOrder(ctx, id)

	return that.reply(conn, msg.Action, id, view, err)
}

func (that *Server) handleEndGame(ctx context.Context, conn *connection, msg *Message) error {
	req, ok, err := that.readPayload(conn, msg)
	if !ok {
		return err
	}

	id := conn.resolveGameID(req)
	if err = that.gameUseCase.EndGame(ctx, id); err != nil {
		return that.sendUseCaseError(conn, msg.Action, err)
	}

	if conn.gameID == id {
		conn.gameID = ""
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{GameID: id})
}

// readPayload - decodes the request payload; on failure the client is told and ok is false.
func (that *Server) readPayload(conn *connection, msg *Message) (RequestPayload, bool, error) {
	var req RequestPayload

	if len(msg.Payload) == 0 {
		return req, true, nil
	}

	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		that.logger.Debug("failed to unmarshal payload", "action", msg.Action, "error", err)
		return req, false, that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	return req, true, nil
}

func (that *Server) reply(conn *connection, action, id string, view session.View, err error) error {
	if err != nil {
		return that.sendUseCaseError(conn, action, err)
	}

	return that.sendGame(conn, action, id, view)
}

func (that *Server) sendGame(conn *connection, action, id string, view session.View) error {
	return that.sendMessage(conn, action, ResponsePayload{GameID: id, Game: &view})
}

func (that *Server) sendUseCaseError(conn *connection, action string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound),
		errors.Is(err, apperror.ErrMissingSessionID),
		errors.Is(err, apperror.ErrInvalidIndex),
		errors.Is(err, apperror.ErrInvalidStep):
		return that.sendErrorResponse(conn, action, err.Error())
	default:
		that.logger.Error("game action failed", "action", action, "error", err)
		return that.sendErrorResponse(conn, action, "internal error")
	}
}

// resolveGameID - an explicit game_id wins over the game created on this connection.
func (that *connection) resolveGameID(req RequestPayload) string {
	if req.GameID != "" {
		return req.GameID
	}

	return that.gameID
}
