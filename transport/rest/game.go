package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/session"
)

var (
	errMissingCell = errors.New("cell is required")
	errMissingStep = errors.New("step is required")
)

type gameResponse struct {
	ID   string       `json:"id"`
	Game session.View `json:"game"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Step *int `json:"step"`
}

func (that *Server) createGame(w http.ResponseWriter, r *http.Request) {
	id, view, err := that.games.NewGame(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, gameResponse{ID: id, Game: view})
}

func (that *Server) getGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	view, err := that.games.GetGame(r.Context(), id)
	that.writeGame(w, r, id, view, err)
}

func (that *Server) applyMove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingCell.Error()})
		return
	}

	view, err := that.games.ApplyMove(r.Context(), id, *req.Cell)
	that.writeGame(w, r, id, view, err)
}

func (that *Server) jumpTo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Step == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingStep.Error()})
		return
	}

	view, err := that.games.JumpTo(r.Context(), id, *req.Step)
	that.writeGame(w, r, id, view, err)
}

func (that *Server) toggleDisplayOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	view, err := that.games.ToggleDisplayOrder(r.Context(), id)
	that.writeGame(w, r, id, view, err)
}

func (that *Server) endGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.EndGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) writeGame(w http.ResponseWriter, r *http.Request, id string, view session.View, err error) {
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{ID: id, Game: view})
}

func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		that.writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidIndex),
		errors.Is(err, apperror.ErrInvalidStep),
		errors.Is(err, apperror.ErrMissingSessionID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
