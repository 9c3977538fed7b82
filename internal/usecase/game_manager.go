package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-history/internal/session"
)

// errNothingChanged - returned by an action to skip the save.
var errNothingChanged = errors.New("nothing changed")

type sessionRepo interface {
	Save(ctx context.Context, id string, state session.State) error
	GetByID(ctx context.Context, id string) (session.State, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager - runs player actions against stored sessions.
// Actions on the same session are serialized; each one is load, apply, save.
type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	generateID  func() string

	locksMutex sync.Mutex
	locks      map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo) *GameManager {
	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		sessionRepo: sessionRepo,
		generateID:  pkg.GenerateSessionID,
		locks:       make(map[string]*sessionLock),
	}
}

func (that *GameManager) NewGame(ctx context.Context) (string, session.View, error) {
	id := that.generateID()
	game := session.New()

	if err := that.sessionRepo.Save(ctx, id, game.State()); err != nil {
		return "", session.View{}, fmt.Errorf("failed to save new game: %w", err)
	}

	that.logger.Info("game created", "gameID", id)

	return id, game.View(), nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (session.View, error) {
	game, err := that.load(ctx, id)
	if err != nil {
		return session.View{}, err
	}

	return game.View(), nil
}

func (that *GameManager) ApplyMove(ctx context.Context, id string, cell int) (session.View, error) {
	log := that.logger.With("method", "ApplyMove", "gameID", id, "cell", cell)

	return that.update(ctx, id, func(game *session.Session) error {
		applied, err := game.ApplyMove(cell)
		if err != nil {
			return fmt.Errorf("failed to apply move: %w", err)
		}

		if !applied {
			log.Debug("move ignored", "status", game.Status())
			return errNothingChanged
		}

		log.Debug("move applied", "step", game.Cursor(), "status", game.Status())

		return nil
	})
}

func (that *GameManager) JumpTo(ctx context.Context, id string, step int) (session.View, error) {
	return that.update(ctx, id, func(game *session.Session) error {
		if step == game.Cursor() {
			return errNothingChanged
		}

		if err := game.JumpTo(step); err != nil {
			return fmt.Errorf("failed to jump: %w", err)
		}

		return nil
	})
}

func (that *GameManager) ToggleDisplayOrder(ctx context.Context, id string) (session.View, error) {
	return that.update(ctx, id, func(game *session.Session) error {
		game.ToggleDisplayOrder()
		return nil
	})
}

func (that *GameManager) EndGame(ctx context.Context, id string) error {
	if id == "" {
		return apperror.ErrMissingSessionID
	}

	unlock := that.lock(id)
	defer unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game ended", "gameID", id)

	return nil
}

func (that *GameManager) update(ctx context.Context, id string, action func(game *session.Session) error) (session.View, error) {
	if id == "" {
		return session.View{}, apperror.ErrMissingSessionID
	}

	unlock := that.lock(id)
	defer unlock()

	game, err := that.load(ctx, id)
	if err != nil {
		return session.View{}, err
	}

	err = action(game)
	if errors.Is(err, errNothingChanged) {
		return game.View(), nil
	}

	if err != nil {
		return session.View{}, err
	}

	if err = that.sessionRepo.Save(ctx, id, game.State()); err != nil {
		return session.View{}, fmt.Errorf("failed to save game: %w", err)
	}

	return game.View(), nil
}

func (that *GameManager) load(ctx context.Context, id string) (*session.Session, error) {
	if id == "" {
		return nil, apperror.ErrMissingSessionID
	}

	state, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}

	game, err := session.Restore(state)
	if err != nil {
		that.logger.Error("stored game is corrupt", "gameID", id, "error", err)
		return nil, fmt.Errorf("failed to restore game %s: %w", id, err)
	}

	return game, nil
}

// lock - takes the per-session lock and returns its release func.
func (that *GameManager) lock(id string) func() {
	that.locksMutex.Lock()
	l, ok := that.locks[id]
	if !ok {
		l = &sessionLock{}
		that.locks[id] = l
	}
	l.refs++
	that.locksMutex.Unlock()

	l.Lock()

	return func() {
		l.Unlock()

		that.locksMutex.Lock()
		l.refs--
		if l.refs == 0 {
			delete(that.locks, id)
		}
		that.locksMutex.Unlock()
	}
}
