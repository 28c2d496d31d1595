package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/noobkia1314/SmartMind/internal/gemini"
	"github.com/noobkia1314/SmartMind/internal/models"
	"github.com/noobkia1314/SmartMind/internal/repository"
)

var ErrGoalNotFound = errors.New("goal not found")

// AppService owns the single live AppState. All mutations go through its
// methods under one lock, are written through to the local database, and are
// mirrored to the remote store while a Google identity is active. The
// persistence layers are write-through observers, never sources of truth
// during a session.
type AppService struct {
	stateRepo repository.StateRepository
	syncer    *Syncer

	mu    sync.Mutex
	state models.AppState
}

func NewAppService(ctx context.Context, stateRepo repository.StateRepository, syncer *Syncer) *AppService {
	return &AppService{
		stateRepo: stateRepo,
		syncer:    syncer,
		state:     stateRepo.Load(ctx),
	}
}

// State returns a snapshot of the current application state.
func (service *AppService) State() models.AppState {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.state
}

// CreateGoal appends a goal built from the generated structure and makes it
// the active goal.
func (service *AppService) CreateGoal(ctx context.Context, title string, structure gemini.GoalStructure) models.UserGoal {
	goal := NewGoal(title, structure, time.Now())

	service.mu.Lock()
	defer service.mu.Unlock()
	service.state.Goals = append(service.state.Goals, goal)
	service.state.ActiveGoalID = goal.ID
	service.commit(ctx, true)
	return goal
}

// SetActiveGoal switches the active goal to an existing id.
func (service *AppService) SetActiveGoal(ctx context.Context, goalID string) error {
	service.mu.Lock()
	defer service.mu.Unlock()
	if _, ok := service.state.FindGoal(goalID); !ok {
		return ErrGoalNotFound
	}
	service.state.ActiveGoalID = goalID
	service.commit(ctx, false)
	return nil
}

// UpdateGoal applies a pure transform to the named goal and swaps the result
// into the goal list by id.
func (service *AppService) UpdateGoal(ctx context.Context, goalID string, transform func(models.UserGoal) models.UserGoal) (models.UserGoal, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	goal, ok := service.state.FindGoal(goalID)
	if !ok {
		return models.UserGoal{}, ErrGoalNotFound
	}

	updated := transform(goal)
	updated.ID = goal.ID
	service.state.Goals = ReplaceGoal(service.state.Goals, updated)
	service.commit(ctx, true)
	return updated, nil
}

// Reset clears all goals and reverts to the signed-out default state.
func (service *AppService) Reset(ctx context.Context) {
	service.mu.Lock()
	defer service.mu.Unlock()
	service.state = models.DefaultState()
	service.syncer.End()
	service.commit(ctx, false)
}

// applySession installs a new profile and goal list in one step. Used only by
// the session resolver; the transition itself is never pushed to the remote
// store, so a just-fetched remote list cannot be overwritten by its own echo.
func (service *AppService) applySession(ctx context.Context, profile models.UserProfile, goals []models.UserGoal) {
	service.mu.Lock()
	defer service.mu.Unlock()
	service.state.User = profile
	if goals != nil {
		service.state.Goals = goals
	}
	service.commit(ctx, false)
}

// commit persists the state locally and, when requested and a Google identity
// is active, queues a remote push. Callers hold the lock.
func (service *AppService) commit(ctx context.Context, mirror bool) {
	if service.state.ActiveGoalID != "" {
		if _, ok := service.state.FindGoal(service.state.ActiveGoalID); !ok {
			service.state.ActiveGoalID = ""
		}
	}

	if err := service.stateRepo.Save(ctx, service.state); err != nil {
		slog.Error("saving app state", "error", err)
	}

	if mirror && service.state.User.Provider == models.ProviderGoogle {
		service.syncer.Enqueue(service.state.Goals)
	}
}
