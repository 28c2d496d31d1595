package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/noobkia1314/SmartMind/internal/models"
)

// StateKey is the fixed key the whole application state lives under.
const StateKey = "smartmind_state"

type StateRepository interface {
	Save(ctx context.Context, state models.AppState) error
	Load(ctx context.Context) models.AppState
}

type SQLiteStateRepository struct {
	database *sql.DB
}

func NewStateRepository(database *sql.DB) *SQLiteStateRepository {
	return &SQLiteStateRepository{database: database}
}

func (repository *SQLiteStateRepository) Save(ctx context.Context, state models.AppState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling app state: %w", err)
	}

	_, err = repository.database.ExecContext(ctx,
		"INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = ?",
		StateKey, string(payload), time.Now(), string(payload), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("saving app state: %w", err)
	}
	return nil
}

// Load returns the persisted state, or the default empty state when nothing
// was saved yet or the stored payload does not parse. Corrupt data is
// deliberately treated the same as absent data and never surfaced.
func (repository *SQLiteStateRepository) Load(ctx context.Context) models.AppState {
	var payload string
	err := repository.database.QueryRowContext(ctx,
		"SELECT value FROM app_state WHERE key = ?", StateKey,
	).Scan(&payload)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("loading app state", "error", err)
		}
		return models.DefaultState()
	}

	var state models.AppState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		slog.Warn("discarding unparseable app state", "error", err)
		return models.DefaultState()
	}
	return state
}
