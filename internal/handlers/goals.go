package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/noobkia1314/SmartMind/internal/gemini"
	"github.com/noobkia1314/SmartMind/internal/models"
	"github.com/noobkia1314/SmartMind/internal/services"
)

type GoalHandler struct {
	app   *services.AppService
	coach *services.CoachService
}

func NewGoalHandler(app *services.AppService, coach *services.CoachService) *GoalHandler {
	return &GoalHandler{app: app, coach: coach}
}

func (handler *GoalHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, handler.app.State())
}

func (handler *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Description string `json:"description"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Description) == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}

	goal, err := handler.coach.StartGoal(r.Context(), strings.TrimSpace(body.Description))
	if err != nil {
		handler.writeCoachError(w, "creating goal", err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (handler *GoalHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := handler.app.SetActiveGoal(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, handler.app.State())
}

func (handler *GoalHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "id")
	taskID := chi.URLParam(r, "taskId")

	goal, err := handler.app.UpdateGoal(r.Context(), goalID, func(goal models.UserGoal) models.UserGoal {
		return services.ToggleTask(goal, taskID)
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (handler *GoalHandler) TaskFeedback(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "id")
	taskID := chi.URLParam(r, "taskId")

	var body struct {
		Feedback string `json:"feedback"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	goal, err := handler.app.UpdateGoal(r.Context(), goalID, func(goal models.UserGoal) models.UserGoal {
		return services.SetTaskFeedback(goal, taskID, body.Feedback)
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (handler *GoalHandler) LogFood(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
		Date string `json:"date"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	goal, err := handler.coach.LogFood(r.Context(), chi.URLParam(r, "id"), body.Name, dateOrToday(body.Date))
	if err != nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (handler *GoalHandler) LogExercise(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string              `json:"name"`
		Value float64             `json:"value"`
		Unit  models.ExerciseUnit `json:"unit"`
		Stats models.BodyStats    `json:"bodyStats"`
		Date  string              `json:"date"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if body.Unit == "" {
		body.Unit = models.UnitMinutes
	}

	goal, err := handler.coach.LogExercise(r.Context(), chi.URLParam(r, "id"), body.Name, body.Value, body.Unit, body.Stats, dateOrToday(body.Date))
	if err != nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (handler *GoalHandler) LogFinance(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type        models.FinanceType `json:"type"`
		Category    string             `json:"category"`
		Amount      float64            `json:"amount"`
		Description string             `json:"description"`
		Date        string             `json:"date"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Type != models.FinanceIncome && body.Type != models.FinanceExpense {
		writeError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}

	entry := models.FinanceEntry{
		ID:          newEntryID(),
		Type:        body.Type,
		Category:    body.Category,
		Amount:      body.Amount,
		Description: body.Description,
		Date:        dateOrToday(body.Date),
	}
	goal, err := handler.app.UpdateGoal(r.Context(), chi.URLParam(r, "id"), func(goal models.UserGoal) models.UserGoal {
		return services.AppendFinanceLog(goal, entry)
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (handler *GoalHandler) LogReading(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title      string `json:"title"`
		TotalPages int    `json:"totalPages"`
		PagesRead  int    `json:"pagesRead"`
		Summary    string `json:"summary"`
		Date       string `json:"date"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	goal, err := handler.app.UpdateGoal(r.Context(), chi.URLParam(r, "id"), func(goal models.UserGoal) models.UserGoal {
		return services.RecordReading(goal, body.Title, body.TotalPages, body.PagesRead, body.Summary, dateOrToday(body.Date))
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (handler *GoalHandler) RemoveLog(w http.ResponseWriter, r *http.Request) {
	kind := services.LogKind(chi.URLParam(r, "kind"))
	switch kind {
	case services.LogFood, services.LogExercise, services.LogReading, services.LogFinance:
	default:
		writeError(w, http.StatusBadRequest, "unknown log kind")
		return
	}

	entryID := chi.URLParam(r, "entryId")
	goal, err := handler.app.UpdateGoal(r.Context(), chi.URLParam(r, "id"), func(goal models.UserGoal) models.UserGoal {
		return services.RemoveLog(goal, kind, entryID)
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (handler *GoalHandler) Advice(w http.ResponseWriter, r *http.Request) {
	advice, err := handler.coach.Advice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, services.ErrGoalNotFound) {
			writeError(w, http.StatusNotFound, "goal not found")
			return
		}
		handler.writeCoachError(w, "getting advice", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"advice": advice})
}

func (handler *GoalHandler) Reset(w http.ResponseWriter, r *http.Request) {
	handler.app.Reset(r.Context())
	writeJSON(w, http.StatusOK, handler.app.State())
}

// writeCoachError maps gateway failures to response shapes the UI can branch
// on: a distinguished busy/retry state for overload, a blocking configuration
// message for a missing key, and a generic failure otherwise.
func (handler *GoalHandler) writeCoachError(w http.ResponseWriter, action string, err error) {
	slog.Error(action, "error", err)
	switch {
	case errors.Is(err, gemini.ErrServiceOverloaded):
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error": "the coach is busy right now, try again shortly",
			"retry": true,
		})
	case errors.Is(err, gemini.ErrNotConfigured):
		writeError(w, http.StatusPreconditionFailed, "no API key is configured")
	default:
		writeError(w, http.StatusBadGateway, "generation failed")
	}
}

func newEntryID() string {
	return uuid.New().String()
}

func dateOrToday(date string) string {
	if date != "" {
		return date
	}
	return services.DateOf(time.Now())
}
