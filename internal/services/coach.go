package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/noobkia1314/SmartMind/internal/gemini"
	"github.com/noobkia1314/SmartMind/internal/models"
)

// CoachService drives the AI-assisted flows: goal generation, estimated log
// entries and on-demand advice. Estimates degrade to zero-valued entries when
// the model is unavailable; goal generation and advice propagate their errors
// so the caller can distinguish "busy, retry" from real failure.
type CoachService struct {
	app    *AppService
	gemini *gemini.Client
}

func NewCoachService(app *AppService, client *gemini.Client) *CoachService {
	return &CoachService{app: app, gemini: client}
}

// StartGoal generates the mind map and starter tasks for a free-text goal and
// installs the resulting goal record as the active goal.
func (service *CoachService) StartGoal(ctx context.Context, goalText string) (models.UserGoal, error) {
	structure, err := service.gemini.GenerateGoalStructure(ctx, goalText)
	if err != nil {
		return models.UserGoal{}, fmt.Errorf("generating goal structure: %w", err)
	}
	return service.app.CreateGoal(ctx, goalText, structure), nil
}

// LogFood appends a food entry with an estimated nutrition breakdown. A
// failed estimate logs a zero-valued entry rather than dropping the food.
func (service *CoachService) LogFood(ctx context.Context, goalID, name, date string) (models.UserGoal, error) {
	estimate, err := service.gemini.EstimateNutrition(ctx, name)
	if err != nil {
		slog.Warn("nutrition estimate unavailable, logging zero values", "food", name, "error", err)
		estimate = gemini.NutritionEstimate{}
	}

	entry := models.FoodEntry{
		ID:       uuid.New().String(),
		Name:     name,
		Calories: estimate.Calories,
		Protein:  estimate.Protein,
		Date:     date,
	}
	return service.app.UpdateGoal(ctx, goalID, func(goal models.UserGoal) models.UserGoal {
		return AppendFoodLog(goal, entry)
	})
}

// LogExercise appends an exercise entry with an estimated calorie burn,
// degrading to zero on estimate failure.
func (service *CoachService) LogExercise(ctx context.Context, goalID, name string, value float64, unit models.ExerciseUnit, stats models.BodyStats, date string) (models.UserGoal, error) {
	estimate, err := service.gemini.EstimateExerciseCalories(ctx, name, value, unit, stats)
	if err != nil {
		slog.Warn("exercise estimate unavailable, logging zero values", "exercise", name, "error", err)
		estimate = gemini.ExerciseEstimate{}
	}

	entry := models.ExerciseEntry{
		ID:             uuid.New().String(),
		Name:           name,
		Value:          value,
		Unit:           unit,
		CaloriesBurned: estimate.CaloriesBurned,
		Date:           date,
	}
	return service.app.UpdateGoal(ctx, goalID, func(goal models.UserGoal) models.UserGoal {
		return AppendExerciseLog(goal, entry)
	})
}

// Advice asks the coach for free-text advice on the goal's current progress.
func (service *CoachService) Advice(ctx context.Context, goalID string) (string, error) {
	goal, ok := service.app.State().FindGoal(goalID)
	if !ok {
		return "", ErrGoalNotFound
	}

	advice, err := service.gemini.GetCoachAdvice(ctx, ProgressSummary(goal))
	if err != nil {
		return "", fmt.Errorf("getting coach advice: %w", err)
	}
	return advice, nil
}

// ProgressSummary condenses a goal's tracking state into the one-line prompt
// context the coach reasons over.
func ProgressSummary(goal models.UserGoal) string {
	var calories, exerciseTotal, balance float64
	for _, food := range goal.FoodLogs {
		calories += food.Calories
	}
	for _, exercise := range goal.ExerciseLogs {
		exerciseTotal += exercise.Value
	}
	for _, entry := range goal.FinanceLogs {
		if entry.Type == models.FinanceIncome {
			balance += entry.Amount
		} else {
			balance -= entry.Amount
		}
	}

	return fmt.Sprintf(
		"Goal: %s. Total Tasks: %d, Completed: %d. Total Calories: %g. Fitness duration: %g. Finance balance: %g.",
		goal.Title, len(goal.Tasks), goal.CompletedTasks(), calories, exerciseTotal, balance,
	)
}
