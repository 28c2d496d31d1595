package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/noobkia1314/SmartMind/internal/gemini"
	"github.com/noobkia1314/SmartMind/internal/models"
)

// LogKind names one of the per-goal tracking logs.
type LogKind string

const (
	LogFood     LogKind = "food"
	LogExercise LogKind = "exercise"
	LogReading  LogKind = "reading"
	LogFinance  LogKind = "finance"
)

// DateOf formats a time as the ISO calendar day log entries are keyed by.
func DateOf(t time.Time) string {
	return t.Format("2006-01-02")
}

// NewGoal builds a goal record from a generated structure. Tasks get fresh
// ids, start uncompleted and are dated today; all tracking logs start empty.
func NewGoal(title string, structure gemini.GoalStructure, now time.Time) models.UserGoal {
	tasks := make([]models.Task, 0, len(structure.Tasks))
	for _, generated := range structure.Tasks {
		tasks = append(tasks, models.Task{
			ID:       uuid.New().String(),
			Title:    generated.Title,
			Category: generated.Category,
			Date:     DateOf(now),
		})
	}

	goal := models.UserGoal{
		ID:        uuid.New().String(),
		Title:     title,
		StartDate: now.Format(time.RFC3339),
		Tasks:     tasks,
	}
	if structure.MindMap.Label != "" || structure.MindMap.ID != "" {
		mindMap := structure.MindMap
		goal.MindMap = &mindMap
	}
	return goal
}

// ReplaceGoal is the single point every mutation re-enters the goal list
// through. The entry whose id matches is swapped for the updated value;
// length, order and all other entries are untouched.
func ReplaceGoal(goals []models.UserGoal, updated models.UserGoal) []models.UserGoal {
	replaced := make([]models.UserGoal, len(goals))
	for i, goal := range goals {
		if goal.ID == updated.ID {
			replaced[i] = updated
		} else {
			replaced[i] = goal
		}
	}
	return replaced
}

// ToggleTask returns a goal with the named task's completed flag flipped.
// An unknown task id leaves the goal unchanged.
func ToggleTask(goal models.UserGoal, taskID string) models.UserGoal {
	tasks := make([]models.Task, len(goal.Tasks))
	for i, task := range goal.Tasks {
		if task.ID == taskID {
			task.Completed = !task.Completed
		}
		tasks[i] = task
	}
	goal.Tasks = tasks
	return goal
}

// SetTaskFeedback returns a goal with the named task's feedback replaced.
func SetTaskFeedback(goal models.UserGoal, taskID, feedback string) models.UserGoal {
	tasks := make([]models.Task, len(goal.Tasks))
	for i, task := range goal.Tasks {
		if task.ID == taskID {
			task.Feedback = feedback
		}
		tasks[i] = task
	}
	goal.Tasks = tasks
	return goal
}

func AppendFoodLog(goal models.UserGoal, entry models.FoodEntry) models.UserGoal {
	goal.FoodLogs = append(append([]models.FoodEntry{}, goal.FoodLogs...), entry)
	return goal
}

func AppendExerciseLog(goal models.UserGoal, entry models.ExerciseEntry) models.UserGoal {
	goal.ExerciseLogs = append(append([]models.ExerciseEntry{}, goal.ExerciseLogs...), entry)
	return goal
}

func AppendFinanceLog(goal models.UserGoal, entry models.FinanceEntry) models.UserGoal {
	goal.FinanceLogs = append(append([]models.FinanceEntry{}, goal.FinanceLogs...), entry)
	return goal
}

// RecordReading logs a reading session. Sessions for a title already being
// tracked merge into that entry: the page total accumulates, clamped to the
// book's total, and the session is appended to the entry's history. A new
// title starts a fresh entry.
func RecordReading(goal models.UserGoal, title string, totalPages, pagesRead int, summary, date string) models.UserGoal {
	session := models.ReadingHistory{Date: date, PagesRead: pagesRead, Summary: summary}

	for i, existing := range goal.ReadingLogs {
		if existing.Title != title {
			continue
		}
		updated := existing
		updated.CurrentPages = min(existing.CurrentPages+pagesRead, existing.TotalPages)
		updated.History = append(append([]models.ReadingHistory{}, existing.History...), session)

		logs := make([]models.ReadingEntry, len(goal.ReadingLogs))
		copy(logs, goal.ReadingLogs)
		logs[i] = updated
		goal.ReadingLogs = logs
		return goal
	}

	entry := models.ReadingEntry{
		ID:           uuid.New().String(),
		Title:        title,
		TotalPages:   totalPages,
		CurrentPages: min(pagesRead, totalPages),
		History:      []models.ReadingHistory{session},
	}
	goal.ReadingLogs = append(append([]models.ReadingEntry{}, goal.ReadingLogs...), entry)
	return goal
}

// RemoveLog filters the entry with the given id out of the named log,
// preserving the relative order of the remaining entries.
func RemoveLog(goal models.UserGoal, kind LogKind, entryID string) models.UserGoal {
	switch kind {
	case LogFood:
		logs := make([]models.FoodEntry, 0, len(goal.FoodLogs))
		for _, entry := range goal.FoodLogs {
			if entry.ID != entryID {
				logs = append(logs, entry)
			}
		}
		goal.FoodLogs = logs
	case LogExercise:
		logs := make([]models.ExerciseEntry, 0, len(goal.ExerciseLogs))
		for _, entry := range goal.ExerciseLogs {
			if entry.ID != entryID {
				logs = append(logs, entry)
			}
		}
		goal.ExerciseLogs = logs
	case LogReading:
		logs := make([]models.ReadingEntry, 0, len(goal.ReadingLogs))
		for _, entry := range goal.ReadingLogs {
			if entry.ID != entryID {
				logs = append(logs, entry)
			}
		}
		goal.ReadingLogs = logs
	case LogFinance:
		logs := make([]models.FinanceEntry, 0, len(goal.FinanceLogs))
		for _, entry := range goal.FinanceLogs {
			if entry.ID != entryID {
				logs = append(logs, entry)
			}
		}
		goal.FinanceLogs = logs
	}
	return goal
}
