package models

// Provider identifies how the current session was established. An empty
// provider means nobody is signed in and the profile is the guest default.
type Provider string

const (
	ProviderNone      Provider = ""
	ProviderGuest     Provider = "guest"
	ProviderGoogle    Provider = "google"
	ProviderAnonymous Provider = "anonymous"
)

type UserProfile struct {
	UID      string   `json:"uid,omitempty"`
	Name     string   `json:"name"`
	PhotoURL string   `json:"photoURL,omitempty"`
	Provider Provider `json:"provider"`
}

func (p UserProfile) IsLoggedIn() bool {
	return p.Provider != ProviderNone
}

// GuestName is the display name of the default, signed-out profile.
const GuestName = "Guest User"

func DefaultProfile() UserProfile {
	return UserProfile{Name: GuestName, Provider: ProviderNone}
}

type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Completed bool   `json:"completed"`
	Feedback  string `json:"feedback,omitempty"`
	Date      string `json:"date"`
}

type FoodEntry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Date     string  `json:"date"`
}

type ExerciseUnit string

const (
	UnitMinutes ExerciseUnit = "minutes"
	UnitSeconds ExerciseUnit = "seconds"
	UnitSets    ExerciseUnit = "sets"
	UnitReps    ExerciseUnit = "reps"
)

type ExerciseEntry struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Value          float64      `json:"value"`
	Unit           ExerciseUnit `json:"unit"`
	CaloriesBurned float64      `json:"caloriesBurned"`
	Date           string       `json:"date"`
}

type FinanceType string

const (
	FinanceIncome  FinanceType = "income"
	FinanceExpense FinanceType = "expense"
)

type FinanceEntry struct {
	ID          string      `json:"id"`
	Type        FinanceType `json:"type"`
	Category    string      `json:"category"`
	Amount      float64     `json:"amount"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
}

type ReadingHistory struct {
	Date      string `json:"date"`
	PagesRead int    `json:"pagesRead"`
	Summary   string `json:"summary"`
}

// ReadingEntry tracks one book. CurrentPages is a running total clamped to
// TotalPages; History is append-only.
type ReadingEntry struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	TotalPages   int              `json:"totalPages"`
	CurrentPages int              `json:"currentPages"`
	History      []ReadingHistory `json:"history"`
}

type MindMapNode struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Children []MindMapNode `json:"children,omitempty"`
}

// UserGoal is the aggregate root for one objective. Every mutation replaces
// the whole goal inside AppState.Goals, never a sub-field in place.
type UserGoal struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	StartDate    string          `json:"startDate"`
	MindMap      *MindMapNode    `json:"mindMap,omitempty"`
	IsDemo       bool            `json:"isDemo,omitempty"`
	Tasks        []Task          `json:"tasks"`
	FoodLogs     []FoodEntry     `json:"foodLogs"`
	ExerciseLogs []ExerciseEntry `json:"exerciseLogs"`
	ReadingLogs  []ReadingEntry  `json:"readingLogs"`
	FinanceLogs  []FinanceEntry  `json:"financeLogs"`
}

func (g UserGoal) CompletedTasks() int {
	count := 0
	for _, task := range g.Tasks {
		if task.Completed {
			count++
		}
	}
	return count
}

type AppState struct {
	User         UserProfile `json:"user"`
	Goals        []UserGoal  `json:"goals"`
	ActiveGoalID string      `json:"activeGoalId,omitempty"`
}

func DefaultState() AppState {
	return AppState{User: DefaultProfile()}
}

// FindGoal returns the goal with the given id, or false when absent.
func (s AppState) FindGoal(id string) (UserGoal, bool) {
	for _, goal := range s.Goals {
		if goal.ID == id {
			return goal, true
		}
	}
	return UserGoal{}, false
}

// BodyStats feeds the exercise-calorie estimate.
type BodyStats struct {
	WeightKG float64 `json:"weightKg"`
	HeightCM float64 `json:"heightCm"`
	Age      int     `json:"age"`
}
