package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/noobkia1314/SmartMind/internal/models"
)

func testServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key")
}

func replyWith(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()
	reply := generateResponse{}
	reply.Candidates = append(reply.Candidates, struct {
		Content content `json:"content"`
	}{Content: content{Parts: []part{{Text: text}}}})
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		t.Fatalf("encoding reply: %v", err)
	}
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient("https://example.invalid", "")
	_, err := client.GetCoachAdvice(context.Background(), "summary")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestClient_OverloadedStatusCodes(t *testing.T) {
	for _, status := range []int{http.StatusServiceUnavailable, http.StatusTooManyRequests} {
		client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "busy", status)
		})
		_, err := client.GetCoachAdvice(context.Background(), "summary")
		if !errors.Is(err, ErrServiceOverloaded) {
			t.Errorf("status %d: expected ErrServiceOverloaded, got %v", status, err)
		}
	}
}

func TestClient_OverloadedBodyText(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "The model is overloaded. Please try again later."}}`, http.StatusBadRequest)
	})
	_, err := client.GetCoachAdvice(context.Background(), "summary")
	if !errors.Is(err, ErrServiceOverloaded) {
		t.Errorf("expected ErrServiceOverloaded from body text, got %v", err)
	}
}

func TestClient_GenericFailureIsNotOverloaded(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})
	_, err := client.GetCoachAdvice(context.Background(), "summary")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrServiceOverloaded) {
		t.Error("expected generic failure, got overloaded")
	}
}

func TestClient_GenerateGoalStructure(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer credential, got %q", got)
		}
		replyWith(t, w, `{"mindMap":{"id":"root","label":"X","children":[]},"tasks":[{"title":"Drink water","category":"Diet"}]}`)
	})

	structure, err := client.GenerateGoalStructure(context.Background(), "get healthy")
	if err != nil {
		t.Fatalf("generating structure: %v", err)
	}
	if structure.MindMap.Label != "X" {
		t.Errorf("unexpected mind map: %+v", structure.MindMap)
	}
	if len(structure.Tasks) != 1 || structure.Tasks[0].Category != "Diet" {
		t.Errorf("unexpected tasks: %+v", structure.Tasks)
	}
}

func TestClient_GenerateGoalStructureFencedOutput(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		replyWith(t, w, "```json\n{\"mindMap\":{\"id\":\"root\",\"label\":\"X\"},\"tasks\":[]}\n```")
	})

	structure, err := client.GenerateGoalStructure(context.Background(), "get healthy")
	if err != nil {
		t.Fatalf("generating structure: %v", err)
	}
	if structure.MindMap.Label != "X" {
		t.Errorf("expected fenced output parsed, got %+v", structure.MindMap)
	}
}

func TestClient_MalformedOutputIsGenericFailure(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		replyWith(t, w, "I would rather chat about goals than emit JSON.")
	})

	_, err := client.GenerateGoalStructure(context.Background(), "get healthy")
	if err == nil {
		t.Fatal("expected error for malformed model output")
	}
	if errors.Is(err, ErrServiceOverloaded) {
		t.Error("malformed output must not classify as overloaded")
	}
}

func TestClient_EstimateNutrition(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		replyWith(t, w, `{"calories": 250, "protein": 8}`)
	})

	estimate, err := client.EstimateNutrition(context.Background(), "rice bowl")
	if err != nil {
		t.Fatalf("estimating nutrition: %v", err)
	}
	if estimate.Calories != 250 || estimate.Protein != 8 {
		t.Errorf("unexpected estimate: %+v", estimate)
	}
}

func TestClient_EstimateExerciseCalories(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		replyWith(t, w, `{"caloriesBurned": 180}`)
	})

	estimate, err := client.EstimateExerciseCalories(context.Background(), "jogging", 30, models.UnitMinutes, models.BodyStats{WeightKG: 70, HeightCM: 175, Age: 30})
	if err != nil {
		t.Fatalf("estimating exercise: %v", err)
	}
	if estimate.CaloriesBurned != 180 {
		t.Errorf("unexpected estimate: %+v", estimate)
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                      "{\"a\":1}",
		"```json\n{\"a\":1}\n```":        "{\"a\":1}",
		"```\n{\"a\":1}\n```":            "{\"a\":1}",
		"  \n```json\n{\"a\":1}\n```\n ": "{\"a\":1}",
	}
	for input, want := range cases {
		if got := stripFences(input); got != want {
			t.Errorf("stripFences(%q) = %q, want %q", input, got, want)
		}
	}
}
