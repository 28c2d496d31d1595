package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/noobkia1314/SmartMind/internal/models"
	"github.com/noobkia1314/SmartMind/internal/services"
)

type documentBackend struct {
	mu        sync.Mutex
	documents map[string][]models.UserGoal
	requests  []string
}

func (backend *documentBackend) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		backend.requests = append(backend.requests, r.Method+" "+r.URL.Path)

		uid := r.URL.Path[len("/users/"):]
		switch r.Method {
		case http.MethodGet:
			goals, ok := backend.documents[uid]
			if !ok {
				http.NotFound(w, r)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"goals": goals})
		case http.MethodPut:
			var document struct {
				Goals []models.UserGoal `json:"goals"`
			}
			if err := json.NewDecoder(r.Body).Decode(&document); err != nil {
				t.Errorf("decoding pushed document: %v", err)
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			if backend.documents == nil {
				backend.documents = map[string][]models.UserGoal{}
			}
			backend.documents[uid] = document.Goals
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func setupRemote(t *testing.T, backend *documentBackend) services.RemoteStore {
	t.Helper()
	server := httptest.NewServer(backend.handler(t))
	t.Cleanup(server.Close)
	return services.NewRemoteStore(server.URL, "store-token")
}

func TestRemoteStore_FetchGoals(t *testing.T) {
	backend := &documentBackend{
		documents: map[string][]models.UserGoal{
			"uid-1": {{ID: "g1", Title: "Remote goal"}},
		},
	}
	store := setupRemote(t, backend)

	goals, err := store.FetchGoals(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("fetching goals: %v", err)
	}
	if len(goals) != 1 || goals[0].ID != "g1" {
		t.Errorf("unexpected goals: %+v", goals)
	}
}

func TestRemoteStore_FetchProvisionsMissingDocument(t *testing.T) {
	backend := &documentBackend{}
	store := setupRemote(t, backend)

	goals, err := store.FetchGoals(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("fetching goals: %v", err)
	}
	if len(goals) != 0 {
		t.Errorf("expected empty list for new user, got %+v", goals)
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	provisioned, ok := backend.documents["new-user"]
	if !ok {
		t.Fatal("expected document provisioned on first fetch")
	}
	if len(provisioned) != 0 {
		t.Errorf("expected provisioned document to hold an empty goal list, got %+v", provisioned)
	}
}

func TestRemoteStore_PushOverwrites(t *testing.T) {
	backend := &documentBackend{
		documents: map[string][]models.UserGoal{
			"uid-1": {{ID: "old"}},
		},
	}
	store := setupRemote(t, backend)

	if err := store.PushGoals(context.Background(), "uid-1", []models.UserGoal{{ID: "new"}}); err != nil {
		t.Fatalf("pushing goals: %v", err)
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	goals := backend.documents["uid-1"]
	if len(goals) != 1 || goals[0].ID != "new" {
		t.Errorf("expected document overwritten, got %+v", goals)
	}
}

func TestRemoteStore_PushErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)
	store := services.NewRemoteStore(server.URL, "")

	if err := store.PushGoals(context.Background(), "uid-1", nil); err == nil {
		t.Fatal("expected error for non-2xx push")
	}
}

func TestRemoteStore_NotConfigured(t *testing.T) {
	store := services.NewRemoteStore("", "")
	if _, err := store.FetchGoals(context.Background(), "uid-1"); err == nil {
		t.Fatal("expected error when no remote store is configured")
	}
}
