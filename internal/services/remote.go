package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/noobkia1314/SmartMind/internal/models"
)

// RemoteStore is the only place goal data crosses the network. One document
// per authenticated user, addressed by uid, holding a single goals field.
type RemoteStore interface {
	FetchGoals(ctx context.Context, uid string) ([]models.UserGoal, error)
	PushGoals(ctx context.Context, uid string, goals []models.UserGoal) error
}

type HTTPRemoteStore struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewRemoteStore(baseURL, token string) *HTTPRemoteStore {
	return &HTTPRemoteStore{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type userDocument struct {
	Goals []models.UserGoal `json:"goals"`
}

// FetchGoals reads the user's document. A missing document is provisioned
// with an empty goal list so later pushes have something to overwrite.
func (store *HTTPRemoteStore) FetchGoals(ctx context.Context, uid string) ([]models.UserGoal, error) {
	request, err := store.newRequest(ctx, http.MethodGet, uid, nil)
	if err != nil {
		return nil, err
	}

	response, err := store.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetching user document: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		if err := store.PushGoals(ctx, uid, []models.UserGoal{}); err != nil {
			return nil, fmt.Errorf("provisioning user document: %w", err)
		}
		return nil, nil
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching user document", response.StatusCode)
	}

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading user document: %w", err)
	}

	var document userDocument
	if err := json.Unmarshal(payload, &document); err != nil {
		return nil, fmt.Errorf("parsing user document: %w", err)
	}
	return document.Goals, nil
}

// PushGoals overwrites the goals field of the user's document.
func (store *HTTPRemoteStore) PushGoals(ctx context.Context, uid string, goals []models.UserGoal) error {
	if goals == nil {
		goals = []models.UserGoal{}
	}
	body, err := json.Marshal(userDocument{Goals: goals})
	if err != nil {
		return fmt.Errorf("marshaling goals: %w", err)
	}

	request, err := store.newRequest(ctx, http.MethodPut, uid, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := store.client.Do(request)
	if err != nil {
		return fmt.Errorf("pushing goals: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated && response.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status %d pushing goals", response.StatusCode)
	}
	return nil
}

func (store *HTTPRemoteStore) newRequest(ctx context.Context, method, uid string, body io.Reader) (*http.Request, error) {
	if store.baseURL == "" {
		return nil, fmt.Errorf("remote store is not configured")
	}
	url := fmt.Sprintf("%s/users/%s", store.baseURL, uid)
	request, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if store.token != "" {
		request.Header.Set("Authorization", "Bearer "+store.token)
	}
	return request, nil
}
