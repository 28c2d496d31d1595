package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/noobkia1314/SmartMind/internal/models"
	"github.com/noobkia1314/SmartMind/internal/repository"
	"github.com/noobkia1314/SmartMind/internal/services"
	"github.com/noobkia1314/SmartMind/internal/testutil"
)

type fakeRemote struct {
	mu          sync.Mutex
	remoteGoals []models.UserGoal
	fetchErr    error
	fetchCount  int
	pushes      [][]models.UserGoal
	pushUIDs    []string

	// When set, PushGoals signals pushStarted and then blocks on pushRelease.
	pushStarted chan struct{}
	pushRelease chan struct{}
}

func (f *fakeRemote) FetchGoals(ctx context.Context, uid string) ([]models.UserGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCount++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.remoteGoals, nil
}

func (f *fakeRemote) PushGoals(ctx context.Context, uid string, goals []models.UserGoal) error {
	if f.pushStarted != nil {
		f.pushStarted <- struct{}{}
	}
	f.mu.Lock()
	f.pushes = append(f.pushes, goals)
	f.pushUIDs = append(f.pushUIDs, uid)
	f.mu.Unlock()
	if f.pushRelease != nil {
		<-f.pushRelease
	}
	return nil
}

func (f *fakeRemote) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCount
}

func (f *fakeRemote) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

func (f *fakeRemote) lastPush() []models.UserGoal {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pushes) == 0 {
		return nil
	}
	return f.pushes[len(f.pushes)-1]
}

func setupApp(t *testing.T) (*services.AppService, *services.Syncer, *fakeRemote, repository.StateRepository) {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	stateRepo := repository.NewStateRepository(db)
	remote := &fakeRemote{}
	syncer := services.NewSyncer(remote)
	t.Cleanup(syncer.Close)
	app := services.NewAppService(context.Background(), stateRepo, syncer)
	return app, syncer, remote, stateRepo
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, condition func() bool, message string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(message)
}

func startedAt(offset time.Duration) string {
	return time.Now().Add(offset).Format(time.RFC3339)
}
