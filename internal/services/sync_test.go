package services_test

import (
	"testing"
	"time"

	"github.com/noobkia1314/SmartMind/internal/models"
	"github.com/noobkia1314/SmartMind/internal/services"
)

func TestSyncer_CoalescesRapidEdits(t *testing.T) {
	remote := &fakeRemote{
		pushStarted: make(chan struct{}, 10),
		pushRelease: make(chan struct{}),
	}
	syncer := services.NewSyncer(remote)
	t.Cleanup(syncer.Close)

	syncer.Begin("uid-1")

	snapshot := func(title string) []models.UserGoal {
		return []models.UserGoal{{ID: "g1", Title: title}}
	}

	syncer.Enqueue(snapshot("edit 1"))
	<-remote.pushStarted

	// Three edits arrive while the first push is still in flight; they must
	// collapse into a single follow-up push of the newest snapshot.
	syncer.Enqueue(snapshot("edit 2"))
	syncer.Enqueue(snapshot("edit 3"))
	syncer.Enqueue(snapshot("edit 4"))
	remote.pushRelease <- struct{}{}

	<-remote.pushStarted
	remote.pushRelease <- struct{}{}

	waitFor(t, func() bool { return remote.pushCount() == 2 }, "expected exactly two pushes")
	time.Sleep(50 * time.Millisecond)
	if remote.pushCount() != 2 {
		t.Fatalf("expected coalesced pushes to stay at 2, got %d", remote.pushCount())
	}
	if last := remote.lastPush(); len(last) != 1 || last[0].Title != "edit 4" {
		t.Errorf("expected final push to carry the newest snapshot, got %+v", last)
	}
}

func TestSyncer_IgnoresEnqueueWithoutIdentity(t *testing.T) {
	remote := &fakeRemote{}
	syncer := services.NewSyncer(remote)
	t.Cleanup(syncer.Close)

	syncer.Enqueue([]models.UserGoal{{ID: "g1"}})
	time.Sleep(50 * time.Millisecond)

	if remote.pushCount() != 0 {
		t.Errorf("expected no pushes without an active identity, got %d", remote.pushCount())
	}
}

func TestSyncer_EndDropsQueuedSnapshot(t *testing.T) {
	remote := &fakeRemote{
		pushStarted: make(chan struct{}, 10),
		pushRelease: make(chan struct{}),
	}
	syncer := services.NewSyncer(remote)
	t.Cleanup(syncer.Close)

	syncer.Begin("uid-1")
	syncer.Enqueue([]models.UserGoal{{ID: "g1", Title: "first"}})
	<-remote.pushStarted

	syncer.Enqueue([]models.UserGoal{{ID: "g1", Title: "queued"}})
	syncer.End()
	remote.pushRelease <- struct{}{}

	time.Sleep(50 * time.Millisecond)
	if remote.pushCount() != 1 {
		t.Errorf("expected the queued snapshot to be dropped after End, got %d pushes", remote.pushCount())
	}
}

func TestSyncer_PushesForActiveUID(t *testing.T) {
	remote := &fakeRemote{}
	syncer := services.NewSyncer(remote)
	t.Cleanup(syncer.Close)

	syncer.Begin("uid-42")
	syncer.Enqueue([]models.UserGoal{{ID: "g1"}})

	waitFor(t, func() bool { return remote.pushCount() == 1 }, "expected one push")
	remote.mu.Lock()
	uid := remote.pushUIDs[0]
	remote.mu.Unlock()
	if uid != "uid-42" {
		t.Errorf("expected push for uid-42, got %q", uid)
	}
}
