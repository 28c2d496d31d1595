package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/noobkia1314/SmartMind/internal/models"
)

// Syncer mirrors the goal list to the remote store for the signed-in user.
// Pushes are queued and coalesced: at most one push is in flight, and rapid
// edits collapse into a single push of the latest snapshot. Failures are
// logged only; the local database remains the durable fallback.
type Syncer struct {
	store   RemoteStore
	timeout time.Duration

	mu      sync.Mutex
	uid     string
	pending []models.UserGoal
	dirty   bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewSyncer(store RemoteStore) *Syncer {
	syncer := &Syncer{
		store:   store,
		timeout: 10 * time.Second,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go syncer.run()
	return syncer
}

// Begin enables pushes for the given uid. Callers must complete the initial
// remote fetch before calling Begin, so a queued push can never overwrite
// freshly fetched remote data with a stale pre-fetch snapshot.
func (syncer *Syncer) Begin(uid string) {
	syncer.mu.Lock()
	syncer.uid = uid
	syncer.pending = nil
	syncer.dirty = false
	syncer.mu.Unlock()
}

// End disables pushes; any queued snapshot is dropped.
func (syncer *Syncer) End() {
	syncer.Begin("")
}

// Enqueue records the latest goal snapshot for the active identity and wakes
// the push loop. A snapshot enqueued while no identity is active is ignored;
// guest sessions never reach the network.
func (syncer *Syncer) Enqueue(goals []models.UserGoal) {
	syncer.mu.Lock()
	if syncer.uid == "" {
		syncer.mu.Unlock()
		return
	}
	syncer.pending = goals
	syncer.dirty = true
	syncer.mu.Unlock()

	select {
	case syncer.wake <- struct{}{}:
	default:
	}
}

// Close stops the push loop and waits for any in-flight push to finish.
func (syncer *Syncer) Close() {
	close(syncer.stop)
	<-syncer.done
}

func (syncer *Syncer) run() {
	defer close(syncer.done)
	for {
		select {
		case <-syncer.wake:
			syncer.push()
		case <-syncer.stop:
			return
		}
	}
}

func (syncer *Syncer) push() {
	for {
		syncer.mu.Lock()
		if !syncer.dirty || syncer.uid == "" {
			syncer.mu.Unlock()
			return
		}
		uid := syncer.uid
		goals := syncer.pending
		syncer.dirty = false
		syncer.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), syncer.timeout)
		err := syncer.store.PushGoals(ctx, uid, goals)
		cancel()
		if err != nil {
			slog.Warn("pushing goals to remote store", "uid", uid, "error", err)
		}
	}
}
