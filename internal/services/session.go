package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/noobkia1314/SmartMind/internal/models"
)

// SessionService owns the transitions between the signed-out default, local
// guest sessions and Google-backed sessions, including the sign-in
// reconciliation between local and remote goal lists.
type SessionService struct {
	app    *AppService
	remote RemoteStore
	syncer *Syncer
}

func NewSessionService(app *AppService, remote RemoteStore, syncer *Syncer) *SessionService {
	return &SessionService{app: app, remote: remote, syncer: syncer}
}

// SignIn installs a Google-backed profile. The remote fetch completes and the
// reconciled list is installed before the syncer is armed, so the first push
// can never carry a stale pre-fetch snapshot.
func (service *SessionService) SignIn(ctx context.Context, profile models.UserProfile) error {
	if profile.Provider != models.ProviderGoogle || profile.UID == "" {
		return fmt.Errorf("sign-in requires a google identity with a uid")
	}

	remoteGoals, err := service.remote.FetchGoals(ctx, profile.UID)
	if err != nil {
		return fmt.Errorf("fetching remote goals: %w", err)
	}

	localGoals := service.app.State().Goals
	merged := reconcileGoals(localGoals, remoteGoals)
	service.app.applySession(ctx, profile, merged)
	service.syncer.Begin(profile.UID)

	slog.Info("signed in", "uid", profile.UID, "local_goals", len(localGoals), "remote_goals", len(remoteGoals))
	return nil
}

// SignOut reverts a Google session to the signed-out default. Guest sessions
// are not tied to the identity provider and are left untouched.
func (service *SessionService) SignOut(ctx context.Context) {
	if service.app.State().User.Provider != models.ProviderGoogle {
		return
	}
	service.syncer.End()
	service.app.applySession(ctx, models.DefaultProfile(), nil)
	slog.Info("signed out")
}

// EnterGuest starts a purely local session. No identity provider or remote
// store is contacted, now or on later mutations.
func (service *SessionService) EnterGuest(ctx context.Context, name string) {
	if name == "" {
		name = "Guest Traveler"
	}
	service.app.applySession(ctx, models.UserProfile{Name: name, Provider: models.ProviderGuest}, nil)
}

// Profile returns the profile of the current session.
func (service *SessionService) Profile() models.UserProfile {
	return service.app.State().User
}

// Resume re-establishes a session persisted before a restart. A stored Google
// session redoes the sign-in reconciliation; anything else needs no work.
func (service *SessionService) Resume(ctx context.Context) {
	profile := service.app.State().User
	if profile.Provider != models.ProviderGoogle || profile.UID == "" {
		return
	}
	if err := service.SignIn(ctx, profile); err != nil {
		slog.Warn("resuming session, staying local until next sign-in", "uid", profile.UID, "error", err)
		service.app.applySession(ctx, models.DefaultProfile(), nil)
	}
}

// reconcileGoals picks the goal list to keep after sign-in. An empty remote
// list never clobbers local work. When both sides have goals, the side whose
// newest goal started later wins, local breaking ties.
func reconcileGoals(local, remote []models.UserGoal) []models.UserGoal {
	if len(remote) == 0 {
		return local
	}
	if len(local) == 0 {
		return remote
	}
	if newestStart(remote).After(newestStart(local)) {
		return remote
	}
	return local
}

func newestStart(goals []models.UserGoal) time.Time {
	var newest time.Time
	for _, goal := range goals {
		started, err := time.Parse(time.RFC3339, goal.StartDate)
		if err != nil {
			continue
		}
		if started.After(newest) {
			newest = started
		}
	}
	return newest
}
