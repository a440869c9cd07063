// Package session owns the authenticated identity of the running client.
package session

import (
	"context"
	"fmt"
	"sync"

	"codego/internal/models"
	"codego/internal/notify"
	"codego/internal/observability"
	"codego/internal/storage"
	"codego/internal/validation"
)

// AuthAPI is the part of the remote API the session needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

// ProfileUpdate is a partial profile edit.
type ProfileUpdate struct {
	Username     *string `json:"username,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

// Store holds the current user in memory and mirrors it to durable storage.
type Store struct {
	api      AuthAPI
	identity storage.IdentityStore
	notifier notify.Notifier
	logger   *observability.ClientLogger

	mu   sync.RWMutex
	user *models.User

	restoreOnce sync.Once
	ready       chan struct{}
}

// New creates an unauthenticated store. Call RestoreSession once at start.
func New(api AuthAPI, identity storage.IdentityStore, notifier notify.Notifier, logger *observability.Logger) *Store {
	return &Store{
		api:      api,
		identity: identity,
		notifier: notifier,
		logger:   observability.NewClientLogger("session", logger),
		ready:    make(chan struct{}),
	}
}

// RestoreSession revalidates a persisted identity with the server. Any failure
// discards the durable record and leaves the store unauthenticated. Only the
// first call does work; later calls wait for it.
func (s *Store) RestoreSession(ctx context.Context) {
	s.restoreOnce.Do(func() {
		defer close(s.ready)
		s.restore(ctx)
	})
	<-s.ready
}

func (s *Store) restore(ctx context.Context) {
	stored, err := s.identity.Load(ctx)
	if err != nil {
		s.logger.LogWarn(ctx, "discarding unreadable stored identity", err)
		s.clearDurable(ctx)
		return
	}
	if stored == nil {
		return
	}

	user, err := s.api.Me(ctx, stored.ID)
	if err != nil {
		s.logger.LogWarn(ctx, "stored session rejected", err)
		s.clearDurable(ctx)
		return
	}

	s.setUser(user)
	s.persist(ctx, user)
	s.logger.LogOperation(ctx, "restore", map[string]interface{}{"user_id": user.ID})
}

// Ready is closed once RestoreSession has finished.
func (s *Store) Ready() <-chan struct{} { return s.ready }

// IsLoading reports whether the restore gate is still closed.
func (s *Store) IsLoading() bool {
	select {
	case <-s.ready:
		return false
	default:
		return true
	}
}

// Login authenticates with email and password. It never returns an error;
// every failure is reported as a notification and false.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	if err := validation.ValidateLogin(email, password); err != nil {
		notify.Send(ctx, s.notifier, notify.Error("Login failed", err.Error()))
		return false
	}

	user, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.logger.LogError(ctx, err, "login")
		notify.Send(ctx, s.notifier, notify.Error("Login failed", messageOr(err, "Invalid email or password")))
		return false
	}

	s.setUser(user)
	s.persist(ctx, user)
	s.logger.LogOperation(ctx, "login", map[string]interface{}{"user_id": user.ID})
	notify.Send(ctx, s.notifier, notify.Info("Login successful", fmt.Sprintf("Welcome back, %s!", user.Username)))
	return true
}

// Register creates an account and signs it in.
func (s *Store) Register(ctx context.Context, username, email, password string) bool {
	if err := validation.ValidateRegistration(username, email, password, ""); err != nil {
		notify.Send(ctx, s.notifier, notify.Error("Registration failed", err.Error()))
		return false
	}

	user, err := s.api.Register(ctx, username, email, password)
	if err != nil {
		s.logger.LogError(ctx, err, "register")
		notify.Send(ctx, s.notifier, notify.Error("Registration failed", messageOr(err, "Registration failed")))
		return false
	}

	s.setUser(user)
	s.persist(ctx, user)
	s.logger.LogOperation(ctx, "register", map[string]interface{}{"user_id": user.ID})
	notify.Send(ctx, s.notifier, notify.Info("Registration successful", fmt.Sprintf("Welcome to Code Go, %s!", username)))
	return true
}

// Logout forgets the identity in memory and on disk. It always succeeds.
func (s *Store) Logout(ctx context.Context) {
	s.setUser(nil)
	s.clearDurable(ctx)
	s.logger.LogOperation(ctx, "logout", nil)
	notify.Send(ctx, s.notifier, notify.Info("Logged out", "You have been successfully logged out."))
}

// UpdateProfile has no server endpoint yet.
func (s *Store) UpdateProfile(ctx context.Context, _ ProfileUpdate) error {
	return s.notImplemented(ctx, "Profile update")
}

// FollowUser has no server endpoint yet.
func (s *Store) FollowUser(ctx context.Context, _ string) error {
	return s.notImplemented(ctx, "Following users")
}

// UnfollowUser has no server endpoint yet.
func (s *Store) UnfollowUser(ctx context.Context, _ string) error {
	return s.notImplemented(ctx, "Unfollowing users")
}

func (s *Store) notImplemented(ctx context.Context, feature string) error {
	err := models.NewNotImplementedError(feature)
	notify.Send(ctx, s.notifier, notify.Warn("Not available", err.Message))
	return err
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// IsAuthenticated reports whether a user is signed in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// UserID returns the signed-in user's id, or "".
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s *Store) setUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u.Clone()
}

func (s *Store) persist(ctx context.Context, u *models.User) {
	if err := s.identity.Save(ctx, u); err != nil {
		s.logger.LogWarn(ctx, "could not persist identity", err)
	}
}

func (s *Store) clearDurable(ctx context.Context) {
	if err := s.identity.Clear(ctx); err != nil {
		s.logger.LogWarn(ctx, "could not clear stored identity", err)
	}
}

func messageOr(err error, fallback string) string {
	if msg := models.ServerMessage(err); msg != "" {
		return msg
	}
	return fallback
}
