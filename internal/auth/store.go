package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/sweethut/storefront/internal/domain"
)

// Store tracks the current session and whether it belongs to an admin.
// Every operation resolves fully against the identity backend before
// state is committed, so a failed call leaves the previous session
// untouched.
type Store struct {
	mu       sync.RWMutex
	provider IdentityProvider
	profiles ProfileStore

	user  *domain.User
	admin bool
}

func NewStore(provider IdentityProvider, profiles ProfileStore) *Store {
	return &Store{
		provider: provider,
		profiles: profiles,
	}
}

// Initialize restores the session left by a previous process, if any.
// Any failure defaults to signed-out.
func (s *Store) Initialize(ctx context.Context) error {
	user, err := s.provider.Session(ctx)
	if err != nil {
		s.setSignedOut()
		if errors.Is(err, ErrNoSession) {
			return nil
		}
		return fmt.Errorf("failed to restore session: %w", err)
	}

	s.setUser(user, s.lookupAdmin(ctx, user.ID))
	return nil
}

func (s *Store) SignIn(ctx context.Context, email, password string) error {
	user, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in failed: %w", err)
	}

	s.setUser(user, s.lookupAdmin(ctx, user.ID))
	return nil
}

// SignUp creates the account and its profile row (role "user"). A
// profile insert failure fails the whole sign-up; the prior session is
// kept.
func (s *Store) SignUp(ctx context.Context, email, password string) error {
	user, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign up failed: %w", err)
	}

	if err := s.profiles.CreateProfile(ctx, user.ID, user.Email, domain.RoleUser); err != nil {
		return fmt.Errorf("sign up failed: %w", err)
	}

	s.setUser(user, false)
	return nil
}

func (s *Store) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out failed: %w", err)
	}

	s.setSignedOut()
	return nil
}

// CurrentUser returns the signed-in user, if any.
func (s *Store) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}

// lookupAdmin derives the admin flag from the profiles table. A failed
// or empty lookup means non-admin, never an error.
func (s *Store) lookupAdmin(ctx context.Context, userID string) bool {
	role, err := s.profiles.Role(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			log.Printf("role lookup failed for user %s: %v", userID, err)
		}
		return false
	}
	return role == domain.RoleAdmin
}

func (s *Store) setUser(user *domain.User, admin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.admin = admin
}

func (s *Store) setSignedOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.admin = false
}
