package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"lensbook-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// IdentityBackend is the contract the manager needs from the identity
// provider. CurrentSession returns (nil, nil) when the presented token does
// not map to a live session.
type IdentityBackend interface {
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignUp(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context, sessionID string) error
	CurrentSession(ctx context.Context, token string) (*models.Session, error)
}

// ProfileStore is the contract the manager needs from the profile table.
// GetProfile returns (nil, nil) when no row exists for the user.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	InsertProfile(ctx context.Context, user *models.User) error
}

// Manager owns exactly one authoritative (Session, User) pair and notifies
// subscribers whenever it is replaced. It is an explicit, constructed object:
// callers that need the current user hold a reference to the manager instead
// of reading ambient global state.
//
// The pair is replaced atomically under the mutex; readers never observe a
// session without the user resolution that belongs to it.
type Manager struct {
	identity IdentityBackend
	profiles ProfileStore

	mu          sync.RWMutex
	session     *models.Session
	user        *models.User
	loading     bool
	subscribers []func(*models.User)
}

// NewManager creates a session manager over the given collaborators.
func NewManager(identity IdentityBackend, profiles ProfileStore) *Manager {
	return &Manager{
		identity: identity,
		profiles: profiles,
		loading:  true,
	}
}

// Bootstrap resolves any persisted session behind token. An unreachable
// backend or a dead token both end with no user and no error; loading is
// marked complete in every path.
func (m *Manager) Bootstrap(ctx context.Context, token string) error {
	defer m.finishLoading()

	if token == "" {
		m.replace(nil, nil)
		return nil
	}

	sess, err := m.identity.CurrentSession(ctx, token)
	if err != nil {
		log.Warn().Err(err).Msg("Session bootstrap could not reach identity backend")
		m.replace(nil, nil)
		return nil
	}
	if sess == nil {
		m.replace(nil, nil)
		return nil
	}

	m.replace(sess, ResolveUser(ctx, m.profiles, sess))
	return nil
}

// Login exchanges credentials for a session. The caller observes the result
// through the manager state rather than a return value.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	sess, err := m.identity.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	m.replace(sess, ResolveUser(ctx, m.profiles, sess))
	return nil
}

// Register creates an identity record, then a matching profile row with the
// default photographer role. The two writes are not atomic: a failed profile
// insert leaves an identity without a profile, which ResolveUser compensates
// for at next read.
func (m *Manager) Register(ctx context.Context, email, password, fullName string) error {
	if strings.TrimSpace(fullName) == "" {
		return models.NewValidationError("full name is required")
	}

	sess, err := m.identity.SignUp(ctx, email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	profile := &models.User{
		ID:            sess.UserID,
		Email:         email,
		FullName:      strings.TrimSpace(fullName),
		Role:          models.RolePhotographer,
		AccountStatus: models.AccountPending,
		CreatedAt:     sess.CreatedAt,
	}
	if err := m.profiles.InsertProfile(ctx, profile); err != nil {
		m.replace(sess, ResolveUser(ctx, m.profiles, sess))
		return fmt.Errorf("profile insert failed: %w", err)
	}

	m.replace(sess, ResolveUser(ctx, m.profiles, sess))
	return nil
}

// Logout invalidates the session remotely and clears local state. Local
// state is cleared even when the invalidation call fails, so the caller is
// always logged out from its own point of view; the remote failure is still
// reported.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.RLock()
	sess := m.session
	m.mu.RUnlock()

	var remoteErr error
	if sess != nil {
		if err := m.identity.SignOut(ctx, sess.ID); err != nil {
			remoteErr = err
			if !errors.Is(err, models.ErrBackendUnavailable) {
				remoteErr = fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
			}
		}
	}

	m.replace(nil, nil)
	return remoteErr
}

// Current returns the session/user pair as last resolved.
func (m *Manager) Current() (*models.Session, *models.User) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session, m.user
}

// Loading reports whether the initial bootstrap is still in flight.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Subscribe registers fn to run on every user replacement. Subscribers all
// observe the same user value; there is no per-subscriber merge.
func (m *Manager) Subscribe(fn func(*models.User)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// replace swaps the pair atomically and notifies subscribers outside the
// write lock. Last writer wins; the new value fully supersedes the old one.
func (m *Manager) replace(sess *models.Session, user *models.User) {
	m.mu.Lock()
	m.session = sess
	m.user = user
	subs := make([]func(*models.User), len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(user)
	}
}

func (m *Manager) finishLoading() {
	m.mu.Lock()
	m.loading = false
	m.mu.Unlock()
}

// ResolveUser looks up the profile row for the session's subject. When the
// row is missing (mid-registration race, deleted profile) or the store
// errors, it falls back to a minimal user synthesized from session claims so
// an authenticated session is never paired with a nil user.
func ResolveUser(ctx context.Context, profiles ProfileStore, sess *models.Session) *models.User {
	user, err := profiles.GetProfile(ctx, sess.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", sess.UserID).Msg("Profile lookup failed, using session fallback")
	}
	if user != nil {
		return user
	}

	return &models.User{
		ID:            sess.UserID,
		Email:         sess.Email,
		FullName:      "New User",
		Role:          models.RolePhotographer,
		AccountStatus: models.AccountPending,
		CreatedAt:     sess.CreatedAt,
	}
}
