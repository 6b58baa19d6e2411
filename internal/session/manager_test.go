package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"lensbook-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct {
	accounts map[string]string // email -> password
	sessions map[string]*models.Session
	byToken  map[string]*models.Session

	unreachable bool
	signOutErr  error
	signedOut   []string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		accounts: make(map[string]string),
		sessions: make(map[string]*models.Session),
		byToken:  make(map[string]*models.Session),
	}
}

func (f *fakeIdentity) mint(email string) *models.Session {
	sess := &models.Session{
		ID:        uuid.New().String(),
		UserID:    uuid.New().String(),
		Email:     email,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	f.sessions[sess.ID] = sess
	f.byToken[sess.Token] = sess
	return sess
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*models.Session, error) {
	want, ok := f.accounts[email]
	if !ok || want != password {
		return nil, models.ErrInvalidCredentials
	}
	return f.mint(email), nil
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password string) (*models.Session, error) {
	f.accounts[email] = password
	return f.mint(email), nil
}

func (f *fakeIdentity) SignOut(_ context.Context, sessionID string) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.signedOut = append(f.signedOut, sessionID)
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeIdentity) CurrentSession(_ context.Context, token string) (*models.Session, error) {
	if f.unreachable {
		return nil, models.ErrBackendUnavailable
	}
	sess, ok := f.byToken[token]
	if !ok {
		return nil, nil
	}
	return sess, nil
}

type fakeProfiles struct {
	rows      map[string]*models.User
	getErr    error
	insertErr error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{rows: make(map[string]*models.User)}
}

func (f *fakeProfiles) GetProfile(_ context.Context, userID string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.rows[userID], nil
}

func (f *fakeProfiles) InsertProfile(_ context.Context, user *models.User) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows[user.ID] = user
	return nil
}

func TestLoginResolvesUser(t *testing.T) {
	identity := newFakeIdentity()
	identity.accounts["ana@example.com"] = "hunter2hunter2"
	profiles := newFakeProfiles()

	m := NewManager(identity, profiles)

	err := m.Login(context.Background(), "ana@example.com", "hunter2hunter2")
	require.NoError(t, err)

	sess, user := m.Current()
	require.NotNil(t, sess)
	require.NotNil(t, user)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, sess.UserID, user.ID)
}

func TestLoginInvalidCredentialsLeavesUserNil(t *testing.T) {
	identity := newFakeIdentity()
	identity.accounts["ana@example.com"] = "hunter2hunter2"

	m := NewManager(identity, newFakeProfiles())

	err := m.Login(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	sess, user := m.Current()
	assert.Nil(t, sess)
	assert.Nil(t, user)
}

func TestLogoutClearsUser(t *testing.T) {
	identity := newFakeIdentity()
	identity.accounts["ana@example.com"] = "hunter2hunter2"

	m := NewManager(identity, newFakeProfiles())
	require.NoError(t, m.Login(context.Background(), "ana@example.com", "hunter2hunter2"))

	require.NoError(t, m.Logout(context.Background()))

	sess, user := m.Current()
	assert.Nil(t, sess)
	assert.Nil(t, user)
	assert.Len(t, identity.signedOut, 1)
}

func TestLogoutForcesLocalSignOutWhenBackendFails(t *testing.T) {
	identity := newFakeIdentity()
	identity.accounts["ana@example.com"] = "hunter2hunter2"
	identity.signOutErr = errors.New("connection refused")

	m := NewManager(identity, newFakeProfiles())
	require.NoError(t, m.Login(context.Background(), "ana@example.com", "hunter2hunter2"))

	err := m.Logout(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrBackendUnavailable)

	// Local state is logged out regardless of the remote failure.
	sess, user := m.Current()
	assert.Nil(t, sess)
	assert.Nil(t, user)
}

func TestResolveUserFallsBackToSynthesizedProfile(t *testing.T) {
	identity := newFakeIdentity()
	profiles := newFakeProfiles()
	sess := identity.mint("new@example.com")

	user := ResolveUser(context.Background(), profiles, sess)
	require.NotNil(t, user)
	assert.Equal(t, sess.UserID, user.ID)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "New User", user.FullName)
	assert.Equal(t, models.RolePhotographer, user.Role)
}

func TestResolveUserPrefersProfileRow(t *testing.T) {
	identity := newFakeIdentity()
	profiles := newFakeProfiles()
	sess := identity.mint("ana@example.com")
	profiles.rows[sess.UserID] = &models.User{
		ID:       sess.UserID,
		Email:    "ana@example.com",
		FullName: "Ana",
		Role:     models.RoleModel,
	}

	user := ResolveUser(context.Background(), profiles, sess)
	require.NotNil(t, user)
	assert.Equal(t, "Ana", user.FullName)
	assert.Equal(t, models.RoleModel, user.Role)
}

func TestResolveUserFallsBackWhenStoreErrors(t *testing.T) {
	identity := newFakeIdentity()
	profiles := newFakeProfiles()
	profiles.getErr = errors.New("timeout")
	sess := identity.mint("ana@example.com")

	user := ResolveUser(context.Background(), profiles, sess)
	require.NotNil(t, user)
	assert.Equal(t, "New User", user.FullName)
}

func TestBootstrapWithPersistedSession(t *testing.T) {
	identity := newFakeIdentity()
	profiles := newFakeProfiles()
	sess := identity.mint("ana@example.com")

	m := NewManager(identity, profiles)
	assert.True(t, m.Loading())

	require.NoError(t, m.Bootstrap(context.Background(), sess.Token))
	assert.False(t, m.Loading())

	got, user := m.Current()
	require.NotNil(t, got)
	require.NotNil(t, user)
	assert.Equal(t, sess.UserID, user.ID)
}

func TestBootstrapToleratesUnreachableBackend(t *testing.T) {
	identity := newFakeIdentity()
	identity.unreachable = true

	m := NewManager(identity, newFakeProfiles())
	require.NoError(t, m.Bootstrap(context.Background(), "some-token"))

	assert.False(t, m.Loading())
	sess, user := m.Current()
	assert.Nil(t, sess)
	assert.Nil(t, user)
}

func TestBootstrapWithoutToken(t *testing.T) {
	m := NewManager(newFakeIdentity(), newFakeProfiles())
	require.NoError(t, m.Bootstrap(context.Background(), ""))

	assert.False(t, m.Loading())
	sess, user := m.Current()
	assert.Nil(t, sess)
	assert.Nil(t, user)
}

func TestRegisterCreatesProfileWithDefaults(t *testing.T) {
	identity := newFakeIdentity()
	profiles := newFakeProfiles()

	m := NewManager(identity, profiles)
	require.NoError(t, m.Register(context.Background(), "new@example.com", "hunter2hunter2", "Nora Field"))

	sess, user := m.Current()
	require.NotNil(t, sess)
	require.NotNil(t, user)
	assert.Equal(t, "Nora Field", user.FullName)
	assert.Equal(t, models.RolePhotographer, user.Role)

	row := profiles.rows[sess.UserID]
	require.NotNil(t, row)
	assert.Equal(t, models.RolePhotographer, row.Role)
}

func TestRegisterProfileInsertFailureStillAuthenticates(t *testing.T) {
	identity := newFakeIdentity()
	profiles := newFakeProfiles()
	profiles.insertErr = errors.New("unique violation")

	m := NewManager(identity, profiles)
	err := m.Register(context.Background(), "new@example.com", "hunter2hunter2", "Nora Field")
	require.Error(t, err)

	// The identity write stood; the fallback keeps the session usable.
	sess, user := m.Current()
	require.NotNil(t, sess)
	require.NotNil(t, user)
	assert.Equal(t, "New User", user.FullName)
}

func TestSubscribersObserveReplacements(t *testing.T) {
	identity := newFakeIdentity()
	identity.accounts["ana@example.com"] = "hunter2hunter2"

	m := NewManager(identity, newFakeProfiles())

	var seen []*models.User
	m.Subscribe(func(u *models.User) { seen = append(seen, u) })

	require.NoError(t, m.Login(context.Background(), "ana@example.com", "hunter2hunter2"))
	require.NoError(t, m.Logout(context.Background()))

	require.Len(t, seen, 2)
	assert.NotNil(t, seen[0])
	assert.Nil(t, seen[1])
}
