package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lensbook-backend/internal/models"
	"lensbook-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionTTLDays = 30
	bcryptCost     = 12
	maxPasswordLen = 72 // bcrypt input limit
	minPasswordLen = 8
)

// AuthService handles identity, credentials and session lifecycle. It is
// the concrete identity backend behind session.Manager.
type AuthService struct {
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository
	jwtSecret   string
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, profileRepo *repository.ProfileRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtSecret:   jwtSecret,
	}
}

// SignUp creates an identity record and opens a session for it
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, models.NewValidationError("email is required")
	}
	if len(password) < minPasswordLen {
		return nil, models.NewValidationError("password must be at least 8 characters")
	}
	if len(password) > maxPasswordLen {
		return nil, models.NewValidationError("password exceeds 72 bytes")
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, models.NewValidationError("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &models.Identity{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.CreateIdentity(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	return s.mintSession(ctx, identity)
}

// SignIn exchanges credentials for a session. A wrong email and a wrong
// password are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	identity, err := s.userRepo.GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.mintSession(ctx, identity)
}

// SignOut invalidates a session server-side
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if err := s.userRepo.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
	}
	return nil
}

// CurrentSession resolves a bearer token to its live session. A malformed
// token, a deleted session row and an expired session all resolve to
// (nil, nil): a dead credential is a state, not an error.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*models.Session, error) {
	sessionID, _, err := s.parseJWT(token)
	if err != nil {
		return nil, nil
	}

	session, err := s.userRepo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, nil
	}

	session.Token = token
	return session, nil
}

// Register creates the identity and the matching profile row with the
// default photographer role. The two inserts are not atomic: a failed
// profile insert leaves an identity without a profile, which the profile
// resolution fallback compensates for.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*models.Session, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, models.NewValidationError("full name is required")
	}

	session, err := s.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile := &models.User{
		ID:            session.UserID,
		Email:         session.Email,
		FullName:      strings.TrimSpace(fullName),
		Role:          models.RolePhotographer,
		AccountStatus: models.AccountPending,
		CreatedAt:     session.CreatedAt,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return session, nil
}

// mintSession persists a session row and signs a JWT bound to it
func (s *AuthService) mintSession(ctx context.Context, identity *models.Identity) (*models.Session, error) {
	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    identity.ID,
		Email:     identity.Email,
		ExpiresAt: time.Now().AddDate(0, 0, sessionTTLDays),
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.signJWT(session)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	session.Token = token

	return session, nil
}

// signJWT signs a token carrying the session and user IDs
func (s *AuthService) signJWT(session *models.Session) (string, error) {
	claims := jwt.MapClaims{
		"session_id": session.ID,
		"user_id":    session.UserID,
		"exp":        session.ExpiresAt.Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// parseJWT validates a token and returns the session and user IDs
func (s *AuthService) parseJWT(tokenString string) (sessionID, userID string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}
	sessionID, ok = claims["session_id"].(string)
	if !ok {
		return "", "", fmt.Errorf("session_id not found in token")
	}
	userID, ok = claims["user_id"].(string)
	if !ok {
		return "", "", fmt.Errorf("user_id not found in token")
	}

	return sessionID, userID, nil
}
