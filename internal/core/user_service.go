package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"campustrace-backend-go/internal/db"
	"campustrace-backend-go/internal/models"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// userService implements the UserService interface.
type userService struct {
	users    db.UserRepository
	auth     AuthAdmin // nil when Firebase Authentication is not configured
	sessions *SessionBroker
	validate *validator.Validate
	log      *zap.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(users db.UserRepository, auth AuthAdmin, sessions *SessionBroker, log *zap.Logger) UserService {
	return &userService{
		users:    users,
		auth:     auth,
		sessions: sessions,
		validate: validator.New(),
		log:      log,
	}
}

// Register creates an email/password account and mirrors it into the users collection.
func (s *userService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Var(req.Email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(req.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	if s.auth == nil {
		return nil, ErrAuthUnavailable
	}

	name := strings.TrimSpace(req.Name)
	uid, err := s.auth.CreateUser(ctx, req.Email, req.Password, name)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = req.Email
	}

	user := &models.User{ID: uid, Name: name, Email: req.Email}
	if err := s.users.Create(ctx, user); err != nil && !errors.Is(err, db.ErrAlreadyExists) {
		// The account exists in Auth; InitializeUser will mirror it on first sign-in.
		s.log.Warn("Failed to mirror registered user", zap.String("userID", uid), zap.Error(err))
	}
	s.log.Info("User registered", zap.String("userID", uid))
	return user, nil
}

func (s *userService) InitializeUser(ctx context.Context, principal models.Principal) (*models.User, bool, error) {
	if principal.UID == "" {
		return nil, false, fmt.Errorf("%w: missing user", ErrValidation)
	}
	s.sessions.Publish(models.SessionEvent{
		Type:      models.SessionSignedIn,
		UserID:    principal.UID,
		Anonymous: principal.Anonymous,
		At:        time.Now().UTC(),
	})
	if principal.Anonymous {
		return nil, false, nil
	}

	user, err := s.users.GetByID(ctx, principal.UID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to get user by ID '%s' from repository: %w", principal.UID, err)
	}

	user = &models.User{
		ID:           principal.UID,
		Name:         principal.DisplayName(),
		Email:        principal.Email,
		ProfileImage: principal.Picture,
	}
	err = s.users.Create(ctx, user)
	if errors.Is(err, db.ErrAlreadyExists) {
		// Another request for the same user won the race.
		existing, getErr := s.users.GetByID(ctx, principal.UID)
		if getErr != nil {
			return nil, false, fmt.Errorf("failed to re-read user '%s': %w", principal.UID, getErr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user (id: %s): %w", principal.UID, err)
	}
	s.log.Info("User mirrored on first sign-in", zap.String("userID", principal.UID))
	return user, true, nil
}

func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return user, nil
}

// SignOut revokes the user's refresh tokens and notifies open session streams.
func (s *userService) SignOut(ctx context.Context, userID string) error {
	if s.auth == nil {
		return ErrAuthUnavailable
	}
	if err := s.auth.RevokeRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke tokens for user '%s': %w", userID, err)
	}
	s.sessions.Publish(models.SessionEvent{
		Type:   models.SessionSignedOut,
		UserID: userID,
		At:     time.Now().UTC(),
	})
	return nil
}
