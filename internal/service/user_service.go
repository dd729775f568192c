package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-tracker/internal/auth"
	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/events"
	"github.com/spec-kit/ticket-tracker/internal/repository"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// UserService handles the user creation command.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger, bcryptCost int) *UserService {
	return &UserService{
		users:      users,
		dispatcher: dispatcher,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// CreateUser creates a new account. Name and password must be non-empty
// after trimming. The pre-emptive name lookup is an early exit only; the
// authoritative duplicate check is the uq_users_name constraint, whose
// violation is remapped to Conflict so concurrent creations race safely.
func (s *UserService) CreateUser(ctx context.Context, name, email, password string) (int64, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if name == "" || password == "" {
		return 0, apperrors.NewValidationError("name and password required", nil)
	}

	if _, err := s.users.GetByName(ctx, name); err == nil {
		return 0, apperrors.NewConflict("user already exists", map[string]any{"name": name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		s.logger.Error("user lookup failed", zap.Error(err))
		return 0, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return 0, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err, "uq_users_name") {
			s.logger.Warn("duplicate username detected", zap.String("name", name))
			return 0, apperrors.NewConflict("user already exists", map[string]any{"name": name})
		}
		s.logger.Error("unexpected error while creating user", zap.Error(err))
		return 0, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventUserCreated,
		ActorID: user.ID,
		Payload: events.UserCreatedPayload{UserID: user.ID, Name: user.Name},
	})
	return user.ID, nil
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
