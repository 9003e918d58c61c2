package service

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"staff-service/internal/entity"
	"staff-service/internal/events"
	"staff-service/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// UserService runs user operations on a shared executable context, normally
// the process-wide pool.
type UserService struct {
	db        repository.DBTX
	dialect   repository.Dialect
	publisher events.Publisher
}

// NewUserService creates a new instance of UserService. A nil publisher
// disables events.
func NewUserService(db repository.DBTX, dialect repository.Dialect, publisher events.Publisher) *UserService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &UserService{db: db, dialect: dialect, publisher: publisher}
}

func (s *UserService) users() *repository.UserRepository {
	return repository.NewUserRepository(s.db, s.dialect)
}

// CreateUser stores user and announces it.
func (s *UserService) CreateUser(ctx context.Context, user *entity.User) error {
	if err := s.users().Create(ctx, user); err != nil {
		logger.Error().Err(err).Str("kind", repository.KindOf(err).String()).Msgf("Failed to create user %s", user.Username)
		return err
	}
	logger.Info().Msgf("created user %s", user.Username)

	s.publish(ctx, events.UserCreated, *user)
	return nil
}

// DeleteUser removes the user and announces it.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	if err := s.users().Delete(ctx, username); err != nil {
		if repository.KindOf(err) == repository.KindNotFound {
			logger.Warn().Msgf("delete of unknown user %s", username)
		} else {
			logger.Error().Err(err).Msgf("Failed to delete user %s", username)
		}
		return err
	}
	logger.Info().Msgf("deleted user %s", username)

	s.publish(ctx, events.UserDeleted, entity.User{Username: username})
	return nil
}

// GetUser returns nil, nil when the user does not exist.
func (s *UserService) GetUser(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.users().Get(ctx, username)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting user %s", username)
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.users().List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing users")
		return nil, err
	}
	return users, nil
}

// CheckDB reports whether the database answers a trivial query.
func (s *UserService) CheckDB(ctx context.Context) error {
	return s.users().Ping(ctx)
}

// publish logs delivery failures instead of returning them.
func (s *UserService) publish(ctx context.Context, kind string, user entity.User) {
	evt := events.UserEvent{Type: kind, User: user, OccurredAt: time.Now().UTC()}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.Warn().Err(err).Msgf("Failed to publish user-%s event for %s", kind, user.Username)
	}
}
