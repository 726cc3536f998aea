package greeting

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/okra-platform/greeter/internal/store"
)

// maxCreateAttempts bounds identifier regeneration on key collisions
const maxCreateAttempts = 3

const canonicalIDLength = 36

// Service greets callers and registers users
type Service interface {
	// Greeting returns the fixed greeting
	Greeting(ctx context.Context) GreetingMain
	// Create registers a user under a newly generated identifier
	Create(ctx context.Context, user UserData) (GreetingUser, error)
	// Lookup returns the user registered under id
	Lookup(ctx context.Context, id uuid.UUID) (UserData, error)
}

// IDGenerator produces new random identifiers
type IDGenerator func() (uuid.UUID, error)

// Option configures a service
type Option func(*service)

// WithIDGenerator replaces the default random UUID generator
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *service) {
		s.newID = gen
	}
}

// WithLogger sets the service logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *service) {
		s.logger = logger.With().Str("component", "greeting").Logger()
	}
}

type service struct {
	users  store.Store[UserData]
	newID  IDGenerator
	logger zerolog.Logger
}

// NewService creates a service backed by the given store
func NewService(users store.Store[UserData], opts ...Option) Service {
	s := &service{
		users:  users,
		newID:  uuid.NewRandom,
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *service) Greeting(ctx context.Context) GreetingMain {
	return NewGreetingMain()
}

func (s *service) Create(ctx context.Context, user UserData) (GreetingUser, error) {
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return GreetingUser{}, fmt.Errorf("failed to generate identifier: %w", err)
		}

		if s.users.PutIfAbsent(id, user) {
			s.logger.Debug().
				Str("id", id.String()).
				Msg("user registered")
			return NewGreetingUser(user, id), nil
		}

		s.logger.Warn().
			Str("id", id.String()).
			Int("attempt", attempt).
			Msg("identifier collision, regenerating")
	}

	return GreetingUser{}, ErrIdentifierExhausted
}

func (s *service) Lookup(ctx context.Context, id uuid.UUID) (UserData, error) {
	user, ok := s.users.Get(id)
	if !ok {
		return UserData{}, ErrUserNotFound
	}
	return user, nil
}

// ParseID parses an identifier in its canonical textual form
// (xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx). The braced, urn and undashed
// forms uuid.Parse also understands are rejected.
func ParseID(raw string) (uuid.UUID, error) {
	if len(raw) != canonicalIDLength {
		return uuid.Nil, fmt.Errorf("%w: invalid length %d", ErrMalformedID, len(raw))
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrMalformedID, err)
	}
	return id, nil
}
