package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/employee-directory/internal"
	"github.com/frahmantamala/employee-directory/internal/core/events"
	"github.com/frahmantamala/employee-directory/internal/employee"
	"github.com/frahmantamala/employee-directory/internal/user"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*Payload, error)
	Register(ctx context.Context, dto RegisterDTO) (*Payload, error)
	ResolveCaller(ctx context.Context, token string) *user.User
}

// EmployeeLookup resolves employee links. A nil employee with no error means
// the id is unknown.
type EmployeeLookup interface {
	GetByID(ctx context.Context, id string) (*employee.Employee, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// dummyPassword backs the hash compared against when a login email is
// unknown.
const dummyPassword = "not-a-real-password"

type Service struct {
	users      user.RepositoryAPI
	employees  EmployeeLookup
	tokens     TokenGeneratorAPI
	publisher  EventPublisher
	logger     *slog.Logger
	bcryptCost int
	dummyHash  string
}

func NewService(users user.RepositoryAPI, employees EmployeeLookup, tokens TokenGeneratorAPI, publisher EventPublisher, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost <= 0 {
		bcryptCost = DefaultBCryptCost
	}
	dummyHash, err := HashPassword(dummyPassword, bcryptCost)
	if err != nil {
		logger.Warn("bcrypt cost rejected, using default", "cost", bcryptCost, "error", err)
		bcryptCost = DefaultBCryptCost
		dummyHash = mustHash(dummyPassword, bcryptCost)
	}
	return &Service{
		users:      users,
		employees:  employees,
		tokens:     tokens,
		publisher:  publisher,
		logger:     logger,
		bcryptCost: bcryptCost,
		dummyHash:  dummyHash,
	}
}

func mustHash(password string, cost int) string {
	hash, err := HashPassword(password, cost)
	if err != nil {
		panic(fmt.Sprintf("auth: hashing with cost %d: %v", cost, err))
	}
	return hash
}

// Login checks credentials. Unknown emails and wrong passwords produce the
// same error.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Payload, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		s.logger.Error("failed to look up user for login", "error", err)
		return nil, internal.NewInternalError("failed to log in", err)
	}
	if u == nil {
		// unknown emails still pay for one bcrypt comparison
		VerifyPassword(dto.Password, s.dummyHash)
		s.logger.Warn("login failed", "reason", "unknown email")
		return nil, internal.ErrInvalidCredentials
	}
	if !VerifyPassword(dto.Password, u.PasswordHash) {
		s.logger.Warn("login failed", "reason", "password mismatch", "user_id", u.ID)
		return nil, internal.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err, "user_id", u.ID)
		return nil, internal.NewInternalError("failed to log in", err)
	}

	s.logger.Info("user logged in", "user_id", u.ID, "role", u.Role)
	return &Payload{Token: token, User: u.Redacted()}, nil
}

// Register creates a credential record and signs a token for it. Callers
// must already have passed the admin gate.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*Payload, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("register validation failed", "error", err)
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		s.logger.Error("failed to check email uniqueness", "error", err)
		return nil, internal.NewInternalError("failed to register user", err)
	}
	if existing != nil {
		s.logger.Warn("duplicate email on register")
		return nil, internal.ErrDuplicateEmail
	}

	if dto.EmployeeID != nil {
		linked, err := s.employees.GetByID(ctx, *dto.EmployeeID)
		if err != nil {
			return nil, err
		}
		if linked == nil {
			s.logger.Warn("register references unknown employee", "employee_id", *dto.EmployeeID)
			return nil, internal.ErrEmployeeNotFound
		}
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to register user", err)
	}

	created, err := s.users.Create(ctx, &user.User{
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         dto.Role,
		EmployeeID:   dto.EmployeeID,
	})
	if err != nil {
		s.logger.Error("failed to create user", "error", err)
		return nil, internal.NewInternalError("failed to register user", err)
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err, "user_id", created.ID)
		return nil, internal.NewInternalError("failed to register user", err)
	}

	s.logger.Info("user registered", "user_id", created.ID, "role", created.Role)
	if s.publisher != nil {
		event := events.NewUserRegisteredEvent(created.ID, created.Email, string(created.Role), internal.CallerInfoFromContext(ctx).UserID)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish event", "error", err, "event_type", event.EventType())
		}
	}

	return &Payload{Token: token, User: created.Redacted()}, nil
}

// ResolveCaller maps a bearer token to the stored user. Any failure yields
// nil, meaning an anonymous caller.
func (s *Service) ResolveCaller(ctx context.Context, token string) *user.User {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Debug("token rejected", "error", err)
		return nil
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			s.logger.Error("failed to load caller", "error", err, "user_id", claims.UserID)
		}
		return nil
	}
	return u
}
