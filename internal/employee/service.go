package employee

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/employee-directory/internal"
	"github.com/frahmantamala/employee-directory/internal/core/events"
)

// RepositoryAPI is the record store contract shared by the in-memory and SQL
// backends. Reads return copies the caller may mutate freely.
type RepositoryAPI interface {
	List(ctx context.Context) ([]*Employee, error)
	GetByID(ctx context.Context, id string) (*Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*Employee, error)
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, id string, patch UpdateEmployeeDTO) (*Employee, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ServiceAPI interface {
	List(ctx context.Context, q Query) (*Connection, error)
	GetByID(ctx context.Context, id string) (*Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*Employee, error)
	Create(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error)
	Update(ctx context.Context, id string, dto UpdateEmployeeDTO) (*Employee, error)
	Delete(ctx context.Context, id string) (bool, error)
	UpdateProfile(ctx context.Context, linkedEmployeeID *string, dto SelfUpdateDTO) (*Employee, error)
	Stats(ctx context.Context) (*Stats, error)
}

type Service struct {
	repo      RepositoryAPI
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for hire dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context, q Query) (*Connection, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}

	conn, err := Run(employees, q)
	if err != nil {
		s.logger.Warn("invalid employee query", "error", err)
		return nil, err
	}
	return conn, nil
}

// GetByID returns nil without error when no record has the id.
func (s *Service) GetByID(ctx context.Context, id string) (*Employee, error) {
	e, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to get employee", "error", err, "id", id)
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	return e, nil
}

// GetByEmployeeID returns nil without error when no record has the code.
func (s *Service) GetByEmployeeID(ctx context.Context, employeeID string) (*Employee, error) {
	e, err := s.repo.GetByEmployeeID(ctx, employeeID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to get employee by code", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	return e, nil
}

func (s *Service) Create(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("employee validation failed", "error", err, "employee_id", dto.EmployeeID)
		return nil, err
	}

	existing, err := s.GetByEmployeeID(ctx, dto.EmployeeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Warn("duplicate employee id", "employee_id", dto.EmployeeID)
		return nil, internal.ErrDuplicateEmployeeID
	}

	created, err := s.repo.Create(ctx, NewEmployee(dto, s.now()))
	if err != nil {
		s.logger.Error("failed to create employee", "error", err, "employee_id", dto.EmployeeID)
		return nil, internal.NewInternalError("failed to create employee", err)
	}

	s.logger.Info("employee created", "id", created.ID, "employee_id", created.EmployeeID)
	s.publish(ctx, events.NewEmployeeCreatedEvent(created.ID, created.EmployeeID, actorID(ctx)))
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("employee update validation failed", "error", err, "id", id)
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, dto)
	if errors.Is(err, ErrNotFound) {
		s.logger.Warn("employee not found for update", "id", id)
		return nil, internal.ErrEmployeeNotFound
	}
	if err != nil {
		s.logger.Error("failed to update employee", "error", err, "id", id)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	s.logger.Info("employee updated", "id", updated.ID, "employee_id", updated.EmployeeID)
	s.publish(ctx, events.NewEmployeeUpdatedEvent(updated.ID, updated.EmployeeID, actorID(ctx)))
	return updated, nil
}

// Delete reports false, not an error, when the id is unknown.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete employee", "error", err, "id", id)
		return false, internal.NewInternalError("failed to delete employee", err)
	}
	if !deleted {
		return false, nil
	}

	s.logger.Info("employee deleted", "id", id)
	s.publish(ctx, events.NewEmployeeDeletedEvent(id, actorID(ctx)))
	return true, nil
}

// UpdateProfile applies a self-service edit to the record the caller is
// linked to. Callers without a link are refused.
func (s *Service) UpdateProfile(ctx context.Context, linkedEmployeeID *string, dto SelfUpdateDTO) (*Employee, error) {
	if linkedEmployeeID == nil || *linkedEmployeeID == "" {
		return nil, internal.ErrEmployeeLink
	}
	if err := dto.Validate(); err != nil {
		s.logger.Warn("profile update validation failed", "error", err, "id", *linkedEmployeeID)
		return nil, err
	}

	updated, err := s.repo.Update(ctx, *linkedEmployeeID, dto.ToUpdate())
	if errors.Is(err, ErrNotFound) {
		s.logger.Warn("linked employee profile missing", "id", *linkedEmployeeID)
		return nil, internal.ErrProfileNotFound
	}
	if err != nil {
		s.logger.Error("failed to update profile", "error", err, "id", *linkedEmployeeID)
		return nil, internal.NewInternalError("failed to update profile", err)
	}

	s.logger.Info("employee profile updated", "id", updated.ID)
	s.publish(ctx, events.NewEmployeeUpdatedEvent(updated.ID, updated.EmployeeID, actorID(ctx)))
	return updated, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to load employees for stats", "error", err)
		return nil, internal.NewInternalError("failed to compute employee stats", err)
	}
	return ComputeStats(employees), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "error", err, "event_type", event.EventType())
	}
}

func actorID(ctx context.Context) string {
	return internal.CallerInfoFromContext(ctx).UserID
}
