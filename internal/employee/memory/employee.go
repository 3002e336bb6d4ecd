package memory

import (
	"context"
	"sync"
	"time"

	"github.com/frahmantamala/employee-directory/internal/employee"
	"github.com/google/uuid"
)

// EmployeeRepository keeps employees in insertion order. Every operation is a
// linear scan under one lock and hands out copies, never stored pointers.
type EmployeeRepository struct {
	mu        sync.RWMutex
	employees []*employee.Employee
	now       func() time.Time
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{now: time.Now}
}

// WithClock replaces the time source used for created/updated timestamps.
func (r *EmployeeRepository) WithClock(now func() time.Time) *EmployeeRepository {
	r.now = now
	return r
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*employee.Employee, len(r.employees))
	for i, e := range r.employees {
		result[i] = e.Clone()
	}
	return result, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.employees[i].Clone(), nil
	}
	return nil, employee.ErrNotFound
}

func (r *EmployeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.employees {
		if e.EmployeeID == employeeID {
			return e.Clone(), nil
		}
	}
	return nil, employee.ErrNotFound
}

// Create assigns a fresh id and timestamps. Uniqueness of the employee code
// is the caller's responsibility.
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	stored := e.Clone()
	now := r.now()
	stored.ID = uuid.New().String()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Subjects == nil {
		stored.Subjects = []string{}
	}

	r.mu.Lock()
	r.employees = append(r.employees, stored)
	r.mu.Unlock()

	return stored.Clone(), nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, patch employee.UpdateEmployeeDTO) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, employee.ErrNotFound
	}
	r.employees[i].Apply(patch, r.now())
	return r.employees[i].Clone(), nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	r.employees = append(r.employees[:i], r.employees[i+1:]...)
	return true, nil
}

func (r *EmployeeRepository) indexOf(id string) int {
	for i, e := range r.employees {
		if e.ID == id {
			return i
		}
	}
	return -1
}
