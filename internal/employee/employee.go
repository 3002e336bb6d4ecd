package employee

import (
	"errors"
	"strconv"
	"strings"
	"time"

	employeeDatamodel "github.com/frahmantamala/employee-directory/internal/core/datamodel/employee"
)

const DefaultAttendance = "100%"

var ErrNotFound = errors.New("employee not found")

type Employee struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Class      string    `json:"class"`
	Subjects   []string  `json:"subjects"`
	Attendance string    `json:"attendance"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	Salary     *float64  `json:"salary,omitempty"`
	HireDate   time.Time `json:"hireDate"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewEmployee builds a record from create input. Identity and timestamps are
// left for the repository to assign.
func NewEmployee(dto CreateEmployeeDTO, hireDate time.Time) *Employee {
	isActive := true
	if dto.IsActive != nil {
		isActive = *dto.IsActive
	}

	subjects := make([]string, len(dto.Subjects))
	copy(subjects, dto.Subjects)

	var salary *float64
	if dto.Salary != nil {
		s := *dto.Salary
		salary = &s
	}

	return &Employee{
		EmployeeID: dto.EmployeeID,
		Name:       dto.Name,
		Age:        dto.Age,
		Class:      dto.Class,
		Subjects:   subjects,
		Attendance: DefaultAttendance,
		Email:      dto.Email,
		Department: dto.Department,
		Position:   dto.Position,
		Salary:     salary,
		HireDate:   hireDate,
		IsActive:   isActive,
	}
}

// Clone returns a deep copy so callers never share slices or pointers with a
// stored record.
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	c := *e
	if e.Subjects != nil {
		c.Subjects = make([]string, len(e.Subjects))
		copy(c.Subjects, e.Subjects)
	}
	if e.Salary != nil {
		s := *e.Salary
		c.Salary = &s
	}
	return &c
}

// Apply merges the provided fields into the record and refreshes UpdatedAt.
// Nil fields are left untouched.
func (e *Employee) Apply(patch UpdateEmployeeDTO, now time.Time) {
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Age != nil {
		e.Age = *patch.Age
	}
	if patch.Class != nil {
		e.Class = *patch.Class
	}
	if patch.Subjects != nil {
		e.Subjects = make([]string, len(*patch.Subjects))
		copy(e.Subjects, *patch.Subjects)
	}
	if patch.Email != nil {
		e.Email = *patch.Email
	}
	if patch.Department != nil {
		e.Department = *patch.Department
	}
	if patch.Position != nil {
		e.Position = *patch.Position
	}
	if patch.Salary != nil {
		s := *patch.Salary
		e.Salary = &s
	}
	if patch.IsActive != nil {
		e.IsActive = *patch.IsActive
	}
	if patch.Attendance != nil {
		e.Attendance = *patch.Attendance
	}
	e.UpdatedAt = now
}

// AttendancePercent parses "95%" into 95. Values that do not parse count as
// zero; writes are validated so this only happens on corrupted data.
func (e *Employee) AttendancePercent() int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(e.Attendance), "%"))
	if err != nil {
		return 0
	}
	return n
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Name:       e.Name,
		Age:        e.Age,
		Class:      e.Class,
		Subjects:   append([]string(nil), e.Subjects...),
		Attendance: e.Attendance,
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		Salary:     e.Salary,
		HireDate:   e.HireDate,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	subjects := e.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	return (&Employee{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Name:       e.Name,
		Age:        e.Age,
		Class:      e.Class,
		Subjects:   subjects,
		Attendance: e.Attendance,
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		Salary:     e.Salary,
		HireDate:   e.HireDate,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}).Clone()
}

func FromDataModelSlice(employees []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(employees))
	for i, e := range employees {
		result[i] = FromDataModel(e)
	}
	return result
}
