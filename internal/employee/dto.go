package employee

import (
	"github.com/frahmantamala/employee-directory/internal"
	"github.com/frahmantamala/employee-directory/internal/core/common/validation"
)

const (
	MinAge = 16
	MaxAge = 100
)

// CreateEmployeeDTO carries every field an admin supplies when adding an
// employee. Attendance and hire date are not part of the input.
type CreateEmployeeDTO struct {
	EmployeeID string   `json:"employeeId"`
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	Class      string   `json:"class"`
	Subjects   []string `json:"subjects"`
	Email      string   `json:"email"`
	Department string   `json:"department"`
	Position   string   `json:"position"`
	Salary     *float64 `json:"salary,omitempty"`
	IsActive   *bool    `json:"isActive,omitempty"`
}

func (d CreateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employeeId", d.EmployeeID).Required().MaxLength(32)
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("age", d.Age).IntRange(MinAge, MaxAge, internal.ErrCodeInvalidAge)
	v.Field("class", d.Class).Required().MaxLength(100)
	v.Field("subjects", d.Subjects).NoBlankItems()
	v.Field("email", d.Email).Required().Email()
	v.Field("department", d.Department).Required().MaxLength(100)
	v.Field("position", d.Position).Required().MaxLength(100)
	v.Optional("salary", d.Salary).NonNegative(internal.ErrCodeInvalidSalary)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateEmployeeDTO is a partial update: nil means "leave unchanged".
type UpdateEmployeeDTO struct {
	Name       *string   `json:"name,omitempty"`
	Age        *int      `json:"age,omitempty"`
	Class      *string   `json:"class,omitempty"`
	Subjects   *[]string `json:"subjects,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Department *string   `json:"department,omitempty"`
	Position   *string   `json:"position,omitempty"`
	Salary     *float64  `json:"salary,omitempty"`
	IsActive   *bool     `json:"isActive,omitempty"`
	Attendance *string   `json:"attendance,omitempty"`
}

func (d UpdateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Optional("name", d.Name).Required().MaxLength(200)
	v.Optional("age", d.Age).IntRange(MinAge, MaxAge, internal.ErrCodeInvalidAge)
	v.Optional("class", d.Class).Required().MaxLength(100)
	v.Optional("subjects", d.Subjects).NoBlankItems()
	v.Optional("email", d.Email).Required().Email()
	v.Optional("department", d.Department).Required().MaxLength(100)
	v.Optional("position", d.Position).Required().MaxLength(100)
	v.Optional("salary", d.Salary).NonNegative(internal.ErrCodeInvalidSalary)
	v.Optional("attendance", d.Attendance).Attendance()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// SelfUpdateDTO is the subset of fields an employee may change on their own
// record.
type SelfUpdateDTO struct {
	Subjects *[]string `json:"subjects,omitempty"`
	Email    *string   `json:"email,omitempty"`
}

func (d SelfUpdateDTO) Validate() error {
	return d.ToUpdate().Validate()
}

func (d SelfUpdateDTO) ToUpdate() UpdateEmployeeDTO {
	return UpdateEmployeeDTO{
		Subjects: d.Subjects,
		Email:    d.Email,
	}
}
