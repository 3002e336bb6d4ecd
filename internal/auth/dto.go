package auth

import (
	"github.com/frahmantamala/employee-directory/internal"
	"github.com/frahmantamala/employee-directory/internal/core/common/validation"
	"github.com/frahmantamala/employee-directory/internal/user"
)

const MinPasswordLength = 8

// LoginDTO is the transport shape used to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type RegisterDTO struct {
	Email      string    `json:"email"`
	Password   string    `json:"password"`
	Role       user.Role `json:"role"`
	EmployeeID *string   `json:"employeeId,omitempty"`
}

func (d RegisterDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Custom(func(value interface{}) *internal.AppError {
		if len(d.Password) < MinPasswordLength {
			return internal.NewValidationFieldError("password", "password must be at least 8 characters", internal.ErrCodeInvalidPassword)
		}
		return nil
	})
	v.Field("role", string(d.Role)).OneOf(internal.ErrCodeInvalidRole, string(user.RoleAdmin), string(user.RoleEmployee))
	if d.Role == user.RoleAdmin && d.EmployeeID != nil {
		v.Field("employeeId", *d.EmployeeID).Custom(func(value interface{}) *internal.AppError {
			return internal.NewValidationFieldError("employeeId", "only EMPLOYEE users can be linked to an employee", internal.ErrCodeInvalidRole)
		})
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Payload is returned by login and register.
type Payload struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

type PayloadV1 struct {
	Token string       `json:"token"`
	User  user.Profile `json:"user"`
}

func (p *Payload) ToV1() PayloadV1 {
	return PayloadV1{
		Token: p.Token,
		User:  user.ToProfile(p.User),
	}
}
