package user

import "time"

// Profile is the outward view of a user. It has no password field at all.
type Profile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	EmployeeID *string   `json:"employeeId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func ToProfile(u *User) Profile {
	return Profile{
		ID:         u.ID,
		Email:      u.Email,
		Role:       u.Role,
		EmployeeID: u.EmployeeID,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
