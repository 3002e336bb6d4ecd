package user

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	Seq          int64     `gorm:"column:seq;index"`
	Email        string    `gorm:"column:email;index;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;type:varchar(16);not null"`
	EmployeeID   *string   `gorm:"column:employee_id;type:varchar(36)"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (User) TableName() string {
	return "users"
}
