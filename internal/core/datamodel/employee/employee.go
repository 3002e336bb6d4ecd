package employee

import "time"

// Employee is the SQL row. Seq keeps insertion order for listing. employee_id
// carries a plain index: uniqueness is checked by the service, the same as
// the in-memory store.
type Employee struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	Seq        int64     `gorm:"column:seq;index"`
	EmployeeID string    `gorm:"column:employee_id;index;not null"`
	Name       string    `gorm:"column:name;not null"`
	Age        int       `gorm:"column:age;not null"`
	Class      string    `gorm:"column:class;not null"`
	Subjects   []string  `gorm:"column:subjects;type:text;serializer:json"`
	Attendance string    `gorm:"column:attendance;not null"`
	Email      string    `gorm:"column:email;not null"`
	Department string    `gorm:"column:department;not null"`
	Position   string    `gorm:"column:position;not null"`
	Salary     *float64  `gorm:"column:salary"`
	HireDate   time.Time `gorm:"column:hire_date"`
	IsActive   bool      `gorm:"column:is_active"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (Employee) TableName() string {
	return "employees"
}
