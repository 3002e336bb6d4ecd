package postgres

import (
	"context"
	"errors"
	"time"

	employeeDatamodel "github.com/frahmantamala/employee-directory/internal/core/datamodel/employee"
	"github.com/frahmantamala/employee-directory/internal/employee"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db, now: time.Now}
}

func (r *EmployeeRepository) WithClock(now func() time.Time) *EmployeeRepository {
	r.now = now
	return r
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	var rows []*employeeDatamodel.Employee
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(rows), nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *EmployeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*employee.Employee, error) {
	return r.first(ctx, "employee_id = ?", employeeID)
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	row := employee.ToDataModel(e)
	now := r.now()
	row.ID = uuid.New().String()
	row.CreatedAt = now
	row.UpdatedAt = now
	if row.Subjects == nil {
		row.Subjects = []string{}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxSeq int64
		if err := tx.Model(&employeeDatamodel.Employee{}).Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error; err != nil {
			return err
		}
		row.Seq = maxSeq + 1
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, err
	}
	return employee.FromDataModel(row), nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, patch employee.UpdateEmployeeDTO) (*employee.Employee, error) {
	var updated *employee.Employee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row employeeDatamodel.Employee
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employee.ErrNotFound
			}
			return err
		}

		e := employee.FromDataModel(&row)
		e.Apply(patch, r.now())

		next := employee.ToDataModel(e)
		next.Seq = row.Seq
		if err := tx.Save(next).Error; err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&employeeDatamodel.Employee{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *EmployeeRepository) first(ctx context.Context, query string, arg string) (*employee.Employee, error) {
	var row employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&row), nil
}
