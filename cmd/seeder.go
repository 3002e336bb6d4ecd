package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/frahmantamala/employee-directory/internal"
	"github.com/frahmantamala/employee-directory/internal/auth"
	"github.com/frahmantamala/employee-directory/internal/employee"
	"github.com/frahmantamala/employee-directory/internal/user"
	"github.com/spf13/cobra"
)

const (
	seedAdminEmail       = "admin@company.com"
	seedAdminPassword    = "admin123"
	seedEmployeePassword = "employee123"

	// Fixed PCG seeds keep attendance and hire-date offsets identical
	// across runs.
	seedRandState = 0x5eed
	seedRandSeq   = 0xd1ec
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with sample data",
	Long:  `Seed the store with the admin account and ten sample employees, each with a linked login. Existing records are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies(cmd.Context())
		if err != nil {
			return err
		}
		defer deps.Store.Close()

		if deps.Config.Store.Driver == "memory" {
			deps.Logger.Warn("seeding the in-memory store has no lasting effect; set store.seed for the server instead")
		}
		if deps.Config.Store.Seed {
			return nil
		}
		return seedDirectory(cmd.Context(), deps, deps.Logger)
	},
}

type accountRegistrar interface {
	Register(ctx context.Context, dto auth.RegisterDTO) (*auth.Payload, error)
}

type seeder struct {
	employees employee.RepositoryAPI
	accounts  accountRegistrar
	rng       *rand.Rand
	now       func() time.Time
	logger    *slog.Logger
}

func newSeeder(deps *Dependencies, lg *slog.Logger) *seeder {
	return &seeder{
		employees: deps.Store.Employees,
		accounts:  deps.Auth,
		rng:       rand.New(rand.NewPCG(seedRandState, seedRandSeq)),
		now:       time.Now,
		logger:    lg,
	}
}

func seedDirectory(ctx context.Context, deps *Dependencies, lg *slog.Logger) error {
	return newSeeder(deps, lg).run(ctx)
}

func (s *seeder) run(ctx context.Context) error {
	if err := s.register(ctx, auth.RegisterDTO{
		Email:    seedAdminEmail,
		Password: seedAdminPassword,
		Role:     user.RoleAdmin,
	}); err != nil {
		return err
	}

	for _, dto := range sampleEmployees() {
		e, err := s.ensureEmployee(ctx, dto)
		if err != nil {
			return err
		}
		id := e.ID
		if err := s.register(ctx, auth.RegisterDTO{
			Email:      e.Email,
			Password:   seedEmployeePassword,
			Role:       user.RoleEmployee,
			EmployeeID: &id,
		}); err != nil {
			return err
		}
	}

	s.logger.Info("seed finished", "employees", len(sampleEmployees()))
	return nil
}

// ensureEmployee inserts the record unless its employee code is taken.
// Attendance and hire date are randomised the way a live directory would
// look: 80 to 99 percent, hired within the last three years.
func (s *seeder) ensureEmployee(ctx context.Context, dto employee.CreateEmployeeDTO) (*employee.Employee, error) {
	existing, err := s.employees.GetByEmployeeID(ctx, dto.EmployeeID)
	if err == nil {
		s.logger.Debug("employee already seeded", "employee_id", dto.EmployeeID)
		return existing, nil
	}
	if !errors.Is(err, employee.ErrNotFound) {
		return nil, fmt.Errorf("lookup %s: %w", dto.EmployeeID, err)
	}

	if err := dto.Validate(); err != nil {
		return nil, fmt.Errorf("sample %s: %w", dto.EmployeeID, err)
	}

	threeYears := int64(3 * 365 * 24 * time.Hour)
	hireDate := s.now().Add(-time.Duration(s.rng.Int64N(threeYears))).UTC()

	e := employee.NewEmployee(dto, hireDate)
	e.Attendance = fmt.Sprintf("%d%%", 80+s.rng.IntN(20))

	created, err := s.employees.Create(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", dto.EmployeeID, err)
	}
	return created, nil
}

func (s *seeder) register(ctx context.Context, dto auth.RegisterDTO) error {
	_, err := s.accounts.Register(ctx, dto)
	if errors.Is(err, internal.ErrDuplicateEmail) {
		s.logger.Debug("account already seeded", "email", dto.Email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("register %s: %w", dto.Email, err)
	}
	return nil
}

func sampleEmployees() []employee.CreateEmployeeDTO {
	salary := func(v float64) *float64 { return &v }
	return []employee.CreateEmployeeDTO{
		{EmployeeID: "EMP0001", Name: "John Smith", Age: 32, Class: "Senior Level", Subjects: []string{"JavaScript", "React", "Node.js"}, Email: "john.smith@company.com", Department: "Engineering", Position: "Senior Software Engineer", Salary: salary(95000)},
		{EmployeeID: "EMP0002", Name: "Sarah Johnson", Age: 28, Class: "Mid Level", Subjects: []string{"Python", "Django", "PostgreSQL"}, Email: "sarah.johnson@company.com", Department: "Engineering", Position: "Software Engineer", Salary: salary(75000)},
		{EmployeeID: "EMP0003", Name: "Michael Brown", Age: 35, Class: "Senior Level", Subjects: []string{"Project Management", "Agile", "Scrum"}, Email: "michael.brown@company.com", Department: "Management", Position: "Project Manager", Salary: salary(85000)},
		{EmployeeID: "EMP0004", Name: "Emily Davis", Age: 29, Class: "Mid Level", Subjects: []string{"UX Design", "Figma", "User Research"}, Email: "emily.davis@company.com", Department: "Design", Position: "UX Designer", Salary: salary(70000)},
		{EmployeeID: "EMP0005", Name: "David Wilson", Age: 26, Class: "Junior Level", Subjects: []string{"HTML", "CSS", "JavaScript"}, Email: "david.wilson@company.com", Department: "Engineering", Position: "Frontend Developer", Salary: salary(60000)},
		{EmployeeID: "EMP0006", Name: "Lisa Anderson", Age: 31, Class: "Senior Level", Subjects: []string{"Marketing", "SEO", "Content Strategy"}, Email: "lisa.anderson@company.com", Department: "Marketing", Position: "Marketing Manager", Salary: salary(80000)},
		{EmployeeID: "EMP0007", Name: "Robert Taylor", Age: 27, Class: "Mid Level", Subjects: []string{"Java", "Spring Boot", "MySQL"}, Email: "robert.taylor@company.com", Department: "Engineering", Position: "Backend Developer", Salary: salary(72000)},
		{EmployeeID: "EMP0008", Name: "Jennifer Martinez", Age: 33, Class: "Senior Level", Subjects: []string{"Sales", "Customer Relations", "CRM"}, Email: "jennifer.martinez@company.com", Department: "Sales", Position: "Sales Manager", Salary: salary(88000)},
		{EmployeeID: "EMP0009", Name: "Christopher Lee", Age: 24, Class: "Junior Level", Subjects: []string{"Data Analysis", "Excel", "SQL"}, Email: "christopher.lee@company.com", Department: "Analytics", Position: "Data Analyst", Salary: salary(55000)},
		{EmployeeID: "EMP0010", Name: "Amanda Garcia", Age: 30, Class: "Mid Level", Subjects: []string{"HR Management", "Recruitment", "Employee Relations"}, Email: "amanda.garcia@company.com", Department: "Human Resources", Position: "HR Specialist", Salary: salary(65000)},
	}
}
