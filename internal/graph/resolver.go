package graph

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/employee-directory/internal"
	"github.com/frahmantamala/employee-directory/internal/auth"
	"github.com/frahmantamala/employee-directory/internal/employee"
	"github.com/frahmantamala/employee-directory/internal/metrics"
	"github.com/frahmantamala/employee-directory/internal/user"
	"github.com/frahmantamala/employee-directory/pkg/logger"
	graphql "github.com/graph-gophers/graphql-go"
)

type UserServiceAPI interface {
	List(ctx context.Context) ([]*user.User, error)
}

// Resolver is the root for both Query and Mutation. Each operation runs the
// authorization gate before touching a service.
type Resolver struct {
	employees employee.ServiceAPI
	users     UserServiceAPI
	auth      auth.ServiceAPI
	metrics   *metrics.Recorder
	logger    *slog.Logger
}

func NewResolver(employees employee.ServiceAPI, users UserServiceAPI, authService auth.ServiceAPI, recorder *metrics.Recorder, lg *slog.Logger) *Resolver {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Resolver{
		employees: employees,
		users:     users,
		auth:      authService,
		metrics:   recorder,
		logger:    lg,
	}
}

// track records the operation. Errors outside the AppError taxonomy and
// internal errors are replaced with a generic internal error so causes never
// reach the client.
func (r *Resolver) track(ctx context.Context, operation string, start time.Time, errp *error) {
	if *errp != nil {
		var appErr *internal.AppError
		if !errors.As(*errp, &appErr) {
			logger.From(ctx).Error("unexpected resolver error", "operation", operation, "error", *errp)
			*errp = internal.NewInternalError("Internal server error", nil)
		} else if appErr.Type == internal.ErrorTypeInternal {
			logger.From(ctx).Error("resolver failed", "operation", operation, "error", appErr)
			*errp = internal.NewInternalError("Internal server error", nil)
		} else if *errp != error(appErr) {
			*errp = appErr
		}
	}
	r.metrics.Observe(ctx, operation, start, *errp)
}

type employeeFilterInput struct {
	Name       *string
	Department *string
	Class      *string
	IsActive   *bool
	AgeRange   *ageRangeInput
}

type ageRangeInput struct {
	Min *int32
	Max *int32
}

type employeeSortInput struct {
	Field     string
	Direction string
}

type paginationInput struct {
	First  *int32
	After  *string
	Last   *int32
	Before *string
}

type employeesArgs struct {
	Filter     *employeeFilterInput
	Sort       *employeeSortInput
	Pagination *paginationInput
}

func (in *employeeFilterInput) toFilter() *employee.Filter {
	if in == nil {
		return nil
	}
	f := &employee.Filter{IsActive: in.IsActive}
	if in.Name != nil {
		f.Name = *in.Name
	}
	if in.Department != nil {
		f.Department = *in.Department
	}
	if in.Class != nil {
		f.Class = *in.Class
	}
	if in.AgeRange != nil {
		f.AgeRange = &employee.AgeRange{Min: intPtr(in.AgeRange.Min), Max: intPtr(in.AgeRange.Max)}
	}
	return f
}

func (in *employeeSortInput) toSort() *employee.Sort {
	if in == nil {
		return nil
	}
	return &employee.Sort{
		Field:     employee.SortField(in.Field),
		Direction: employee.SortDirection(in.Direction),
	}
}

func (in *paginationInput) toWindow() *employee.Window {
	if in == nil {
		return nil
	}
	return &employee.Window{
		First:  intPtr(in.First),
		After:  in.After,
		Last:   intPtr(in.Last),
		Before: in.Before,
	}
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func (r *Resolver) Employees(ctx context.Context, args employeesArgs) (_ *connectionResolver, err error) {
	defer r.track(ctx, "employees", time.Now(), &err)

	if _, err := auth.RequireAuthenticated(auth.CallerFromContext(ctx)); err != nil {
		return nil, err
	}

	conn, err := r.employees.List(ctx, employee.Query{
		Filter: args.Filter.toFilter(),
		Sort:   args.Sort.toSort(),
		Window: args.Pagination.toWindow(),
	})
	if err != nil {
		return nil, err
	}
	return &connectionResolver{c: conn}, nil
}

func (r *Resolver) Employee(ctx context.Context, args struct{ ID graphql.ID }) (_ *employeeResolver, err error) {
	defer r.track(ctx, "employee", time.Now(), &err)

	if _, err := auth.RequireAuthenticated(auth.CallerFromContext(ctx)); err != nil {
		return nil, err
	}

	e, err := r.employees.GetByID(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	return newEmployeeResolver(e), nil
}

func (r *Resolver) EmployeeByEmployeeID(ctx context.Context, args struct{ EmployeeID string }) (_ *employeeResolver, err error) {
	defer r.track(ctx, "employeeByEmployeeId", time.Now(), &err)

	if _, err := auth.RequireAuthenticated(auth.CallerFromContext(ctx)); err != nil {
		return nil, err
	}

	e, err := r.employees.GetByEmployeeID(ctx, args.EmployeeID)
	if err != nil {
		return nil, err
	}
	return newEmployeeResolver(e), nil
}

func (r *Resolver) Users(ctx context.Context) (_ []*userResolver, err error) {
	defer r.track(ctx, "users", time.Now(), &err)

	if _, err := auth.RequireAdmin(auth.CallerFromContext(ctx)); err != nil {
		return nil, err
	}

	users, err := r.users.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*userResolver, len(users))
	for i, u := range users {
		result[i] = newUserResolver(u, r.employees)
	}
	return result, nil
}

// Me returns null for anonymous callers instead of failing.
func (r *Resolver) Me(ctx context.Context) *userResolver {
	return newUserResolver(auth.CallerFromContext(ctx), r.employees)
}

func (r *Resolver) EmployeeStats(ctx context.Context) (_ *statsResolver, err error) {
	defer r.track(ctx, "employeeStats", time.Now(), &err)

	if _, err := auth.RequireAdmin(auth.CallerFromContext(ctx)); err != nil {
		return nil, err
	}

	stats, err := r.employees.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &statsResolver{s: stats}, nil
}

type loginArgs struct {
	Input struct {
		Email    string
		Password string
	}
}

func (r *Resolver) Login(ctx context.Context, args loginArgs) (_ *authPayloadResolver, err error) {
	defer r.track(ctx, "login", time.Now(), &err)

	payload, err := r.auth.Login(ctx, auth.LoginDTO{
		Email:    args.Input.Email,
		Password: args.Input.Password,
	})
	if err != nil {
		return nil, err
	}
	return &authPayloadResolver{p: payload, employees: r.employees}, nil
}

type registerArgs struct {
	Input struct {
		Email      string
		Password   string
		Role       string
		EmployeeID *string
	}
}

func (r *Resolver) Register(ctx context.Context, args registerArgs) (_ *authPayloadResolver, err error) {
	defer r.track(ctx, "register", time.Now(), &err)

	if _, err := auth.RequireAdmin(auth.CallerFromContext(ctx)); err != nil {
		return nil, err
	}

	payload, err := r.auth.Register(ctx, auth.RegisterDTO{
		Email:      args.Input.Email,
		Password:   args.Input.Password,
		Role:       user.Role(args.Input.Role),
		EmployeeID: args.Input.EmployeeID,
	})
	if err != nil {
		return nil, err
	}
	return &authPayloadResolver{p: payload, employees: r.employees}, nil
}

type employeeInput struct {
	EmployeeID string
	Name       string
	Age        int32
	Class      string
	Subjects   []string
	Email      string
	Department string
	Position   string
	Salary     *float64
	IsActive   *bool
}

func (r *Resolver) CreateEmployee(ctx context.Context, args struct{ Input employeeInput }) (_ *employeeResolver, err error) {
	defer r.track(ctx, "createEmployee", time.Now(), &err)

	if _, err := auth.RequireAdmin(auth.CallerFromContext(ctx)); err != nil {
		return nil, err
	}

	in := args.Input
	created, err := r.employees.Create(ctx, employee.CreateEmployeeDTO{
		EmployeeID: in.EmployeeID,
		Name:       in.Name,
		Age:        int(in.Age),
		Class:      in.Class,
		Subjects:   in.Subjects,
		Email:      in.Email,
		Department: in.Department,
		Position:   in.Position,
		Salary:     in.Salary,
		IsActive:   in.IsActive,
	})
	if err != nil {
		return nil, err
	}
	return newEmployeeResolver(created), nil
}

type employeeUpdateInput struct {
	Name       *string
	Age        *int32
	Class      *string
	Subjects   *[]string
	Email      *string
	Department *string
	Position   *string
	Salary     *float64
	IsActive   *bool
	Attendance *string
}

type updateEmployeeArgs struct {
	ID    graphql.ID
	Input employeeUpdateInput
}

func (r *Resolver) UpdateEmployee(ctx context.Context, args updateEmployeeArgs) (_ *employeeResolver, err error) {
	defer r.track(ctx, "updateEmployee", time.Now(), &err)

	if _, err := auth.RequireAdmin(auth.CallerFromContext(ctx)); err != nil {
		return nil, err
	}

	in := args.Input
	updated, err := r.employees.Update(ctx, string(args.ID), employee.UpdateEmployeeDTO{
		Name:       in.Name,
		Age:        intPtr(in.Age),
		Class:      in.Class,
		Subjects:   in.Subjects,
		Email:      in.Email,
		Department: in.Department,
		Position:   in.Position,
		Salary:     in.Salary,
		IsActive:   in.IsActive,
		Attendance: in.Attendance,
	})
	if err != nil {
		return nil, err
	}
	return newEmployeeResolver(updated), nil
}

func (r *Resolver) DeleteEmployee(ctx context.Context, args struct{ ID graphql.ID }) (_ bool, err error) {
	defer r.track(ctx, "deleteEmployee", time.Now(), &err)

	if _, err := auth.RequireAdmin(auth.CallerFromContext(ctx)); err != nil {
		return false, err
	}

	return r.employees.Delete(ctx, string(args.ID))
}

type selfUpdateArgs struct {
	Input struct {
		Subjects *[]string
		Email    *string
	}
}

func (r *Resolver) UpdateMyProfile(ctx context.Context, args selfUpdateArgs) (_ *employeeResolver, err error) {
	defer r.track(ctx, "updateMyProfile", time.Now(), &err)

	caller, err := auth.RequireAuthenticated(auth.CallerFromContext(ctx))
	if err != nil {
		return nil, err
	}

	updated, err := r.employees.UpdateProfile(ctx, caller.EmployeeID, employee.SelfUpdateDTO{
		Subjects: args.Input.Subjects,
		Email:    args.Input.Email,
	})
	if err != nil {
		return nil, err
	}
	return newEmployeeResolver(updated), nil
}
