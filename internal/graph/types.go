package graph

import (
	"context"

	"github.com/frahmantamala/employee-directory/internal/auth"
	"github.com/frahmantamala/employee-directory/internal/employee"
	"github.com/frahmantamala/employee-directory/internal/user"
	graphql "github.com/graph-gophers/graphql-go"
)

type employeeResolver struct {
	e *employee.Employee
}

func newEmployeeResolver(e *employee.Employee) *employeeResolver {
	if e == nil {
		return nil
	}
	return &employeeResolver{e: e}
}

func (r *employeeResolver) ID() graphql.ID { return graphql.ID(r.e.ID) }
func (r *employeeResolver) EmployeeID() string { return r.e.EmployeeID }
func (r *employeeResolver) Name() string { return r.e.Name }
func (r *employeeResolver) Age() int32 { return int32(r.e.Age) }
func (r *employeeResolver) Class() string { return r.e.Class }
func (r *employeeResolver) Attendance() string { return r.e.Attendance }
func (r *employeeResolver) Email() string { return r.e.Email }
func (r *employeeResolver) Department() string { return r.e.Department }
func (r *employeeResolver) Position() string { return r.e.Position }
func (r *employeeResolver) Salary() *float64 { return r.e.Salary }
func (r *employeeResolver) HireDate() Date { return Date{r.e.HireDate} }
func (r *employeeResolver) IsActive() bool { return r.e.IsActive }
func (r *employeeResolver) CreatedAt() Date { return Date{r.e.CreatedAt} }
func (r *employeeResolver) UpdatedAt() Date { return Date{r.e.UpdatedAt} }

func (r *employeeResolver) Subjects() []string {
	if r.e.Subjects == nil {
		return []string{}
	}
	return r.e.Subjects
}

type userResolver struct {
	u         *user.User
	employees employee.ServiceAPI
}

func newUserResolver(u *user.User, employees employee.ServiceAPI) *userResolver {
	if u == nil {
		return nil
	}
	return &userResolver{u: u.Redacted(), employees: employees}
}

func (r *userResolver) ID() graphql.ID { return graphql.ID(r.u.ID) }
func (r *userResolver) Email() string { return r.u.Email }
func (r *userResolver) Role() string { return string(r.u.Role) }
func (r *userResolver) EmployeeID() *string { return r.u.EmployeeID }
func (r *userResolver) CreatedAt() Date { return Date{r.u.CreatedAt} }
func (r *userResolver) UpdatedAt() Date { return Date{r.u.UpdatedAt} }

// Employee resolves the linked employee record, or null without a link.
func (r *userResolver) Employee(ctx context.Context) (*employeeResolver, error) {
	if r.u.EmployeeID == nil {
		return nil, nil
	}
	e, err := r.employees.GetByID(ctx, *r.u.EmployeeID)
	if err != nil {
		return nil, err
	}
	return newEmployeeResolver(e), nil
}

type authPayloadResolver struct {
	p         *auth.Payload
	employees employee.ServiceAPI
}

func (r *authPayloadResolver) Token() string { return r.p.Token }

func (r *authPayloadResolver) User() *userResolver {
	return newUserResolver(r.p.User, r.employees)
}

type connectionResolver struct {
	c *employee.Connection
}

func (r *connectionResolver) Edges() []*edgeResolver {
	edges := make([]*edgeResolver, len(r.c.Edges))
	for i := range r.c.Edges {
		edges[i] = &edgeResolver{e: r.c.Edges[i]}
	}
	return edges
}

func (r *connectionResolver) PageInfo() *pageInfoResolver {
	return &pageInfoResolver{p: r.c.PageInfo}
}

func (r *connectionResolver) TotalCount() int32 {
	return int32(r.c.TotalCount)
}

type edgeResolver struct {
	e employee.Edge
}

func (r *edgeResolver) Node() *employeeResolver { return newEmployeeResolver(r.e.Node) }
func (r *edgeResolver) Cursor() string { return r.e.Cursor }

type pageInfoResolver struct {
	p employee.PageInfo
}

func (r *pageInfoResolver) HasNextPage() bool { return r.p.HasNextPage }
func (r *pageInfoResolver) HasPreviousPage() bool { return r.p.HasPreviousPage }
func (r *pageInfoResolver) StartCursor() *string { return r.p.StartCursor }
func (r *pageInfoResolver) EndCursor() *string { return r.p.EndCursor }

type statsResolver struct {
	s *employee.Stats
}

func (r *statsResolver) TotalEmployees() int32 { return int32(r.s.TotalEmployees) }
func (r *statsResolver) ActiveEmployees() int32 { return int32(r.s.ActiveEmployees) }
func (r *statsResolver) AverageAge() float64 { return r.s.AverageAge }
func (r *statsResolver) AverageAttendance() float64 { return r.s.AverageAttendance }

func (r *statsResolver) DepartmentBreakdown() []*departmentStatsResolver {
	result := make([]*departmentStatsResolver, len(r.s.Departments))
	for i := range r.s.Departments {
		result[i] = &departmentStatsResolver{d: r.s.Departments[i]}
	}
	return result
}

type departmentStatsResolver struct {
	d employee.DepartmentStats
}

func (r *departmentStatsResolver) Department() string { return r.d.Department }
func (r *departmentStatsResolver) Count() int32 { return int32(r.d.Count) }
func (r *departmentStatsResolver) AverageAge() float64 { return r.d.AverageAge }

func (r *departmentStatsResolver) AverageSalary() *float64 {
	avg := r.d.AverageSalary
	return &avg
}
