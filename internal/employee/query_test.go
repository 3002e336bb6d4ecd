package employee_test

import (
	"fmt"
	"math"
	"time"

	"github.com/frahmantamala/employee-directory/internal"
	"github.com/frahmantamala/employee-directory/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }

func makeEmployees(n int) []*employee.Employee {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	result := make([]*employee.Employee, n)
	for i := range result {
		result[i] = &employee.Employee{
			ID:         fmt.Sprintf("id-%02d", i),
			EmployeeID: fmt.Sprintf("EMP%04d", i+1),
			Name:       fmt.Sprintf("Person %02d", i),
			Age:        20 + i,
			Attendance: "90%",
			HireDate:   base.AddDate(0, 0, i),
			IsActive:   true,
		}
	}
	return result
}

func nodeIDs(conn *employee.Connection) []string {
	ids := make([]string, len(conn.Edges))
	for i, e := range conn.Edges {
		ids[i] = e.Node.EmployeeID
	}
	return ids
}

var _ = Describe("Query pipeline", func() {
	Describe("ApplyFilter", func() {
		var people []*employee.Employee

		BeforeEach(func() {
			people = []*employee.Employee{
				{EmployeeID: "A", Name: "John Smith", Department: "Engineering", Class: "Senior Level", Age: 32, IsActive: true},
				{EmployeeID: "B", Name: "Sarah Johnson", Department: "Engineering", Class: "Mid Level", Age: 28, IsActive: false},
				{EmployeeID: "C", Name: "Michael Brown", Department: "Management", Class: "Senior Level", Age: 35, IsActive: true},
			}
		})

		It("should return the input for a nil filter", func() {
			Expect(employee.ApplyFilter(people, nil)).To(Equal(people))
		})

		It("should match names and departments case-insensitively by substring", func() {
			result := employee.ApplyFilter(people, &employee.Filter{Name: "JOHN"})
			Expect(result).To(HaveLen(2))

			result = employee.ApplyFilter(people, &employee.Filter{Department: "manage"})
			Expect(result).To(HaveLen(1))
			Expect(result[0].EmployeeID).To(Equal("C"))
		})

		It("should match class exactly", func() {
			Expect(employee.ApplyFilter(people, &employee.Filter{Class: "senior level"})).To(BeEmpty())
			Expect(employee.ApplyFilter(people, &employee.Filter{Class: "Senior Level"})).To(HaveLen(2))
		})

		It("should combine criteria with AND", func() {
			result := employee.ApplyFilter(people, &employee.Filter{
				Department: "engineering",
				IsActive:   boolPtr(true),
			})
			Expect(result).To(HaveLen(1))
			Expect(result[0].EmployeeID).To(Equal("A"))
		})

		It("should treat age bounds as inclusive", func() {
			result := employee.ApplyFilter(people, &employee.Filter{AgeRange: &employee.AgeRange{Min: intPtr(28), Max: intPtr(32)}})
			Expect(result).To(HaveLen(2))

			result = employee.ApplyFilter(people, &employee.Filter{AgeRange: &employee.AgeRange{Min: intPtr(33)}})
			Expect(result).To(HaveLen(1))
			Expect(result[0].EmployeeID).To(Equal("C"))
		})

		It("should keep input order", func() {
			result := employee.ApplyFilter(people, &employee.Filter{IsActive: boolPtr(true)})
			Expect(result[0].EmployeeID).To(Equal("A"))
			Expect(result[1].EmployeeID).To(Equal("C"))
		})
	})

	Describe("ApplySort", func() {
		var people []*employee.Employee

		BeforeEach(func() {
			people = []*employee.Employee{
				{EmployeeID: "A", Name: "bob", Age: 30, Department: "Sales", Attendance: "90%"},
				{EmployeeID: "B", Name: "Alice", Age: 25, Department: "engineering", Attendance: "85%"},
				{EmployeeID: "C", Name: "carol", Age: 30, Department: "Design", Attendance: "100%"},
			}
		})

		ids := func(list []*employee.Employee) []string {
			out := make([]string, len(list))
			for i, e := range list {
				out[i] = e.EmployeeID
			}
			return out
		}

		It("should return the input for a nil sort", func() {
			Expect(ids(employee.ApplySort(people, nil))).To(Equal([]string{"A", "B", "C"}))
		})

		It("should sort names case-insensitively", func() {
			Expect(ids(employee.ApplySort(people, &employee.Sort{Field: employee.SortFieldName, Direction: employee.SortAsc}))).
				To(Equal([]string{"B", "A", "C"}))
		})

		It("should keep ties in input order in both directions", func() {
			asc := employee.ApplySort(people, &employee.Sort{Field: employee.SortFieldAge, Direction: employee.SortAsc})
			Expect(ids(asc)).To(Equal([]string{"B", "A", "C"}))

			desc := employee.ApplySort(people, &employee.Sort{Field: employee.SortFieldAge, Direction: employee.SortDesc})
			Expect(ids(desc)).To(Equal([]string{"A", "C", "B"}))
		})

		It("should compare attendance numerically", func() {
			result := employee.ApplySort(people, &employee.Sort{Field: employee.SortFieldAttendance, Direction: employee.SortDesc})
			Expect(ids(result)).To(Equal([]string{"C", "A", "B"}))
		})

		It("should sort departments case-insensitively", func() {
			result := employee.ApplySort(people, &employee.Sort{Field: employee.SortFieldDepartment, Direction: employee.SortAsc})
			Expect(ids(result)).To(Equal([]string{"C", "B", "A"}))
		})

		It("should not reorder the input slice", func() {
			employee.ApplySort(people, &employee.Sort{Field: employee.SortFieldName, Direction: employee.SortDesc})
			Expect(ids(people)).To(Equal([]string{"A", "B", "C"}))
		})
	})

	Describe("cursors", func() {
		It("should round-trip positions", func() {
			for _, p := range []int{0, 1, 9, 24, 1000} {
				decoded, err := employee.DecodeCursor(employee.EncodeCursor(p))
				Expect(err).NotTo(HaveOccurred())
				Expect(decoded).To(Equal(p))
			}
		})

		It("should encode the decimal position in base64", func() {
			Expect(employee.EncodeCursor(9)).To(Equal("OQ=="))
		})

		DescribeTable("should reject malformed cursors",
			func(cursor string) {
				_, err := employee.DecodeCursor(cursor)
				Expect(err).To(MatchError(internal.ErrInvalidCursor))
			},
			Entry("not base64", "%%%"),
			Entry("not a number", "YWJj"),
			Entry("negative", "LTE="),
		)
	})

	Describe("Paginate", func() {
		var people []*employee.Employee

		BeforeEach(func() {
			people = makeEmployees(25)
		})

		It("should return everything without a window", func() {
			conn, err := employee.Paginate(people, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(conn.Edges).To(HaveLen(25))
			Expect(conn.TotalCount).To(Equal(25))
			Expect(conn.PageInfo.HasNextPage).To(BeFalse())
			Expect(conn.PageInfo.HasPreviousPage).To(BeFalse())
		})

		It("should default to ten records", func() {
			conn, err := employee.Paginate(people, &employee.Window{})
			Expect(err).NotTo(HaveOccurred())
			Expect(conn.Edges).To(HaveLen(10))
			Expect(conn.PageInfo.HasNextPage).To(BeTrue())
			Expect(conn.PageInfo.HasPreviousPage).To(BeFalse())
			Expect(*conn.PageInfo.StartCursor).To(Equal(employee.EncodeCursor(0)))
			Expect(*conn.PageInfo.EndCursor).To(Equal(employee.EncodeCursor(9)))
		})

		It("should continue after a cursor", func() {
			conn, err := employee.Paginate(people, &employee.Window{First: intPtr(10), After: strPtr(employee.EncodeCursor(9))})
			Expect(err).NotTo(HaveOccurred())
			Expect(conn.Edges).To(HaveLen(10))
			Expect(conn.Edges[0].Node.EmployeeID).To(Equal("EMP0011"))
			Expect(conn.Edges[0].Cursor).To(Equal(employee.EncodeCursor(10)))
			Expect(conn.PageInfo.HasNextPage).To(BeTrue())
			Expect(conn.PageInfo.HasPreviousPage).To(BeTrue())
		})

		It("should report no next page on the last page", func() {
			conn, err := employee.Paginate(people, &employee.Window{First: intPtr(10), After: strPtr(employee.EncodeCursor(19))})
			Expect(err).NotTo(HaveOccurred())
			Expect(conn.Edges).To(HaveLen(5))
			Expect(conn.PageInfo.HasNextPage).To(BeFalse())
			Expect(conn.PageInfo.HasPreviousPage).To(BeTrue())
		})

		It("should take the tail of the window with last", func() {
			conn, err := employee.Paginate(people, &employee.Window{First: intPtr(10), Last: intPtr(3)})
			Expect(err).NotTo(HaveOccurred())
			Expect(nodeIDs(conn)).To(Equal([]string{"EMP0008", "EMP0009", "EMP0010"}))
			Expect(conn.PageInfo.HasPreviousPage).To(BeTrue())
			Expect(conn.PageInfo.HasNextPage).To(BeTrue())
		})

		It("should stop before a cursor", func() {
			conn, err := employee.Paginate(people, &employee.Window{Before: strPtr(employee.EncodeCursor(3))})
			Expect(err).NotTo(HaveOccurred())
			Expect(nodeIDs(conn)).To(Equal([]string{"EMP0001", "EMP0002", "EMP0003"}))
			Expect(conn.PageInfo.HasNextPage).To(BeTrue())
		})

		It("should return an empty page for first zero", func() {
			conn, err := employee.Paginate(people, &employee.Window{First: intPtr(0)})
			Expect(err).NotTo(HaveOccurred())
			Expect(conn.Edges).To(BeEmpty())
			Expect(conn.TotalCount).To(Equal(25))
			Expect(conn.PageInfo.StartCursor).To(BeNil())
			Expect(conn.PageInfo.EndCursor).To(BeNil())
		})

		It("should clamp a cursor past the end", func() {
			conn, err := employee.Paginate(people, &employee.Window{After: strPtr(employee.EncodeCursor(99))})
			Expect(err).NotTo(HaveOccurred())
			Expect(conn.Edges).To(BeEmpty())
			Expect(conn.PageInfo.HasNextPage).To(BeFalse())
			Expect(conn.PageInfo.HasPreviousPage).To(BeTrue())
		})

		It("should not overflow on the largest cursor position", func() {
			conn, err := employee.Paginate(people[:5], &employee.Window{After: strPtr(employee.EncodeCursor(math.MaxInt))})
			Expect(err).NotTo(HaveOccurred())
			Expect(conn.Edges).To(BeEmpty())
			Expect(conn.TotalCount).To(Equal(5))
			Expect(conn.PageInfo.HasNextPage).To(BeFalse())
			Expect(conn.PageInfo.HasPreviousPage).To(BeTrue())
		})

		It("should reject negative sizes", func() {
			_, err := employee.Paginate(people, &employee.Window{First: intPtr(-1)})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(err).To(BeAssignableToTypeOf(appErr))
			Expect(err.(*internal.AppError).Type).To(Equal(internal.ErrorTypeBadUserInput))

			_, err = employee.Paginate(people, &employee.Window{Last: intPtr(-5)})
			Expect(err).To(HaveOccurred())
		})

		It("should reject a malformed cursor", func() {
			_, err := employee.Paginate(people, &employee.Window{After: strPtr("garbage!")})
			Expect(err).To(MatchError(internal.ErrInvalidCursor))
		})

		It("should handle an empty input", func() {
			conn, err := employee.Paginate(nil, &employee.Window{First: intPtr(5)})
			Expect(err).NotTo(HaveOccurred())
			Expect(conn.Edges).To(BeEmpty())
			Expect(conn.TotalCount).To(BeZero())
			Expect(conn.PageInfo.HasNextPage).To(BeFalse())
			Expect(conn.PageInfo.HasPreviousPage).To(BeFalse())
		})
	})

	Describe("Run", func() {
		It("should filter, then sort, then paginate", func() {
			people := makeEmployees(25)
			people[3].IsActive = false

			conn, err := employee.Run(people, employee.Query{
				Filter: &employee.Filter{IsActive: boolPtr(true)},
				Sort:   &employee.Sort{Field: employee.SortFieldAge, Direction: employee.SortDesc},
				Window: &employee.Window{First: intPtr(2)},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(conn.TotalCount).To(Equal(24))
			Expect(nodeIDs(conn)).To(Equal([]string{"EMP0025", "EMP0024"}))
		})
	})
})
