package employee_test

import (
	"github.com/frahmantamala/employee-directory/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ComputeStats", func() {
	It("should return zeros for no employees", func() {
		stats := employee.ComputeStats(nil)
		Expect(stats.TotalEmployees).To(BeZero())
		Expect(stats.AverageAge).To(BeZero())
		Expect(stats.AverageAttendance).To(BeZero())
		Expect(stats.Departments).To(BeEmpty())
	})

	It("should aggregate per department in first-seen order", func() {
		stats := employee.ComputeStats([]*employee.Employee{
			{Department: "Engineering", Age: 30, Attendance: "90%", IsActive: true, Salary: floatPtr(100)},
			{Department: "Sales", Age: 40, Attendance: "80%", IsActive: false, Salary: floatPtr(50)},
			{Department: "Engineering", Age: 20, Attendance: "100%", IsActive: true},
		})

		Expect(stats.TotalEmployees).To(Equal(3))
		Expect(stats.ActiveEmployees).To(Equal(2))
		Expect(stats.AverageAge).To(BeNumerically("~", 30.0))
		Expect(stats.AverageAttendance).To(BeNumerically("~", 90.0))

		Expect(stats.Departments).To(HaveLen(2))
		Expect(stats.Departments[0].Department).To(Equal("Engineering"))
		Expect(stats.Departments[0].Count).To(Equal(2))
		Expect(stats.Departments[0].AverageAge).To(BeNumerically("~", 25.0))
		Expect(stats.Departments[0].AverageSalary).To(BeNumerically("~", 50.0))
		Expect(stats.Departments[1].Department).To(Equal("Sales"))
	})

	It("should count unparsable attendance as zero", func() {
		stats := employee.ComputeStats([]*employee.Employee{
			{Department: "X", Attendance: "n/a"},
			{Department: "X", Attendance: "100%"},
		})
		Expect(stats.AverageAttendance).To(BeNumerically("~", 50.0))
	})
})
