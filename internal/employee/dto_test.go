package employee_test

import (
	"errors"

	"github.com/frahmantamala/employee-directory/internal"
	"github.com/frahmantamala/employee-directory/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validationCodes(err error) []string {
	var appErr *internal.AppError
	Expect(errors.As(err, &appErr)).To(BeTrue())
	details, ok := appErr.Details.(internal.ValidationErrors)
	Expect(ok).To(BeTrue())
	codes := make([]string, len(details.Errors))
	for i, e := range details.Errors {
		codes[i] = e.Code
	}
	return codes
}

var _ = Describe("Employee DTOs", func() {
	Describe("CreateEmployeeDTO", func() {
		It("should accept a complete record", func() {
			Expect(validCreateDTO("EMP0001").Validate()).To(Succeed())
		})

		DescribeTable("should reject bad fields",
			func(mutate func(*employee.CreateEmployeeDTO), code internal.ErrorCode) {
				dto := validCreateDTO("EMP0001")
				mutate(&dto)
				err := dto.Validate()
				Expect(err).To(HaveOccurred())
				Expect(validationCodes(err)).To(ContainElement(string(code)))
			},
			Entry("age below 16", func(d *employee.CreateEmployeeDTO) { d.Age = 15 }, internal.ErrCodeInvalidAge),
			Entry("age above 100", func(d *employee.CreateEmployeeDTO) { d.Age = 101 }, internal.ErrCodeInvalidAge),
			Entry("malformed email", func(d *employee.CreateEmployeeDTO) { d.Email = "not-an-email" }, internal.ErrCodeInvalidEmail),
			Entry("negative salary", func(d *employee.CreateEmployeeDTO) { d.Salary = floatPtr(-1) }, internal.ErrCodeInvalidSalary),
			Entry("blank name", func(d *employee.CreateEmployeeDTO) { d.Name = "  " }, internal.ErrCodeValidationFailed),
			Entry("blank subject", func(d *employee.CreateEmployeeDTO) { d.Subjects = []string{"Go", ""} }, internal.ErrCodeValidationFailed),
		)

		It("should accept the age bounds", func() {
			dto := validCreateDTO("EMP0001")
			dto.Age = 16
			Expect(dto.Validate()).To(Succeed())
			dto.Age = 100
			Expect(dto.Validate()).To(Succeed())
		})

		It("should report every failing field", func() {
			dto := validCreateDTO("")
			dto.Age = 5
			Expect(validationCodes(dto.Validate())).To(HaveLen(2))
		})
	})

	Describe("UpdateEmployeeDTO", func() {
		It("should accept an empty patch", func() {
			Expect(employee.UpdateEmployeeDTO{}.Validate()).To(Succeed())
		})

		DescribeTable("should check attendance",
			func(value string, valid bool) {
				err := employee.UpdateEmployeeDTO{Attendance: &value}.Validate()
				if valid {
					Expect(err).NotTo(HaveOccurred())
				} else {
					Expect(validationCodes(err)).To(ContainElement(string(internal.ErrCodeInvalidAttend)))
				}
			},
			Entry("zero", "0%", true),
			Entry("full", "100%", true),
			Entry("over full", "101%", false),
			Entry("missing sign", "95", false),
			Entry("fraction", "95.5%", false),
		)

		It("should reject clearing a required field", func() {
			empty := ""
			Expect(employee.UpdateEmployeeDTO{Name: &empty}.Validate()).NotTo(Succeed())
		})
	})

	Describe("SelfUpdateDTO", func() {
		It("should only carry subjects and email", func() {
			email := "me@company.com"
			patch := employee.SelfUpdateDTO{Email: &email}.ToUpdate()
			Expect(patch.Email).To(Equal(&email))
			Expect(patch.Name).To(BeNil())
			Expect(patch.Attendance).To(BeNil())
		})
	})
})
