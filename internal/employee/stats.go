package employee

type DepartmentStats struct {
	Department    string  `json:"department"`
	Count         int     `json:"count"`
	AverageAge    float64 `json:"averageAge"`
	AverageSalary float64 `json:"averageSalary"`
}

type Stats struct {
	TotalEmployees    int               `json:"totalEmployees"`
	ActiveEmployees   int               `json:"activeEmployees"`
	Departments       []DepartmentStats `json:"departmentBreakdown"`
	AverageAge        float64           `json:"averageAge"`
	AverageAttendance float64           `json:"averageAttendance"`
}

// ComputeStats aggregates counts and averages. Departments appear in the
// order they are first seen. A missing salary counts as zero. Every average
// is zero for an empty set.
func ComputeStats(employees []*Employee) *Stats {
	stats := &Stats{
		TotalEmployees: len(employees),
		Departments:    []DepartmentStats{},
	}
	if len(employees) == 0 {
		return stats
	}

	type bucket struct {
		count     int
		ageSum    int
		salarySum float64
	}
	buckets := make(map[string]*bucket)
	var order []string

	var ageSum, attendanceSum int
	for _, e := range employees {
		if e.IsActive {
			stats.ActiveEmployees++
		}
		ageSum += e.Age
		attendanceSum += e.AttendancePercent()

		b, ok := buckets[e.Department]
		if !ok {
			b = &bucket{}
			buckets[e.Department] = b
			order = append(order, e.Department)
		}
		b.count++
		b.ageSum += e.Age
		if e.Salary != nil {
			b.salarySum += *e.Salary
		}
	}

	for _, name := range order {
		b := buckets[name]
		stats.Departments = append(stats.Departments, DepartmentStats{
			Department:    name,
			Count:         b.count,
			AverageAge:    float64(b.ageSum) / float64(b.count),
			AverageSalary: b.salarySum / float64(b.count),
		})
	}

	n := float64(len(employees))
	stats.AverageAge = float64(ageSum) / n
	stats.AverageAttendance = float64(attendanceSum) / n
	return stats
}
