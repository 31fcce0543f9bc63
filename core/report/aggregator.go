package report

import (
	"math"

	"github.com/trezcool/mahudhurio/core"
)

// Build derives a Report from a series and a known roster size. Pure: no
// network or storage side effects. An empty series yields zero rates rather
// than a division fault.
func Build(classID string, s Series, totalStudents int) (Report, error) {
	if len(s.Dates) != len(s.Rates) {
		return Report{}, ErrSeriesMismatch
	}

	r := Report{
		ClassID:       classID,
		TotalStudents: totalStudents,
		Days:          make([]DayBreakdown, 0, len(s.Rates)),
	}
	if len(s.Rates) == 0 {
		return r, nil
	}

	sum := 0.0
	min, max := s.Rates[0], s.Rates[0]
	for i, rate := range s.Rates {
		sum += rate
		if rate < min {
			min = rate
		}
		if rate > max {
			max = rate
		}

		present := int(math.Round(float64(totalStudents) * rate / 100))
		r.Days = append(r.Days, DayBreakdown{
			Date:         s.Dates[i],
			PresentCount: present,
			AbsentCount:  totalStudents - present,
			Rate:         core.Round1(rate),
		})
	}
	r.AverageRate = core.Round1(sum / float64(len(s.Rates)))
	r.MaxRate = core.Round1(max)
	r.MinRate = core.Round1(min)
	return r, nil
}
