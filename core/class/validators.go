package class

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mahudhurio/core"
)

var (
	weekdayTag  = "weekday"
	weekdayText = "invalid weekday"

	timingsTag  = "classtimings"
	timingsText = "timings must map weekdays to times like 10:00 or 10:00 AM"
)

func init() {
	core.Validate.RegisterStructValidation(newClassStructValidation, NewClass{})
	core.RegisterCustomTranslation(weekdayTag, weekdayText)
	core.RegisterCustomTranslation(timingsTag, timingsText)
}

// newClassStructValidation checks the weekly timings map: keys must be known
// weekdays, values either empty (unscheduled) or a valid class time.
func newClassStructValidation(sl validator.StructLevel) {
	nc, ok := sl.Current().Interface().(NewClass)
	if !ok {
		return
	}
	for day, t := range nc.Timings {
		if !isWeekday(day) {
			sl.ReportError(nc.Timings, "timings", "Timings", weekdayTag, "")
			return
		}
		if t == "" {
			continue
		}
		if err := sl.Validator().Var(t, "classtime"); err != nil {
			sl.ReportError(nc.Timings, "timings", "Timings", timingsTag, "")
			return
		}
	}
}

func isWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
