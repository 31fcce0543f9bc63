package class

import (
	"sort"

	"github.com/trezcool/mahudhurio/core"
)

// Weekdays the schedule covers; no Sunday classes.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type Class struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	TeacherID   string            `json:"teacher_id"`
	Timings     map[string]string `json:"timings"` // weekday -> time string, empty when unscheduled
}

type NewClass struct {
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description" validate:"required"`
	TeacherID   string            `json:"teacher_id" validate:"required"`
	Timings     map[string]string `json:"timings"`
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

type Student struct {
	ID      string `json:"id"`
	RollNo  int    `json:"rollNo"`
	Name    string `json:"name"`
	ClassID string `json:"class_id"`
}

type NewStudent struct {
	RollNo int    `json:"rollNo" validate:"required,min=1"`
	Name   string `json:"name" validate:"required"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	return core.Validate.Struct(ns)
}

// SortStudents orders a roster by roll number ascending, in place.
func SortStudents(students []Student) {
	sort.Slice(students, func(i, j int) bool { return students[i].RollNo < students[j].RollNo })
}

// NextRollNo is the only roll number accepted for a new student: a strict
// sequential append after the current maximum.
func NextRollNo(students []Student) int {
	max := 0
	for _, s := range students {
		if s.RollNo > max {
			max = s.RollNo
		}
	}
	return max + 1
}
