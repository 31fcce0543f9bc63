package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
)

func (cli *commandLine) roster(ctx context.Context, classID string) error {
	students, err := cli.classSvc.Students(ctx, classID)
	if err != nil {
		return err
	}
	if len(students) == 0 {
		fmt.Fprintln(cli.out, "No students in this class yet.")
		return nil
	}
	for _, s := range students {
		fmt.Fprintf(cli.out, "%3d. %s\n", s.RollNo, s.Name)
	}
	return nil
}

func (cli *commandLine) addStudent(ctx context.Context, classID string, rollNo int, name string) error {
	roster, err := cli.classSvc.Students(ctx, classID)
	if err != nil {
		return err
	}
	student, err := cli.classSvc.AddStudent(ctx, classID, class.NewStudent{RollNo: rollNo, Name: name}, roster)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Added %d. %s\n", student.RollNo, student.Name)
	return nil
}

// mark loads the roster, toggles the given roll numbers to present and
// commits today's attendance.
func (cli *commandLine) mark(ctx context.Context, classID, present string) error {
	sheet := attendance.NewSheet(classID, cli.classSvc, cli.attRepo)
	if _, err := sheet.Load(ctx); err != nil {
		return err
	}

	if present != "" {
		seen := make(map[int]bool)
		for _, raw := range strings.Split(present, ",") {
			rollNo, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("invalid roll number %q", raw)
			}
			if seen[rollNo] { // a repeated roll number must not toggle back to absent
				continue
			}
			seen[rollNo] = true
			if !sheet.ToggleByRollNo(rollNo) {
				return fmt.Errorf("no student with roll number %d", rollNo)
			}
		}
	}

	if err := sheet.Commit(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Saved: %d present, %d absent (%.1f%%)\n",
		sheet.PresentCount(), sheet.AbsentCount(), sheet.Rate())
	return nil
}
