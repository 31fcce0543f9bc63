package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/class"
)

func (cli *commandLine) listClasses(ctx context.Context) error {
	classes, err := cli.classSvc.QueryAll(ctx)
	if err != nil {
		return err
	}
	if len(classes) == 0 {
		fmt.Fprintln(cli.out, "No classes found. Create a class to get started.")
		return nil
	}
	for _, cls := range classes {
		fmt.Fprintf(cli.out, "%s  %s - %s\n", cls.ID, cls.Name, cls.Description)
		for _, day := range class.Weekdays {
			if t := cls.Timings[day]; t != "" {
				fmt.Fprintf(cli.out, "    %-10s %s\n", day, t)
			}
		}
	}
	return nil
}

func (cli *commandLine) createClass(ctx context.Context, name, desc, timings string) error {
	sess, ok := cli.mgr.Current()
	if !ok {
		return fmt.Errorf("not signed in")
	}

	nc := class.NewClass{
		Name:        name,
		Description: desc,
		TeacherID:   sess.TeacherID,
		Timings:     make(map[string]string, len(class.Weekdays)),
	}
	for _, day := range class.Weekdays {
		nc.Timings[day] = ""
	}
	if timings != "" {
		for _, pair := range strings.Split(timings, ",") {
			parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
			if len(parts) != 2 {
				return core.NewValidationError(nil, core.FieldError{Field: "timings", Error: "expected Day=Time pairs"})
			}
			nc.Timings[parts[0]] = parts[1]
		}
	}

	cls, err := cli.classSvc.Create(ctx, nc)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created class %s (%s)\n", cls.Name, cls.ID)
	return nil
}

func (cli *commandLine) deleteClass(ctx context.Context, id string) error {
	if err := cli.classSvc.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Deleted class %s\n", id)
	return nil
}
