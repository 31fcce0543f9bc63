package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	mgr       *session.Manager
	classSvc  *class.Service
	attRepo   attendance.Repository
	reportSvc *report.Service
	mailSvc   core.EmailService
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                              - sign in; the password will be prompted")
	fmt.Fprintln(cli.out, "  logout                                          - sign out and clear the saved session")
	fmt.Fprintln(cli.out, "  classes                                         - list your classes")
	fmt.Fprintln(cli.out, "  createclass -name NAME -desc DESC [-timings Monday=10:00,...] - create a class")
	fmt.Fprintln(cli.out, "  deleteclass -id ID                              - delete a class")
	fmt.Fprintln(cli.out, "  roster -class ID                                - list a class's students")
	fmt.Fprintln(cli.out, "  addstudent -class ID -roll N -name NAME         - add a student")
	fmt.Fprintln(cli.out, "  mark -class ID -present 1,2,3                   - record today's attendance by roll numbers")
	fmt.Fprintln(cli.out, "  report -class ID [-email ADDR]                  - show analytics; optionally email the report")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The teacher's email. The password will be prompted next.")

	createClassCmd := flag.NewFlagSet("createclass", flag.ExitOnError)
	createClassName := createClassCmd.String("name", "", "The class name.")
	createClassDesc := createClassCmd.String("desc", "", "The class description.")
	createClassTimings := createClassCmd.String("timings", "", "Weekly schedule as Day=Time pairs, comma-separated.")

	deleteClassCmd := flag.NewFlagSet("deleteclass", flag.ExitOnError)
	deleteClassID := deleteClassCmd.String("id", "", "The class ID.")

	rosterCmd := flag.NewFlagSet("roster", flag.ExitOnError)
	rosterClassID := rosterCmd.String("class", "", "The class ID.")

	addStudentCmd := flag.NewFlagSet("addstudent", flag.ExitOnError)
	addStudentClassID := addStudentCmd.String("class", "", "The class ID.")
	addStudentRoll := addStudentCmd.Int("roll", 0, "The student's roll number (next sequential).")
	addStudentName := addStudentCmd.String("name", "", "The student's name.")

	markCmd := flag.NewFlagSet("mark", flag.ExitOnError)
	markClassID := markCmd.String("class", "", "The class ID.")
	markPresent := markCmd.String("present", "", "Roll numbers of present students, comma-separated.")

	reportCmd := flag.NewFlagSet("report", flag.ExitOnError)
	reportClassID := reportCmd.String("class", "", "The class ID.")
	reportEmail := reportCmd.String("email", "", "Email the report to this address.")

	ctx := context.Background()

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *loginEmail, string(pwd))
	case "logout":
		cli.mgr.Logout()
		fmt.Fprintln(cli.out, "Signed out.")
		return nil
	case "classes":
		if err := cli.revalidate(ctx); err != nil {
			return err
		}
		return cli.listClasses(ctx)
	case "createclass":
		if err := createClassCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createClassName == "" || *createClassDesc == "" {
			createClassCmd.Usage()
			return errHelp
		}
		if err := cli.revalidate(ctx); err != nil {
			return err
		}
		return cli.createClass(ctx, *createClassName, *createClassDesc, *createClassTimings)
	case "deleteclass":
		if err := deleteClassCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *deleteClassID == "" {
			deleteClassCmd.Usage()
			return errHelp
		}
		if err := cli.revalidate(ctx); err != nil {
			return err
		}
		return cli.deleteClass(ctx, *deleteClassID)
	case "roster":
		if err := rosterCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *rosterClassID == "" {
			rosterCmd.Usage()
			return errHelp
		}
		if err := cli.revalidate(ctx); err != nil {
			return err
		}
		return cli.roster(ctx, *rosterClassID)
	case "addstudent":
		if err := addStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStudentClassID == "" || *addStudentName == "" || *addStudentRoll <= 0 {
			addStudentCmd.Usage()
			return errHelp
		}
		if err := cli.revalidate(ctx); err != nil {
			return err
		}
		return cli.addStudent(ctx, *addStudentClassID, *addStudentRoll, *addStudentName)
	case "mark":
		if err := markCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *markClassID == "" {
			markCmd.Usage()
			return errHelp
		}
		if err := cli.revalidate(ctx); err != nil {
			return err
		}
		return cli.mark(ctx, *markClassID, *markPresent)
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *reportClassID == "" {
			reportCmd.Usage()
			return errHelp
		}
		if err := cli.revalidate(ctx); err != nil {
			return err
		}
		return cli.report(ctx, *reportClassID, *reportEmail)
	default:
		cli.printUsage()
		return errHelp
	}
}

// revalidate restores the previous run's session before an authenticated
// command. Any failure routes back to login, never an error dialog.
func (cli *commandLine) revalidate(ctx context.Context) error {
	if _, ok := cli.mgr.Current(); ok {
		return nil
	}
	if _, err := cli.mgr.RevalidateOnStartup(ctx); err != nil {
		return errors.New("not signed in; run: login -email EMAIL")
	}
	return nil
}
