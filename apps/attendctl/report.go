package main

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/trezcool/mahudhurio/core/report"
)

func (cli *commandLine) report(ctx context.Context, classID, emailTo string) error {
	students, err := cli.classSvc.Students(ctx, classID)
	if err != nil {
		return err
	}

	rep, err := cli.reportSvc.Fetch(ctx, classID, len(students))
	if err != nil {
		return err
	}
	fmt.Fprint(cli.out, rep.RenderText())

	if emailTo != "" {
		addr, err := mail.ParseAddress(emailTo)
		if err != nil {
			return fmt.Errorf("invalid email address %q", emailTo)
		}
		if err := report.Deliver(rep, cli.mailSvc, *addr); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Report sent to %s\n", addr.Address)
	}
	return nil
}
