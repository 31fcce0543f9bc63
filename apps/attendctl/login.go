package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) login(ctx context.Context, email, pwd string) error {
	sess, err := cli.mgr.Login(ctx, email, pwd)
	if err != nil {
		return fmt.Errorf("login failed: %s", err)
	}
	fmt.Fprintf(cli.out, "Signed in as %s (teacher %s)\n", sess.Email, sess.TeacherID)
	return nil
}
