package main

import (
	"context"
	"fmt"

	"github.com/Hanish3/college-portal/core"
	"github.com/Hanish3/college-portal/core/access"
	"github.com/Hanish3/college-portal/core/session"
)

func (cli *commandLine) login(uname, pwd string) error {
	uname = core.CleanString(uname, true /* lower */)

	token, err := cli.client.Login(context.Background(), uname, pwd)
	if err != nil {
		return err
	}
	// reject a credential we cannot derive a session from
	claims, err := session.Decode(token)
	if err != nil {
		return err
	}
	if err = cli.creds.Set(token); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Signed in as %s (%s)\n", claims.Name, claims.Role)
	return nil
}

func (cli *commandLine) logout() error {
	if err := cli.creds.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Signed out")
	return nil
}

func (cli *commandLine) whoami() error {
	claims, err := cli.claims()
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s (%s)\n", claims.Name, claims.Role)
	if claims.Suspended {
		fmt.Fprintln(cli.out, "Account suspended: views unavailable")
		return nil
	}
	fmt.Fprintf(cli.out, "Landing: %s\n", access.RouteFor(claims.Role))
	fmt.Fprintln(cli.out, "Views:")
	for _, view := range access.ViewsFor(claims.Role) {
		fmt.Fprintf(cli.out, "  %s\n", view)
	}
	return nil
}
