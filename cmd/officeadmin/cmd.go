package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"golang.org/x/term"

	"semaphore/booking/internal/crypto"
	"semaphore/booking/internal/model"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type accountSaver interface {
	SaveOfficeAccount(ctx context.Context, account model.OfficeAccount) error
}

type commandLine struct {
	accounts accountSaver
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  add-office -username USERNAME -office OFFICE - create or replace an office login")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addOfficeCmd := flag.NewFlagSet("add-office", flag.ContinueOnError)
	addOfficeCmd.SetOutput(cli.out)
	username := addOfficeCmd.String("username", "", "The office account's username. The password will be prompted next.")
	office := addOfficeCmd.String("office", "", "The office this account signs in to.")

	switch args[1] {
	case "add-office":
		if err := addOfficeCmd.Parse(args[2:]); err != nil {
			return err
		}
		*username = strings.TrimSpace(*username)
		*office = strings.TrimSpace(*office)
		if *username == "" || *office == "" {
			addOfficeCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addOfficeCmd.Usage()
			return errHelp
		}
		return cli.addOffice(ctx, *username, *office, string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) addOffice(ctx context.Context, username, office, password string) error {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}
	if err := cli.accounts.SaveOfficeAccount(ctx, model.OfficeAccount{
		Username:     username,
		Office:       office,
		PasswordHash: hash,
	}); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "office account %s saved for %s\n", username, office)
	return nil
}
