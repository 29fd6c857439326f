package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tendant/catfeed/pkg/auth"
	"github.com/tendant/catfeed/pkg/domain"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// errUsage is returned for unknown commands and bad flags.
var errUsage = errors.New("usage: catfeedctl <create-admin|reset-password|unlock> -username NAME")

// Accounts is the subset of auth.AccountService the CLI drives.
type Accounts interface {
	Provision(ctx context.Context, username, password string, forceChange bool) (*domain.Admin, error)
	ResetPassword(ctx context.Context, username, password string, forceChange bool) error
	Unlock(ctx context.Context, username string) error
	Policy() *auth.PasswordPolicy
}

// CLI runs one maintenance command against the admins table.
type CLI struct {
	Accounts Accounts
	Stdin    *os.File
	Stdout   io.Writer
}

// Run dispatches args[0] to its command.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "create-admin":
		return c.createAdmin(ctx, args[1:])
	case "reset-password":
		return c.resetPassword(ctx, args[1:])
	case "unlock":
		return c.unlock(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func (c *CLI) createAdmin(ctx context.Context, args []string) error {
	fs := c.flagSet("create-admin")
	username := fs.String("username", "", "admin username")
	force := fs.Bool("force-change", true, "require a password change at first login")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *username == "" {
		return errUsage
	}

	password, err := c.newPassword()
	if err != nil {
		return err
	}

	admin, err := c.Accounts.Provision(ctx, *username, password, *force)
	if err != nil {
		return c.explain(err)
	}
	fmt.Fprintf(c.Stdout, "created admin %s (%s)\n", admin.Username, admin.ID)
	return nil
}

func (c *CLI) resetPassword(ctx context.Context, args []string) error {
	fs := c.flagSet("reset-password")
	username := fs.String("username", "", "admin username")
	force := fs.Bool("force-change", true, "require a password change at next login")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *username == "" {
		return errUsage
	}

	password, err := c.newPassword()
	if err != nil {
		return err
	}

	if err := c.Accounts.ResetPassword(ctx, *username, password, *force); err != nil {
		return c.explain(err)
	}
	fmt.Fprintf(c.Stdout, "password reset for %s\n", auth.NormalizeUsername(*username))
	return nil
}

func (c *CLI) unlock(ctx context.Context, args []string) error {
	fs := c.flagSet("unlock")
	username := fs.String("username", "", "admin username")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *username == "" {
		return errUsage
	}

	if err := c.Accounts.Unlock(ctx, *username); err != nil {
		return c.explain(err)
	}
	fmt.Fprintf(c.Stdout, "unlocked %s\n", auth.NormalizeUsername(*username))
	return nil
}

func (c *CLI) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.Stdout)
	return fs
}

// newPassword prompts twice without echo.
func (c *CLI) newPassword() (string, error) {
	first, err := c.prompt("New password: ")
	if err != nil {
		return "", err
	}
	second, err := c.prompt("Confirm password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", domain.ErrPasswordMismatch
	}
	return first, nil
}

func (c *CLI) prompt(label string) (string, error) {
	fmt.Fprint(c.Stdout, label)
	pw, err := readPassword(int(c.Stdin.Fd()))
	fmt.Fprintln(c.Stdout)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(string(pw), "\r\n"), nil
}

func (c *CLI) explain(err error) error {
	if errors.Is(err, domain.ErrWeakPassword) {
		return fmt.Errorf("%w: %s", err, c.Accounts.Policy().Requirements())
	}
	return err
}
