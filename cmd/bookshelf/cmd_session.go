package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"bookshelf/internal/entity"
	"bookshelf/internal/form"
	"bookshelf/internal/notify"
	"bookshelf/internal/session"

	"github.com/spf13/cobra"
)

// readPassword takes the flag, then BOOKSHELF_PASSWORD, then one line of stdin.
func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("BOOKSHELF_PASSWORD"); env != "" {
		return env, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) loginCmd() *cobra.Command {
	var f form.SignInForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if f.Password, err = readPassword(cmd, f.Password); err != nil {
				return err
			}
			if err := form.Check(&f); err != nil {
				return err
			}
			s, err := c.app.sessions.SignIn(cmd.Context(), f.Email, f.Password)
			if err != nil {
				return err
			}
			if c.emit(cmd, s.User) {
				return nil
			}
			c.success(cmd, "Signed in", "Welcome back, "+s.User.DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&f.Password, "password", "p", "", "Account password (or BOOKSHELF_PASSWORD)")
	return cmd
}

func (c *cli) signupCmd() *cobra.Command {
	var f form.SignUpForm
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Long: `Create an account and sign in.

With the mock identity provider (auth.provider: mock) accounts live only in
the memory of the running process: an account created here is gone on the
next invocation. Add long-lived local users to auth.mock_users (or
BOOKSHELF_MOCK_USERS) instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if f.Password, err = readPassword(cmd, f.Password); err != nil {
				return err
			}
			if err := form.Check(&f); err != nil {
				return err
			}
			s, err := c.app.sessions.SignUp(cmd.Context(), session.Credentials{
				Email:    f.Email,
				Password: f.Password,
				Name:     f.Name,
			})
			if errors.Is(err, session.ErrConfirmationNeeded) {
				notify.Print(cmd.OutOrStdout(), notify.FromError(err))
				return nil
			}
			if err != nil {
				return err
			}
			if c.emit(cmd, s.User) {
				return nil
			}
			c.success(cmd, "Account created", "Signed in as "+s.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&f.Password, "password", "p", "", "Account password (or BOOKSHELF_PASSWORD)")
	cmd.Flags().StringVarP(&f.Name, "name", "n", "", "Display name")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.sessions.SignOut(cmd.Context()); err != nil {
				return err
			}
			c.success(cmd, "Signed out", "")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.app.sessions.Current(cmd.Context())
			if err != nil {
				return err
			}
			if c.emit(cmd, s.User) {
				return nil
			}
			out := cmd.OutOrStdout()
			heading(out, s.User.DisplayName())
			table(out, [][]string{
				{"email", "role", "id"},
				{s.User.Email, s.User.Role, s.User.ID},
			})
			if !s.ExpiresAt.IsZero() {
				fmt.Fprintln(out, muted("tokens expire "+s.ExpiresAt.Local().Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
}

// currentUser returns the signed-in user or ErrNoSession.
func (c *cli) currentUser(cmd *cobra.Command) (entity.User, error) {
	s, err := c.app.sessions.Current(cmd.Context())
	if err != nil {
		return entity.User{}, err
	}
	return s.User, nil
}
