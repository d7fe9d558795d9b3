package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"bookkeeping/internal/core"
	"bookkeeping/internal/session"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled by user")

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and keep the session locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := credentialsFrom(cmd, args[0])
			if err != nil {
				return err
			}
			user, err := deps.Auth.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), successCard("Logged in as "+user.Username))
			return nil
		},
	}
	cmd.Flags().String("password", "", "password (prompted when omitted on a terminal)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := credentialsFrom(cmd, args[0])
			if err != nil {
				return err
			}
			user, err := deps.Auth.Register(cmd.Context(), creds)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), successCard("Registered "+user.Username,
				styleMuted.Render("Sign in with: bookkeeping login "+user.Username)))
			return nil
		},
	}
	cmd.Flags().String("password", "", "password (prompted when omitted on a terminal)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := deps.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), successCard("Logged out"))
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, ok := deps.Session.User()
			if !ok {
				return session.ErrNotAuthenticated
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderUser(user, deps.API.BaseURL()))
			return nil
		},
	}
}

func credentialsFrom(cmd *cobra.Command, username string) (core.Credentials, error) {
	creds := core.Credentials{Username: strings.TrimSpace(username)}
	if err := creds.Validate(); err != nil {
		return core.Credentials{}, err
	}
	if cmd.Flags().Changed("password") {
		creds.Password, _ = cmd.Flags().GetString("password")
		return creds, nil
	}
	pw, err := readPassword(cmd.InOrStdin())
	if err != nil {
		return core.Credentials{}, err
	}
	creds.Password = pw
	return creds, nil
}

// readPassword prompts on a terminal and otherwise reads one line from in.
func readPassword(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		var pw string
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&pw),
		))
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return "", ErrCancelled
			}
			return "", fmt.Errorf("password prompt: %w", err)
		}
		return pw, nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
