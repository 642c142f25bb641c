package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	return newAuthCommand(false)
}

// NewRegisterCommand creates the register command
func NewRegisterCommand() *cobra.Command {
	return newAuthCommand(true)
}

func newAuthCommand(register bool) *cobra.Command {
	var (
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Long: `Log in to the game server and save the session locally.

The password is prompted for without echo unless --password is given.
When stdin is not a terminal the password is read from its first line.

Examples:
  spaceconquest login --username nova
  echo "$PASS" | spaceconquest login --username nova`,
	}
	if register {
		cmd.Use = "register"
		cmd.Short = "Create an account and log in"
		cmd.Long = `Create a new commander account. The server assigns a home planet and the
new session is saved locally, just like login.

Examples:
  spaceconquest register --username nova`
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		if username == "" {
			if prefs, err := rt.prefs.Load(); err == nil {
				username = prefs.LastUsername
			}
		}
		if username == "" {
			return fmt.Errorf("--username is required")
		}
		if password == "" {
			password, err = readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
		}

		ctx, cancel := context.WithTimeout(rt.context(cmd.Context()), 10*time.Second)
		defer cancel()

		s, err := rt.game.Login(ctx, username, password, register)
		if err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		if err := rt.prefs.SetLastUsername(s.Username); err != nil {
			rt.logger.Warn("failed to save preferences", "error", err)
		}

		out := cmd.OutOrStdout()
		if register {
			fmt.Fprintln(out, "✓ Account created")
		} else {
			fmt.Fprintln(out, "✓ Logged in")
		}
		fmt.Fprintf(out, "  Commander:  %s\n", s.Username)
		fmt.Fprintf(out, "  Planet:     %s\n", s.PlanetID)
		return nil
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Commander name (default: last used)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")

	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Long:  `Remove the saved session. The next command that needs one will ask you to log in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := rt.context(cmd.Context())
			s, err := rt.game.Init(ctx)
			if err != nil {
				return err
			}
			if s == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			if err := rt.game.Logout(ctx); err != nil {
				return fmt.Errorf("failed to log out: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged out %s\n", s.Username)
			return nil
		},
	}

	return cmd
}

// readPassword prompts without echo on a terminal, otherwise reads one line
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	return password, nil
}
