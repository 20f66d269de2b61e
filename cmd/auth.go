package cmd

import (
	"bufio"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/model"
)

// registerCmd creates a new account on this device.
var registerCmd = &cobra.Command{
	Use:   "register EMAIL",
	Short: "Create a new account",
	Long: `Create a new account on this device. You will be prompted for a
password. The account starts with a seeded roster you can edit right away.

Examples:
  wt register pat@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

// loginCmd signs in to an existing account.
var loginCmd = &cobra.Command{
	Use:   "login EMAIL",
	Short: "Sign in to an account known on this device",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

// logoutCmd ends the current session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out, pushing any unsynced changes first",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	email := model.NormalizeEmail(args[0])

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.NewUserError("Passwords do not match", "Run the command again and type the same password twice.")
	}

	user, err := ctx.Registry.Register(email, password)
	if err != nil {
		return err
	}

	account := user.AccountID()
	if err := ctx.Local.SetCurrentAccount(account); err != nil {
		return err
	}

	c, cancel := commandContext()
	defer cancel()
	state, err := ctx.Engine.Login(c, account)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status":    "registered",
			"account":   account,
			"email":     user.Email,
			"employees": len(state.Employees),
		})
	}

	cli := ctx.CLIFormatter()
	cli.Success("Registered " + user.Email)
	cli.Printf("  Signed in as %s with %d employees on the roster.\n", user.Username, len(state.Employees))
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := model.NormalizeEmail(args[0])

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	user, err := ctx.Registry.Authenticate(email, password)
	if err != nil {
		return err
	}

	account := user.AccountID()
	if err := ctx.Local.SetCurrentAccount(account); err != nil {
		return err
	}

	c, cancel := commandContext()
	defer cancel()
	state, err := ctx.Engine.Login(c, account)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status":    "logged_in",
			"account":   account,
			"email":     user.Email,
			"version":   state.Version,
			"employees": len(state.Employees),
			"shifts":    len(state.Shifts),
		})
	}

	cli := ctx.CLIFormatter()
	cli.Success("Welcome back, " + user.Username)
	cli.Printf("  %d employees, %d shifts (version %d).\n", len(state.Employees), len(state.Shifts), state.Version)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if _, ok := ctx.Local.CurrentAccount(); !ok {
		return errors.ErrNoSession
	}
	if _, ok := ctx.RestoreSession(); !ok {
		return errors.ErrNoSession
	}

	c, cancel := commandContext()
	defer cancel()
	if err := ctx.Engine.Logout(c); err != nil {
		// Local data is intact and will sync on the next login.
		ctx.CLIFormatter().Warning("Could not push pending changes: " + err.Error())
	}
	if err := ctx.Local.ClearCurrentAccount(); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{"status": "logged_out"})
	}
	ctx.CLIFormatter().Success("Logged out.")
	return nil
}

// promptPassword reads a password without echo when attached to a
// terminal, falling back to a plain line read when input is piped.
func promptPassword(prompt string) (string, error) {
	os.Stderr.WriteString(prompt)

	if isatty.IsTerminal(os.Stdin.Fd()) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		os.Stderr.WriteString("\n")
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
