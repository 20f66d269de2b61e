package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wagetrack/wagetrack/internal/errors"
)

// Access subcommand flags.
var accessExportFlagURL string

// accessCmd represents the access command.
var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "Move an account between devices",
	Long: `Export the current account as a portable access key, or import a
key exported on another device. Keys carry the account credentials and
the full wage data, so treat them like passwords.

Examples:
  wt access export
  wt access export --url https://wagetrack.example.com/app
  wt access import <key>
  wt access open 'https://wagetrack.example.com/app?access=<key>'`,
}

var accessExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current account as an access key",
	Args:  cobra.NoArgs,
	RunE:  runAccessExport,
}

var accessImportCmd = &cobra.Command{
	Use:   "import KEY",
	Short: "Import an access key and sign in to its account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccessImport,
}

var accessOpenCmd = &cobra.Command{
	Use:   "open URL",
	Short: "Consume an access key embedded in a URL",
	Long: `Consume an access key carried in a URL's access or sync parameter.
The key is imported and the parameter is stripped from the printed URL,
whether or not the import succeeded.`,
	Args: cobra.ExactArgs(1),
	RunE: runAccessOpen,
}

func init() {
	accessExportCmd.Flags().StringVar(&accessExportFlagURL, "url", "", "Embed the key in this URL's access parameter")

	accessCmd.AddCommand(accessExportCmd)
	accessCmd.AddCommand(accessImportCmd)
	accessCmd.AddCommand(accessOpenCmd)
	rootCmd.AddCommand(accessCmd)
}

func runAccessExport(cmd *cobra.Command, args []string) error {
	account, _, err := requireSession()
	if err != nil {
		return err
	}

	token, err := ctx.Codec.Export(account)
	if err != nil {
		return err
	}

	if accessExportFlagURL != "" {
		shareURL, uerr := ctx.Codec.EmbedInURL(accessExportFlagURL, token)
		if uerr != nil {
			return uerr
		}
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]interface{}{"url": shareURL})
		}
		ctx.Formatter.Println(shareURL)
		return nil
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{"key": token})
	}

	cli := ctx.CLIFormatter()
	cli.Title("Access key")
	ctx.Formatter.Println(token)
	cli.Muted("Anyone holding this key can read and change the account. Share carefully.")
	return nil
}

func runAccessImport(cmd *cobra.Command, args []string) error {
	account, err := ctx.Codec.Import(args[0])
	if err != nil {
		return err
	}
	return adoptImportedAccount(account)
}

func runAccessOpen(cmd *cobra.Command, args []string) error {
	account, cleaned, found, err := ctx.Codec.ConsumeFromURL(args[0])

	if !ctx.IsJSON() && cleaned != "" {
		ctx.CLIFormatter().Muted("URL without key: " + cleaned)
	}

	if !found {
		return errors.NewUserError("The URL carries no access key",
			"Expected an access or sync query parameter.")
	}
	if err != nil {
		return err
	}
	return adoptImportedAccount(account)
}

// adoptImportedAccount signs in to a freshly imported account.
func adoptImportedAccount(account string) error {
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
			"status":    "imported",
			"account":   account,
			"version":   state.Version,
			"employees": len(state.Employees),
			"shifts":    len(state.Shifts),
		})
	}

	cli := ctx.CLIFormatter()
	cli.Success("Account imported.")
	cli.Printf("  %d employees, %d shifts (version %d).\n", len(state.Employees), len(state.Shifts), state.Version)
	return nil
}
