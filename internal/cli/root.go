// Package cli wires the command-line surface: the server and client
// entry points and the offline local-vault commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "passsecure",
	Short: "pass-secure - a password vault with a line-oriented client/server protocol",
	Long: `pass-secure stores named passwords in per-user vaults, optionally
encrypted with a passphrase only the user knows.

Run a server, connect to it with the interactive client, or operate on
a vault directory directly with the local commands.`,
}

// Execute runs the root command. Called once from main with the build
// metadata injected at link time.
func Execute(version, buildDate string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildDate)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(clientCmd)
	rootCmd.AddCommand(localCmd)
}
