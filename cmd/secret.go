package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/spigell/jobpulse/internal/secrets"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage secrets stored in the OS keychain",
}

var secretSetCmd = &cobra.Command{
	Use:   "set <account>",
	Short: "Store a secret (for example the Gemini API key) under the given keyring account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := (&promptui.Prompt{Label: "Secret value", Mask: '*'}).Run()
		if err != nil {
			return err
		}
		if err := secrets.Store(args[0], value); err != nil {
			return fmt.Errorf("storing secret: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored secret for account %q in service %q\n", args[0], secrets.KeyringService)
		return nil
	},
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete <account>",
	Short: "Remove a secret from the OS keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.Delete(args[0]); err != nil {
			return fmt.Errorf("deleting secret: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted secret for account %q\n", args[0])
		return nil
	},
}

func init() {
	secretCmd.AddCommand(secretSetCmd, secretDeleteCmd)
	rootCmd.AddCommand(secretCmd)
}
