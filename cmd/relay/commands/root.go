package commands

import (
	"os"

	"github.com/spf13/cobra"

	"cipherchat/internal/app"
	"cipherchat/internal/util/prompt"
)

const passphraseEnv = "CIPHERCHAT_RELAY_PASSPHRASE"

var (
	configPath string
	passphrase string

	cfg *app.Config
)

func Execute() error {
	root := &cobra.Command{
		Use:          "relay",
		Short:        "Encrypted group-chat relay",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				cfg = app.DefaultConfig()
				return nil
			}
			var err error
			cfg, err = app.LoadFile(configPath)
			return err
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the relay key (or $"+passphraseEnv+")")

	root.AddCommand(
		serveCmd(),
		useraddCmd(),
		userdelCmd(),
		usersCmd(),
		keygenCmd(),
		fingerprintCmd(),
	)
	return root.Execute()
}

// keyPassphrase returns the passphrase from the flag, the environment, or the
// terminal, in that order.
func keyPassphrase(cmd *cobra.Command, confirm bool) (string, error) {
	if passphrase != "" {
		return passphrase, nil
	}
	if p := os.Getenv(passphraseEnv); p != "" {
		return p, nil
	}
	if confirm {
		return prompt.Confirm(os.Stdin, cmd.ErrOrStderr(), "Passphrase: ")
	}
	return prompt.Secret(os.Stdin, cmd.ErrOrStderr(), "Passphrase: ")
}
