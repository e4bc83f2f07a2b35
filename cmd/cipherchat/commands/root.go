package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cipherchat/internal/services/identity"
	"cipherchat/internal/store"
	"cipherchat/internal/util/prompt"
)

const passphraseEnv = "CIPHERCHAT_PASSPHRASE"

var (
	home       string
	passphrase string

	ids     *identity.Service
	idStore *store.IdentityFileStore
)

func Execute() error {
	root := &cobra.Command{
		Use:          "cipherchat",
		Short:        "Terminal client for the cipherchat relay",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".cipherchat")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			idStore = store.NewIdentityFileStore(filepath.Join(home, "identity.json.enc"))
			ids = identity.New(idStore)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.cipherchat)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the identity (or $"+passphraseEnv+")")

	root.AddCommand(initCmd(), fingerprintCmd(), connectCmd())
	return root.Execute()
}

// identityPassphrase returns the passphrase from the flag, the environment,
// or the terminal, in that order.
func identityPassphrase(cmd *cobra.Command, confirm bool) (string, error) {
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
