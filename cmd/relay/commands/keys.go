package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cipherchat/internal/services/identity"
	"cipherchat/internal/store"
)

// identityFile returns --out if given, else the configured identity file.
func identityFile(out string) (*store.IdentityFileStore, error) {
	path := out
	if path == "" {
		path = cfg.IdentityFile
	}
	if path == "" {
		return nil, errors.New("no identity file: set identity_file in the config or pass --out")
	}
	return store.NewIdentityFileStore(path), nil
}

func keygenCmd() *cobra.Command {
	var (
		out   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate the relay keypair and store it encrypted",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := identityFile(out)
			if err != nil {
				return err
			}
			if st.Exists() && !force {
				return fmt.Errorf("%s already exists (use --force to replace it)", st.Path())
			}
			pass, err := keyPassphrase(cmd, true)
			if err != nil {
				return err
			}
			_, fp, err := identity.New(st).GenerateIdentity(pass)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Relay key written to %s\nFingerprint: %s\n", st.Path(), fp)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "identity file (default: identity_file from the config)")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing key")
	return cmd
}

func fingerprintCmd() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the relay key fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := identityFile(in)
			if err != nil {
				return err
			}
			pass, err := keyPassphrase(cmd, false)
			if err != nil {
				return err
			}
			fp, err := identity.New(st).FingerprintIdentity(pass)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fingerprint: %s\n", fp)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "file", "f", "", "identity file (default: identity_file from the config)")
	return cmd
}
