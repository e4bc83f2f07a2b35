package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cipherchat/internal/client"
	"cipherchat/internal/domain"
	"cipherchat/internal/services/keyring"
	"cipherchat/internal/util/prompt"
)

const quitCommand = "/quit"

func connectCmd() *cobra.Command {
	var (
		addr      string
		username  string
		ephemeral bool
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Join a relay and chat; type /quit to leave",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := clientKeys(cmd, ephemeral)
			if err != nil {
				return err
			}
			password, err := prompt.Secret(os.Stdin, cmd.ErrOrStderr(), "Password: ")
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			dialCtx, cancel := context.WithTimeout(ctx, timeout)
			c, err := client.Dial(dialCtx, addr, keys, domain.Credentials{
				Username: domain.Username(username),
				Password: password,
			})
			cancel()
			if err != nil {
				return err
			}
			defer c.Close()

			fmt.Fprintf(cmd.ErrOrStderr(), "Connected to %s as %s (key %s)\n", addr, username, keys.Fingerprint())
			return chat(ctx, c, os.Stdin, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:1986", "relay address")
	cmd.Flags().StringVarP(&username, "username", "u", "", "your username")
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "use a one-off keypair instead of the stored identity")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "handshake timeout")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func clientKeys(cmd *cobra.Command, ephemeral bool) (*keyring.Keyring, error) {
	if ephemeral || !idStore.Exists() {
		return keyring.New()
	}
	pass, err := identityPassphrase(cmd, false)
	if err != nil {
		return nil, err
	}
	return ids.LoadKeyring(pass)
}

// chat copies lines from in to the relay and relayed lines to out until
// either side ends or ctx is cancelled.
func chat(ctx context.Context, c *client.Client, in io.Reader, out io.Writer) error {
	g, ctx := errgroup.WithContext(ctx)

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	g.Go(func() error {
		for {
			line, err := c.Receive()
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
				return errDisconnected
			case errors.Is(err, domain.ErrDecryptionFailed):
				fmt.Fprintln(out, "! dropped a line that did not decrypt")
				continue
			case err != nil:
				return err
			}
			fmt.Fprintln(out, line)
		}
	})

	g.Go(func() error {
		defer c.Close()
		for {
			select {
			case <-ctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok || line == quitCommand {
					_ = c.Leave()
					return nil
				}
				if line == "" {
					continue
				}
				if err := c.Send(line); err != nil {
					return err
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errDisconnected) {
		return err
	}
	return nil
}

var errDisconnected = errors.New("relay closed the connection")
