// Package cli implements the imageworld command line client.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/krishkalaria12/imageworld/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by every subcommand.
type app struct {
	cfg    *viper.Viper
	tokens *TokenStore
	out    io.Writer
}

func (a *app) client() (*client.Client, error) {
	token, err := a.tokens.Load()
	if err != nil {
		return nil, err
	}
	return client.New(
		a.cfg.GetString(keyServer),
		client.WithToken(token),
		client.WithHTTPClient(&http.Client{Timeout: timeout(a.cfg)}),
	), nil
}

func (a *app) authedClient() (*client.Client, error) {
	c, err := a.client()
	if err != nil {
		return nil, err
	}
	if c.Token() == "" {
		return nil, fmt.Errorf("%w: run `imageworld login` first", client.ErrNotAuthenticated)
	}
	return c, nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "imageworld",
		Short:         "Resize, convert and compress images with imageworld",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := readConfigFile(a.cfg); err != nil {
				return fmt.Errorf("reading config: %w", err)
			}
			a.tokens = NewTokenStore(a.cfg.GetString(keyTokenFile))
			a.out = cmd.OutOrStdout()
			return nil
		},
	}
	a.cfg = newConfig(root)

	root.AddCommand(
		newRegisterCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newMeCommand(a),
		newResizeCommand(a),
		newConvertCommand(a),
		newCompressCommand(a),
		newPNGToSVGCommand(a),
		newUpgradeCommand(a),
		newStatsCommand(a),
	)

	return root
}

func Execute() int {
	root := NewRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
