package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fr0stylo/supportdeck/pkg/gateway"
	"github.com/fr0stylo/supportdeck/pkg/notify"
)

var Version = "dev"

const defaultGatewayURL = "http://localhost:8080"

type rootOptions struct {
	gatewayURL string
	timeout    time.Duration
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "supportdeck",
		Short:         "Pay, connect a membership and view supporters through the SupportDeck gateway",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	gatewayURL := strings.TrimSpace(os.Getenv("SUPPORTDECK_GATEWAY_URL"))
	if gatewayURL == "" {
		gatewayURL = defaultGatewayURL
	}
	rootCmd.PersistentFlags().StringVar(&opts.gatewayURL, "gateway", gatewayURL, "Gateway base URL")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Per-request timeout")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log flow transitions to stderr")

	rootCmd.AddCommand(payCmd(opts))
	rootCmd.AddCommand(membershipCmd(opts))
	rootCmd.AddCommand(tipJarCmd(opts))
	rootCmd.AddCommand(webhookCmd(opts))

	return rootCmd
}

func (o *rootOptions) client() *gateway.Client {
	return gateway.New(o.gatewayURL, gateway.WithTimeout(o.timeout))
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// printer writes each notification as one line so the user sees the toast text.
func printer(w io.Writer) notify.Notifier {
	return notify.Func(func(_ context.Context, n notify.Notification) {
		fmt.Fprintf(w, "[%s] %s: %s\n", n.Level, n.Title, n.Description)
	})
}

func (o *rootOptions) notifier(cmd *cobra.Command, log *slog.Logger) notify.Notifier {
	return notify.Multi(printer(cmd.OutOrStdout()), notify.Log{Logger: log})
}
