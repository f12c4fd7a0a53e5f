package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fr0stylo/supportdeck/pkg/session"
	"github.com/fr0stylo/supportdeck/pkg/view"
)

func tipJarCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tipjar",
		Short: "Tip-jar session",
	}
	cmd.AddCommand(tipJarConnectCmd(root))
	return cmd
}

func tipJarConnectCmd(root *rootOptions) *cobra.Command {
	var (
		token             string
		aggregateOptional bool
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Fetch supporters and totals with a creator access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy := session.AggregateRequired
			if aggregateOptional {
				policy = session.AggregateOptional
			}

			log := root.logger(cmd)
			sess := session.NewTipJar(root.client(), token, policy,
				session.WithNotifier(root.notifier(cmd, log)),
				session.WithLogger(log),
			)

			err := sess.Connect(cmd.Context())
			snapshot := sess.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, view.ConnectionLabel(snapshot.DisplayStatus()))
			if err != nil {
				return err
			}
			if !snapshot.Connected() {
				return nil
			}
			for _, stat := range view.TipJarStats(snapshot.Profile.Aggregate) {
				fmt.Fprintf(out, "%s: %s\n", stat.Label, stat.Value)
			}
			for _, supporter := range snapshot.Profile.Supporters {
				fmt.Fprintln(out, view.SupporterLine(supporter))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Creator access token")
	cmd.Flags().BoolVar(&aggregateOptional, "aggregate-optional", false, "Connect even when totals cannot be fetched")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}
