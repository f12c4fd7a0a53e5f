package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fr0stylo/supportdeck/pkg/session"
	"github.com/fr0stylo/supportdeck/pkg/view"
)

func membershipCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "membership",
		Short: "Membership platform session",
	}
	cmd.AddCommand(membershipConnectCmd(root))
	return cmd
}

func membershipConnectCmd(root *rootOptions) *cobra.Command {
	var (
		code        string
		redirectURI string
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Exchange an authorization code and show the membership profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := root.logger(cmd)
			sess := session.NewMembership(root.client(), session.StaticAuthCode(code), redirectURI,
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
			if snapshot.Connected() {
				profile := *snapshot.Profile
				badge := view.MembershipBadge(profile)
				fmt.Fprintf(out, "%s <%s> [%s]\n", profile.DisplayName, profile.Email, badge.Label)
				fmt.Fprintln(out, view.MembershipStatusLine(profile))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Authorization code granted by the membership platform")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "http://localhost:3000/callback", "Redirect URI registered for the code")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}
