package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fr0stylo/supportdeck/pkg/eventpublisher"
)

func webhookCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Send test webhook deliveries to the gateway",
	}
	cmd.AddCommand(webhookSendCmd(root))
	return cmd
}

func webhookSendCmd(root *rootOptions) *cobra.Command {
	var (
		provider  string
		eventType string
		eventID   string
		data      string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Publish one CloudEvent to /webhooks/{provider}",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{}
			if data != "" {
				if err := json.Unmarshal([]byte(data), &payload); err != nil {
					return fmt.Errorf("invalid --data JSON object: %w", err)
				}
			}

			client := eventpublisher.Client{Endpoint: root.gatewayURL, Timeout: root.timeout}
			receipt, err := client.Publish(cmd.Context(), eventpublisher.Event{
				Provider: provider,
				Type:     eventType,
				ID:       eventID,
				Data:     payload,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", receipt.Message, receipt.EventID)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "stripe", "Webhook provider: stripe, membership or tipjar")
	cmd.Flags().StringVar(&eventType, "type", "", "Provider event type, e.g. payment_intent.succeeded")
	cmd.Flags().StringVar(&eventID, "id", "", "Event id; generated when empty")
	cmd.Flags().StringVar(&data, "data", "", "Event data as a JSON object")

	return cmd
}
