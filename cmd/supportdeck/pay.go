package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fr0stylo/supportdeck/pkg/cardcapture"
	"github.com/fr0stylo/supportdeck/pkg/payment"
	"github.com/fr0stylo/supportdeck/pkg/view"
)

func payCmd(root *rootOptions) *cobra.Command {
	var (
		amount      string
		currency    string
		description string
		card        string
		stripeKey   string
		name        string
		email       string
	)

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Create a payment intent and confirm it with a card token",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}

			var confirmer payment.CardConfirmer = cardcapture.Fixture{}
			if stripeKey != "" {
				confirmer = cardcapture.NewStripe(stripeKey, nil)
			}

			log := root.logger(cmd)
			flow := payment.NewFlow(root.client(), confirmer,
				payment.WithNotifier(root.notifier(cmd, log)),
				payment.WithLogger(log),
				payment.WithObserver(func(intent payment.Intent) {
					log.Debug("Payment transition", "status", intent.Status, "intent_id", intent.IntentID)
				}),
			)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, view.PayButtonLabel(value))
			intent, err := flow.Submit(cmd.Context(), payment.Submission{
				Amount:      value,
				Currency:    currency,
				Description: description,
				Method: payment.PaymentMethod{
					Token:   card,
					Billing: payment.BillingDetails{Name: name, Email: email},
				},
			})
			fmt.Fprintln(out, view.PaymentStatusLine(intent))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Intent: %s (%d %s minor units)\n", intent.IntentID, intent.AmountMinorUnits, intent.Currency)
			return nil
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "10", "Amount in major units (1 to 1000)")
	cmd.Flags().StringVar(&currency, "currency", payment.DefaultCurrency, "Three-letter currency code")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Payment description")
	cmd.Flags().StringVar(&card, "card", cardcapture.TokenVisa, "Card payment method token")
	cmd.Flags().StringVar(&stripeKey, "stripe-key", "", "Stripe secret key; confirms on Stripe instead of the fixture confirmer")
	cmd.Flags().StringVar(&name, "name", "", "Billing name")
	cmd.Flags().StringVar(&email, "email", "", "Billing email")

	return cmd
}
