// Package view derives display values from integration state. Layout and styling live elsewhere.
package view

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fr0stylo/supportdeck/pkg/gateway"
	"github.com/fr0stylo/supportdeck/pkg/payment"
	"github.com/fr0stylo/supportdeck/pkg/session"
)

// Tone is the visual weight of a badge.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNeutral  Tone = "neutral"
	ToneWarning  Tone = "warning"
)

// Badge is a short status label.
type Badge struct {
	Label string
	Tone  Tone
}

// MembershipBadge labels the membership state of a profile.
func MembershipBadge(profile gateway.MembershipProfile) Badge {
	if profile.IsMember {
		return Badge{Label: "Active Member", Tone: TonePositive}
	}
	return Badge{Label: "Not a Member", Tone: ToneNeutral}
}

// MembershipStatusLine renders the membership status row.
func MembershipStatusLine(profile gateway.MembershipProfile) string {
	status := strings.TrimSpace(profile.MembershipStatus)
	if status == "" {
		status = "Not a member"
	}
	return "Membership Status: " + status
}

// Money renders an amount with two decimals.
func Money(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// Stat is one labelled number.
type Stat struct {
	Label string
	Value string
}

// TipJarStats renders the aggregate stat group; nil yields no stats.
func TipJarStats(aggregate *gateway.Aggregate) []Stat {
	if aggregate == nil {
		return nil
	}
	return []Stat{
		{Label: "Total Supporters", Value: fmt.Sprintf("%d", aggregate.TotalSupporters)},
		{Label: "Total Contributions", Value: fmt.Sprintf("%d", aggregate.TotalContributions)},
		{Label: "Total Revenue", Value: Money(aggregate.TotalRevenue)},
	}
}

// SupporterLine renders one supporter row.
func SupporterLine(s gateway.Supporter) string {
	line := fmt.Sprintf("%s  %s", s.Name, Money(s.Amount))
	if msg := strings.TrimSpace(s.Message); msg != "" {
		line += fmt.Sprintf("  %q", msg)
	}
	return line
}

// ConnectionLabel renders a session status for a connect button or header.
func ConnectionLabel(status session.Status) string {
	switch status {
	case session.StatusConnecting:
		return "Connecting..."
	case session.StatusConnected:
		return "Connected"
	case session.StatusFailed:
		return "Connection failed"
	default:
		return "Not connected"
	}
}

// PayButtonLabel renders the submit button for an amount.
func PayButtonLabel(amount decimal.Decimal) string {
	return "Pay $" + amount.String()
}

// PaymentStatusLine renders the inline status under the payment form.
func PaymentStatusLine(intent payment.Intent) string {
	switch intent.Status {
	case payment.StatusSucceeded:
		return "Payment successful!"
	case payment.StatusFailed:
		return "Payment failed. Please try again."
	case payment.StatusCreating, payment.StatusAwaitingConfirmation:
		return "Processing..."
	default:
		return ""
	}
}
