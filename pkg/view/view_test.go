package view

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fr0stylo/supportdeck/pkg/gateway"
	"github.com/fr0stylo/supportdeck/pkg/payment"
	"github.com/fr0stylo/supportdeck/pkg/session"
)

func TestMembershipBadge(t *testing.T) {
	t.Parallel()

	if got := MembershipBadge(gateway.MembershipProfile{IsMember: true}); got.Label != "Active Member" || got.Tone != TonePositive {
		t.Fatalf("unexpected member badge: %#v", got)
	}
	if got := MembershipBadge(gateway.MembershipProfile{IsMember: false}); got.Label != "Not a Member" {
		t.Fatalf("unexpected non-member badge: %#v", got)
	}
}

func TestMembershipStatusLineFallsBack(t *testing.T) {
	t.Parallel()

	if got := MembershipStatusLine(gateway.MembershipProfile{}); got != "Membership Status: Not a member" {
		t.Fatalf("unexpected status line: %q", got)
	}
	if got := MembershipStatusLine(gateway.MembershipProfile{MembershipStatus: "active_patron"}); got != "Membership Status: active_patron" {
		t.Fatalf("unexpected status line: %q", got)
	}
}

func TestTipJarStats(t *testing.T) {
	t.Parallel()

	if TipJarStats(nil) != nil {
		t.Fatal("expected no stats for nil aggregate")
	}
	stats := TipJarStats(&gateway.Aggregate{TotalSupporters: 125, TotalContributions: 250, TotalRevenue: decimal.NewFromInt(1250)})
	if len(stats) != 3 || stats[2].Value != "$1250.00" {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}

func TestSupporterLine(t *testing.T) {
	t.Parallel()

	got := SupporterLine(gateway.Supporter{Name: "Jane Smith", Amount: decimal.NewFromInt(5), Message: "Keep up the great work!"})
	want := `Jane Smith  $5.00  "Keep up the great work!"`
	if got != want {
		t.Fatalf("SupporterLine = %q, want %q", got, want)
	}
}

func TestLabels(t *testing.T) {
	t.Parallel()

	if got := PayButtonLabel(decimal.NewFromInt(25)); got != "Pay $25" {
		t.Fatalf("unexpected pay label: %q", got)
	}
	if got := ConnectionLabel(session.StatusFailed); got != "Connection failed" {
		t.Fatalf("unexpected connection label: %q", got)
	}
	if got := PaymentStatusLine(payment.Intent{Status: payment.StatusSucceeded}); got != "Payment successful!" {
		t.Fatalf("unexpected payment status: %q", got)
	}
}
