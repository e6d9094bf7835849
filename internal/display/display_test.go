package display

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/travelstats/internal/calculator"
)

func newTestFormatter(t *testing.T) *Formatter {
	t.Helper()
	f, err := NewFormatter("en")
	if err != nil {
		t.Fatalf("NewFormatter failed: %v", err)
	}
	f.now = func() time.Time { return time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC) }
	return f
}

func TestMoney(t *testing.T) {
	f := newTestFormatter(t)

	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"50", "50.00"},
		{"1234.5", "1,234.50"},
		{"1234567.891", "1,234,567.89"},
		{"-15.255", "-15.26"},
		{"-0.001", "0.00"},
		{"12345678901234567.89", "12,345,678,901,234,567.89"},
		{"0.1234567890123456789", "0.12"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := f.Money(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("Money(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoneyWithCurrency(t *testing.T) {
	f := newTestFormatter(t)
	if got := f.MoneyWithCurrency(decimal.NewFromInt(10), "EUR"); got != "10.00 EUR" {
		t.Errorf("got %q", got)
	}
	if got := f.MoneyWithCurrency(decimal.NewFromInt(10), ""); got != "10.00" {
		t.Errorf("got %q", got)
	}
}

func TestLocaleGrouping(t *testing.T) {
	f, err := NewFormatter("de")
	if err != nil {
		t.Fatalf("NewFormatter failed: %v", err)
	}
	if got := f.Money(decimal.RequireFromString("1234.5")); got != "1.234,50" {
		t.Errorf("Money = %q, want 1.234,50", got)
	}
	if got := f.Count(1234); got != "1.234" {
		t.Errorf("Count = %q, want 1.234", got)
	}
}

func TestNewFormatterRejectsBadLocale(t *testing.T) {
	if _, err := NewFormatter("!!"); err == nil {
		t.Error("expected error for invalid locale")
	}
}

func TestPersonalPlaceholders(t *testing.T) {
	f := newTestFormatter(t)
	p := f.Personal(calculator.PersonalStats{}, nil)

	if p.Organized != "0" || p.Participated != "0" {
		t.Errorf("counts = %q/%q, want 0/0", p.Organized, p.Participated)
	}
	for name, v := range map[string]string{
		"TopCoParticipant":    p.TopCoParticipant,
		"BiggestSpend":        p.BiggestSpend,
		"LongestTrip":         p.LongestTrip,
		"MostRecentOrganized": p.MostRecentOrganized,
	} {
		if v != Placeholder {
			t.Errorf("%s = %q, want placeholder", name, v)
		}
	}
}

func TestPersonalValues(t *testing.T) {
	f := newTestFormatter(t)
	stats := calculator.PersonalStats{
		OrganizedCount:    1200,
		ParticipatedCount: 3,
		TopCoParticipant:  &calculator.CoParticipant{UserID: "u7", Splits: 4},
		BiggestSpend:      &calculator.EventSpend{EventID: "e1", EventName: "Lisbon", Total: decimal.NewFromFloat(1500.5), Currency: "EUR"},
		LongestTrip:       &calculator.TripLength{EventID: "e2", Days: 1},
		MostRecentOrganized: &calculator.RecentEvent{
			EventID:   "e3",
			EventName: "Oslo",
			CreatedAt: time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC),
		},
	}

	p := f.Personal(stats, map[string]string{"u7": "Maya"})

	want := Personal{
		Organized:           "1,200",
		Participated:        "3",
		TopCoParticipant:    "Maya",
		BiggestSpend:        "Lisbon (1,500.50 EUR)",
		LongestTrip:         "e2 (1 day)",
		MostRecentOrganized: "Oslo (3 days ago)",
	}
	if p != want {
		t.Errorf("Personal() =\n%+v\nwant\n%+v", p, want)
	}
}

func TestFinancial(t *testing.T) {
	f := newTestFormatter(t)
	got := f.Financial(calculator.FinancialSummary{ActiveEventsCount: 2, ExpectedPayments: decimal.NewFromInt(50)})
	if got.ActiveEvents != "2" || got.ExpectedPayments != "50.00" {
		t.Errorf("Financial() = %+v", got)
	}
}

func TestDays(t *testing.T) {
	for n, want := range map[int]string{0: "0 days", 1: "1 day", 12: "12 days"} {
		if got := Days(n); got != want {
			t.Errorf("Days(%d) = %q, want %q", n, got, want)
		}
	}
}
