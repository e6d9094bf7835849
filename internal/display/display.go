// Package display turns calculator results into the strings shown on the
// summary and personal stats cards.
package display

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mmynk/travelstats/internal/calculator"
)

// Placeholder is shown for a statistic that has no qualifying data.
const Placeholder = "none yet"

// Formatter formats values for one locale.
type Formatter struct {
	printer *message.Printer
	decimal string // locale decimal separator
	now     func() time.Time
}

// NewFormatter creates a Formatter for the BCP 47 locale tag. An empty tag
// means English.
func NewFormatter(locale string) (*Formatter, error) {
	tag := language.English
	if locale != "" {
		var err error
		tag, err = language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
		}
	}
	printer := message.NewPrinter(tag)
	sep := strings.TrimSuffix(strings.TrimPrefix(printer.Sprintf("%.1f", 0.5), "0"), "5")
	return &Formatter{printer: printer, decimal: sep, now: time.Now}, nil
}

// Money formats d with locale digit grouping and exactly two decimals,
// rounding half away from zero. Digits are taken from the decimal itself, so
// no precision is lost; whole parts beyond int64 are printed ungrouped.
func (f *Formatter) Money(d decimal.Decimal) string {
	whole, frac, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = f.printer.Sprintf("%d", n)
	}
	s := whole + f.decimal + frac
	if d.Round(2).Sign() < 0 {
		s = "-" + s
	}
	return s
}

// MoneyWithCurrency formats d followed by the currency code, if any.
func (f *Formatter) MoneyWithCurrency(d decimal.Decimal, currency string) string {
	if currency == "" {
		return f.Money(d)
	}
	return f.Money(d) + " " + currency
}

// Count formats n with locale digit grouping.
func (f *Formatter) Count(n int) string {
	return f.printer.Sprintf("%d", n)
}

// Since describes how long ago t was.
func (f *Formatter) Since(t time.Time) string {
	return humanize.RelTime(t, f.now(), "ago", "from now")
}

// Days formats a trip length.
func Days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// OrPlaceholder returns s, or Placeholder when s is empty.
func OrPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// Financial is the display form of calculator.FinancialSummary.
type Financial struct {
	ActiveEvents     string `json:"active_events"`
	ExpectedPayments string `json:"expected_payments"`
}

// Personal is the display form of calculator.PersonalStats.
type Personal struct {
	Organized           string `json:"organized"`
	Participated        string `json:"participated"`
	TopCoParticipant    string `json:"top_co_participant"`
	BiggestSpend        string `json:"biggest_spend"`
	LongestTrip         string `json:"longest_trip"`
	MostRecentOrganized string `json:"most_recent_organized"`
}

// Financial formats s.
func (f *Formatter) Financial(s calculator.FinancialSummary) Financial {
	return Financial{
		ActiveEvents:     f.Count(s.ActiveEventsCount),
		ExpectedPayments: f.Money(s.ExpectedPayments),
	}
}

// Personal formats s. names maps user ids to display names; ids without a
// name are shown as-is.
func (f *Formatter) Personal(s calculator.PersonalStats, names map[string]string) Personal {
	p := Personal{
		Organized:           f.Count(s.OrganizedCount),
		Participated:        f.Count(s.ParticipatedCount),
		TopCoParticipant:    Placeholder,
		BiggestSpend:        Placeholder,
		LongestTrip:         Placeholder,
		MostRecentOrganized: Placeholder,
	}
	if c := s.TopCoParticipant; c != nil {
		name := names[c.UserID]
		if name == "" {
			name = c.UserID
		}
		p.TopCoParticipant = name
	}
	if b := s.BiggestSpend; b != nil {
		p.BiggestSpend = fmt.Sprintf("%s (%s)", eventLabel(b.EventName, b.EventID), f.MoneyWithCurrency(b.Total, b.Currency))
	}
	if l := s.LongestTrip; l != nil {
		p.LongestTrip = fmt.Sprintf("%s (%s)", eventLabel(l.EventName, l.EventID), Days(l.Days))
	}
	if r := s.MostRecentOrganized; r != nil {
		p.MostRecentOrganized = fmt.Sprintf("%s (%s)", eventLabel(r.EventName, r.EventID), f.Since(r.CreatedAt))
	}
	return p
}

func eventLabel(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
