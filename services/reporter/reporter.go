package reporter

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"sjsage522/vintedscout/internal/market"
)

// Reporter presents the matches of a run
type Reporter interface {
	Report(matches []market.MatchResult) error
}

// TextReporter renders matches as human-readable blocks
type TextReporter struct {
	out        io.Writer
	timeLayout string
}

// NewTextReporter creates a reporter writing to out
func NewTextReporter(out io.Writer) *TextReporter {
	return &TextReporter{out: out, timeLayout: "2006-01-02 15:04:05"}
}

// Report writes every match, or a notice when there is none
func (r *TextReporter) Report(matches []market.MatchResult) error {
	if _, err := fmt.Fprint(r.out, "Job done. Matching items:\n\n"); err != nil {
		return err
	}
	if len(matches) == 0 {
		_, err := fmt.Fprintln(r.out, "No matching items found.")
		return err
	}

	for _, m := range matches {
		if _, err := fmt.Fprintf(r.out,
			"Matching item: \n"+
				"- Title: %s\n"+
				"- Amount: %s\n"+
				"- Currency Code: %s\n"+
				"- Publication Time: %s\n"+
				"- Profile URL: %s\n"+
				"- Item URL: %s\n"+
				"- Highest Discount: %s\n\n",
			m.Title,
			m.Amount,
			m.CurrencyCode,
			m.PublicationTime.Local().Format(r.timeLayout),
			m.ProfileURL,
			m.ItemURL,
			formatPercent(m.HighestDiscountPercent),
		); err != nil {
			return err
		}
	}
	return nil
}

// formatPercent rounds to two decimals, so a 0.15 tier prints as 15%
func formatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + "%"
}
