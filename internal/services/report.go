package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/valutatrade/internal/models"
	"github.com/dmitrijs2005/valutatrade/internal/rates"
)

// PortfolioReport is a portfolio valued in one base currency. Wallets whose
// rate could not be resolved are valued at zero and named in Unresolved.
type PortfolioReport struct {
	Username string
	models.Valuation
}

// PortfolioInfo values the current user's portfolio in base, or in the
// default base currency when base is empty.
func (s *LedgerService) PortfolioInfo(ctx context.Context, base string) (*PortfolioReport, error) {
	return observe(s, ctx, "portfolio_info", []any{"base", base}, func(ctx context.Context) (*PortfolioReport, error) {
		sess, err := s.requireSession()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(base) == "" {
			base = s.base
		}
		base = models.NormalizeCode(base)
		if err := s.resolver.CheckSupported(base); err != nil {
			return nil, err
		}

		repos := s.repos.Repositories()
		p, err := repos.Portfolios.Get(ctx, sess.UserID)
		if err != nil {
			return nil, err
		}
		table, err := repos.Rates.Load(ctx)
		if err != nil {
			return nil, err
		}

		v := p.TotalValue(base, s.resolver.RateFunc(table))
		if len(v.Unresolved) > 0 {
			s.log.Warn(ctx, "wallets valued at zero", "base", base, "codes", v.Unresolved)
		}
		return &PortfolioReport{Username: sess.Username, Valuation: v}, nil
	})
}

// Markdown renders the report as a heading, a table and the total.
func (r *PortfolioReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio of %s (base %s)\n\n", r.Username, r.Base)

	if len(r.Lines) == 0 {
		b.WriteString("The portfolio is empty.\n")
		return b.String()
	}

	b.WriteString("| Currency | Balance | Rate | Value |\n")
	b.WriteString("|:---|---:|---:|---:|\n")
	for _, l := range r.Lines {
		rate, value := "N/A", "N/A"
		if l.Resolved {
			rate = rates.FormatRate(l.Rate)
			value = rates.Format(l.Value, r.Base)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", l.Code, rates.Format(l.Balance, l.Code), rate, value)
	}
	fmt.Fprintf(&b, "\n**Total:** %s\n", rates.Format(r.Total, r.Base))
	if len(r.Unresolved) > 0 {
		fmt.Fprintf(&b, "\n_No rate for %s; counted as zero._\n", strings.Join(r.Unresolved, ", "))
	}
	return b.String()
}
