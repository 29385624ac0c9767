package market

import (
	"context"

	"gonum.org/v1/gonum/stat"

	"zentrader/internal/logger"
)

// Correlation computes the pairwise close-price correlation matrix for the
// given symbols over a period. Symbols whose series cannot be fetched are
// left out; series are aligned by truncating to the shortest tail. Fewer
// than two usable symbols yields ErrNoData.
func (p *Provider) Correlation(ctx context.Context, symbols []string, period string) (map[string]map[string]float64, error) {
	series := make(map[string][]float64, len(symbols))
	minLen := -1

	for _, sym := range symbols {
		bars, err := p.Bars(ctx, sym, period, "1d")
		if err != nil {
			logger.Warn(ctx, "Symbol excluded from correlation", "symbol", sym, "error", err)
			continue
		}
		closes := make([]float64, len(bars))
		for i, b := range bars {
			closes[i] = b.Close
		}
		series[sym] = closes
		if minLen < 0 || len(closes) < minLen {
			minLen = len(closes)
		}
	}
	if len(series) < 2 || minLen < 2 {
		return nil, ErrNoData
	}

	// Align on the shared trailing window.
	for sym, closes := range series {
		series[sym] = closes[len(closes)-minLen:]
	}

	matrix := make(map[string]map[string]float64, len(series))
	for a, xs := range series {
		matrix[a] = make(map[string]float64, len(series))
		for b, ys := range series {
			if a == b {
				matrix[a][b] = 1
				continue
			}
			matrix[a][b] = stat.Correlation(xs, ys, nil)
		}
	}
	return matrix, nil
}
