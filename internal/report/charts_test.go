package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade/internal/gateway/papertrading"
)

func history(date string, balance, daily string) papertrading.AccountHistory {
	return papertrading.AccountHistory{
		RecordDate:          date,
		TotalBalance:        decimal.RequireFromString(balance),
		DailyReturnPct:      decimal.RequireFromString(daily),
		CumulativeReturnPct: decimal.RequireFromString("1.0"),
	}
}

func TestBuildChartsHTML(t *testing.T) {
	input := ChartInput{
		Histories: []papertrading.AccountHistory{
			history("2026-08-20T00:00:00", "100000", "0.5"),
			history("2026-08-21T00:00:00", "100500", "-0.2"),
		},
		Metrics: papertrading.PerformanceMetrics{
			TotalReturnPct:      decimal.RequireFromString("5.25"),
			AnnualizedReturnPct: decimal.RequireFromString("12.4"),
			MaxDrawdownPct:      decimal.RequireFromString("3.1"),
			WinRatePct:          decimal.RequireFromString("60"),
		},
	}
	html, err := BuildChartsHTML(input)
	require.NoError(t, err)
	assert.Contains(t, string(html), "账户净值")
	assert.Contains(t, string(html), "2026-08-20")
}

func TestBuildChartsHTMLRequiresHistory(t *testing.T) {
	_, err := BuildChartsHTML(ChartInput{})
	require.Error(t, err)
}

func TestShortDate(t *testing.T) {
	assert.Equal(t, "2026-08-21", shortDate("2026-08-21T09:30:00"))
	assert.Equal(t, "short", shortDate("short"))
}
