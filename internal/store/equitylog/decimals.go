package equitylog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"papertrade/internal/gateway/papertrading"
)

func assignDecimals(h *papertrading.AccountHistory, totalBalance, cashBalance, marketValue,
	profitLoss, profitLossPct, dailyReturnPct, cumulativeReturnPct string) error {
	fields := []struct {
		raw  string
		dest *decimal.Decimal
	}{
		{totalBalance, &h.TotalBalance},
		{cashBalance, &h.CashBalance},
		{marketValue, &h.MarketValue},
		{profitLoss, &h.ProfitLoss},
		{profitLossPct, &h.ProfitLossPct},
		{dailyReturnPct, &h.DailyReturnPct},
		{cumulativeReturnPct, &h.CumulativeReturnPct},
	}
	for _, f := range fields {
		val, err := decimal.NewFromString(f.raw)
		if err != nil {
			return fmt.Errorf("equitylog: 非法数值 %q: %w", f.raw, err)
		}
		*f.dest = val
	}
	return nil
}
