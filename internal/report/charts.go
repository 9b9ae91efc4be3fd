// Package report 用账户历史渲染收益曲线页面，并支持导出 PNG 快照。
package report

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"papertrade/internal/gateway/papertrading"
)

const (
	colorBackground    = "#060c1b"
	colorTextPrimary   = "#eceff4"
	colorTextSecondary = "#9ca3af"
	colorBull          = "#f87171" // A股红涨
	colorBear          = "#34d399" // 绿跌
	colorEquity        = "#3b82f6"
	colorCumReturn     = "#fbbf24"

	chartWidthPx  = 1280
	chartHeightPx = 420
)

// ChartInput carries everything the performance page renders.
type ChartInput struct {
	Histories []papertrading.AccountHistory
	Metrics   papertrading.PerformanceMetrics
}

// BuildChartsHTML renders the equity-curve page: balance line with the
// cumulative return overlaid, plus a daily-return bar chart. All numbers are
// backend-computed; this only plots them.
func BuildChartsHTML(input ChartInput) ([]byte, error) {
	if len(input.Histories) == 0 {
		return nil, fmt.Errorf("no account history to render")
	}
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.PageTitle = "Paper Trading Performance"

	xAxis := make([]string, len(input.Histories))
	equity := make([]opts.LineData, len(input.Histories))
	cumReturn := make([]opts.LineData, len(input.Histories))
	daily := make([]opts.BarData, len(input.Histories))
	for i, h := range input.Histories {
		xAxis[i] = shortDate(h.RecordDate)
		equity[i] = opts.LineData{Value: h.TotalBalance.InexactFloat64()}
		cumReturn[i] = opts.LineData{Value: h.CumulativeReturnPct.InexactFloat64()}
		dr := h.DailyReturnPct.InexactFloat64()
		color := colorBear
		if dr >= 0 {
			color = colorBull
		}
		daily[i] = opts.BarData{
			Value:     dr,
			ItemStyle: &opts.ItemStyle{Color: color, Opacity: opts.Float(0.8)},
		}
	}

	page.AddCharts(
		buildEquityChart(input.Metrics, xAxis, equity, cumReturn),
		buildDailyReturnChart(xAxis, daily),
	)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildEquityChart(metrics papertrading.PerformanceMetrics, xAxis []string, equity, cumReturn []opts.LineData) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:           types.ThemeWesteros,
			Width:           fmt.Sprintf("%dpx", chartWidthPx),
			Height:          fmt.Sprintf("%dpx", chartHeightPx),
			BackgroundColor: colorBackground,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "账户净值",
			Subtitle: fmt.Sprintf("总收益 %s%% | 年化 %s%% | 最大回撤 %s%% | 胜率 %s%%",
				metrics.TotalReturnPct.StringFixed(2),
				metrics.AnnualizedReturnPct.StringFixed(2),
				metrics.MaxDrawdownPct.StringFixed(2),
				metrics.WinRatePct.StringFixed(2)),
			Left:          "left",
			TitleStyle:    &opts.TextStyle{Color: colorTextPrimary, FontSize: 18},
			SubtitleStyle: &opts.TextStyle{Color: colorTextSecondary},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), TextStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.2)}},
		}),
	)
	line.SetXAxis(xAxis)
	line.AddSeries("净值", equity,
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorEquity, Width: 2}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	line.AddSeries("累计收益率%", cumReturn,
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorCumReturn, Width: 2}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	return line
}

func buildDailyReturnChart(xAxis []string, daily []opts.BarData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:           types.ThemeWesteros,
			Width:           fmt.Sprintf("%dpx", chartWidthPx),
			Height:          fmt.Sprintf("%dpx", chartHeightPx),
			BackgroundColor: colorBackground,
		}),
		charts.WithTitleOpts(opts.Title{Title: "日收益率 %", Left: "left", TitleStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.15)}},
		}),
	)
	bar.SetXAxis(xAxis)
	bar.AddSeries("日收益率", daily)
	return bar
}

// shortDate trims an ISO datetime down to its date part for axis labels.
func shortDate(recordDate string) string {
	if len(recordDate) >= 10 {
		return recordDate[:10]
	}
	return recordDate
}
