package report

import (
	"github.com/shopspring/decimal"

	"sales-dashboard/internal/metrics"
	"sales-dashboard/internal/models"
)

const (
	OverviewID    = "overview"
	TopClientsN   = 10
	revenueLabel  = "Faturamento (R$)"
	overviewTitle = "Dashboard de Vendas"
)

// OverviewMetrics holds everything the sales overview shows, derived from
// the DATA/VALOR/REGIÃO/VENDEDOR/CLIENTE workbook.
type OverviewMetrics struct {
	Year     int
	Total    decimal.Decimal
	TotalErr error
	Monthly  metrics.Result
	ByRegion metrics.Result
	BySeller metrics.Result
	ByClient metrics.Result
}

func DeriveOverview(ds *models.Dataset, year int) OverviewMetrics {
	m := OverviewMetrics{Year: year}
	m.Total, m.TotalErr = metrics.ScalarTotal(ds, models.FieldValue)
	m.Monthly = metrics.Try(metrics.SumByMonth(ds, models.FieldDate, models.FieldValue, year))
	m.ByRegion = metrics.Try(metrics.SumByCategory(ds, models.FieldRegion, models.FieldValue))
	m.BySeller = metrics.Try(metrics.SumByCategory(ds, models.FieldSeller, models.FieldValue))
	m.ByClient = metrics.Try(metrics.SumByCategory(ds, models.FieldClient, models.FieldValue))
	return m
}

func AssembleOverview(m OverviewMetrics) Report {
	total := CardSpec{Title: "Total", Value: m.Total, Format: FormatCurrency}
	if m.TotalErr != nil {
		total.Error = errorMessage(m.TotalErr)
	}

	return Report{
		ID:    OverviewID,
		Title: overviewTitle,
		Cards: []CardSpec{
			{Title: "Ano", Value: decimal.NewFromInt(int64(m.Year)), Format: FormatPlain},
			{Title: "Venda Direta", Format: FormatCurrency, Open: true},
			{Title: "Revenda", Format: FormatCurrency, Open: true},
			total,
		},
		Charts: []ChartSpec{
			timeSeriesChart(ChartSpec{
				ID:            "revenue-by-month",
				Title:         "Faturamento por Mês (Ano Atual)",
				CategoryLabel: "Mês",
				ValueLabel:    revenueLabel,
				Format:        FormatCurrency,
			}, m.Monthly),
			rankingChart(ChartSpec{
				ID:            "revenue-by-region",
				Title:         "Faturamento por Região",
				CategoryLabel: "Região",
				ValueLabel:    revenueLabel,
				Format:        FormatCurrency,
			}, m.ByRegion, 0),
			rankingChart(ChartSpec{
				ID:            "revenue-by-seller",
				Title:         "Faturamento por Vendedor",
				CategoryLabel: "Vendedor",
				ValueLabel:    revenueLabel,
				Format:        FormatCurrency,
			}, m.BySeller, 0),
			rankingChart(ChartSpec{
				ID:            "revenue-by-client",
				Title:         "Faturamento por Cliente",
				CategoryLabel: "Cliente",
				ValueLabel:    revenueLabel,
				Format:        FormatCurrency,
			}, m.ByClient, TopClientsN),
		},
	}
}
