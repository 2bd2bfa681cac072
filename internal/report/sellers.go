package report

import (
	"sales-dashboard/internal/metrics"
	"sales-dashboard/internal/models"
)

const (
	SellersID    = "sellers"
	sellersTitle = "Dashboard de Vendas por Vendedor"
)

// SellerMetrics holds the seller-performance aggregates. Leads and
// negotiations are raw counts; no conversion rate is computed even though
// the section is titled as one.
type SellerMetrics struct {
	BySeller     metrics.Result
	Goal         metrics.Result
	Leads        metrics.Result
	Negotiations metrics.Result
	ByPayment    metrics.Result
	ByProduct    metrics.Result
	ByRegion     metrics.Result
	Monthly      metrics.Result
}

func DeriveSellers(ds *models.Dataset) SellerMetrics {
	return SellerMetrics{
		BySeller:     metrics.Try(metrics.SumByCategory(ds, models.FieldSeller, models.FieldValue)),
		Goal:         metrics.Try(metrics.MaxByCategory(ds, models.FieldSeller, models.FieldMonthlyGoal)),
		Leads:        metrics.Try(metrics.SumByCategory(ds, models.FieldSeller, models.FieldLeads)),
		Negotiations: metrics.Try(metrics.SumByCategory(ds, models.FieldSeller, models.FieldNegotiations)),
		ByPayment:    metrics.Try(metrics.SumByCategory(ds, models.FieldPaymentMethod, models.FieldValue)),
		ByProduct:    metrics.Try(metrics.SumByCategory(ds, models.FieldProduct, models.FieldValue)),
		ByRegion:     metrics.Try(metrics.SumByCategory(ds, models.FieldRegion, models.FieldValue)),
		Monthly:      metrics.Try(metrics.SumByMonthLabel(ds, models.FieldDate, models.FieldValue)),
	}
}

func AssembleSellers(m SellerMetrics) Report {
	return Report{
		ID:    SellersID,
		Title: sellersTitle,
		Charts: []ChartSpec{
			rankingChart(ChartSpec{
				ID:            "seller-revenue",
				Section:       "Faturamento por Vendedor",
				Title:         "Faturamento por Vendedor",
				CategoryLabel: "Vendedor",
				ValueLabel:    "Faturamento (R$)",
				Format:        FormatCurrency,
			}, m.BySeller, 0),
			dualBarChart(ChartSpec{
				ID:            "seller-revenue-vs-goal",
				Section:       "Faturamento vs Meta Mensal",
				Title:         "Faturamento vs Meta",
				CategoryLabel: "Vendedor",
				ValueLabel:    "R$",
				Format:        FormatCurrency,
			}, m.BySeller, m.Goal, "Faturamento", "Meta Mês"),
			dualBarChart(ChartSpec{
				ID:            "seller-leads-vs-negotiations",
				Section:       "Taxa de Conversão de Leads",
				Title:         "Leads Recebidos vs Negociações Fechadas",
				CategoryLabel: "Vendedor",
				ValueLabel:    "Quantidade",
				Format:        FormatInteger,
			}, m.Leads, m.Negotiations, "Leads", "Negociações"),
			pieChart(ChartSpec{
				ID:            "sales-by-payment-method",
				Section:       "Distribuição das Vendas por Forma de Pagamento",
				Title:         "Vendas por Forma de Pagamento",
				CategoryLabel: "Forma de Pagamento",
				ValueLabel:    "Faturamento (R$)",
				Format:        FormatCurrency,
			}, m.ByPayment),
			rankingChart(ChartSpec{
				ID:            "sales-by-product",
				Section:       "Distribuição das Vendas por Tipo de Produto",
				Title:         "Vendas por Tipo de Produto",
				CategoryLabel: "Produto",
				ValueLabel:    "Faturamento (R$)",
				Format:        FormatCurrency,
			}, m.ByProduct, 0),
			rankingChart(ChartSpec{
				ID:            "sales-by-region",
				Section:       "Vendas por Região",
				Title:         "Vendas por Região",
				CategoryLabel: "Região",
				ValueLabel:    "Faturamento (R$)",
				Format:        FormatCurrency,
			}, m.ByRegion, 0),
			timeSeriesChart(ChartSpec{
				ID:            "monthly-sales",
				Section:       "Evolução das Vendas Mensais",
				Title:         "Evolução das Vendas Mensais",
				CategoryLabel: "Mês",
				ValueLabel:    "Faturamento (R$)",
				Format:        FormatCurrency,
			}, m.Monthly),
		},
	}
}
