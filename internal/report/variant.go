package report

import (
	"time"

	"sales-dashboard/internal/models"
)

type Options struct {
	Year int
}

// Variant is one dashboard: the columns its source must provide and how
// a dataset becomes a report.
type Variant struct {
	ID       string
	Title    string
	Required []models.Field
	assemble func(*models.Dataset, Options) Report
}

// Build derives and assembles the report for ds. It has no side effects.
func (v Variant) Build(ds *models.Dataset, opts Options) Report {
	r := v.assemble(ds, opts)
	r.ID = v.ID
	r.Title = v.Title
	r.Source = ds.Source
	r.Records = ds.Len()
	r.GeneratedAt = time.Now()
	return r
}

var baseColumns = []models.Field{models.FieldDate, models.FieldValue}

func Overview() Variant {
	return Variant{
		ID:       OverviewID,
		Title:    overviewTitle,
		Required: baseColumns,
		assemble: func(ds *models.Dataset, opts Options) Report {
			return AssembleOverview(DeriveOverview(ds, opts.Year))
		},
	}
}

func SellerPerformance() Variant {
	return Variant{
		ID:       SellersID,
		Title:    sellersTitle,
		Required: baseColumns,
		assemble: func(ds *models.Dataset, _ Options) Report {
			return AssembleSellers(DeriveSellers(ds))
		},
	}
}
