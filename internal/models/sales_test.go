package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		header string
		want   Field
		ok     bool
	}{
		{"DATA", FieldDate, true},
		{" região ", FieldRegion, true},
		{"Meta Mês", FieldMonthlyGoal, true},
		{"PAYMENT_METHOD", FieldPaymentMethod, true},
		{"leads_count", FieldLeads, true},
		{"", "", false},
		{"OBSERVAÇÃO", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := ParseField(tt.header)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseField(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDataset_Has(t *testing.T) {
	ds := NewDataset(nil, FieldValue, FieldDate, FieldValue)

	if !ds.Has(FieldDate) || !ds.Has(FieldValue) {
		t.Error("dataset should report loaded fields")
	}
	if ds.Has(FieldRegion) {
		t.Error("dataset should not report fields missing from the header")
	}
	if got := len(ds.Fields()); got != 2 {
		t.Errorf("expected 2 distinct fields, got %d", got)
	}
}

func TestDataset_Filter(t *testing.T) {
	records := []SalesRecord{
		{Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Region: "North"},
		{Date: time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC), Region: "South"},
		{Region: "North"},
	}
	ds := NewDataset(records, FieldDate, FieldRegion)
	ds.Source = "Base.xlsx"

	filtered := ds.Filter(func(r SalesRecord) bool { return r.Region == "North" })

	if filtered.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", filtered.Len())
	}
	if ds.Len() != 3 {
		t.Error("Filter() must not change the source dataset")
	}
	if filtered.Source != "Base.xlsx" || !filtered.Has(FieldRegion) {
		t.Error("Filter() should keep source and schema")
	}
}

func TestDataset_RecordsIsACopy(t *testing.T) {
	ds := NewDataset([]SalesRecord{{Region: "North"}}, FieldRegion)

	rs := ds.Records()
	rs[0].Region = "changed"

	for r := range ds.All() {
		if r.Region != "North" {
			t.Error("mutating Records() result must not change the dataset")
		}
	}
}

func TestSalesRecord_Accessors(t *testing.T) {
	r := SalesRecord{
		Seller:      "Ana",
		Value:       decimal.NewNullDecimal(decimal.NewFromInt(100)),
		MonthlyGoal: decimal.NewNullDecimal(decimal.NewFromInt(500)),
	}

	if r.Category(FieldSeller) != "Ana" {
		t.Errorf("Category(seller) = %q", r.Category(FieldSeller))
	}
	if !r.Number(FieldValue).Decimal.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Number(value) = %v", r.Number(FieldValue))
	}
	if r.Number(FieldLeads).Valid {
		t.Error("unset leads should be null")
	}
	if _, ok := r.Time(FieldDate); ok {
		t.Error("zero date should be reported as missing")
	}
	if r.HasDate() {
		t.Error("HasDate() should be false for the zero time")
	}
}
