package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/metrics"
	"sales-dashboard/internal/models"
)

var overviewFields = []models.Field{
	models.FieldDate, models.FieldValue, models.FieldRegion, models.FieldSeller, models.FieldClient,
}

func money(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func sale(client string, month time.Month, v int64) models.SalesRecord {
	return models.SalesRecord{
		Date:   time.Date(2025, month, 10, 0, 0, 0, 0, time.UTC),
		Value:  money(v),
		Region: "Sul",
		Seller: "Ana",
		Client: client,
	}
}

func chartByID(t *testing.T, r Report, id string) ChartSpec {
	t.Helper()
	for _, c := range r.Charts {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("chart %q not found", id)
	return ChartSpec{}
}

func TestValueFormat_Format(t *testing.T) {
	tests := []struct {
		format ValueFormat
		value  decimal.Decimal
		want   string
	}{
		{FormatCurrency, decimal.NewFromFloat(1234.5), "R$ 1,234.50"},
		{FormatCurrency, decimal.NewFromInt(130), "R$ 130.00"},
		{FormatCurrency, decimal.NewFromFloat(12345.6789), "R$ 12,345.68"},
		{FormatInteger, decimal.NewFromInt(12345), "12,345"},
		{FormatInteger, decimal.NewFromInt(7), "7"},
		{FormatPlain, decimal.NewFromInt(2025), "2025"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.format, tt.value), func(t *testing.T) {
			if got := tt.format.Format(tt.value); got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestCardSpec_Display(t *testing.T) {
	tests := []struct {
		name string
		card CardSpec
		want string
	}{
		{"open", CardSpec{Title: "Revenda", Format: FormatCurrency, Open: true}, OpenText},
		{"error", CardSpec{Title: "Total", Format: FormatCurrency, Error: "boom"}, UnavailableText},
		{"currency", CardSpec{Title: "Total", Value: decimal.NewFromInt(130), Format: FormatCurrency}, "R$ 130.00"},
		{"plain", CardSpec{Title: "Ano", Value: decimal.NewFromInt(2025), Format: FormatPlain}, "2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCardSpec_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(CardSpec{Title: "Venda Direta", Format: FormatCurrency, Open: true})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["display"] != OpenText {
		t.Errorf("display = %v, want %q", got["display"], OpenText)
	}
	if got["open"] != true {
		t.Errorf("open = %v, want true", got["open"])
	}
	if got["title"] != "Venda Direta" {
		t.Errorf("title = %v", got["title"])
	}
}

func TestAssembleOverview_Cards(t *testing.T) {
	ds := models.NewDataset([]models.SalesRecord{
		sale("A", time.January, 100),
		sale("B", time.February, 30),
	}, overviewFields...)

	r := AssembleOverview(DeriveOverview(ds, 2025))

	want := []struct {
		title   string
		display string
	}{
		{"Ano", "2025"},
		{"Venda Direta", OpenText},
		{"Revenda", OpenText},
		{"Total", "R$ 130.00"},
	}
	if len(r.Cards) != len(want) {
		t.Fatalf("got %d cards, want %d", len(r.Cards), len(want))
	}
	for i, w := range want {
		if r.Cards[i].Title != w.title || r.Cards[i].Display() != w.display {
			t.Errorf("card %d = %s/%s, want %s/%s", i, r.Cards[i].Title, r.Cards[i].Display(), w.title, w.display)
		}
	}
	if !r.Cards[1].Open || !r.Cards[2].Open {
		t.Error("direct and resale cards should be open")
	}
}

func TestAssembleOverview_TopClients(t *testing.T) {
	var records []models.SalesRecord
	for i := range 15 {
		records = append(records, sale(fmt.Sprintf("C%02d", i), time.March, int64((i*7)%15+1)))
	}
	ds := models.NewDataset(records, overviewFields...)

	r := AssembleOverview(DeriveOverview(ds, 2025))
	clients := chartByID(t, r, "revenue-by-client")

	if clients.Kind != ChartHorizontalBar {
		t.Errorf("Kind = %s, want %s", clients.Kind, ChartHorizontalBar)
	}
	if clients.TopN != TopClientsN {
		t.Errorf("TopN = %d, want %d", clients.TopN, TopClientsN)
	}
	if len(clients.Categories) != 10 {
		t.Fatalf("got %d categories, want 10", len(clients.Categories))
	}

	values := clients.Series[0].Values
	for i := 1; i < len(values); i++ {
		if values[i].LessThan(values[i-1]) {
			t.Fatalf("values not ascending at %d: %v", i, values)
		}
	}
	if !values[0].Equal(decimal.NewFromInt(6)) || !values[9].Equal(decimal.NewFromInt(15)) {
		t.Errorf("range = %s..%s, want 6..15", values[0], values[9])
	}
	if len(clients.Series[0].Labels) != 10 || clients.Series[0].Labels[9] != "R$ 15.00" {
		t.Errorf("labels = %v", clients.Series[0].Labels)
	}
}

func TestAssembleOverview_MonthlyLine(t *testing.T) {
	ds := models.NewDataset([]models.SalesRecord{
		sale("A", time.March, 10),
		sale("A", time.January, 5),
		{Date: time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), Value: money(99), Client: "A"},
	}, overviewFields...)

	monthly := chartByID(t, AssembleOverview(DeriveOverview(ds, 2025)), "revenue-by-month")

	if monthly.Kind != ChartLine || monthly.Labels != LabelTop {
		t.Errorf("Kind/Labels = %s/%s", monthly.Kind, monthly.Labels)
	}
	if strings.Join(monthly.Categories, ",") != "1,3" {
		t.Errorf("Categories = %v, want [1 3]", monthly.Categories)
	}
}

func TestAssembleOverview_MissingColumn(t *testing.T) {
	ds := models.NewDataset([]models.SalesRecord{
		sale("A", time.January, 100),
	}, models.FieldDate, models.FieldValue, models.FieldRegion, models.FieldSeller)

	r := AssembleOverview(DeriveOverview(ds, 2025))

	clients := chartByID(t, r, "revenue-by-client")
	if !clients.Failed() {
		t.Fatal("client chart should fail without CLIENTE")
	}
	if !strings.Contains(clients.Error, string(models.FieldClient)) {
		t.Errorf("Error = %q, want mention of %s", clients.Error, models.FieldClient)
	}
	if clients.Series != nil || clients.Categories != nil {
		t.Error("failed chart should carry no data")
	}
	if got := r.Failures(); got != 1 {
		t.Errorf("Failures() = %d, want 1", got)
	}
	if chartByID(t, r, "revenue-by-region").Failed() {
		t.Error("region chart should not be affected")
	}
}

func TestAssembleSellers_DualSeriesZeroFill(t *testing.T) {
	left := metrics.Aggregate{Entries: []metrics.Entry{
		{Key: "Ana", Value: decimal.NewFromInt(10)},
		{Key: "Bruno", Value: decimal.NewFromInt(5)},
	}}
	right := metrics.Aggregate{Entries: []metrics.Entry{
		{Key: "Ana", Value: decimal.NewFromInt(8)},
		{Key: "Carla", Value: decimal.NewFromInt(3)},
	}}

	r := AssembleSellers(SellerMetrics{
		BySeller: metrics.Try(left, nil),
		Goal:     metrics.Try(right, nil),
	})
	goal := chartByID(t, r, "seller-revenue-vs-goal")

	if goal.Kind != ChartBar || len(goal.Series) != 2 {
		t.Fatalf("Kind = %s with %d series", goal.Kind, len(goal.Series))
	}
	if strings.Join(goal.Categories, ",") != "Ana,Bruno,Carla" {
		t.Errorf("Categories = %v", goal.Categories)
	}

	wantLeft := []int64{10, 5, 0}
	wantRight := []int64{8, 0, 3}
	for i := range wantLeft {
		if !goal.Series[0].Values[i].Equal(decimal.NewFromInt(wantLeft[i])) {
			t.Errorf("left[%d] = %s, want %d", i, goal.Series[0].Values[i], wantLeft[i])
		}
		if !goal.Series[1].Values[i].Equal(decimal.NewFromInt(wantRight[i])) {
			t.Errorf("right[%d] = %s, want %d", i, goal.Series[1].Values[i], wantRight[i])
		}
	}
}

func TestSellerPerformance_Build(t *testing.T) {
	ds := models.NewDataset([]models.SalesRecord{
		{
			Date: time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC), Value: money(200),
			Seller: "Ana", Region: "Sul", Product: "Plano A", PaymentMethod: "Pix",
			Leads: money(10), Negotiations: money(4), MonthlyGoal: money(500),
		},
		{
			Date: time.Date(2024, time.December, 9, 0, 0, 0, 0, time.UTC), Value: money(50),
			Seller: "Bruno", Region: "Norte", Product: "Plano B", PaymentMethod: "Boleto",
			Leads: money(3), Negotiations: money(1), MonthlyGoal: money(300),
		},
	}, models.FieldDate, models.FieldValue, models.FieldSeller, models.FieldRegion,
		models.FieldProduct, models.FieldPaymentMethod, models.FieldLeads,
		models.FieldNegotiations, models.FieldMonthlyGoal)
	ds.Source = "base-vendedores.xlsx"

	r := SellerPerformance().Build(ds, Options{Year: 2025})

	if r.ID != SellersID || r.Records != 2 || r.Source != "base-vendedores.xlsx" {
		t.Errorf("header = %s/%d/%s", r.ID, r.Records, r.Source)
	}
	if r.GeneratedAt.IsZero() {
		t.Error("GeneratedAt should be set")
	}
	if len(r.Charts) != 7 {
		t.Fatalf("got %d charts, want 7", len(r.Charts))
	}
	if r.Failures() != 0 {
		t.Errorf("Failures() = %d, want 0", r.Failures())
	}

	ranking := chartByID(t, r, "seller-revenue")
	if strings.Join(ranking.Categories, ",") != "Bruno,Ana" {
		t.Errorf("ranking categories = %v, want ascending by value", ranking.Categories)
	}

	conversion := chartByID(t, r, "seller-leads-vs-negotiations")
	if conversion.Section != "Taxa de Conversão de Leads" {
		t.Errorf("Section = %q", conversion.Section)
	}
	if conversion.Series[0].Labels[0] != "10" || conversion.Series[1].Labels[0] != "4" {
		t.Errorf("labels = %v / %v", conversion.Series[0].Labels, conversion.Series[1].Labels)
	}

	monthly := chartByID(t, r, "monthly-sales")
	if strings.Join(monthly.Categories, ",") != "2024-12,2025-01" {
		t.Errorf("monthly categories = %v", monthly.Categories)
	}

	pie := chartByID(t, r, "sales-by-payment-method")
	if pie.Kind != ChartPie || len(pie.Categories) != 2 {
		t.Errorf("pie = %s with %v", pie.Kind, pie.Categories)
	}
}

func TestSellerPerformance_MissingOptionalColumns(t *testing.T) {
	ds := models.NewDataset([]models.SalesRecord{
		{Date: time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC), Value: money(200), Seller: "Ana"},
	}, models.FieldDate, models.FieldValue, models.FieldSeller)

	r := SellerPerformance().Build(ds, Options{})

	for _, id := range []string{"seller-revenue", "monthly-sales"} {
		if chartByID(t, r, id).Failed() {
			t.Errorf("%s should render", id)
		}
	}
	for _, id := range []string{"seller-revenue-vs-goal", "seller-leads-vs-negotiations", "sales-by-payment-method", "sales-by-product", "sales-by-region"} {
		if !chartByID(t, r, id).Failed() {
			t.Errorf("%s should be an error placeholder", id)
		}
	}
}

func BenchmarkOverview_Build(b *testing.B) {
	records := make([]models.SalesRecord, 0, 5000)
	for i := range 5000 {
		records = append(records, sale(fmt.Sprintf("C%03d", i%300), time.Month(i%12+1), int64(i%97)))
	}
	ds := models.NewDataset(records, overviewFields...)
	v := Overview()

	for b.Loop() {
		_ = v.Build(ds, Options{Year: 2025})
	}
}
