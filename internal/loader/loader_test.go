package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	apperrors "sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

func createWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatal(err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "base.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "base.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Workbook(t *testing.T) {
	path := createWorkbook(t, "Sheet1", [][]any{
		{"DATA", "VALOR", "REGIÃO", "VENDEDOR", "CLIENTE"},
		{"2024-12-15", 100, "North", "Ana", "ACME"},
		{time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), 50.25, "South", "Bruno", "Globex"},
		{"not a date", 30, "North", "Ana", "ACME"},
		{nil, nil, nil, nil, nil},
	})

	ds, err := Load(context.Background(), Config{
		Path:     path,
		Required: []models.Field{models.FieldDate, models.FieldValue},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if ds.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", ds.Len())
	}
	if ds.Sheet != "Sheet1" {
		t.Errorf("empty sheet id should select the first sheet, got %q", ds.Sheet)
	}
	if !ds.Has(models.FieldClient) || ds.Has(models.FieldProduct) {
		t.Error("schema should reflect the header row")
	}

	records := ds.Records()
	want := []time.Time{
		time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		{},
	}
	for i, w := range want {
		if !records[i].Date.Equal(w) {
			t.Errorf("record %d date = %v, want %v", i, records[i].Date, w)
		}
	}
	if !records[1].Value.Decimal.Equal(decimal.RequireFromString("50.25")) {
		t.Errorf("record 1 value = %v", records[1].Value)
	}
	if records[2].HasDate() {
		t.Error("unparseable date should become the missing-date marker")
	}
	if records[2].Region != "North" {
		t.Errorf("record 2 region = %q", records[2].Region)
	}
}

func TestLoad_NamedSheet(t *testing.T) {
	path := createWorkbook(t, "Base", [][]any{
		{"DATA", "VALOR", "VENDEDOR", "META MÊS", "QUANTIDADE LEADS DIA", "QUANTIDADE NEGOCIAÇÕES DIA", "FORMA PAGAMENTO", "PRODUTO", "REGIÃO"},
		{"2025-02-01", 1200, "Ana", 5000, 12, 3, "Pix", "Plano A", "Sul"},
	})

	ds, err := Load(context.Background(), Config{Path: path, Sheet: "Base"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	r := ds.Records()[0]
	if !r.MonthlyGoal.Decimal.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("monthly goal = %v", r.MonthlyGoal)
	}
	if !r.Leads.Decimal.Equal(decimal.NewFromInt(12)) || !r.Negotiations.Decimal.Equal(decimal.NewFromInt(3)) {
		t.Errorf("leads/negotiations = %v/%v", r.Leads, r.Negotiations)
	}
	if r.PaymentMethod != "Pix" || r.Product != "Plano A" {
		t.Errorf("categories = %q/%q", r.PaymentMethod, r.Product)
	}
}

func TestLoad_CSV(t *testing.T) {
	path := createTempCSV(t, `date,value,region,seller,client
2024-12-15,100,North,Ana,ACME
2025-01-10,,South,Bruno,Globex
invalid-date,30,North,Ana,ACME`)

	ds, err := Load(context.Background(), Config{Path: path, Required: []models.Field{models.FieldDate, models.FieldValue}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", ds.Len())
	}
	records := ds.Records()
	if records[1].Value.Valid {
		t.Error("blank value should be null")
	}
	if records[2].HasDate() {
		t.Error("invalid date should be missing")
	}
}

func TestLoad_Errors(t *testing.T) {
	workbook := createWorkbook(t, "Sheet1", [][]any{
		{"DATA", "REGIÃO"},
		{"2025-01-01", "North"},
	})
	empty := createTempCSV(t, "")
	bogus := filepath.Join(t.TempDir(), "bogus.xlsx")
	if err := os.WriteFile(bogus, []byte("DATA,VALOR\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing file", Config{Path: filepath.Join(t.TempDir(), "nope.xlsx")}},
		{"missing csv", Config{Path: filepath.Join(t.TempDir(), "nope.csv")}},
		{"missing sheet", Config{Path: workbook, Sheet: "Base"}},
		{"missing column", Config{Path: workbook, Required: []models.Field{models.FieldDate, models.FieldValue}}},
		{"no header", Config{Path: empty}},
		{"not a workbook", Config{Path: bogus}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.cfg)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !apperrors.HasCode(err, apperrors.CodeLoad) {
				t.Errorf("expected LOAD_ERROR, got %v", err)
			}
		})
	}
}

func TestLoad_Cancelled(t *testing.T) {
	path := createTempCSV(t, "DATA,VALOR\n2025-01-01,10\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, Config{Path: path}); err == nil {
		t.Error("expected cancelled load to fail")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"2025-03-01 10:30:00", time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC), true},
		{"45658", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"01/03/2025", time.Time{}, false},
		{"", time.Time{}, false},
		{"-3", time.Time{}, false},
		{"2958466", time.Time{}, false},
		{"20240115", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			if ok != tt.ok || !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
