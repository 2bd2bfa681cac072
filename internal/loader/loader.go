package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	apperrors "sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

// DateLayout is the format of the date column in the source workbooks.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Config identifies one dataset: a file, an optional sheet, and the
// columns the load must find.
type Config struct {
	Path     string
	Sheet    string
	Required []models.Field
}

// Load reads the whole file into a Dataset. Unparseable dates and numbers
// are kept as missing values; only file, sheet and header problems fail.
func Load(ctx context.Context, cfg Config) (*models.Dataset, error) {
	var (
		rows  [][]string
		sheet string
		err   error
	)

	switch strings.ToLower(filepath.Ext(cfg.Path)) {
	case ".csv":
		rows, err = readCSV(cfg.Path)
	default:
		rows, sheet, err = readWorkbook(cfg.Path, cfg.Sheet)
	}
	if err != nil {
		return nil, err
	}

	ds, err := parseRows(ctx, rows, cfg.Required)
	if err != nil {
		return nil, err
	}
	ds.Source = cfg.Path
	ds.Sheet = sheet
	return ds, nil
}

func readWorkbook(path, sheet string) ([][]string, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", apperrors.LoadWrap(err, fmt.Sprintf("open workbook %s", path))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	switch {
	case len(sheets) == 0:
		return nil, "", apperrors.Load(fmt.Sprintf("workbook %s has no sheets", path))
	case sheet == "":
		sheet = sheets[0]
	case !slices.Contains(sheets, sheet):
		return nil, "", apperrors.Load(fmt.Sprintf("sheet %q not found in %s", sheet, path))
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, "", apperrors.LoadWrap(err, fmt.Sprintf("read sheet %q of %s", sheet, path))
	}
	return rows, sheet, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.LoadWrap(err, fmt.Sprintf("open file %s", path))
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, apperrors.LoadWrap(err, fmt.Sprintf("read csv %s", path))
	}
	return rows, nil
}

func parseRows(ctx context.Context, rows [][]string, required []models.Field) (*models.Dataset, error) {
	headerIdx := slices.IndexFunc(rows, func(row []string) bool { return !isBlank(row) })
	if headerIdx < 0 {
		return nil, apperrors.Load("header row not found")
	}

	columns := make(map[int]models.Field)
	var fields []models.Field
	for i, h := range rows[headerIdx] {
		f, ok := models.ParseField(h)
		if !ok || slices.Contains(fields, f) {
			continue
		}
		columns[i] = f
		fields = append(fields, f)
	}

	var missing []string
	for _, f := range required {
		if !slices.Contains(fields, f) {
			missing = append(missing, f.String())
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.Load(fmt.Sprintf("required columns missing: %s", strings.Join(missing, ", ")))
	}

	records := make([]models.SalesRecord, 0, len(rows)-headerIdx-1)
	for _, row := range rows[headerIdx+1:] {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.LoadWrap(err, "load cancelled")
		}
		if isBlank(row) {
			continue
		}
		records = append(records, parseRecord(row, columns))
	}

	return models.NewDataset(records, fields...), nil
}

func parseRecord(row []string, columns map[int]models.Field) models.SalesRecord {
	var rec models.SalesRecord
	for i, f := range columns {
		if i >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[i])

		switch f {
		case models.FieldDate:
			rec.Date, _ = ParseDate(cell)
		case models.FieldValue:
			rec.Value = parseNumber(cell)
		case models.FieldLeads:
			rec.Leads = parseNumber(cell)
		case models.FieldNegotiations:
			rec.Negotiations = parseNumber(cell)
		case models.FieldMonthlyGoal:
			rec.MonthlyGoal = parseNumber(cell)
		case models.FieldRegion:
			rec.Region = cell
		case models.FieldSeller:
			rec.Seller = cell
		case models.FieldClient:
			rec.Client = cell
		case models.FieldProduct:
			rec.Product = cell
		case models.FieldPaymentMethod:
			rec.PaymentMethod = cell
		}
	}
	return rec
}

// maxExcelSerial is 9999-12-31, the last date Excel can store.
const maxExcelSerial = 2958465

// ParseDate accepts the workbook date layout or an Excel serial date. The
// zero time and false are returned for anything else.
func ParseDate(cell string) (time.Time, bool) {
	if cell == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	serial, err := strconv.ParseFloat(cell, 64)
	if err != nil || serial <= 0 || serial > maxExcelSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseNumber(cell string) decimal.NullDecimal {
	if cell == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
