package models

import (
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field names one column of a sales workbook. The value is the canonical
// header used by the source spreadsheets.
type Field string

const (
	FieldDate          Field = "DATA"
	FieldValue         Field = "VALOR"
	FieldRegion        Field = "REGIÃO"
	FieldSeller        Field = "VENDEDOR"
	FieldClient        Field = "CLIENTE"
	FieldProduct       Field = "PRODUTO"
	FieldPaymentMethod Field = "FORMA PAGAMENTO"
	FieldLeads         Field = "QUANTIDADE LEADS DIA"
	FieldNegotiations  Field = "QUANTIDADE NEGOCIAÇÕES DIA"
	FieldMonthlyGoal   Field = "META MÊS"
)

type FieldKind int

const (
	KindUnknown FieldKind = iota
	KindDate
	KindCategory
	KindNumber
)

var fieldKinds = map[Field]FieldKind{
	FieldDate:          KindDate,
	FieldValue:         KindNumber,
	FieldRegion:        KindCategory,
	FieldSeller:        KindCategory,
	FieldClient:        KindCategory,
	FieldProduct:       KindCategory,
	FieldPaymentMethod: KindCategory,
	FieldLeads:         KindNumber,
	FieldNegotiations:  KindNumber,
	FieldMonthlyGoal:   KindNumber,
}

var fieldAliases = map[string]Field{
	"DATE":               FieldDate,
	"VALUE":              FieldValue,
	"REGION":             FieldRegion,
	"SELLER":             FieldSeller,
	"CLIENT":             FieldClient,
	"PRODUCT":            FieldProduct,
	"PAYMENT_METHOD":     FieldPaymentMethod,
	"LEADS_COUNT":        FieldLeads,
	"NEGOTIATIONS_COUNT": FieldNegotiations,
	"MONTHLY_GOAL":       FieldMonthlyGoal,
}

func (f Field) Kind() FieldKind {
	return fieldKinds[f]
}

func (f Field) String() string {
	return string(f)
}

// ParseField matches a spreadsheet header against the known columns,
// ignoring case and surrounding whitespace.
func ParseField(header string) (Field, bool) {
	h := strings.ToUpper(strings.TrimSpace(header))
	if h == "" {
		return "", false
	}
	if _, ok := fieldKinds[Field(h)]; ok {
		return Field(h), true
	}
	f, ok := fieldAliases[h]
	return f, ok
}

// SalesRecord is one row of a sales workbook. Date is the zero time when
// the source cell was blank or unparseable.
type SalesRecord struct {
	Date          time.Time
	Value         decimal.NullDecimal
	Region        string
	Seller        string
	Client        string
	Product       string
	PaymentMethod string
	Leads         decimal.NullDecimal
	Negotiations  decimal.NullDecimal
	MonthlyGoal   decimal.NullDecimal
}

func (r SalesRecord) HasDate() bool {
	return !r.Date.IsZero()
}

func (r SalesRecord) Category(f Field) string {
	switch f {
	case FieldRegion:
		return r.Region
	case FieldSeller:
		return r.Seller
	case FieldClient:
		return r.Client
	case FieldProduct:
		return r.Product
	case FieldPaymentMethod:
		return r.PaymentMethod
	default:
		return ""
	}
}

func (r SalesRecord) Number(f Field) decimal.NullDecimal {
	switch f {
	case FieldValue:
		return r.Value
	case FieldLeads:
		return r.Leads
	case FieldNegotiations:
		return r.Negotiations
	case FieldMonthlyGoal:
		return r.MonthlyGoal
	default:
		return decimal.NullDecimal{}
	}
}

// Time returns the record's date for a date field; ok is false when the
// date is missing.
func (r SalesRecord) Time(f Field) (time.Time, bool) {
	if f != FieldDate || !r.HasDate() {
		return time.Time{}, false
	}
	return r.Date, true
}

// Dataset is the immutable result of one load.
type Dataset struct {
	Source   string
	Sheet    string
	LoadedAt time.Time

	records []SalesRecord
	fields  []Field
}

func NewDataset(records []SalesRecord, fields ...Field) *Dataset {
	fs := slices.Clone(fields)
	slices.Sort(fs)
	return &Dataset{
		records:  slices.Clone(records),
		fields:   slices.Compact(fs),
		LoadedAt: time.Now(),
	}
}

func (d *Dataset) Len() int {
	return len(d.records)
}

func (d *Dataset) Has(f Field) bool {
	_, found := slices.BinarySearch(d.fields, f)
	return found
}

func (d *Dataset) Fields() []Field {
	return slices.Clone(d.fields)
}

func (d *Dataset) Records() []SalesRecord {
	return slices.Clone(d.records)
}

func (d *Dataset) All() iter.Seq[SalesRecord] {
	return slices.Values(d.records)
}

// Filter returns a new Dataset holding the matching records and the same
// schema.
func (d *Dataset) Filter(keep func(SalesRecord) bool) *Dataset {
	out := &Dataset{
		Source:   d.Source,
		Sheet:    d.Sheet,
		LoadedAt: d.LoadedAt,
		fields:   d.fields,
	}
	for _, r := range d.records {
		if keep(r) {
			out.records = append(out.records, r)
		}
	}
	return out
}
