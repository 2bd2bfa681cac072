package metrics

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	apperrors "sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

// MonthLabelLayout buckets dates into zero-padded, year-first labels, so
// lexicographic order is chronological.
const MonthLabelLayout = "2006-01"

func requireField(ds *models.Dataset, f models.Field, kind models.FieldKind) error {
	if f.Kind() != kind {
		return apperrors.Aggregation(fmt.Sprintf("column %s cannot be used here", f))
	}
	if !ds.Has(f) {
		return apperrors.Aggregation(fmt.Sprintf("column %s missing from %s", f, ds.Source))
	}
	return nil
}

type groups struct {
	order  []string
	values map[string]decimal.Decimal
}

func newGroups() *groups {
	return &groups{values: make(map[string]decimal.Decimal)}
}

func (g *groups) touch(key string) {
	if _, ok := g.values[key]; !ok {
		g.order = append(g.order, key)
		g.values[key] = decimal.Zero
	}
}

func (g *groups) add(key string, v decimal.NullDecimal) {
	g.touch(key)
	if v.Valid {
		g.values[key] = g.values[key].Add(v.Decimal)
	}
}

func (g *groups) keepMax(key string, v decimal.NullDecimal, seen map[string]bool) {
	g.touch(key)
	if !v.Valid {
		return
	}
	if !seen[key] || v.Decimal.GreaterThan(g.values[key]) {
		g.values[key] = v.Decimal
		seen[key] = true
	}
}

func (g *groups) aggregate(group, value models.Field, compare func(a, b string) int) Aggregate {
	keys := slices.Clone(g.order)
	slices.SortFunc(keys, compare)
	return Aggregate{
		Group: group,
		Value: value,
		Entries: lo.Map(keys, func(k string, _ int) Entry {
			return Entry{Key: k, Value: g.values[k]}
		}),
	}
}

// SumByCategory sums value per distinct group key, keys ascending. Rows
// with an empty key are left out; null values count as zero.
func SumByCategory(ds *models.Dataset, group, value models.Field) (Aggregate, error) {
	if err := requireField(ds, group, models.KindCategory); err != nil {
		return Aggregate{}, err
	}
	if err := requireField(ds, value, models.KindNumber); err != nil {
		return Aggregate{}, err
	}

	g := newGroups()
	for r := range ds.All() {
		key := r.Category(group)
		if key == "" {
			continue
		}
		g.add(key, r.Number(value))
	}
	return g.aggregate(group, value, strings.Compare), nil
}

// MaxByCategory keeps the largest value per group key. A group whose
// values are all null reads as zero.
func MaxByCategory(ds *models.Dataset, group, value models.Field) (Aggregate, error) {
	if err := requireField(ds, group, models.KindCategory); err != nil {
		return Aggregate{}, err
	}
	if err := requireField(ds, value, models.KindNumber); err != nil {
		return Aggregate{}, err
	}

	g := newGroups()
	seen := make(map[string]bool)
	for r := range ds.All() {
		key := r.Category(group)
		if key == "" {
			continue
		}
		g.keepMax(key, r.Number(value), seen)
	}
	return g.aggregate(group, value, strings.Compare), nil
}

// SumByMonth sums value per calendar month ("1".."12") over the rows dated
// in year, ascending by month. Months without rows are absent.
func SumByMonth(ds *models.Dataset, date, value models.Field, year int) (Aggregate, error) {
	if err := requireField(ds, date, models.KindDate); err != nil {
		return Aggregate{}, err
	}
	if err := requireField(ds, value, models.KindNumber); err != nil {
		return Aggregate{}, err
	}

	g := newGroups()
	for r := range ds.All() {
		t, ok := r.Time(date)
		if !ok || t.Year() != year {
			continue
		}
		g.add(strconv.Itoa(int(t.Month())), r.Number(value))
	}
	return g.aggregate(date, value, byMonthNumber), nil
}

func byMonthNumber(a, b string) int {
	x, _ := strconv.Atoi(a)
	y, _ := strconv.Atoi(b)
	return x - y
}

// SumByMonthLabel sums value per "YYYY-MM" bucket across all years.
func SumByMonthLabel(ds *models.Dataset, date, value models.Field) (Aggregate, error) {
	if err := requireField(ds, date, models.KindDate); err != nil {
		return Aggregate{}, err
	}
	if err := requireField(ds, value, models.KindNumber); err != nil {
		return Aggregate{}, err
	}

	g := newGroups()
	for r := range ds.All() {
		t, ok := r.Time(date)
		if !ok {
			continue
		}
		g.add(t.Format(MonthLabelLayout), r.Number(value))
	}
	return g.aggregate(date, value, strings.Compare), nil
}

// ScalarTotal sums one column over the whole dataset.
func ScalarTotal(ds *models.Dataset, value models.Field) (decimal.Decimal, error) {
	if err := requireField(ds, value, models.KindNumber); err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for r := range ds.All() {
		if v := r.Number(value); v.Valid {
			total = total.Add(v.Decimal)
		}
	}
	return total, nil
}

// InYear matches records dated in year; undated records never match.
func InYear(year int) func(models.SalesRecord) bool {
	return func(r models.SalesRecord) bool {
		return r.HasDate() && r.Date.Year() == year
	}
}
