package metrics

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

var allFields = []models.Field{
	models.FieldDate, models.FieldValue, models.FieldRegion, models.FieldSeller,
	models.FieldClient, models.FieldMonthlyGoal,
}

func money(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assertEntries(t *testing.T, agg Aggregate, want []Entry) {
	t.Helper()
	if agg.Len() != len(want) {
		t.Fatalf("got %d entries %v, want %d", agg.Len(), agg.Keys(), len(want))
	}
	for i, w := range want {
		got := agg.Entries[i]
		if got.Key != w.Key || !got.Value.Equal(w.Value) {
			t.Errorf("entry %d = %s:%s, want %s:%s", i, got.Key, got.Value, w.Key, w.Value)
		}
	}
}

func entry(key string, v int64) Entry {
	return Entry{Key: key, Value: decimal.NewFromInt(v)}
}

func TestSumByCategory_Example(t *testing.T) {
	ds := models.NewDataset([]models.SalesRecord{
		{Region: "North", Value: money(100)},
		{Region: "South", Value: money(50)},
		{Region: "North", Value: money(30)},
	}, allFields...)

	agg, err := SumByCategory(ds, models.FieldRegion, models.FieldValue)
	if err != nil {
		t.Fatalf("SumByCategory() error = %v", err)
	}
	assertEntries(t, agg, []Entry{entry("North", 130), entry("South", 50)})
	assertEntries(t, agg.SortedByValue(), []Entry{entry("South", 50), entry("North", 130)})
}

func TestSumByCategory_ConservesTotal(t *testing.T) {
	var records []models.SalesRecord
	for i := range 200 {
		records = append(records, models.SalesRecord{
			Date:   day(2024+i%2, time.Month(i%12+1), i%28+1),
			Seller: fmt.Sprintf("seller-%d", i%7),
			Client: fmt.Sprintf("client-%d", i%23),
			Region: []string{"Norte", "Sul", "Leste"}[i%3],
			Value:  decimal.NewNullDecimal(decimal.New(int64(i*137+11), -2)),
		})
	}
	records = append(records, models.SalesRecord{Seller: "seller-1", Client: "client-1", Region: "Sul", Value: money(10)})
	ds := models.NewDataset(records, allFields...)

	total, err := ScalarTotal(ds, models.FieldValue)
	if err != nil {
		t.Fatal(err)
	}

	for _, group := range []models.Field{models.FieldSeller, models.FieldClient, models.FieldRegion} {
		t.Run(group.String(), func(t *testing.T) {
			agg, err := SumByCategory(ds, group, models.FieldValue)
			if err != nil {
				t.Fatal(err)
			}
			if !agg.Total().Equal(total) {
				t.Errorf("sum of groups = %s, scalar total = %s", agg.Total(), total)
			}
		})
	}
}

func TestSumByCategory_NullValues(t *testing.T) {
	ds := models.NewDataset([]models.SalesRecord{
		{Seller: "Ana", Value: money(10)},
		{Seller: "Bruno"},
		{Seller: "Bruno"},
		{Value: money(99)},
	}, allFields...)

	agg, err := SumByCategory(ds, models.FieldSeller, models.FieldValue)
	if err != nil {
		t.Fatal(err)
	}

	v, ok := agg.Lookup("Bruno")
	if !ok || !v.IsZero() {
		t.Errorf("all-null group should be present with zero, got %s, %v", v, ok)
	}
	if _, ok := agg.Lookup(""); ok {
		t.Error("rows without a key should not form a group")
	}
}

func TestSumByCategory_MissingColumn(t *testing.T) {
	ds := models.NewDataset([]models.SalesRecord{{Value: money(1)}}, models.FieldDate, models.FieldValue)

	tests := []struct {
		name  string
		group models.Field
		value models.Field
	}{
		{"missing group", models.FieldRegion, models.FieldValue},
		{"missing value", models.FieldRegion, models.FieldMonthlyGoal},
		{"value used as group", models.FieldValue, models.FieldValue},
		{"category used as value", models.FieldDate, models.FieldRegion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SumByCategory(ds, tt.group, tt.value)
			if !apperrors.HasCode(err, apperrors.CodeAggregation) {
				t.Errorf("expected AGGREGATION_ERROR, got %v", err)
			}
		})
	}
}

func TestSumByMonth(t *testing.T) {
	ds := models.NewDataset([]models.SalesRecord{
		{Date: day(2025, 3, 2), Value: money(10)},
		{Date: day(2025, 1, 15), Value: money(20)},
		{Date: day(2025, 1, 20), Value: money(5)},
		{Date: day(2025, 11, 1), Value: money(7)},
		{Date: day(2024, 1, 1), Value: money(1000)},
		{Value: money(500)},
	}, allFields...)

	agg, err := SumByMonth(ds, models.FieldDate, models.FieldValue, 2025)
	if err != nil {
		t.Fatal(err)
	}
	assertEntries(t, agg, []Entry{entry("1", 25), entry("3", 10), entry("11", 7)})

	again, err := SumByMonth(ds, models.FieldDate, models.FieldValue, 2025)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(agg, again) {
		t.Error("SumByMonth() should be deterministic")
	}
}

func TestSumByMonthLabel_CrossYearOrder(t *testing.T) {
	ds := models.NewDataset([]models.SalesRecord{
		{Date: day(2025, 1, 10), Value: money(40)},
		{Date: day(2024, 12, 15), Value: money(60)},
		{Value: money(1)},
	}, allFields...)

	agg, err := SumByMonthLabel(ds, models.FieldDate, models.FieldValue)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := agg.Keys(), []string{"2024-12", "2025-01"}; !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
}

func TestMissingDate_OnlyExcludedFromDateBuckets(t *testing.T) {
	ds := models.NewDataset([]models.SalesRecord{
		{Date: day(2025, 2, 1), Region: "North", Value: money(10)},
		{Region: "South", Value: money(5)},
	}, allFields...)

	byRegion, err := SumByCategory(ds, models.FieldRegion, models.FieldValue)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := byRegion.Lookup("South"); !ok {
		t.Error("undated record must appear in category aggregates")
	}

	byMonth, err := SumByMonthLabel(ds, models.FieldDate, models.FieldValue)
	if err != nil {
		t.Fatal(err)
	}
	if !byMonth.Total().Equal(decimal.NewFromInt(10)) {
		t.Errorf("undated record must be absent from month buckets, total = %s", byMonth.Total())
	}

	if got := ds.Filter(InYear(2025)).Len(); got != 1 {
		t.Errorf("InYear filter kept %d records, want 1", got)
	}
}

func TestMaxByCategory(t *testing.T) {
	ds := models.NewDataset([]models.SalesRecord{
		{Seller: "Ana", MonthlyGoal: money(5000)},
		{Seller: "Ana", MonthlyGoal: money(5000)},
		{Seller: "Ana", MonthlyGoal: money(4000)},
		{Seller: "Bruno", MonthlyGoal: money(-1)},
		{Seller: "Carla"},
	}, allFields...)

	agg, err := MaxByCategory(ds, models.FieldSeller, models.FieldMonthlyGoal)
	if err != nil {
		t.Fatal(err)
	}
	assertEntries(t, agg, []Entry{entry("Ana", 5000), entry("Bruno", -1), entry("Carla", 0)})
}

func TestAggregate_TransformsArePure(t *testing.T) {
	agg := Aggregate{Entries: []Entry{entry("a", 3), entry("b", 1), entry("c", 2)}}
	before := agg.Keys()

	asc := agg.SortedByValue()
	desc := asc.Reversed()

	if !reflect.DeepEqual(agg.Keys(), before) {
		t.Error("sorting must not mutate the aggregate")
	}
	if got := desc.Keys(); !reflect.DeepEqual(got, []string{"a", "c", "b"}) {
		t.Errorf("descending keys = %v", got)
	}
	if got := asc.Keys(); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Errorf("ascending keys = %v", got)
	}
}

func TestAggregate_Top(t *testing.T) {
	var entries []Entry
	for i := range 15 {
		entries = append(entries, entry(fmt.Sprintf("client-%02d", i), int64((i*7)%15+1)))
	}
	agg := Aggregate{Entries: entries}

	top := agg.Top(10)
	if top.Len() != 10 {
		t.Fatalf("Top(10) kept %d entries", top.Len())
	}
	for i := 1; i < top.Len(); i++ {
		if top.Entries[i-1].Value.GreaterThan(top.Entries[i].Value) {
			t.Fatal("Top() should keep ascending order")
		}
	}
	if !top.Entries[0].Value.Equal(decimal.NewFromInt(6)) {
		t.Errorf("smallest kept value = %s, want 6", top.Entries[0].Value)
	}
	if agg.Top(0).Len() != 15 || agg.Top(20).Len() != 15 {
		t.Error("Top() without truncation should keep every entry")
	}
}

func TestAlign(t *testing.T) {
	left := Aggregate{Entries: []Entry{entry("Ana", 10), entry("Bruno", 20)}}
	right := Aggregate{Entries: []Entry{entry("Carla", 5), entry("Ana", 7)}}

	keys, l, r := Align(left, right)

	if !reflect.DeepEqual(keys, []string{"Ana", "Bruno", "Carla"}) {
		t.Fatalf("keys = %v", keys)
	}
	wantL := []int64{10, 20, 0}
	wantR := []int64{7, 0, 5}
	for i := range keys {
		if !l[i].Equal(decimal.NewFromInt(wantL[i])) || !r[i].Equal(decimal.NewFromInt(wantR[i])) {
			t.Errorf("%s = %s/%s, want %d/%d", keys[i], l[i], r[i], wantL[i], wantR[i])
		}
	}
}

func BenchmarkSumByCategory(b *testing.B) {
	records := make([]models.SalesRecord, 10000)
	for i := range records {
		records[i] = models.SalesRecord{
			Client: fmt.Sprintf("client-%d", i%500),
			Value:  money(float64(i)),
		}
	}
	ds := models.NewDataset(records, allFields...)

	b.ResetTimer()
	for b.Loop() {
		_, _ = SumByCategory(ds, models.FieldClient, models.FieldValue)
	}
}
