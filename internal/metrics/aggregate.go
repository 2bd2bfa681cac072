// Package metrics derives grouped and scalar totals from a sales dataset.
// Nothing here sorts for display; ordering for charts belongs to the
// report package.
package metrics

import (
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

type Entry struct {
	Key   string          `json:"key"`
	Value decimal.Decimal `json:"value"`
}

// Aggregate maps unique keys to a summed (or maximum) value. Transform
// methods return copies and never modify the receiver.
type Aggregate struct {
	Group   models.Field `json:"group"`
	Value   models.Field `json:"value"`
	Entries []Entry      `json:"entries"`
}

func (a Aggregate) Len() int {
	return len(a.Entries)
}

func (a Aggregate) Keys() []string {
	return lo.Map(a.Entries, func(e Entry, _ int) string { return e.Key })
}

func (a Aggregate) Values() []decimal.Decimal {
	return lo.Map(a.Entries, func(e Entry, _ int) decimal.Decimal { return e.Value })
}

func (a Aggregate) Total() decimal.Decimal {
	return decimal.Sum(decimal.Zero, a.Values()...)
}

func (a Aggregate) Lookup(key string) (decimal.Decimal, bool) {
	e, ok := lo.Find(a.Entries, func(e Entry) bool { return e.Key == key })
	return e.Value, ok
}

func (a Aggregate) clone(entries []Entry) Aggregate {
	return Aggregate{Group: a.Group, Value: a.Value, Entries: entries}
}

// SortedByValue orders entries by ascending value; ties keep their key
// order.
func (a Aggregate) SortedByValue() Aggregate {
	entries := slices.Clone(a.Entries)
	slices.SortStableFunc(entries, func(x, y Entry) int {
		return x.Value.Cmp(y.Value)
	})
	return a.clone(entries)
}

func (a Aggregate) Reversed() Aggregate {
	entries := slices.Clone(a.Entries)
	slices.Reverse(entries)
	return a.clone(entries)
}

// Top keeps the n largest entries in ascending order. n <= 0 keeps
// everything.
func (a Aggregate) Top(n int) Aggregate {
	sorted := a.SortedByValue()
	if n <= 0 || n >= sorted.Len() {
		return sorted
	}
	return a.clone(sorted.Entries[sorted.Len()-n:])
}

// Result carries one derived aggregate or the reason it could not be
// derived.
type Result struct {
	Aggregate Aggregate
	Err       error
}

func Try(agg Aggregate, err error) Result {
	return Result{Aggregate: agg, Err: err}
}

// Align joins two aggregates on the union of their keys, in ascending key
// order. A key missing from one side reads as zero there.
func Align(left, right Aggregate) (keys []string, l, r []decimal.Decimal) {
	keys = lo.Uniq(append(left.Keys(), right.Keys()...))
	slices.Sort(keys)

	lv := lo.SliceToMap(left.Entries, func(e Entry) (string, decimal.Decimal) { return e.Key, e.Value })
	rv := lo.SliceToMap(right.Entries, func(e Entry) (string, decimal.Decimal) { return e.Key, e.Value })

	l = make([]decimal.Decimal, len(keys))
	r = make([]decimal.Decimal, len(keys))
	for i, k := range keys {
		l[i] = lv[k]
		r[i] = rv[k]
	}
	return keys, l, r
}
