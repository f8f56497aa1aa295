package report

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/ledgerbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Classify maps raw rows onto report line items, dropping rows the classifier rejects
func Classify[S, T any](rows []S, classify func(S) (T, bool)) []T {
	items := make([]T, 0, len(rows))
	for _, row := range rows {
		if item, ok := classify(row); ok {
			items = append(items, item)
		}
	}
	return items
}

// SortByDateDesc orders items newest first, keeping the input order for equal dates
func SortByDateDesc[T any](items []T, date func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return date(items[i]).After(date(items[j]))
	})
}

// Breakdown totals amounts per key and remembers the order keys first appeared in
type Breakdown[K ~string] struct {
	order  []K
	totals map[K]decimal.Decimal
}

// NewBreakdown creates a breakdown pre-seeded with zero totals for keys
func NewBreakdown[K ~string](keys ...K) *Breakdown[K] {
	b := &Breakdown[K]{totals: make(map[K]decimal.Decimal, len(keys))}
	for _, k := range keys {
		b.Add(k, decimal.Zero)
	}
	return b
}

// Add accumulates amount under key
func (b *Breakdown[K]) Add(key K, amount decimal.Decimal) {
	current, ok := b.totals[key]
	if !ok {
		b.order = append(b.order, key)
	}
	b.totals[key] = valueobject.Round2(current.Add(amount))
}

// Get returns the total for key
func (b *Breakdown[K]) Get(key K) decimal.Decimal {
	return b.totals[key]
}

// Len returns the number of keys
func (b *Breakdown[K]) Len() int {
	return len(b.order)
}

// Total sums every key
func (b *Breakdown[K]) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, k := range b.order {
		sum = sum.Add(b.totals[k])
	}
	return valueobject.Round2(sum)
}

// Entry is a single key of a breakdown
type Entry[K ~string] struct {
	Key    K               `json:"key"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Entries returns the keys in first-seen order
func (b *Breakdown[K]) Entries() []Entry[K] {
	entries := make([]Entry[K], 0, len(b.order))
	for _, k := range b.order {
		entries = append(entries, Entry[K]{Key: k, Label: CategoryLabel(string(k)), Amount: b.totals[k]})
	}
	return entries
}

// Top returns the key with the largest positive total. Ties go to the key seen first.
func (b *Breakdown[K]) Top() (*Entry[K], bool) {
	var best *Entry[K]
	for _, e := range b.Entries() {
		if !e.Amount.IsPositive() {
			continue
		}
		if best == nil || e.Amount.GreaterThan(best.Amount) {
			e := e
			best = &e
		}
	}
	return best, best != nil
}

// MarshalJSON renders the breakdown as an object keyed by the string form of each key
func (b *Breakdown[K]) MarshalJSON() ([]byte, error) {
	out := make(map[string]decimal.Decimal, len(b.order))
	for _, k := range b.order {
		out[string(k)] = b.totals[k]
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a breakdown written by MarshalJSON. Keys come back sorted.
func (b *Breakdown[K]) UnmarshalJSON(data []byte) error {
	var in map[string]decimal.Decimal
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.order = make([]K, 0, len(keys))
	b.totals = make(map[K]decimal.Decimal, len(keys))
	for _, k := range keys {
		b.order = append(b.order, K(k))
		b.totals[K(k)] = in[k]
	}
	return nil
}

// MonthPoint is one bucket of a monthly series
type MonthPoint struct {
	Month  string          `json:"month"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthlySeries buckets amounts by calendar month across a date range.
// Every month of the range is present even when nothing falls in it.
type MonthlySeries struct {
	points []MonthPoint
	index  map[string]int
	loc    *time.Location
}

const monthKeyLayout = "2006-01"

// NewMonthlySeries creates zeroed buckets for each month of r
func NewMonthlySeries(r DateRange) *MonthlySeries {
	s := &MonthlySeries{index: make(map[string]int), loc: r.Start.Location()}
	cursor := time.Date(r.Start.Year(), r.Start.Month(), 1, 0, 0, 0, 0, r.Start.Location())
	for i := 0; i < r.MonthCount(); i++ {
		key := cursor.Format(monthKeyLayout)
		s.index[key] = len(s.points)
		s.points = append(s.points, MonthPoint{Month: key, Label: cursor.Format("Jan 2006"), Amount: decimal.Zero})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return s
}

// Add accumulates amount into the month of t, read in the range's location.
// Dates outside the range are ignored.
func (s *MonthlySeries) Add(t time.Time, amount decimal.Decimal) {
	i, ok := s.index[t.In(s.loc).Format(monthKeyLayout)]
	if !ok {
		return
	}
	s.points[i].Amount = valueobject.Round2(s.points[i].Amount.Add(amount))
}

// Points returns the buckets in calendar order
func (s *MonthlySeries) Points() []MonthPoint {
	out := make([]MonthPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Average divides an amount evenly over the months of a range
func Average(total decimal.Decimal, r DateRange) decimal.Decimal {
	return valueobject.Round2(total.Div(decimal.NewFromInt(int64(r.MonthCount()))))
}
