// Package planning turns a list of pedidos into a weekly capacity plan:
// ISO-week buckets with per-machine load and the free capacity left.
package planning

import (
	"fmt"
	"slices"
	"time"

	"production-planner/internal/domain"
)

// DefaultCapacityHours is the plant's weekly budget in the reference deployment.
const DefaultCapacityHours = 190.0

// WeekBucket is the load of one ISO week.
type WeekBucket struct {
	Key           string                      `json:"key"`
	Year          int                         `json:"year"`
	Week          int                         `json:"week"`
	Label         string                      `json:"label"`
	DateRange     string                      `json:"dateRange"`
	Range         WeekRange                   `json:"range"`
	Machines      map[Category]float64        `json:"machines"`
	MachineOrders map[Category][]domain.Order `json:"machinePedidos"`
	TotalCapacity float64                     `json:"totalCapacity"`
	TotalLoad     float64                     `json:"totalLoad"`
	FreeCapacity  float64                     `json:"freeCapacity"`
}

// Query is the user's filter selection.
type Query struct {
	Stages     []domain.Stage
	Categories []Category
	DateFilter DateFilter
	Custom     CustomRange
	DateField  domain.DateField
	Now        time.Time
}

// Result is what Aggregate hands to the presentation side.
type Result struct {
	Weeks        []WeekBucket `json:"weeks"`
	CategoryKeys []Category   `json:"categoryKeys"`
}

// Settings configures an Aggregator.
type Settings struct {
	CapacityHours float64
	Location      *time.Location
	DateField     domain.DateField
}

// Aggregator buckets orders into ISO weeks and computes per-category load.
// It holds no state between runs and is safe for concurrent use.
type Aggregator struct {
	classifier *Classifier
	capacity   float64
	loc        *time.Location
	dateField  domain.DateField
	consumers  map[Category]bool
}

func NewAggregator(classifier *Classifier, s Settings) *Aggregator {
	if s.Location == nil {
		s.Location = time.UTC
	}
	if s.DateField == "" {
		s.DateField = domain.DateRevisedDelivery
	}
	consumers := map[Category]bool{CategoryDNT: true}
	for _, m := range classifier.Machines() {
		if m.CountsAgainstCapacity {
			consumers[Category(m.Name)] = true
		}
	}
	return &Aggregator{
		classifier: classifier,
		capacity:   s.CapacityHours,
		loc:        s.Location,
		dateField:  s.DateField,
		consumers:  consumers,
	}
}

func (a *Aggregator) Classifier() *Classifier { return a.classifier }
func (a *Aggregator) Location() *time.Location { return a.loc }
func (a *Aggregator) CapacityHours() float64 { return a.capacity }

// DefaultCategories are the category keys used when the caller selects none.
func (a *Aggregator) DefaultCategories() []Category {
	keys := make([]Category, 0, len(a.classifier.Machines())+2)
	for _, m := range a.classifier.Machines() {
		keys = append(keys, Category(m.Name))
	}
	return append(keys, CategoryDNT, CategoryVariables)
}

// Aggregate runs the full pipeline over orders. Orders with missing or
// malformed dates are skipped silently; only an invalid selection errors.
func (a *Aggregator) Aggregate(orders []domain.Order, q Query) (Result, error) {
	field := q.DateField
	if field == "" {
		field = a.dateField
	}
	if !field.Valid() {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownDateField, field)
	}
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	interval, err := ResolveDateRange(q.DateFilter, q.Custom, now.In(a.loc))
	if err != nil {
		return Result{}, err
	}

	stages := newStageSelection(q.Stages)
	selected := make(map[Category]bool, len(q.Categories))
	for _, c := range q.Categories {
		selected[c] = true
	}
	keys := a.DefaultCategories()
	if len(selected) > 0 {
		keys = dedupe(q.Categories)
	}

	buckets := make(map[string]*WeekBucket)
	for _, o := range orders {
		if o.Stage == domain.StageArchived || !stages.matches(o) {
			continue
		}
		if interval != nil {
			t, ok := ParseDate(o.Date(field), a.loc)
			if !ok || !interval.Contains(t) {
				continue
			}
		}
		when, ok := a.groupingDate(o, field)
		if !ok {
			continue
		}

		year, week := YearWeek(when)
		key := WeekKey(year, week)
		b, ok := buckets[key]
		if !ok {
			b = a.newBucket(year, week)
			buckets[key] = b
		}

		cat := a.classifier.Classify(o)
		if len(selected) > 0 && !selected[cat] {
			continue
		}
		if !slices.Contains(keys, cat) {
			keys = append(keys, cat)
		}
		b.Machines[cat] += OrderHours(o)
		b.MachineOrders[cat] = append(b.MachineOrders[cat], o)
	}

	keys = CategoryOrder(keys)
	weeks := make([]WeekBucket, 0, len(buckets))
	for _, b := range buckets {
		a.finalize(b, keys)
		weeks = append(weeks, *b)
	}
	slices.SortFunc(weeks, func(x, y WeekBucket) int { return x.Range.Start.Compare(y.Range.Start) })
	return Result{Weeks: weeks, CategoryKeys: keys}, nil
}

// groupingDate picks the date that decides an order's week: the configured
// field, then the delivery date, then the creation date.
func (a *Aggregator) groupingDate(o domain.Order, field domain.DateField) (time.Time, bool) {
	for _, f := range []domain.DateField{field, domain.DateDelivery, domain.DateCreated} {
		if t, ok := ParseDate(o.Date(f), a.loc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func (a *Aggregator) newBucket(year, week int) *WeekBucket {
	r := WeekDateRange(year, week, a.loc)
	return &WeekBucket{
		Key:           WeekKey(year, week),
		Year:          year,
		Week:          week,
		Label:         WeekLabel(week),
		DateRange:     workweekLabel(r),
		Range:         r,
		Machines:      make(map[Category]float64),
		MachineOrders: make(map[Category][]domain.Order),
		TotalCapacity: a.capacity,
	}
}

func (a *Aggregator) finalize(b *WeekBucket, keys []Category) {
	var load, committed float64
	for _, k := range keys {
		if _, ok := b.Machines[k]; !ok {
			b.Machines[k] = 0
		}
		if b.MachineOrders[k] == nil {
			b.MachineOrders[k] = []domain.Order{}
		}
		// keys is sorted, so the sums come out bit-identical on every run.
		load += b.Machines[k]
		if a.consumers[k] {
			committed += b.Machines[k]
		}
	}
	b.TotalLoad = load
	b.FreeCapacity = a.capacity - committed
}

// stageSelection matches orders against the selected stages. The "ready for
// production" sub-stage is selectable on its own and is not covered by
// selecting PREPARACION.
type stageSelection map[domain.Stage]bool

func newStageSelection(stages []domain.Stage) stageSelection {
	s := make(stageSelection, len(stages))
	for _, st := range stages {
		s[st] = true
	}
	return s
}

func (s stageSelection) matches(o domain.Order) bool {
	if len(s) == 0 {
		return true
	}
	if o.IsReadyToProduction() {
		return s[domain.StageReadyToProduction]
	}
	return s[o.Stage]
}

func dedupe(cats []Category) []Category {
	out := make([]Category, 0, len(cats))
	for _, c := range cats {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}
