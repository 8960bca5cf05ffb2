package planning

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"production-planner/internal/domain"
)

// displayOrder is how the planning table lays out its columns.
var displayOrder = []Category{"WM1", CategoryVariables, "WM3", "GIAVE", CategoryDNT}

// CategoryOrder sorts keys into column order; unknown categories go last,
// alphabetically.
func CategoryOrder(keys []Category) []Category {
	out := slices.Clone(keys)
	rank := func(c Category) int {
		if i := slices.Index(displayOrder, c); i >= 0 {
			return i
		}
		return len(displayOrder)
	}
	slices.SortStableFunc(out, func(a, b Category) int {
		if r := cmp.Compare(rank(a), rank(b)); r != 0 {
			return r
		}
		return cmp.Compare(a, b)
	})
	return out
}

// Totals is the footer row of the weekly table.
type Totals struct {
	Machines     map[Category]float64 `json:"machines"`
	TotalLoad    float64              `json:"totalLoad"`
	FreeCapacity float64              `json:"freeCapacity"`
}

func Summarize(weeks []WeekBucket, keys []Category) Totals {
	t := Totals{Machines: make(map[Category]float64, len(keys))}
	for _, k := range keys {
		t.Machines[k] = 0
	}
	for _, w := range weeks {
		for _, k := range keys {
			t.Machines[k] += w.Machines[k]
		}
		t.TotalLoad += w.TotalLoad
		t.FreeCapacity += w.FreeCapacity
	}
	return t
}

// Fingerprint is a stable hash of everything that determines an aggregation
// result apart from the orders themselves. Relative filters are resolved
// first so that "this-week" hashes differently once the week rolls over.
func (q Query) Fingerprint(loc *time.Location) (string, error) {
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	if loc == nil {
		loc = time.UTC
	}
	iv, err := ResolveDateRange(q.DateFilter, q.Custom, now.In(loc))
	if err != nil {
		return "", err
	}
	stages := slices.Clone(q.Stages)
	slices.Sort(stages)
	cats := slices.Clone(q.Categories)
	slices.Sort(cats)

	b, err := json.Marshal(struct {
		Stages     []domain.Stage   `json:"s"`
		Categories []Category       `json:"c"`
		Field      domain.DateField `json:"f"`
		Interval   *Interval        `json:"i"`
	}{stages, cats, q.DateField, iv})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:16]), nil
}

// Bucket looks up a week by its key.
func (r Result) Bucket(key string) (WeekBucket, error) {
	for _, w := range r.Weeks {
		if w.Key == key {
			return w, nil
		}
	}
	return WeekBucket{}, fmt.Errorf("%w: %s", ErrBucketNotFound, key)
}

// Orders returns the orders behind one cell of the table, or behind the whole
// week when cat is empty.
func (r Result) Orders(key string, cat Category) ([]domain.Order, error) {
	b, err := r.Bucket(key)
	if err != nil {
		return nil, err
	}
	if cat != "" {
		return slices.Clone(b.MachineOrders[cat]), nil
	}
	var out []domain.Order
	for _, k := range r.CategoryKeys {
		out = append(out, b.MachineOrders[k]...)
	}
	return out, nil
}

// DataHash identifies the numbers of a weekly table. Two results with the
// same weeks and loads hash equal no matter which orders produced them.
func DataHash(r Result) string {
	h := sha256.New()
	for _, w := range r.Weeks {
		fmt.Fprintf(h, "%s|%s", w.Key, strconv.FormatFloat(w.TotalCapacity, 'f', -1, 64))
		for _, k := range r.CategoryKeys {
			fmt.Fprintf(h, "|%s=%s", k, strconv.FormatFloat(w.Machines[k], 'f', -1, 64))
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}
