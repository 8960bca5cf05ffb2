package planning

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"production-planner/internal/domain"
)

type SortColumn string

const (
	SortNone         SortColumn = ""
	SortOrderNumber  SortColumn = "order_number"
	SortClient       SortColumn = "client"
	SortDescription  SortColumn = "description"
	SortDeliveryDate SortColumn = "delivery_date"
	SortMeters       SortColumn = "meters"
	SortHours        SortColumn = "hours"
)

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortOrders returns a stably sorted copy of orders. SortNone keeps the
// aggregator's insertion order.
func SortOrders(orders []domain.Order, col SortColumn, dir SortDirection, loc *time.Location) ([]domain.Order, error) {
	out := slices.Clone(orders)
	if col == SortNone {
		return out, nil
	}
	compare, err := comparator(col, loc)
	if err != nil {
		return nil, err
	}
	if dir == Descending {
		asc := compare
		compare = func(a, b domain.Order) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out, nil
}

func comparator(col SortColumn, loc *time.Location) (func(a, b domain.Order) int, error) {
	switch col {
	case SortOrderNumber:
		return byText(func(o domain.Order) string { return o.Number }), nil
	case SortClient:
		return byText(func(o domain.Order) string { return o.Client }), nil
	case SortDescription:
		return byText(func(o domain.Order) string { return o.Description }), nil
	case SortDeliveryDate:
		return func(a, b domain.Order) int {
			return deliveryTime(a, loc).Compare(deliveryTime(b, loc))
		}, nil
	case SortMeters:
		return func(a, b domain.Order) int { return cmp.Compare(a.Meters, b.Meters) }, nil
	case SortHours:
		return func(a, b domain.Order) int { return cmp.Compare(OrderHours(a), OrderHours(b)) }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSortColumn, col)
}

func byText(field func(domain.Order) string) func(a, b domain.Order) int {
	return func(a, b domain.Order) int {
		return strings.Compare(strings.ToLower(field(a)), strings.ToLower(field(b)))
	}
}

// deliveryTime sorts undated orders first.
func deliveryTime(o domain.Order, loc *time.Location) time.Time {
	t, _ := ParseDate(o.EffectiveDeliveryDate(), loc)
	return t
}
