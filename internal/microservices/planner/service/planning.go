package service

import (
	"context"
	"fmt"

	"production-planner/internal/domain"
	"production-planner/internal/planning"
)

func (s *PlanningService) Weeks(ctx context.Context, q planning.Query) (WeeksView, error) {
	c, err := s.aggregate(ctx, q)
	if err != nil {
		return WeeksView{}, err
	}
	return c.view, nil
}

func (s *PlanningService) DrillDown(ctx context.Context, req DrillDownRequest) ([]domain.Order, error) {
	if _, _, err := planning.ParseWeekKey(req.WeekKey); err != nil {
		return nil, err
	}
	c, err := s.aggregate(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	orders, err := c.result.Orders(req.WeekKey, req.Category)
	if err != nil {
		return nil, err
	}
	return planning.SortOrders(orders, req.Column, req.Direction, s.agg.Location())
}

func (s *PlanningService) Calendar(year int) []planning.CalendarWeek {
	return planning.WeeksOfYear(year, s.agg.Location())
}

// aggregate serves q from the result cache or runs the aggregator over the
// current snapshot.
func (s *PlanningService) aggregate(ctx context.Context, q planning.Query) (cached, error) {
	if q.Now.IsZero() {
		q.Now = s.opts.Now()
	}
	fp, err := q.Fingerprint(s.agg.Location())
	if err != nil {
		return cached{}, err
	}
	snap, err := s.orders(ctx)
	if err != nil {
		return cached{}, err
	}
	key := fmt.Sprintf("%s:%d", fp, snap.gen)

	s.mu.RLock()
	c, ok := s.results[key]
	s.mu.RUnlock()
	if ok && c.snap == snap {
		return c, nil
	}

	res, err := s.agg.Aggregate(snap.orders, q)
	if err != nil {
		return cached{}, err
	}
	c = cached{
		snap:   snap,
		result: res,
		view: WeeksView{
			Weeks:        res.Weeks,
			CategoryKeys: res.CategoryKeys,
			Totals:       planning.Summarize(res.Weeks, res.CategoryKeys),
			DataHash:     planning.DataHash(res),
			Generation:   snap.gen,
		},
	}

	s.mu.Lock()
	if s.snap == snap {
		if len(s.results) >= maxCachedResults {
			clear(s.results)
		}
		s.results[key] = c
	}
	s.mu.Unlock()
	return c, nil
}
