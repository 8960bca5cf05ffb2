package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"production-planner/internal/domain"
)

func TestCategoryOrder(t *testing.T) {
	in := []Category{"Flexo 8", CategoryDNT, "GIAVE", "Anilox", "WM3", CategoryVariables, "WM1"}
	assert.Equal(t, []Category{"WM1", CategoryVariables, "WM3", "GIAVE", CategoryDNT, "Anilox", "Flexo 8"}, CategoryOrder(in))
	assert.Equal(t, Category("Flexo 8"), in[0], "input untouched")
	assert.Empty(t, CategoryOrder(nil))
}

func TestSummarize(t *testing.T) {
	dnt := order("dnt", "WM1", "05:00", "2026-03-04")
	dnt.Client = "dnt"
	orders := []domain.Order{
		order("1", "WM1", "10:00", "2026-03-04"),
		order("2", "WM3", "20:00", "2026-03-11"),
		order("3", "GIAVE", "07:30", "2026-03-11"),
		dnt,
	}
	res, err := newTestAggregator().Aggregate(orders, Query{Now: testNow})
	require.NoError(t, err)
	require.Len(t, res.Weeks, 2)

	tot := Summarize(res.Weeks, res.CategoryKeys)
	assert.Equal(t, map[Category]float64{"WM1": 10, "WM3": 20, "GIAVE": 7.5, CategoryDNT: 5, CategoryVariables: 0}, tot.Machines)
	assert.InDelta(t, 42.5, tot.TotalLoad, 1e-9)
	assert.InDelta(t, (190-15)+(190-20), tot.FreeCapacity, 1e-9)

	empty := Summarize(nil, []Category{"WM1"})
	assert.Equal(t, map[Category]float64{"WM1": 0}, empty.Machines)
	assert.Zero(t, empty.TotalLoad)
}

func TestQueryFingerprint(t *testing.T) {
	base := Query{
		Stages:     []domain.Stage{domain.StagePrintWM1, domain.StagePreparation},
		Categories: []Category{"WM3", "WM1"},
		DateFilter: FilterThisWeek,
		Now:        testNow,
	}
	h, err := base.Fingerprint(time.UTC)
	require.NoError(t, err)
	assert.Len(t, h, 32)

	t.Run("selection order does not matter", func(t *testing.T) {
		q := base
		q.Stages = []domain.Stage{domain.StagePreparation, domain.StagePrintWM1}
		q.Categories = []Category{"WM1", "WM3"}
		got, err := q.Fingerprint(time.UTC)
		require.NoError(t, err)
		assert.Equal(t, h, got)
	})

	t.Run("same week same hash", func(t *testing.T) {
		q := base
		q.Now = testNow.Add(-48 * time.Hour)
		got, err := q.Fingerprint(time.UTC)
		require.NoError(t, err)
		assert.Equal(t, h, got)
	})

	t.Run("week rollover changes the hash", func(t *testing.T) {
		q := base
		q.Now = testNow.Add(24 * time.Hour)
		got, err := q.Fingerprint(time.UTC)
		require.NoError(t, err)
		assert.NotEqual(t, h, got)
	})

	t.Run("field changes the hash", func(t *testing.T) {
		q := base
		q.DateField = domain.DateCreated
		got, err := q.Fingerprint(time.UTC)
		require.NoError(t, err)
		assert.NotEqual(t, h, got)
	})

	t.Run("bad filter", func(t *testing.T) {
		q := base
		q.DateFilter = "tomorrow"
		_, err := q.Fingerprint(time.UTC)
		assert.ErrorIs(t, err, ErrUnknownDateFilter)
	})
}

func TestResultLookup(t *testing.T) {
	orders := []domain.Order{
		order("1", "WM1", "10:00", "2026-03-04"),
		order("2", "WM3", "20:00", "2026-03-04"),
		order("3", "WM1", "01:00", "2026-03-05"),
	}
	res, err := newTestAggregator().Aggregate(orders, Query{Now: testNow})
	require.NoError(t, err)

	b, err := res.Bucket("2026-10")
	require.NoError(t, err)
	assert.Equal(t, 31.0, b.TotalLoad)

	got, err := res.Orders("2026-10", "WM1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(got))

	got, err = res.Orders("2026-10", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "2"}, ids(got), "whole week follows column order")

	got, err = res.Orders("2026-10", "Flexo 8")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = res.Orders("2026-11", "WM1")
	assert.ErrorIs(t, err, ErrBucketNotFound)
}

func TestDataHash(t *testing.T) {
	a := newTestAggregator()
	first, err := a.Aggregate([]domain.Order{order("1", "WM1", "10:00", "2026-03-04")}, Query{Now: testNow})
	require.NoError(t, err)
	same, err := a.Aggregate([]domain.Order{order("other", "Windmöller 1", "10:00", "2026-03-05")}, Query{Now: testNow})
	require.NoError(t, err)
	changed, err := a.Aggregate([]domain.Order{order("1", "WM1", "10:30", "2026-03-04")}, Query{Now: testNow})
	require.NoError(t, err)

	assert.Equal(t, DataHash(first), DataHash(same))
	assert.NotEqual(t, DataHash(first), DataHash(changed))
	assert.Len(t, DataHash(Result{}), 32)
}
