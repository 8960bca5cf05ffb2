package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"production-planner/internal/common/logger"
	"production-planner/internal/domain"
	"production-planner/internal/microservices/planner/service"
	"production-planner/internal/planning"
)

type PlanningHandler struct {
	service service.PlanningServiceInterface
	log     *logger.Logger
}

func NewPlanningHandler(svc service.PlanningServiceInterface, log *logger.Logger) *PlanningHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &PlanningHandler{service: svc, log: log}
}

func (h *PlanningHandler) GetWeeks(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Weeks(r.Context(), parseQuery(r.URL.Query()))
	if err != nil {
		h.fail(w, "weeks_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *PlanningHandler) GetWeekOrders(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	req := service.DrillDownRequest{
		Query:     parseQuery(qs),
		WeekKey:   param(r, "week_key"),
		Category:  planning.Category(qs.Get("category")),
		Column:    planning.SortColumn(qs.Get("sort")),
		Direction: planning.SortDirection(strings.ToLower(qs.Get("dir"))),
	}
	orders, err := h.service.DrillDown(r.Context(), req)
	if err != nil {
		h.fail(w, "drilldown_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"week_key": req.WeekKey,
		"category": req.Category,
		"count":    len(orders),
		"orders":   orders,
	})
}

func (h *PlanningHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year := atoiDefault(param(r, "year"), 0)
	if year < 1 || year > 9999 {
		writeProblem(w, http.StatusBadRequest, "invalid_year", "year must be between 1 and 9999")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "weeks": h.service.Calendar(year)})
}

func (h *PlanningHandler) RequestAnalysis(w http.ResponseWriter, r *http.Request) {
	hash, err := h.service.RequestAnalysis(r.Context(), parseQuery(r.URL.Query()))
	if err != nil {
		h.fail(w, "analysis_request_failed", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"data_hash": hash})
}

func (h *PlanningHandler) Invalidate(w http.ResponseWriter, _ *http.Request) {
	h.service.Invalidate("manual")
	w.WriteHeader(http.StatusNoContent)
}

// fail maps service errors onto problem responses. Selector errors are the
// caller's fault; everything else is logged as ours.
func (h *PlanningHandler) fail(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, planning.ErrUnknownDateFilter),
		errors.Is(err, planning.ErrUnknownDateField),
		errors.Is(err, planning.ErrUnknownSortColumn),
		errors.Is(err, planning.ErrInvalidWeekKey):
		writeProblem(w, http.StatusBadRequest, "invalid_selection", err.Error())
	case errors.Is(err, planning.ErrBucketNotFound):
		writeProblem(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrAnalysisUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		h.log.Error(action, err, nil)
		writeProblem(w, http.StatusInternalServerError, "internal_error", "planning data is unavailable")
	}
}

// parseQuery reads the filter selection shared by every planning endpoint.
// Lists are comma separated and may also be repeated.
func parseQuery(qs url.Values) planning.Query {
	q := planning.Query{
		DateFilter: planning.DateFilter(qs.Get("date_filter")),
		Custom:     planning.CustomRange{Start: qs.Get("start"), End: qs.Get("end")},
		DateField:  domain.DateField(qs.Get("date_field")),
	}
	for _, s := range splitList(qs["stages"]) {
		q.Stages = append(q.Stages, domain.Stage(s))
	}
	for _, c := range splitList(qs["categories"]) {
		q.Categories = append(q.Categories, planning.Category(c))
	}
	return q
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem is a reduced RFC 7807 problem+json body.
func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

func param(r *http.Request, key string) string {
	return r.PathValue(key)
}

func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
