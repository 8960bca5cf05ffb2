package handler

import "net/http"

func Router(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/planning/weeks", h.PlanningHandler.GetWeeks)
	mux.HandleFunc("GET /api/v1/planning/weeks/{week_key}/orders", h.PlanningHandler.GetWeekOrders)
	mux.HandleFunc("GET /api/v1/planning/calendar/{year}", h.PlanningHandler.GetCalendar)
	mux.HandleFunc("POST /api/v1/planning/analysis", h.PlanningHandler.RequestAnalysis)
	mux.HandleFunc("POST /api/v1/planning/invalidate", h.PlanningHandler.Invalidate)
	mux.HandleFunc("GET /healthz", h.HealthHandler.Healthz)
	return mux
}
