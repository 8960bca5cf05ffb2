package handler

import (
	"production-planner/internal/common/logger"
	"production-planner/internal/microservices/planner/service"
)

type Handler struct {
	PlanningHandler *PlanningHandler
	HealthHandler   *HealthHandler
}

func New(svc service.PlanningServiceInterface, log *logger.Logger, checks ...Check) *Handler {
	return &Handler{
		PlanningHandler: NewPlanningHandler(svc, log),
		HealthHandler:   NewHealthHandler(log, checks...),
	}
}
