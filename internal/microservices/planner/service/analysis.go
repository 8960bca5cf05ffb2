package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"production-planner/internal/domain"
	"production-planner/internal/planning"
)

// RequestAnalysis publishes the weekly table for q to the analysis exchange
// and returns its data hash. Text generation happens on the other side.
func (s *PlanningService) RequestAnalysis(ctx context.Context, q planning.Query) (string, error) {
	if s.publisher == nil || s.opts.AnalysisExchange == "" {
		return "", ErrAnalysisUnavailable
	}
	c, err := s.aggregate(ctx, q)
	if err != nil {
		return "", err
	}

	msg := analysisMessage(c.view, q)
	msg.RequestedAt = s.opts.Now().UTC()
	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("encode analysis request: %w", err)
	}

	err = s.publisher.Publish(ctx, s.opts.AnalysisExchange, "", amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		MessageId:     uuid.NewString(),
		CorrelationId: msg.DataHash,
		Headers:       amqp.Table{"x-source": "planner"},
		Body:          body,
	})
	if err != nil {
		s.log.Error("analysis_publish_failed", err, map[string]any{"data_hash": msg.DataHash})
		return "", fmt.Errorf("publish analysis request: %w", err)
	}
	s.log.Info("analysis_requested", map[string]any{"data_hash": msg.DataHash, "weeks": len(msg.WeeklyData)})
	return msg.DataHash, nil
}

func analysisMessage(v WeeksView, q planning.Query) domain.AnalysisRequestMessage {
	keys := make([]string, 0, len(v.CategoryKeys))
	for _, k := range v.CategoryKeys {
		keys = append(keys, string(k))
	}
	weeks := make([]domain.WeeklyLoad, 0, len(v.Weeks))
	for _, w := range v.Weeks {
		machines := make(map[string]float64, len(w.Machines))
		for k, h := range w.Machines {
			machines[string(k)] = h
		}
		weeks = append(weeks, domain.WeeklyLoad{
			Week:          w.Week,
			Year:          w.Year,
			Label:         w.Label,
			DateRange:     w.DateRange,
			Machines:      machines,
			TotalCapacity: w.TotalCapacity,
			TotalLoad:     w.TotalLoad,
			FreeCapacity:  w.FreeCapacity,
		})
	}
	stages := make([]string, 0, len(q.Stages))
	for _, st := range q.Stages {
		stages = append(stages, string(st))
	}
	filter := string(q.DateFilter)
	if filter == "" {
		filter = string(planning.FilterAll)
	}
	return domain.AnalysisRequestMessage{
		WeeklyData:     weeks,
		MachineKeys:    keys,
		DateFilter:     filter,
		SelectedStages: stages,
		DataHash:       v.DataHash,
	}
}
