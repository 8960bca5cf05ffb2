package domain

import "time"

// PedidoChangedEvent is published by the order store whenever a pedido is
// created, updated, moved between stages or deleted.
type PedidoChangedEvent struct {
	PedidoID  string    `json:"pedido_id"`
	Action    string    `json:"action"` // created | updated | deleted | bulk
	ChangedBy string    `json:"changed_by,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// WeeklyLoad is the per-week slice of the planning dataset handed to the
// analysis generator.
type WeeklyLoad struct {
	Week          int                `json:"week"`
	Year          int                `json:"year"`
	Label         string             `json:"label"`
	DateRange     string             `json:"dateRange"`
	Machines      map[string]float64 `json:"machines"`
	TotalCapacity float64            `json:"totalCapacity"`
	TotalLoad     float64            `json:"totalLoad"`
	FreeCapacity  float64            `json:"freeCapacity"`
}

// AnalysisRequestMessage goes out on the analysis exchange.
type AnalysisRequestMessage struct {
	WeeklyData     []WeeklyLoad `json:"weeklyData"`
	MachineKeys    []string     `json:"machineKeys"`
	DateFilter     string       `json:"dateFilter"`
	SelectedStages []string     `json:"selectedStages"`
	DataHash       string       `json:"dataHash"`
	RequestedAt    time.Time    `json:"requestedAt"`
}
