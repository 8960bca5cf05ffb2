package planning

import (
	"strings"

	"production-planner/internal/domain"
)

type Category string

const (
	CategoryDNT       Category = "DNT"
	CategoryVariables Category = "VARIABLES"
)

// DefaultDNTMarker routes an order to DNT when found in the seller or client name.
const DefaultDNTMarker = "DNT"

// rule is one guard of the classification cascade. The first rule that
// matches decides the category.
type rule struct {
	name  string
	match func(o *domain.Order) (Category, bool)
}

// Classifier maps an order to exactly one category.
type Classifier struct {
	machines []domain.Machine
	byKey    map[string]domain.Machine
	marker   string
	rules    []rule
}

func NewClassifier(machines []domain.Machine, dntMarker string) *Classifier {
	if strings.TrimSpace(dntMarker) == "" {
		dntMarker = DefaultDNTMarker
	}
	c := &Classifier{
		machines: machines,
		byKey:    make(map[string]domain.Machine, len(machines)*3),
		marker:   domain.Fold(dntMarker),
	}
	for _, m := range machines {
		for _, k := range append([]string{m.ID, m.Name}, m.Aliases...) {
			if k = domain.Fold(k); k != "" {
				if _, taken := c.byKey[k]; !taken {
					c.byKey[k] = m
				}
			}
		}
	}
	c.rules = []rule{
		{name: "dnt-account", match: c.dntAccount},
		{name: "provisional-assignment", match: c.provisionalAssignment},
		{name: "known-machine", match: c.knownMachine},
		{name: "unknown-machine", match: unknownMachine},
		{name: "unassigned", match: unassigned},
	}
	return c
}

func (c *Classifier) Machines() []domain.Machine { return c.machines }

// Classify returns the category of o. It never fails.
func (c *Classifier) Classify(o domain.Order) Category {
	cat, _ := c.Explain(o)
	return cat
}

// Explain returns the category together with the name of the rule that
// produced it.
func (c *Classifier) Explain(o domain.Order) (Category, string) {
	for _, r := range c.rules {
		if cat, ok := r.match(&o); ok {
			return cat, r.name
		}
	}
	return CategoryVariables, "unassigned"
}

// Machine resolves an assigned-machine label against the known machines.
func (c *Classifier) Machine(label string) (domain.Machine, bool) {
	k := domain.Fold(label)
	if k == "" {
		return domain.Machine{}, false
	}
	m, ok := c.byKey[k]
	return m, ok
}

func (c *Classifier) dntAccount(o *domain.Order) (Category, bool) {
	if strings.Contains(domain.Fold(o.Seller), c.marker) || strings.Contains(domain.Fold(o.Client), c.marker) {
		return CategoryDNT, true
	}
	return "", false
}

// provisionalAssignment catches orders on a known machine whose plate is
// still to be made and nothing about it has been committed yet.
func (c *Classifier) provisionalAssignment(o *domain.Order) (Category, bool) {
	if _, ok := c.Machine(o.Machine); !ok {
		return "", false
	}
	if o.ClicheState.IsNewOrChanged() && !o.HoursConfirmed && !o.HasClichePurchase() && !o.ClicheAvailable {
		return CategoryVariables, true
	}
	return "", false
}

func (c *Classifier) knownMachine(o *domain.Order) (Category, bool) {
	m, ok := c.Machine(o.Machine)
	if !ok {
		return "", false
	}
	return Category(m.Name), true
}

// unknownMachine keeps unexpected machine labels as their own category.
func unknownMachine(o *domain.Order) (Category, bool) {
	if strings.TrimSpace(o.Machine) == "" {
		return "", false
	}
	return Category(o.Machine), true
}

func unassigned(*domain.Order) (Category, bool) { return CategoryVariables, true }
