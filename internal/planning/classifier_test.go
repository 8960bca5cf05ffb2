package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"production-planner/internal/domain"
)

func strptr(s string) *string { return &s }

func newTestClassifier() *Classifier {
	return NewClassifier(domain.DefaultMachines(), "")
}

func TestClassify(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name  string
		order domain.Order
		want  Category
		rule  string
	}{
		{
			name:  "dnt seller beats machine",
			order: domain.Order{Seller: "ACME DNT LOGISTICS", Machine: "WM1", HoursConfirmed: true},
			want:  CategoryDNT,
			rule:  "dnt-account",
		},
		{
			name:  "dnt client any case",
			order: domain.Order{Client: "  Embalajes dnt S.L. ", Machine: "GIAVE"},
			want:  CategoryDNT,
			rule:  "dnt-account",
		},
		{
			name:  "dnt beats provisional cliché",
			order: domain.Order{Client: "DNT", Machine: "WM1", ClicheState: domain.ClicheNew},
			want:  CategoryDNT,
			rule:  "dnt-account",
		},
		{
			name:  "new cliché with nothing committed is provisional",
			order: domain.Order{Machine: "WM1", ClicheState: domain.ClicheNew},
			want:  CategoryVariables,
			rule:  "provisional-assignment",
		},
		{
			name:  "repeat with change is provisional",
			order: domain.Order{Machine: "WM3", ClicheState: domain.ClicheRepeatWithChange},
			want:  CategoryVariables,
			rule:  "provisional-assignment",
		},
		{
			name:  "legacy repeat spelling is provisional",
			order: domain.Order{Machine: "WM3", ClicheState: "Repetición/Cambio"},
			want:  CategoryVariables,
			rule:  "provisional-assignment",
		},
		{
			name:  "confirmed hours block the override",
			order: domain.Order{Machine: "WM1", ClicheState: domain.ClicheNew, HoursConfirmed: true},
			want:  "WM1",
			rule:  "known-machine",
		},
		{
			name:  "cliché purchase date blocks the override",
			order: domain.Order{Machine: "WM1", ClicheState: domain.ClicheNew, ClichePurchaseDate: strptr("2026-03-01")},
			want:  "WM1",
			rule:  "known-machine",
		},
		{
			name:  "blank purchase date counts as absent",
			order: domain.Order{Machine: "WM1", ClicheState: domain.ClicheNew, ClichePurchaseDate: strptr("  ")},
			want:  CategoryVariables,
			rule:  "provisional-assignment",
		},
		{
			name:  "available cliché blocks the override",
			order: domain.Order{Machine: "WM1", ClicheState: domain.ClicheNew, ClicheAvailable: true},
			want:  "WM1",
			rule:  "known-machine",
		},
		{
			name:  "pending client cliché keeps the machine",
			order: domain.Order{Machine: "GIAVE", ClicheState: domain.ClichePendingClient},
			want:  "GIAVE",
			rule:  "known-machine",
		},
		{
			name:  "machine matched by id",
			order: domain.Order{Machine: "wm3"},
			want:  "WM3",
			rule:  "known-machine",
		},
		{
			name:  "machine matched by alias with accents",
			order: domain.Order{Machine: "Windmöller 1"},
			want:  "WM1",
			rule:  "known-machine",
		},
		{
			name:  "unknown machine label kept verbatim",
			order: domain.Order{Machine: "Flexo 8"},
			want:  "Flexo 8",
			rule:  "unknown-machine",
		},
		{
			name:  "provisional rule needs a known machine",
			order: domain.Order{Machine: "Flexo 8", ClicheState: domain.ClicheNew},
			want:  "Flexo 8",
			rule:  "unknown-machine",
		},
		{
			name:  "no machine",
			order: domain.Order{},
			want:  CategoryVariables,
			rule:  "unassigned",
		},
		{
			name:  "whitespace machine is unassigned",
			order: domain.Order{Machine: "   "},
			want:  CategoryVariables,
			rule:  "unassigned",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := c.Explain(tt.order)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rule, rule)
			assert.Equal(t, tt.want, c.Classify(tt.order))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	c := newTestClassifier()
	machines := []string{"", " ", "WM1", "wm3", "GIAVE", "???", "Windmöller 3"}
	states := []domain.ClicheState{"", domain.ClicheNew, domain.ClicheRepeatWithChange, domain.ClichePendingClient, "garbage"}
	names := []string{"", "dnt", "Cliente"}

	for _, m := range machines {
		for _, st := range states {
			for _, n := range names {
				for _, flags := range []int{0, 1, 2, 3} {
					o := domain.Order{
						Machine:         m,
						ClicheState:     st,
						Client:          n,
						HoursConfirmed:  flags&1 != 0,
						ClicheAvailable: flags&2 != 0,
					}
					got := c.Classify(o)
					assert.NotEmpty(t, got)
					if n == "dnt" {
						assert.Equal(t, CategoryDNT, got)
					}
				}
			}
		}
	}
}

func TestCustomDNTMarker(t *testing.T) {
	c := NewClassifier(domain.DefaultMachines(), "prioritaria")
	assert.Equal(t, CategoryDNT, c.Classify(domain.Order{Client: "Cuenta PRIORITARIA", Machine: "WM1"}))
	assert.Equal(t, Category("WM1"), c.Classify(domain.Order{Client: "DNT", Machine: "WM1"}))
}
