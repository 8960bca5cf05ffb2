package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"production-planner/internal/config"
	"production-planner/internal/connections/database"
	"production-planner/internal/domain"
	"production-planner/internal/microservices/planner"
	"production-planner/internal/microservices/planner/repository"
	"production-planner/internal/planning"
)

type reportFlags struct {
	orders     string
	stages     []string
	categories []string
	dateFilter string
	start, end string
	dateField  string
	today      string
	asJSON     bool
}

func newReportCmd() *cobra.Command {
	var f reportFlags
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the weekly capacity table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			q, err := f.query(cfg.Planning.Location())
			if err != nil {
				return err
			}
			orders, err := f.loadOrders(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			res, err := planner.NewAggregator(cfg.Planning).Aggregate(orders, q)
			if err != nil {
				return err
			}
			if f.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"weeks":         res.Weeks,
					"category_keys": res.CategoryKeys,
					"totals":        planning.Summarize(res.Weeks, res.CategoryKeys),
					"data_hash":     planning.DataHash(res),
				})
			}
			return writeTable(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&f.orders, "orders", "", "read pedidos from a JSON file instead of the database")
	cmd.Flags().StringSliceVar(&f.stages, "stages", nil, "stages to include (default: every non-archived stage)")
	cmd.Flags().StringSliceVar(&f.categories, "categories", nil, "categories to show (default: all)")
	cmd.Flags().StringVar(&f.dateFilter, "date-filter", string(planning.FilterAll), "all|this-week|last-week|next-week|this-month|last-month|next-month|custom")
	cmd.Flags().StringVar(&f.start, "start", "", "custom range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "custom range end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.dateField, "date-field", "", "date field that drives filtering and grouping")
	cmd.Flags().StringVar(&f.today, "today", "", "evaluate relative filters as of this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func (f reportFlags) query(loc *time.Location) (planning.Query, error) {
	q := planning.Query{
		DateFilter: planning.DateFilter(f.dateFilter),
		Custom:     planning.CustomRange{Start: f.start, End: f.end},
		DateField:  domain.DateField(f.dateField),
	}
	for _, s := range f.stages {
		q.Stages = append(q.Stages, domain.Stage(strings.TrimSpace(s)))
	}
	for _, c := range f.categories {
		q.Categories = append(q.Categories, planning.Category(strings.TrimSpace(c)))
	}
	if f.today != "" {
		t, ok := planning.ParseDate(f.today, loc)
		if !ok {
			return planning.Query{}, fmt.Errorf("--today %q is not a date", f.today)
		}
		q.Now = t
	}
	return q, nil
}

func (f reportFlags) loadOrders(ctx context.Context, cfg *config.Config) ([]domain.Order, error) {
	if f.orders != "" {
		b, err := os.ReadFile(f.orders)
		if err != nil {
			return nil, err
		}
		var orders []domain.Order
		if err := json.Unmarshal(b, &orders); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.orders, err)
		}
		return orders, nil
	}

	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	lg := newLogger(cfg)
	defer lg.Sync()
	return repository.NewOrderRepository(db, cfg.Database.Driver, lg).ListOrders(ctx)
}

func writeTable(out io.Writer, res planning.Result) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := []string{"Semana", "Fechas"}
	for _, k := range res.CategoryKeys {
		header = append(header, string(k))
	}
	header = append(header, "Carga", "Libre")
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	row := func(label, dates string, machines map[planning.Category]float64, load, free float64) {
		cells := []string{label, dates}
		for _, k := range res.CategoryKeys {
			cells = append(cells, hours(machines[k]))
		}
		cells = append(cells, hours(load), hours(free))
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	for _, w := range res.Weeks {
		row(w.Label, w.DateRange, w.Machines, w.TotalLoad, w.FreeCapacity)
	}
	t := planning.Summarize(res.Weeks, res.CategoryKeys)
	row("Total", "", t.Machines, t.TotalLoad, t.FreeCapacity)
	return tw.Flush()
}

func hours(h float64) string { return fmt.Sprintf("%.1f", h) }
