package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/boddenberg/automation-roi-go/internal/config"
	"github.com/boddenberg/automation-roi-go/internal/domain"
	"github.com/boddenberg/automation-roi-go/internal/infra/observability"
	"github.com/boddenberg/automation-roi-go/internal/presenter"
	"github.com/boddenberg/automation-roi-go/internal/service"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

func calcCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "calc",
		Usage: "Calculate ROI metrics for one salary / hours pair",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:     "salary",
				Aliases:  []string{"s"},
				Usage:    "Monthly salary of the employee (BRL)",
				Required: true,
			},
			&cli.Float64Flag{
				Name:     "hours",
				Usage:    "Hours per month spent on the task",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the API payload instead of a report",
			},
		},
		Action: func(c *cli.Context) error {
			svc, err := newROIService(cfg, c.String("log-level"))
			if err != nil {
				return err
			}
			m, err := svc.Calculate(c.Context, domain.ROIInputs{
				MonthlySalary: decimal.NewFromFloat(c.Float64("salary")),
				TimeSpent:     decimal.NewFromFloat(c.Float64("hours")),
			})
			if err != nil {
				return err
			}

			out := c.App.Writer
			if c.Bool("json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(presenter.BuildResponse(m))
			}
			printReport(out, presenter.BuildView(m), presenter.BuildChart(m))
			return nil
		},
	}
}

func newROIService(cfg *config.Config, logLevel string) (*service.ROIService, error) {
	assumptions, err := service.AssumptionsFromFloats(cfg.ROIMonthlyHours, cfg.ROIContractCost, cfg.ROITimeReduction, cfg.ROILaborCharges)
	if err != nil {
		return nil, fmt.Errorf("invalid ROI assumptions: %w", err)
	}
	logger := observability.NewLogger(logLevel, "roi-cli")
	return service.NewROIService(assumptions, observability.NewMetrics(), logger), nil
}

const barWidth = 30

func printReport(w io.Writer, v domain.ROIDisplay, chart domain.ROIChart) {
	fmt.Fprintf(w, "Custo mensal total:  %s\n", v.TotalCostSummary)
	fmt.Fprintf(w, "Investimento médio:  %s\n", v.InvestmentSummary)
	fmt.Fprintf(w, "Economia mensal:     %s\n", v.MonthlySavings)
	fmt.Fprintf(w, "Economia anual:      %s\n", v.YearSavings)
	fmt.Fprintf(w, "ROI:                 %s\n", v.ROIValue)
	fmt.Fprintf(w, "Payback:             %s\n", v.PaybackPeriod)
	fmt.Fprintf(w, "\n%s\n", chart.DatasetLabel)

	peak := 0.0
	for _, d := range chart.Data {
		if a := abs(d); a > peak {
			peak = a
		}
	}
	for i, d := range chart.Data {
		n := 0
		if peak > 0 {
			n = int(abs(d) / peak * barWidth)
		}
		bar := make([]byte, n)
		mark := byte('+')
		if d < 0 {
			mark = '-'
		}
		for j := range bar {
			bar[j] = mark
		}
		marker := ""
		if i+1 == chart.BreakEvenMonth {
			marker = "  <- break-even"
		}
		fmt.Fprintf(w, "%-7s %8s |%s%s\n", chart.Labels[i], chart.TickLabels[i], bar, marker)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
