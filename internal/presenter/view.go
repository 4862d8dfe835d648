package presenter

import (
	"fmt"

	"github.com/boddenberg/automation-roi-go/internal/domain"

	"github.com/shopspring/decimal"
)

// Chart styling shared by the page and the API payload.
const (
	DatasetLabel = "Retorno Acumulado"
	LineColor    = "#f7dc3a"
	MarkerColor  = "#ef4444"
)

// BuildView formats the results panel.
func BuildView(m *domain.ROIMetrics) domain.ROIDisplay {
	roi := FormatPercent(m.ROIPercent)
	payback := FormatMonths(m.PaybackMonths)
	return domain.ROIDisplay{
		TotalCostSummary:  FormatBRL(m.TotalMonthlyCost),
		PaybackSummary:    payback,
		ROISummary:        roi,
		InvestmentSummary: FormatBRL(m.ContractCost),
		ROIValue:          roi,
		PaybackPeriod:     payback,
		YearSavings:       FormatBRL(m.YearSavings),
		MonthlySavings:    FormatBRL(m.MonthlySavings),
	}
}

// BuildChart produces the cumulative return line with its zero reference line.
func BuildChart(m *domain.ROIMetrics) domain.ROIChart {
	n := len(m.CumulativeReturn)
	chart := domain.ROIChart{
		Labels:         make([]string, n),
		DatasetLabel:   DatasetLabel,
		Data:           make([]float64, n),
		TickLabels:     make([]string, n),
		BreakEvenLine:  0,
		BreakEvenMonth: m.BreakEvenMonth,
		LineColor:      LineColor,
		MarkerColor:    MarkerColor,
	}
	for i, v := range m.CumulativeReturn {
		chart.Labels[i] = fmt.Sprintf("Mês %d", i+1)
		chart.Data[i] = v.InexactFloat64()
		chart.TickLabels[i] = TickLabel(v)
	}
	return chart
}

// ToDTO converts metrics to their JSON view.
func ToDTO(m *domain.ROIMetrics) domain.ROIMetricsDTO {
	dto := domain.ROIMetricsDTO{
		TotalMonthlyCost:       m.TotalMonthlyCost.InexactFloat64(),
		HourlyCost:             m.HourlyCost.InexactFloat64(),
		MonthlySavings:         m.MonthlySavings.InexactFloat64(),
		YearSavings:            m.YearSavings.InexactFloat64(),
		ContractCost:           m.ContractCost.InexactFloat64(),
		ROIPercent:             m.ROIPercent.InexactFloat64(),
		CumulativeReturnSeries: floats(m.CumulativeReturn),
		BreakEvenMonth:         m.BreakEvenMonth,
	}
	if m.PaybackMonths != nil {
		p := m.PaybackMonths.Round(2).InexactFloat64()
		dto.PaybackMonths = &p
	}
	return dto
}

// BuildResponse assembles the POST /v1/roi payload.
func BuildResponse(m *domain.ROIMetrics) *domain.ROIResponse {
	return &domain.ROIResponse{
		Metrics: ToDTO(m),
		Display: BuildView(m),
		Chart:   BuildChart(m),
	}
}

func floats(ds []decimal.Decimal) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = d.InexactFloat64()
	}
	return out
}
