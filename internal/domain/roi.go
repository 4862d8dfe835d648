package domain

import "github.com/shopspring/decimal"

// ============================================================
// ROI calculator
// ============================================================

// ProjectionMonths is the horizon of the cumulative return series.
const ProjectionMonths = 12

// ROIAssumptions are the fixed tuning values of the calculator.
// Passed by value into every calculation; never mutated.
type ROIAssumptions struct {
	MonthlyHours         decimal.Decimal // working hours in a month
	AverageContractCost  decimal.Decimal // BRL
	AverageTimeReduction decimal.Decimal // percent, 0..100
	LaborCharges         decimal.Decimal // fraction over salary (13º, férias, FGTS, impostos)
}

// DefaultROIAssumptions returns the published marketing defaults.
func DefaultROIAssumptions() ROIAssumptions {
	return ROIAssumptions{
		MonthlyHours:         decimal.NewFromInt(160),
		AverageContractCost:  decimal.NewFromInt(6000),
		AverageTimeReduction: decimal.NewFromInt(70),
		LaborCharges:         decimal.RequireFromString("0.54"),
	}
}

// ROIInputs are the two values typed by the user.
type ROIInputs struct {
	MonthlySalary decimal.Decimal
	TimeSpent     decimal.Decimal // hours per month
}

// ROIMetrics is derived from ROIInputs and ROIAssumptions, recomputed from
// scratch on every calculation.
type ROIMetrics struct {
	TotalMonthlyCost decimal.Decimal
	HourlyCost       decimal.Decimal
	CurrentTaskCost  decimal.Decimal
	TimeReduction    decimal.Decimal
	NewTaskCost      decimal.Decimal
	MonthlySavings   decimal.Decimal
	YearSavings      decimal.Decimal
	ContractCost     decimal.Decimal
	ROIPercent       decimal.Decimal

	// PaybackMonths is nil when monthly savings are not positive
	// (the contract never pays for itself).
	PaybackMonths *decimal.Decimal

	// CumulativeReturn[i] is the accumulated return at the end of month i+1.
	CumulativeReturn []decimal.Decimal

	// BreakEvenMonth is the first month (1-based) whose cumulative return is
	// >= 0, or 0 when it is not reached within ProjectionMonths.
	BreakEvenMonth int
}

// ReturnAt returns the cumulative return at the end of month (1-based).
func (m *ROIMetrics) ReturnAt(month int) (decimal.Decimal, bool) {
	if month < 1 || month > len(m.CumulativeReturn) {
		return decimal.Zero, false
	}
	return m.CumulativeReturn[month-1], true
}

// ROIRequest is the body of POST /v1/roi.
type ROIRequest struct {
	MonthlySalary float64 `json:"monthlySalary"`
	TimeSpent     float64 `json:"timeSpent"`
}

// ROIResponse is returned by POST /v1/roi.
type ROIResponse struct {
	Metrics ROIMetricsDTO `json:"metrics"`
	Display ROIDisplay    `json:"display"`
	Chart   ROIChart      `json:"chart"`
}

// ROIMetricsDTO is the JSON-friendly view of ROIMetrics.
type ROIMetricsDTO struct {
	TotalMonthlyCost       float64   `json:"totalMonthlyCost"`
	HourlyCost             float64   `json:"hourlyCost"`
	MonthlySavings         float64   `json:"monthlySavings"`
	YearSavings            float64   `json:"yearSavings"`
	ContractCost           float64   `json:"contractCost"`
	ROIPercent             float64   `json:"roiPercent"`
	PaybackMonths          *float64  `json:"paybackMonths"`
	CumulativeReturnSeries []float64 `json:"cumulativeReturnSeries"`
	BreakEvenMonth         int       `json:"breakEvenMonth"`
}

// ROIDisplay holds the formatted strings shown in the results panel.
type ROIDisplay struct {
	TotalCostSummary  string `json:"totalCostSummary"`
	PaybackSummary    string `json:"paybackSummary"`
	ROISummary        string `json:"roiSummary"`
	InvestmentSummary string `json:"investmentSummary"`
	ROIValue          string `json:"roiValue"`
	PaybackPeriod     string `json:"paybackPeriod"`
	YearSavings       string `json:"yearSavings"`
	MonthlySavings    string `json:"monthlySavings"`
}

// ROIChart feeds the cumulative return line chart.
type ROIChart struct {
	Labels         []string  `json:"labels"`
	DatasetLabel   string    `json:"datasetLabel"`
	Data           []float64 `json:"data"`
	TickLabels     []string  `json:"tickLabels"`
	BreakEvenLine  float64   `json:"breakEvenLine"`
	BreakEvenMonth int       `json:"breakEvenMonth"`
	LineColor      string    `json:"lineColor"`
	MarkerColor    string    `json:"markerColor"`
}
