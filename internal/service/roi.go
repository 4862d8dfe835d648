package service

import (
	"context"

	"github.com/boddenberg/automation-roi-go/internal/domain"
	"github.com/boddenberg/automation-roi-go/internal/infra/observability"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Messages shown to the user when an input is missing or not positive.
const (
	MissingSalaryMessage = "Informe o salário mensal"
	MissingHoursMessage  = "Informe as horas gastas"
)

// AssumptionsFromFloats builds validated ROI assumptions from config values.
func AssumptionsFromFloats(monthlyHours, contractCost, timeReduction, laborCharges float64) (domain.ROIAssumptions, error) {
	a := domain.ROIAssumptions{
		MonthlyHours:         decimal.NewFromFloat(monthlyHours),
		AverageContractCost:  decimal.NewFromFloat(contractCost),
		AverageTimeReduction: decimal.NewFromFloat(timeReduction),
		LaborCharges:         decimal.NewFromFloat(laborCharges),
	}
	return a, ValidateAssumptions(a)
}

// ValidateAssumptions rejects values that would divide by zero or make the
// reduction meaningless.
func ValidateAssumptions(a domain.ROIAssumptions) error {
	switch {
	case !a.MonthlyHours.IsPositive():
		return &domain.ErrValidation{Field: "monthlyHours", Message: "must be positive"}
	case !a.AverageContractCost.IsPositive():
		return &domain.ErrValidation{Field: "averageContractCost", Message: "must be positive"}
	case a.AverageTimeReduction.IsNegative() || a.AverageTimeReduction.GreaterThan(hundred):
		return &domain.ErrValidation{Field: "averageTimeReduction", Message: "must be between 0 and 100"}
	case a.LaborCharges.IsNegative():
		return &domain.ErrValidation{Field: "laborCharges", Message: "must not be negative"}
	}
	return nil
}

// ValidateInputs checks both user inputs, salary first.
func ValidateInputs(in domain.ROIInputs) error {
	if !in.MonthlySalary.IsPositive() {
		return &domain.ErrValidation{Field: "monthlySalary", Message: MissingSalaryMessage}
	}
	if !in.TimeSpent.IsPositive() {
		return &domain.ErrValidation{Field: "timeSpent", Message: MissingHoursMessage}
	}
	return nil
}

// CalculateROI derives every ROI metric from the inputs. It is pure: the same
// assumptions and inputs always produce the same metrics.
func CalculateROI(a domain.ROIAssumptions, in domain.ROIInputs) (*domain.ROIMetrics, error) {
	if err := ValidateAssumptions(a); err != nil {
		return nil, err
	}
	if err := ValidateInputs(in); err != nil {
		return nil, err
	}

	totalMonthlyCost := in.MonthlySalary.Mul(decimal.NewFromInt(1).Add(a.LaborCharges))
	hourlyCost := totalMonthlyCost.Div(a.MonthlyHours)

	currentTaskCost := in.TimeSpent.Mul(hourlyCost)
	timeReduction := in.TimeSpent.Mul(a.AverageTimeReduction.Div(hundred))
	newTaskCost := in.TimeSpent.Sub(timeReduction).Mul(hourlyCost)
	monthlySavings := currentTaskCost.Sub(newTaskCost)

	contractCost := a.AverageContractCost
	yearSavings := monthlySavings.Mul(twelve)
	roiPercent := yearSavings.Sub(contractCost).Div(contractCost).Mul(hundred)

	var payback *decimal.Decimal
	if monthlySavings.IsPositive() {
		p := contractCost.Div(monthlySavings)
		payback = &p
	}

	series := CumulativeReturn(monthlySavings, contractCost, domain.ProjectionMonths)

	return &domain.ROIMetrics{
		TotalMonthlyCost: totalMonthlyCost,
		HourlyCost:       hourlyCost,
		CurrentTaskCost:  currentTaskCost,
		TimeReduction:    timeReduction,
		NewTaskCost:      newTaskCost,
		MonthlySavings:   monthlySavings,
		YearSavings:      yearSavings,
		ContractCost:     contractCost,
		ROIPercent:       roiPercent,
		PaybackMonths:    payback,
		CumulativeReturn: series,
		BreakEvenMonth:   BreakEvenMonth(series),
	}, nil
}

// CumulativeReturn returns monthlySavings*i - contractCost for i = 1..months.
func CumulativeReturn(monthlySavings, contractCost decimal.Decimal, months int) []decimal.Decimal {
	series := make([]decimal.Decimal, months)
	for i := 1; i <= months; i++ {
		series[i-1] = monthlySavings.Mul(decimal.NewFromInt(int64(i))).Sub(contractCost)
	}
	return series
}

// BreakEvenMonth returns the first 1-based month whose cumulative return is
// >= 0, or 0 when the series never reaches it.
func BreakEvenMonth(series []decimal.Decimal) int {
	for i, v := range series {
		if !v.IsNegative() {
			return i + 1
		}
	}
	return 0
}

// ROIService wraps CalculateROI with the configured assumptions, metrics and
// logging for the HTTP and CLI surfaces.
type ROIService struct {
	assumptions domain.ROIAssumptions
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewROIService creates the ROI service. Assumptions are copied and never mutated.
func NewROIService(assumptions domain.ROIAssumptions, metrics *observability.Metrics, logger *zap.Logger) *ROIService {
	return &ROIService{assumptions: assumptions, metrics: metrics, logger: logger}
}

// Assumptions returns the assumptions every calculation uses.
func (s *ROIService) Assumptions() domain.ROIAssumptions {
	return s.assumptions
}

// Calculate runs CalculateROI and records the outcome.
func (s *ROIService) Calculate(ctx context.Context, in domain.ROIInputs) (*domain.ROIMetrics, error) {
	_, span := tracer.Start(ctx, "ROIService.Calculate")
	defer span.End()

	m, err := CalculateROI(s.assumptions, in)
	if err != nil {
		s.metrics.IncrROICalculation("invalid")
		return nil, err
	}
	s.metrics.IncrROICalculation("success")
	s.logger.Debug("roi calculated",
		zap.String("monthly_savings", m.MonthlySavings.String()),
		zap.String("roi_percent", m.ROIPercent.String()),
		zap.Int("break_even_month", m.BreakEvenMonth),
	)
	return m, nil
}
