package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/boddenberg/automation-roi-go/internal/domain"
	"github.com/boddenberg/automation-roi-go/internal/infra/observability"
	"github.com/boddenberg/automation-roi-go/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func inputs(salary, hours string) domain.ROIInputs {
	return domain.ROIInputs{
		MonthlySalary: decimal.RequireFromString(salary),
		TimeSpent:     decimal.RequireFromString(hours),
	}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %s", name, want, got)
	}
}

func TestCalculateROI_ReferenceCase(t *testing.T) {
	m, err := service.CalculateROI(domain.DefaultROIAssumptions(), inputs("5000", "40"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	assertDecimal(t, "totalMonthlyCost", m.TotalMonthlyCost, "7700")
	assertDecimal(t, "hourlyCost", m.HourlyCost, "48.125")
	assertDecimal(t, "currentTaskCost", m.CurrentTaskCost, "1925")
	assertDecimal(t, "timeReduction", m.TimeReduction, "28")
	assertDecimal(t, "newTaskCost", m.NewTaskCost, "577.5")
	assertDecimal(t, "monthlySavings", m.MonthlySavings, "1347.5")
	assertDecimal(t, "yearSavings", m.YearSavings, "16170")
	assertDecimal(t, "contractCost", m.ContractCost, "6000")
	assertDecimal(t, "roiPercent", m.ROIPercent, "169.5")

	if m.PaybackMonths == nil {
		t.Fatal("expected a payback period")
	}
	assertDecimal(t, "paybackMonths", m.PaybackMonths.Round(2), "4.45")

	if len(m.CumulativeReturn) != domain.ProjectionMonths {
		t.Fatalf("expected %d points, got %d", domain.ProjectionMonths, len(m.CumulativeReturn))
	}
	first, _ := m.ReturnAt(1)
	assertDecimal(t, "month 1", first, "-4652.5")
	last, _ := m.ReturnAt(12)
	assertDecimal(t, "month 12", last, "10170")

	if m.BreakEvenMonth != 5 {
		t.Errorf("expected break-even at month 5, got %d", m.BreakEvenMonth)
	}
}

func TestCalculateROI_LastPointIdentity(t *testing.T) {
	cases := [][2]string{{"1412", "1"}, {"5000", "40"}, {"23750.90", "12.5"}, {"100000", "160"}}
	for _, c := range cases {
		m, err := service.CalculateROI(domain.DefaultROIAssumptions(), inputs(c[0], c[1]))
		if err != nil {
			t.Fatalf("%v: %v", c, err)
		}
		want := m.MonthlySavings.Mul(decimal.NewFromInt(12)).Sub(m.ContractCost)
		got, _ := m.ReturnAt(12)
		if !got.Equal(want) {
			t.Errorf("%v: month 12 = %s, want %s", c, got, want)
		}
	}
}

func TestCalculateROI_Deterministic(t *testing.T) {
	a, _ := service.CalculateROI(domain.DefaultROIAssumptions(), inputs("8000", "25"))
	b, _ := service.CalculateROI(domain.DefaultROIAssumptions(), inputs("8000", "25"))

	if !a.ROIPercent.Equal(b.ROIPercent) || a.BreakEvenMonth != b.BreakEvenMonth {
		t.Fatal("expected identical results for identical inputs")
	}
	for i := range a.CumulativeReturn {
		if !a.CumulativeReturn[i].Equal(b.CumulativeReturn[i]) {
			t.Fatalf("series differs at %d", i)
		}
	}
}

func TestCalculateROI_InvalidInputs(t *testing.T) {
	tests := []struct {
		name    string
		in      domain.ROIInputs
		message string
	}{
		{"zero salary", inputs("0", "40"), service.MissingSalaryMessage},
		{"negative salary", inputs("-1", "40"), service.MissingSalaryMessage},
		{"zero hours", inputs("5000", "0"), service.MissingHoursMessage},
		{"both missing", inputs("0", "0"), service.MissingSalaryMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := service.CalculateROI(domain.DefaultROIAssumptions(), tt.in)
			if m != nil {
				t.Error("expected no metrics")
			}
			var valErr *domain.ErrValidation
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if valErr.Message != tt.message {
				t.Errorf("expected %q, got %q", tt.message, valErr.Message)
			}
		})
	}
}

func TestCalculateROI_InjectedAssumptions(t *testing.T) {
	a := domain.ROIAssumptions{
		MonthlyHours:         decimal.NewFromInt(100),
		AverageContractCost:  decimal.NewFromInt(1000),
		AverageTimeReduction: decimal.NewFromInt(50),
		LaborCharges:         decimal.Zero,
	}

	m, err := service.CalculateROI(a, inputs("10000", "20"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// hourly 100, savings 10h * 100 = 1000, payback exactly one month.
	assertDecimal(t, "monthlySavings", m.MonthlySavings, "1000")
	assertDecimal(t, "paybackMonths", *m.PaybackMonths, "1")
	assertDecimal(t, "roiPercent", m.ROIPercent, "1100")
	if m.BreakEvenMonth != 1 {
		t.Errorf("expected break-even at month 1, got %d", m.BreakEvenMonth)
	}
}

func TestCalculateROI_NoReduction(t *testing.T) {
	a := domain.DefaultROIAssumptions()
	a.AverageTimeReduction = decimal.Zero

	m, err := service.CalculateROI(a, inputs("5000", "40"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if m.PaybackMonths != nil {
		t.Errorf("expected no payback without savings, got %s", m.PaybackMonths)
	}
	if m.BreakEvenMonth != 0 {
		t.Errorf("expected no break-even, got %d", m.BreakEvenMonth)
	}
	assertDecimal(t, "roiPercent", m.ROIPercent, "-100")
}

func TestCalculateROI_FullReduction(t *testing.T) {
	a := domain.DefaultROIAssumptions()
	a.AverageTimeReduction = decimal.NewFromInt(100)

	m, err := service.CalculateROI(a, inputs("5000", "40"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Every hour is saved: 40h * 48.125.
	assertDecimal(t, "monthlySavings", m.MonthlySavings, "1925")
	assertDecimal(t, "newTaskCost", m.NewTaskCost, "0")
	if m.PaybackMonths == nil {
		t.Fatal("expected a payback period")
	}
}

func TestValidateAssumptions(t *testing.T) {
	base := domain.DefaultROIAssumptions()
	if err := service.ValidateAssumptions(base); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}

	bad := []func(a *domain.ROIAssumptions){
		func(a *domain.ROIAssumptions) { a.MonthlyHours = decimal.Zero },
		func(a *domain.ROIAssumptions) { a.AverageContractCost = decimal.NewFromInt(-1) },
		func(a *domain.ROIAssumptions) { a.AverageTimeReduction = decimal.NewFromInt(101) },
		func(a *domain.ROIAssumptions) { a.LaborCharges = decimal.NewFromFloat(-0.1) },
	}
	for i, mutate := range bad {
		a := base
		mutate(&a)
		if err := service.ValidateAssumptions(a); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestAssumptionsFromFloats(t *testing.T) {
	a, err := service.AssumptionsFromFloats(160, 6000, 70, 0.54)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	def := domain.DefaultROIAssumptions()
	if !a.LaborCharges.Equal(def.LaborCharges) || !a.MonthlyHours.Equal(def.MonthlyHours) {
		t.Errorf("expected defaults, got %+v", a)
	}

	if _, err := service.AssumptionsFromFloats(0, 6000, 70, 0.54); err == nil {
		t.Error("expected error for zero monthly hours")
	}
}

func TestBreakEvenMonth(t *testing.T) {
	series := service.CumulativeReturn(decimal.NewFromInt(1500), decimal.NewFromInt(6000), 12)
	// Month 4 lands exactly on zero.
	if got := service.BreakEvenMonth(series); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	if got := service.BreakEvenMonth(nil); got != 0 {
		t.Errorf("expected 0 for empty series, got %d", got)
	}
}

func TestROIService_Calculate(t *testing.T) {
	metrics := observability.NewMetrics()
	svc := service.NewROIService(domain.DefaultROIAssumptions(), metrics, zap.NewNop())

	if _, err := svc.Calculate(context.Background(), inputs("5000", "40")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.Calculate(context.Background(), inputs("0", "40")); err == nil {
		t.Fatal("expected validation error")
	}

	if got := metrics.GetEstimateSnapshot().ROICalculations; got != 1 {
		t.Errorf("expected 1 successful calculation, got %d", got)
	}
}
