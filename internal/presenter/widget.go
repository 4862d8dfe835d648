package presenter

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/boddenberg/automation-roi-go/internal/domain"
	"github.com/boddenberg/automation-roi-go/internal/port"
	"github.com/boddenberg/automation-roi-go/internal/service"

	"github.com/shopspring/decimal"
)

// Surface is whatever renders the calculator: a terminal, a test fake.
type Surface interface {
	Alert(message string)
	ShowLoading()
	HideLoading()
	ShowResults(view domain.ROIDisplay, chart domain.ROIChart)
	HideResults()
	ClearInputs()
}

// KeyEnter triggers a calculation from either input field.
const KeyEnter = "Enter"

// Widget drives a Surface through validate → loading → reveal → reset.
type Widget struct {
	calc    port.ROICalculator
	surface Surface
	delay   time.Duration

	mu   sync.Mutex
	last *domain.ROIMetrics
}

// NewWidget creates a widget that waits delay before revealing results.
func NewWidget(calc port.ROICalculator, surface Surface, delay time.Duration) *Widget {
	return &Widget{calc: calc, surface: surface, delay: delay}
}

// Calculate parses both inputs, alerts on invalid ones and otherwise shows
// the loading indicator, waits the reveal delay and shows the results.
func (w *Widget) Calculate(ctx context.Context, salaryText, hoursText string) (*domain.ROIMetrics, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	in := domain.ROIInputs{
		MonthlySalary: ParseNumber(salaryText),
		TimeSpent:     ParseNumber(hoursText),
	}
	if err := service.ValidateInputs(in); err != nil {
		w.alert(err)
		return nil, err
	}

	w.surface.ShowLoading()
	if err := sleep(ctx, w.delay); err != nil {
		w.surface.HideLoading()
		return nil, err
	}

	m, err := w.calc.Calculate(ctx, in)
	w.surface.HideLoading()
	if err != nil {
		w.alert(err)
		return nil, err
	}

	w.last = m
	w.surface.ShowResults(BuildView(m), BuildChart(m))
	return m, nil
}

// HandleKey runs Calculate on Enter and ignores every other key.
func (w *Widget) HandleKey(ctx context.Context, key, salaryText, hoursText string) (*domain.ROIMetrics, error) {
	if key != KeyEnter {
		return nil, nil
	}
	return w.Calculate(ctx, salaryText, hoursText)
}

// Reset hides the results and clears both inputs.
func (w *Widget) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.last = nil
	w.surface.HideResults()
	w.surface.ClearInputs()
}

// Last returns the metrics currently shown, or nil after a reset.
func (w *Widget) Last() *domain.ROIMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

func (w *Widget) alert(err error) {
	var valErr *domain.ErrValidation
	if errors.As(err, &valErr) {
		w.surface.Alert(valErr.Message)
		return
	}
	w.surface.Alert(err.Error())
}

// ParseNumber reads a user-typed number, accepting "5000", "5000.50",
// "5000,50" and "5.000,50". Anything unparseable reads as zero.
func ParseNumber(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
