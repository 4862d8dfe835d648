package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/boddenberg/automation-roi-go/internal/domain"
)

var digitRun = regexp.MustCompile(`\d+`)

// ExtractCost parses the first run of decimal digits in the model reply.
// ok is false when the reply has no digits or the run overflows an int.
func ExtractCost(reply string) (cost int, ok bool) {
	match := digitRun.FindString(strings.TrimSpace(reply))
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CostInRange reports whether cost lies in the accepted estimate range.
func CostInRange(cost int) bool {
	return cost >= domain.MinEstimateCost && cost <= domain.MaxEstimateCost
}

// ResolveCost turns a model reply into the cost to answer with.
// Any reply that does not yield an in-range integer resolves to the fallback.
func ResolveCost(reply string) (int, domain.FallbackReason) {
	trimmed := strings.TrimSpace(reply)
	if !digitRun.MatchString(trimmed) {
		return domain.FallbackEstimateCost, domain.ReasonNoNumber
	}
	cost, ok := ExtractCost(trimmed)
	if !ok || !CostInRange(cost) {
		return domain.FallbackEstimateCost, domain.ReasonOutOfRange
	}
	return cost, domain.ReasonNone
}
