package service

import (
	"testing"

	"github.com/boddenberg/automation-roi-go/internal/domain"
)

func TestExtractCost(t *testing.T) {
	tests := []struct {
		reply string
		cost  int
		ok    bool
	}{
		{"8500", 8500, true},
		{"\n 12000 \n", 12000, true},
		{"R$ 15.000,00", 15, true},
		{"entre 4000 e 6000", 4000, true},
		{"sem valor", 0, false},
		{"", 0, false},
		{"123456789012345678901234567890", 0, false},
	}

	for _, tt := range tests {
		cost, ok := ExtractCost(tt.reply)
		if cost != tt.cost || ok != tt.ok {
			t.Errorf("ExtractCost(%q) = (%d, %v), want (%d, %v)", tt.reply, cost, ok, tt.cost, tt.ok)
		}
	}
}

func TestCostInRange(t *testing.T) {
	for cost, want := range map[int]bool{
		0: false, 999: false, 1000: true, 25000: true, 50000: true, 50001: false,
	} {
		if got := CostInRange(cost); got != want {
			t.Errorf("CostInRange(%d) = %v, want %v", cost, got, want)
		}
	}
}

func TestResolveCost(t *testing.T) {
	tests := []struct {
		reply  string
		cost   int
		reason domain.FallbackReason
	}{
		{"8500", 8500, domain.ReasonNone},
		{"R$ 15.000,00", 6000, domain.ReasonOutOfRange},
		{"cerca de 100000", 6000, domain.ReasonOutOfRange},
		{"...", 6000, domain.ReasonNoNumber},
	}

	for _, tt := range tests {
		cost, reason := ResolveCost(tt.reply)
		if cost != tt.cost || reason != tt.reason {
			t.Errorf("ResolveCost(%q) = (%d, %q), want (%d, %q)", tt.reply, cost, reason, tt.cost, tt.reason)
		}
	}
}
