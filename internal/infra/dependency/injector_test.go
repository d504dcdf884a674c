package dependency

import (
	"testing"

	"github.com/expense-tracker/backend/config"
	"github.com/expense-tracker/backend/internal/domain/entity"
)

func TestLedgerPolicy(t *testing.T) {
	policy := LedgerPolicy(&config.LedgerConfig{
		IncludeRecurring:        false,
		ExcludedExpenseChannels: []string{"creditCard", "bitcoin", "tng"},
		DefaultTZOffsetMinutes:  330,
	})

	if policy.IncludeRecurring {
		t.Error("expected manual-only policy")
	}
	if policy.DefaultTimezoneOffset != 330 {
		t.Errorf("expected offset 330, got %d", policy.DefaultTimezoneOffset)
	}
	want := []entity.Channel{entity.ChannelCreditCard, entity.ChannelTNG}
	if len(policy.ExcludedExpenseChannels) != len(want) {
		t.Fatalf("expected %v, got %v", want, policy.ExcludedExpenseChannels)
	}
	for i := range want {
		if policy.ExcludedExpenseChannels[i] != want[i] {
			t.Errorf("expected %v, got %v", want, policy.ExcludedExpenseChannels)
		}
	}
}
