package orchestration

import (
	"github.com/agbru/quickfib/internal/calculator"
)

// GetCalculatorsToRun resolves an --algo value. "all" selects every
// registered backend in sorted order; an unknown name selects none.
func GetCalculatorsToRun(algo string, factory calculator.Factory) []calculator.Calculator {
	if algo == "all" {
		keys := factory.List()
		calculators := make([]calculator.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(algo); err == nil {
		return []calculator.Calculator{calc}
	}
	return nil
}
