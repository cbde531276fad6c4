package domain

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
)

// CreateSummary partitions create outcomes. Each list keeps seed order.
type CreateSummary struct {
	Success []CreateOutcome
	Failed  []CreateOutcome
	Skipped []CreateOutcome
}

func (s *CreateSummary) Add(outcome CreateOutcome) {
	switch outcome.Kind {
	case OutcomeCreated:
		s.Success = append(s.Success, outcome)
	case OutcomeAlreadyExists:
		s.Skipped = append(s.Skipped, outcome)
	default:
		s.Failed = append(s.Failed, outcome)
	}
}

func (s *CreateSummary) Total() int {
	return len(s.Success) + len(s.Failed) + len(s.Skipped)
}

// Err aggregates every failed outcome, or returns nil when none failed.
func (s *CreateSummary) Err() error {
	var result *multierror.Error
	for _, outcome := range s.Failed {
		result = multierror.Append(result, fmt.Errorf("%s: %w", outcome.Seed.Name, outcome.Err))
	}
	return result.ErrorOrNil()
}

type FoundArea struct {
	Seed   AreaSeed
	Remote RemoteArea
}

func (f FoundArea) FeeMismatch() bool {
	return f.Remote.DeliveryFee != f.Seed.DeliveryFee
}

type VerifyReport struct {
	Found       []FoundArea
	Missing     []AreaSeed
	SeedTotal   int
	RemoteTotal int
}

func (r *VerifyReport) AllFound() bool {
	return len(r.Missing) == 0
}

func (r *VerifyReport) Mismatched() int {
	return lo.CountBy(r.Found, FoundArea.FeeMismatch)
}
