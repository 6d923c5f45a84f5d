// Package effort converts change counts into time estimates.
package effort

import (
	"errors"
	"fmt"
	"math"

	"github.com/huangsam/diffeffort/schema"
)

// ErrInvalidArgument marks caller errors such as a negative change count.
var ErrInvalidArgument = errors.New("invalid argument")

// Estimate returns the time cost of n changes. The first change costs
// PerChangeMinutes and each following one DecayFactor times the previous, plus
// SetupMinutes once:
//
//	minutes = setup + Σ_{i<n} perChange * decay^i
//
// HoursPart is floor(minutes/60) and MinutesPart is round(minutes mod 60). The
// remainder is rounded on its own, so 119.6 minutes yields 1 hour and 60 minutes.
// The sum stops once further terms no longer change it, so large n is cheap.
func Estimate(n int, p schema.CostParameters) (schema.EffortEstimate, error) {
	if n < 0 {
		return schema.EffortEstimate{}, fmt.Errorf("%w: change count cannot be negative (received %d)", ErrInvalidArgument, n)
	}
	if err := p.Validate(); err != nil {
		return schema.EffortEstimate{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	if p.DecayFactor == 1 {
		return FromMinutes(p.SetupMinutes + float64(n)*p.PerChangeMinutes), nil
	}

	minutes := p.SetupMinutes
	step := p.PerChangeMinutes
	for range n {
		next := minutes + step
		if next == minutes {
			break // remaining terms are below float precision
		}
		minutes = next
		step *= p.DecayFactor
	}

	return FromMinutes(minutes), nil
}

// FromMinutes splits a minute count into the hours and minutes parts of an estimate.
func FromMinutes(minutes float64) schema.EffortEstimate {
	return schema.EffortEstimate{
		TotalMinutes: minutes,
		HoursPart:    int(math.Floor(minutes / 60)),
		MinutesPart:  int(math.Round(math.Mod(minutes, 60))),
	}
}

// UpperBound is the limit of Estimate as n grows: setup + perChange/(1-decay).
// It is +Inf when there is no decay.
func UpperBound(p schema.CostParameters) float64 {
	if p.DecayFactor >= 1 {
		return math.Inf(1)
	}
	return p.SetupMinutes + p.PerChangeMinutes/(1-p.DecayFactor)
}
