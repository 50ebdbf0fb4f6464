// Package blink encodes a temperature as a sequence of LED blinks, one phase
// per decimal digit, for reading the value without a display.
package blink

import (
	"time"

	"github.com/jonspeicher/SoftTemperature/pkg/gradient"
)

// Phase is one digit of the readout. Insignificant phases (a zero hundreds or
// tens digit) are skipped entirely rather than blinked zero times.
type Phase struct {
	Digit       int
	Significant bool
}

// Plan is the ordered hundreds/tens/ones decomposition of an adjusted
// temperature. It is recomputed for every readout.
type Plan struct {
	Hundreds Phase
	Tens     Phase
	Ones     Phase
}

// AdjustForDisplay nudges a temperature so that no displayed digit is zero,
// since a zero can't be blinked. Values in [100, 111) are forced to 111; any
// other value whose integer part ends in zero is bumped by one degree.
func AdjustForDisplay(f float64) float64 {
	if f >= 100 && f < 111 {
		return 111
	}
	if int(f)%10 == 0 {
		return f + 1
	}
	return f
}

// NewPlan decomposes an already-adjusted temperature into digit phases,
// truncating any fraction. Hundreds and tens are marked insignificant when
// zero; ones is always blinked.
func NewPlan(adjusted float64) Plan {
	v := int(adjusted)

	hundreds := v / 100
	if hundreds > 0 {
		v -= hundreds * 100
	}
	tens := v / 10
	ones := v % 10

	return Plan{
		Hundreds: Phase{Digit: hundreds, Significant: hundreds > 0},
		Tens:     Phase{Digit: tens, Significant: tens > 0},
		Ones:     Phase{Digit: ones, Significant: true},
	}
}

// Phases returns the plan's phases in display order.
func (p Plan) Phases() []Phase {
	return []Phase{p.Hundreds, p.Tens, p.Ones}
}

// Step is one timed output state of a blink sequence.
type Step struct {
	Color gradient.Color
	Hold  time.Duration
}

// Steps expands the plan into the full output sequence: per significant
// phase, a brief off, then Digit on/off pairs at delay, then an inter-phase
// pause. The sequence is deterministic so it can be tested without timers.
func (p Plan) Steps(color gradient.Color, delay, pause time.Duration) []Step {
	var steps []Step
	for _, phase := range p.Phases() {
		if !phase.Significant {
			continue
		}
		steps = append(steps, Step{Color: gradient.Off, Hold: delay})
		for i := 0; i < phase.Digit; i++ {
			steps = append(steps,
				Step{Color: color, Hold: delay},
				Step{Color: gradient.Off, Hold: delay},
			)
		}
		steps = append(steps, Step{Color: gradient.Off, Hold: pause})
	}
	return steps
}

// Run drives a sink through the steps, holding each via sleep. A sequence
// always runs to completion once started; there is no cancellation.
func Run(steps []Step, set func(gradient.Color), sleep func(time.Duration)) {
	for _, s := range steps {
		set(s.Color)
		sleep(s.Hold)
	}
	set(gradient.Off)
}
