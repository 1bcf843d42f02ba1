package format

import (
	"fmt"
	"strings"
	"time"
)

// maxETA caps estimates produced from a very slow progress rate.
const maxETA = 24 * time.Hour

// etaSmoothing is the weight of the newest sample in the progress rate
// moving average.
const etaSmoothing = 0.3

// ProgressState tracks the completion fraction of several concurrent
// calculators. It is not safe for concurrent use; a single consumer drains
// the progress channel.
type ProgressState struct {
	numCalculators int
	progresses     []float64
}

// NewProgressState returns a state for numCalculators calculators, all at 0.
func NewProgressState(numCalculators int) *ProgressState {
	if numCalculators < 0 {
		numCalculators = 0
	}
	return &ProgressState{
		numCalculators: numCalculators,
		progresses:     make([]float64, numCalculators),
	}
}

// Update records the progress of calculator index, clamped to [0, 1].
// Out-of-range indices are ignored.
func (p *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= len(p.progresses) {
		return
	}
	p.progresses[index] = clamp01(value)
}

// CalculateAverage returns the mean progress across all calculators.
func (p *ProgressState) CalculateAverage() float64 {
	if p.numCalculators == 0 {
		return 0
	}
	var sum float64
	for _, v := range p.progresses {
		sum += v
	}
	return sum / float64(p.numCalculators)
}

// ProgressWithETA extends ProgressState with a smoothed progress rate used
// to estimate the remaining time.
type ProgressWithETA struct {
	*ProgressState
	numCalculators int
	startTime      time.Time
	lastUpdate     time.Time
	lastProgress   float64
	progressRate   float64 // fraction per second
}

// NewProgressWithETA returns a tracker whose clock starts now.
func NewProgressWithETA(numCalculators int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState:  NewProgressState(numCalculators),
		numCalculators: numCalculators,
		startTime:      now,
		lastUpdate:     now,
	}
}

// UpdateWithETA records an update and returns the new average progress and
// remaining-time estimate.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	now := time.Now()
	if dt := now.Sub(p.lastUpdate).Seconds(); dt > 0 && avg > p.lastProgress {
		rate := (avg - p.lastProgress) / dt
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = etaSmoothing*rate + (1-etaSmoothing)*p.progressRate
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.GetETA()
}

// GetETA returns the remaining-time estimate, or 0 when no rate is known.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	eta := time.Duration(remaining / p.progressRate * float64(time.Second))
	if eta > maxETA || eta < 0 {
		return maxETA
	}
	return eta
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

// ProgressBar renders progress as a bar of length runes.
func ProgressBar(progress float64, length int) string {
	if length <= 0 {
		return ""
	}
	filled := int(clamp01(progress) * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar] pct% ETA: eta".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, FormatETA(eta))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
