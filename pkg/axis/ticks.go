package axis

import (
	"math"
	"slices"
	"strconv"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/observability"
)

// =============================================================================
// Tick configuration
// =============================================================================

// AutoTicks reports whether tick positions are generated from the range.
func (a *Axis) AutoTicks() bool { return a.autoTicks }

// SetAutoTicks toggles automatic tick generation.
func (a *Axis) SetAutoTicks(on bool) {
	if a.autoTicks != on {
		a.autoTicks = on
		a.cachedMarginValid = false
	}
}

// AutoTickStep reports whether the tick step follows the range size.
func (a *Axis) AutoTickStep() bool { return a.autoTickStep }

// SetAutoTickStep toggles automatic tick steps.
func (a *Axis) SetAutoTickStep(on bool) {
	if a.autoTickStep != on {
		a.autoTickStep = on
		a.cachedMarginValid = false
	}
}

// AutoSubTicks reports whether the sub-tick count follows the tick step.
func (a *Axis) AutoSubTicks() bool { return a.autoSubTicks }

// SetAutoSubTicks toggles automatic sub-tick counts.
func (a *Axis) SetAutoSubTicks(on bool) { a.autoSubTicks = on }

// AutoTickLabels reports whether labels are formatted from tick positions.
func (a *Axis) AutoTickLabels() bool { return a.autoTickLabels }

// SetAutoTickLabels toggles automatic tick labels.
func (a *Axis) SetAutoTickLabels(on bool) {
	if a.autoTickLabels != on {
		a.autoTickLabels = on
		a.cachedMarginValid = false
	}
}

// TickStep returns the distance between major ticks on a linear axis.
func (a *Axis) TickStep() float64 { return a.tickStep }

// SetTickStep fixes the tick step. It must be positive and finite.
func (a *Axis) SetTickStep(step float64) error {
	if !(step > 0) || math.IsInf(step, 1) {
		return observability.Report(component, errors.New(errors.ErrCodeInvalidInput, "tick step must be positive, got %g", step))
	}
	if a.tickStep != step {
		a.tickStep = step
		a.cachedMarginValid = false
	}
	return nil
}

// SubTickCount returns the number of sub-ticks between two major ticks.
func (a *Axis) SubTickCount() int { return a.subTickCount }

// SetSubTickCount sets the number of sub-ticks between two major ticks.
func (a *Axis) SetSubTickCount(n int) error {
	if n < 0 {
		return observability.Report(component, errors.New(errors.ErrCodeInvalidInput, "sub-tick count must not be negative, got %d", n))
	}
	a.subTickCount = n
	return nil
}

// AutoTickCount returns the approximate number of ticks auto stepping aims
// for.
func (a *Axis) AutoTickCount() int { return a.autoTickCount }

// SetAutoTickCount sets the approximate tick count; it must be positive.
func (a *Axis) SetAutoTickCount(n int) error {
	if n <= 0 {
		return observability.Report(component, errors.New(errors.ErrCodeInvalidInput, "auto tick count must be positive, got %d", n))
	}
	if a.autoTickCount != n {
		a.autoTickCount = n
		a.cachedMarginValid = false
	}
	return nil
}

// SetTickVector replaces the tick positions and disables automatic ticks.
func (a *Axis) SetTickVector(ticks []float64) {
	a.tickVector = slices.Clone(ticks)
	slices.Sort(a.tickVector)
	a.autoTicks = false
	a.cachedMarginValid = false
}

// SetTickVectorLabels replaces the tick labels and disables automatic
// labels. Labels pair with the tick vector by index.
func (a *Axis) SetTickVectorLabels(labels []string) {
	a.tickLabelVector = slices.Clone(labels)
	a.autoTickLabels = false
	a.cachedMarginValid = false
}

// TickVector returns a copy of the tick positions.
func (a *Axis) TickVector() []float64 { return slices.Clone(a.tickVector) }

// SubTickVector returns a copy of the sub-tick positions.
func (a *Axis) SubTickVector() []float64 { return slices.Clone(a.subTickVector) }

// TickVectorLabels returns a copy of the tick labels.
func (a *Axis) TickVectorLabels() []string { return slices.Clone(a.tickLabelVector) }

// VisibleTickBounds returns the index range of ticks inside the axis range.
// high < low when no tick is visible.
func (a *Axis) VisibleTickBounds() (low, high int) { return a.lowTick, a.highTick }

// VisibleTicks returns the positions and labels of the visible ticks.
func (a *Axis) VisibleTicks() ([]float64, []string) {
	if a.highTick < a.lowTick {
		return nil, nil
	}
	ticks := slices.Clone(a.tickVector[a.lowTick : a.highTick+1])
	labels := make([]string, len(ticks))
	for i := range labels {
		if j := a.lowTick + i; j < len(a.tickLabelVector) {
			labels[i] = a.tickLabelVector[j]
		}
	}
	return ticks, labels
}

// =============================================================================
// Tick generation
// =============================================================================

// SetupTickVectors regenerates ticks, sub-ticks and labels for the current
// range. It does nothing while the axis shows neither ticks, labels nor
// grid lines.
func (a *Axis) SetupTickVectors() {
	if !a.ticks && !a.tickLabels && !a.grid.Visible() {
		return
	}
	if a.rng.Size() <= 0 {
		return
	}
	if a.autoTicks {
		a.generateAutoTicks()
	}
	a.lowTick, a.highTick = a.visibleTickBounds()
	if len(a.tickVector) == 0 {
		a.subTickVector = nil
		a.setLabels(nil)
		return
	}
	a.subTickVector = a.generateSubTicks()

	if !a.autoTickLabels {
		if len(a.tickLabelVector) < len(a.tickVector) {
			a.tickLabelVector = append(a.tickLabelVector, make([]string, len(a.tickVector)-len(a.tickLabelVector))...)
		}
		return
	}
	labels := make([]string, len(a.tickVector))
	for i := a.lowTick; i <= a.highTick; i++ {
		labels[i] = a.formatNumber(a.tickVector[i])
	}
	a.setLabels(labels)
}

func (a *Axis) setLabels(labels []string) {
	if !slices.Equal(a.tickLabelVector, labels) {
		a.cachedMarginValid = false
	}
	a.tickLabelVector = labels
}

func (a *Axis) formatNumber(v float64) string {
	return strconv.FormatFloat(v, a.numberFormat, a.numberPrecision, 64)
}

func (a *Axis) generateAutoTicks() {
	if a.scaleType == Logarithmic {
		a.tickVector = a.logTicks()
		return
	}
	if a.autoTickStep {
		a.tickStep = niceTickStep(a.rng.Size(), a.autoTickCount)
	}
	if a.autoSubTicks {
		a.subTickCount = autoSubTickCount(a.tickStep, a.subTickCount)
	}
	first := math.Floor(a.rng.Lower / a.tickStep)
	last := math.Ceil(a.rng.Upper / a.tickStep)
	count := last - first + 1
	if count > maxTicks {
		a.tickVector = nil
		observability.Diagnostics().OnDiagnostic(component, observability.SeverityFailsafe,
			errors.New(errors.ErrCodeInvalidInput, "tick step %g yields %.0f ticks on %v", a.tickStep, count, a.rng))
		return
	}
	n := max(int(count), 0)
	ticks := make([]float64, n)
	for i := range n {
		ticks[i] = (first + float64(i)) * a.tickStep
	}
	a.tickVector = ticks
}

// niceTickStep rounds the mantissa of size/count to the nearest half unit
// below 5 and to the nearest even unit from 5 on.
func niceTickStep(size float64, count int) float64 {
	step := size / (float64(count) + 1e-10)
	mag := math.Pow(10, math.Floor(math.Log10(step)))
	mantissa := step / mag
	if mantissa < 5 {
		return math.Round(mantissa*2) / 2 * mag
	}
	return math.Round(mantissa/2) * 2 * mag
}

var (
	wholeSubTicks = [...]int{0, 4, 3, 2, 3, 4, 2, 6, 3, 2}
	halfSubTicks  = [...]int{0, 2, 4, 4, 2, 4, 4, 2, 4, 4}
)

// autoSubTickCount picks a sub-tick count that divides step into round
// numbers, keeping current when the mantissa has no table entry.
func autoSubTickCount(step float64, current int) int {
	const epsilon = 0.01
	mag := math.Pow(10, math.Floor(math.Log10(step)))
	intf, frac := math.Modf(step / mag)
	whole := int(intf)
	switch {
	case frac < epsilon || 1-frac < epsilon:
		if 1-frac < epsilon {
			whole++
		}
		if whole >= 1 && whole <= 9 {
			return wholeSubTicks[whole]
		}
	case math.Abs(frac-0.5) < epsilon:
		if whole >= 1 && whole <= 9 {
			return halfSubTicks[whole]
		}
	}
	return current
}

// logTicks returns successive powers of the log base covering the range.
// Mixed-sign ranges yield no ticks.
func (a *Axis) logTicks() []float64 {
	switch {
	case a.rng.Lower > 0 && a.rng.Upper > 0:
		cur := a.basePow(math.Floor(a.baseLog(a.rng.Lower)))
		ticks := []float64{cur}
		for cur < a.rng.Upper && cur > 0 && len(ticks) < maxTicks {
			cur *= a.logBase
			ticks = append(ticks, cur)
		}
		return ticks
	case a.rng.Lower < 0 && a.rng.Upper < 0:
		cur := -a.basePow(math.Ceil(a.baseLog(-a.rng.Lower)))
		ticks := []float64{cur}
		for cur < a.rng.Upper && cur < 0 && len(ticks) < maxTicks {
			cur /= a.logBase
			ticks = append(ticks, cur)
		}
		return ticks
	}
	_ = observability.Report(component, errors.New(errors.ErrCodeInvalidRange, "invalid range for logarithmic axis: %v", a.rng))
	return nil
}

func (a *Axis) visibleTickBounds() (low, high int) {
	low, high = 0, -1
	lowFound, highFound := false, false
	for i, t := range a.tickVector {
		if t >= a.rng.Lower {
			low, lowFound = i, true
			break
		}
	}
	for i := len(a.tickVector) - 1; i >= 0; i-- {
		if a.tickVector[i] <= a.rng.Upper {
			high, highFound = i, true
			break
		}
	}
	switch {
	case !lowFound && highFound:
		low = high + 1
	case lowFound && !highFound:
		high = low - 1
	}
	return low, high
}

// generateSubTicks places subTickCount evenly spaced sub-ticks between
// neighbouring ticks, starting one tick below the visible window and
// keeping only positions inside the range.
func (a *Axis) generateSubTicks() []float64 {
	if a.subTickCount <= 0 {
		return nil
	}
	low, high := a.lowTick, a.highTick
	if low > 0 {
		low--
	}
	if high < len(a.tickVector)-1 {
		high++
	}
	subs := make([]float64, 0, max(high-low, 0)*a.subTickCount)
	for i := low + 1; i <= high; i++ {
		step := (a.tickVector[i] - a.tickVector[i-1]) / float64(a.subTickCount+1)
		for k := 1; k <= a.subTickCount; k++ {
			p := a.tickVector[i-1] + float64(k)*step
			if p < a.rng.Lower {
				continue
			}
			if p > a.rng.Upper {
				return subs
			}
			subs = append(subs, p)
		}
	}
	return subs
}
