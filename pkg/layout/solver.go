package layout

import (
	"math"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/observability"
)

// SectionSizes distributes total among sections in proportion to their
// stretch factors while honoring per-section minimum and maximum sizes.
//
// Sections grow together; a section that reaches its maximum is frozen and
// the rest keep growing. Sections that end up below their minimum are
// pinned to it and the remaining space is redistributed. If total is
// smaller than the sum of minimums, the minimums act as stretch factors
// instead and every section shrinks proportionally.
//
// The three slices must have the same non-zero length. Non-positive or NaN
// stretch factors carry no weight; if no section has weight, all sections
// share equally.
func SectionSizes(maxSizes, minSizes []int, stretch []float64, total int) ([]int, error) {
	sizes, capped, err := solveSections(maxSizes, minSizes, stretch, total)
	if err != nil {
		return nil, observability.Report(component, err)
	}
	if capped {
		observability.Diagnostics().OnDiagnostic(component, observability.SeverityFailsafe,
			errors.New(errors.ErrCodeSolverFailsafe, "section solver hit its iteration cap (max=%v min=%v stretch=%v total=%d)",
				maxSizes, minSizes, stretch, total))
	}
	return sizes, nil
}

// solveSections does the work of SectionSizes and reports whether an
// iteration cap cut the search short.
func solveSections(maxSizes, minSizes []int, stretchIn []float64, total int) ([]int, bool, error) {
	n := len(stretchIn)
	if len(maxSizes) != n || len(minSizes) != n {
		return nil, false, errors.New(errors.ErrCodeInvalidInput,
			"section vectors differ in length: max=%d min=%d stretch=%d", len(maxSizes), len(minSizes), n)
	}
	if n == 0 {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "no sections")
	}
	if total < 0 {
		total = 0
	}

	mins := make([]float64, n)
	stretch := make([]float64, n)
	anyWeight := false
	for i := range n {
		mins[i] = float64(minSizes[i])
		if s := stretchIn[i]; s > 0 && !math.IsInf(s, 0) {
			stretch[i] = s
			anyWeight = true
		}
	}
	if !anyWeight {
		for i := range stretch {
			stretch[i] = 1
		}
	}

	// squeeze: minimums become weights when they do not fit
	minSum := 0.0
	for _, m := range mins {
		minSum += m
	}
	if float64(total) < minSum {
		for i := range n {
			stretch[i] = mins[i]
			mins[i] = 0
		}
	}

	sizes := make([]float64, n)
	locked := make([]bool, n)
	unfinished := make([]int, n)
	for i := range unfinished {
		unfinished[i] = i
	}
	free := float64(total)
	capped := false

	outer := 0
	for len(unfinished) > 0 && outer < 2*n {
		outer++
		inner := 0
		for len(unfinished) > 0 && inner < 2*n {
			inner++
			nextID := -1
			nextMax := 1e12
			weight := 0.0
			for _, id := range unfinished {
				weight += stretch[id]
				if stretch[id] == 0 {
					continue
				}
				if hitsMaxAt := (float64(maxSizes[id]) - sizes[id]) / stretch[id]; hitsMaxAt < nextMax {
					nextMax = hitsMaxAt
					nextID = id
				}
			}
			if weight == 0 {
				// nothing left can grow
				unfinished = unfinished[:0]
				break
			}
			limit := free / weight
			if nextID >= 0 && nextMax < limit {
				for _, id := range unfinished {
					sizes[id] += nextMax * stretch[id]
					free -= nextMax * stretch[id]
				}
				unfinished = removeID(unfinished, nextID)
			} else {
				for _, id := range unfinished {
					sizes[id] += limit * stretch[id]
				}
				unfinished = unfinished[:0]
			}
		}
		if len(unfinished) > 0 {
			capped = true
		}

		violation := false
		for i := range sizes {
			if locked[i] {
				continue
			}
			if sizes[i] < mins[i] {
				sizes[i] = mins[i]
				locked[i] = true
				violation = true
			}
		}
		if violation {
			free = float64(total)
			unfinished = unfinished[:0]
			for i := range n {
				if locked[i] {
					free -= sizes[i]
				} else {
					unfinished = append(unfinished, i)
				}
			}
			for _, id := range unfinished {
				sizes[id] = 0
			}
		}
	}
	if len(unfinished) > 0 {
		capped = true
	}

	result := make([]int, n)
	for i, s := range sizes {
		result[i] = int(math.Round(s))
	}
	return result, capped, nil
}

func removeID(ids []int, id int) []int {
	for i, x := range ids {
		if x == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
