package bullet

import "math"

// Scale is an unclamped linear map from a numeric domain to a pixel range.
// Values outside the domain extrapolate past the range ends.
type Scale struct {
	Domain [2]float64
	Range  [2]float64
}

// Linear creates a scale mapping [d0, d1] to [r0, r1]
func Linear(d0, d1, r0, r1 float64) Scale {
	return Scale{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// Apply maps v from the domain to the range.
// A zero-width domain maps every value to the middle of the range.
func (s Scale) Apply(v float64) float64 {
	span := s.Domain[1] - s.Domain[0]
	if span == 0 {
		return (s.Range[0] + s.Range[1]) / 2
	}
	t := (v - s.Domain[0]) / span
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Ticks returns about count round values covering the domain
func (s Scale) Ticks(count int) []float64 {
	return tickValues(s.Domain[0], s.Domain[1], count)
}

// TickStep returns the spacing of the values Ticks would return
func (s Scale) TickStep(count int) float64 {
	return tickStep(s.Domain[0], s.Domain[1], count)
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickIncrement returns the tick spacing for [start, stop] as a power of
// ten times 1, 2 or 5. Negative results encode the reciprocal of a
// fractional spacing so that multiples stay exact.
func tickIncrement(start, stop float64, count int) float64 {
	if count <= 0 {
		return math.NaN()
	}
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case errRatio >= e10:
		factor = 10
	case errRatio >= e5:
		factor = 5
	case errRatio >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

func tickStep(start, stop float64, count int) float64 {
	lo, hi := math.Min(start, stop), math.Max(start, stop)
	inc := tickIncrement(lo, hi, count)
	if inc < 0 {
		return 1 / -inc
	}
	return inc
}

func tickValues(start, stop float64, count int) []float64 {
	if math.IsNaN(start) || math.IsNaN(stop) || math.IsInf(start, 0) || math.IsInf(stop, 0) || count <= 0 {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	inc := tickIncrement(start, stop, count)
	if inc == 0 || math.IsNaN(inc) || math.IsInf(inc, 0) {
		return nil
	}

	var ticks []float64
	if inc > 0 {
		lo, hi := math.Ceil(start/inc), math.Floor(stop/inc)
		for i := lo; i <= hi; i++ {
			ticks = append(ticks, i*inc)
		}
	} else {
		inv := -inc
		lo, hi := math.Ceil(start*inv), math.Floor(stop*inv)
		for i := lo; i <= hi; i++ {
			ticks = append(ticks, i/inv)
		}
	}

	if reverse {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}
