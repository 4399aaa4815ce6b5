package rack

import "math"

// StackTier orders cards for drawing. Higher tiers draw on top.
type StackTier int

const (
	TierBottom StackTier = iota
	TierLow
	TierMid
	TierTop
)

// Style holds the visual parameters of one card at the current offset.
type Style struct {
	Distance float64 // signed distance from center, in card widths
	Scale    float64
	Opacity  float64
	Stack    StackTier
	Shadow   float64 // ShadowStrong or ShadowWeak
}

const (
	ShadowStrong = 1.0
	ShadowWeak   = 0.35
)

type breakpoint struct{ at, value float64 }

var scaleCurve = []breakpoint{
	{-1.5, 0.82},
	{-1, 0.85},
	{0, 1.0},
	{1, 0.85},
	{1.5, 0.82},
}

var opacityCurve = []breakpoint{
	{-2, 0},
	{-1.5, 0.6},
	{-0.5, 0.75},
	{0, 1},
	{0.5, 0.75},
	{1.5, 0.6},
	{2, 0},
}

// StyleFor returns the style of the card at index for the given offset and
// stride. stride must be positive.
func StyleFor(offset float64, index int, stride float64) Style {
	d := (offset + float64(index)*stride) / stride
	return styleAtDistance(d)
}

func styleAtDistance(d float64) Style {
	ad := math.Abs(d)
	s := Style{
		Distance: d,
		Scale:    interpolate(scaleCurve, d),
		Opacity:  interpolate(opacityCurve, d),
		Shadow:   ShadowWeak,
	}
	switch {
	case ad < 0.3:
		s.Stack = TierTop
	case ad < 0.8:
		s.Stack = TierMid
	case ad < 1.3:
		s.Stack = TierLow
	default:
		s.Stack = TierBottom
	}
	if ad < 0.3 {
		s.Shadow = ShadowStrong
	}
	return s
}

// interpolate is piecewise linear over curve and clamps outside its range.
func interpolate(curve []breakpoint, x float64) float64 {
	if x <= curve[0].at {
		return curve[0].value
	}
	last := curve[len(curve)-1]
	if x >= last.at {
		return last.value
	}
	for i := 1; i < len(curve); i++ {
		hi := curve[i]
		if x > hi.at {
			continue
		}
		if x == hi.at {
			return hi.value
		}
		lo := curve[i-1]
		t := (x - lo.at) / (hi.at - lo.at)
		return lo.value + (hi.value-lo.value)*t
	}
	return last.value
}
