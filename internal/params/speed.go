package params

import "math"

// Speed bounds and the stepping offered by the form slider.
const (
	MinSpeed     = 0.25
	MaxSpeed     = 4.0
	SpeedStep    = 0.05
	DefaultSpeed = 1.0
)

// SpeedInRange reports whether v lies in [MinSpeed, MaxSpeed].
func SpeedInRange(v float64) bool {
	return v >= MinSpeed && v <= MaxSpeed
}

// SnapSpeed maps v onto the slider grid, the way a range input does.
func SnapSpeed(v float64) float64 {
	if math.IsNaN(v) || v <= MinSpeed {
		return MinSpeed
	}
	if v >= MaxSpeed {
		return MaxSpeed
	}

	steps := math.Round((v - MinSpeed) / SpeedStep)
	return round2(MinSpeed + steps*SpeedStep)
}

// SpeedSteps returns every value the slider can produce, in ascending order.
func SpeedSteps() []float64 {
	n := int(math.Round((MaxSpeed-MinSpeed)/SpeedStep)) + 1
	steps := make([]float64, n)
	for i := range steps {
		steps[i] = round2(MinSpeed + float64(i)*SpeedStep)
	}
	return steps
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
