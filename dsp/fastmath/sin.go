package fastmath

const (
	pi       = 3.14159265
	twoPi    = 6.28318531
	invTwoPi = 0.159154943

	// beyond this many periods float32 has no fractional phase left.
	maxPeriods = 1 << 22
)

// Sin approximates sin(x). The argument is reduced to [-π, π]; the
// magnitude is evaluated on [0, π] with Bhaskara's rational approximation
// and the sign restored afterwards.
func Sin(x float32) float32 {
	k := x * invTwoPi
	if k != k || k > maxPeriods || k < -maxPeriods {
		return 0
	}

	var n int32
	if k >= 0 {
		n = int32(k + 0.5)
	} else {
		n = int32(k - 0.5)
	}

	x -= float32(n) * twoPi

	neg := x < 0
	if neg {
		x = -x
	}

	if x > pi {
		x = pi
	}

	t := x * (pi - x)
	y := 16 * t / (5*pi*pi - 4*t)

	if neg {
		return -y
	}

	return y
}
