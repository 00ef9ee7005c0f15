package math

// Approach moves current toward target by at most step. It never overshoots.
func Approach(current, target, step float32) float32 {
	if current < target {
		return min(current+step, target)
	}
	return max(current-step, target)
}

// ApproachInt is Approach for integer quantities such as camera distance.
func ApproachInt(current, target, step int) int {
	if current < target {
		return min(current+step, target)
	}
	return max(current-step, target)
}

// ApproachAngle moves current toward target along the shorter arc by at
// most step units. A non-positive step leaves current unchanged.
func ApproachAngle(current, target Angle, step int32) Angle {
	if step <= 0 {
		return current
	}
	dist := int32(target - current)
	if dist >= 0 {
		if dist > step {
			return current + Angle(step)
		}
		return target
	}
	if dist < -step {
		return current - Angle(step)
	}
	return target
}

// ApproachAsymptotic moves current a fraction of the remaining way to target.
func ApproachAsymptotic(current, target, fraction float32) float32 {
	return current + (target-current)*fraction
}

// Clamp limits v to [lo, hi].
func Clamp[T ~int | ~int16 | ~int32 | ~float32 | ~float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AbsDiff returns |a - b| measured along the shorter arc.
func AbsDiff(a, b Angle) int32 {
	d := int32(a - b)
	if d < 0 {
		return -d
	}
	return d
}
