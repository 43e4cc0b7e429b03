// Package leveling holds the pure XP/level curve. The curve is linear for the
// first ten levels (100 xp each) and square-root shaped afterwards, so early
// levels come fast and later ones slow down smoothly.
package leveling

import "math"

const (
	linearCap     = 1000
	linearStep    = 100
	curveLevelCap = 10
	curveScale    = 50
)

// LevelFor converts total XP to a level. It is monotone non-decreasing and
// the inverse of XPFor on level thresholds.
func LevelFor(xp int) int {
	if xp < 0 {
		return 1
	}

	if xp < linearCap {
		return xp/linearStep + 1
	}

	return int(math.Sqrt(float64(xp-linearCap)/curveScale)) + curveLevelCap
}

// XPFor returns the minimum total XP required to reach a level. It is strictly
// increasing in level.
func XPFor(level int) int {
	if level <= 1 {
		return 0
	}

	if level <= curveLevelCap {
		return (level - 1) * linearStep
	}

	return (level-curveLevelCap)*(level-curveLevelCap)*curveScale + linearCap
}

// XPToNext returns how much XP is missing until the next level.
func XPToNext(xp int) int {
	return XPFor(LevelFor(xp)+1) - xp
}

// ProgressPercent returns how far the XP sits between the current and the
// next level threshold, clamped to [0, 100].
func ProgressPercent(xp int) int {
	level := LevelFor(xp)
	current := XPFor(level)
	next := XPFor(level + 1)
	if next <= current {
		return 100
	}

	percent := (xp - current) * 100 / (next - current)
	if percent < 0 {
		return 0
	}

	if percent > 100 {
		return 100
	}

	return percent
}
