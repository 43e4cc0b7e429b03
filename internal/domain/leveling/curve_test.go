package leveling

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelForBoundaries(t *testing.T) {
	testcases := []struct {
		xp    int
		level int
	}{
		{xp: 0, level: 1},
		{xp: 99, level: 1},
		{xp: 100, level: 2},
		{xp: 999, level: 10},
		{xp: 1000, level: 10},
		{xp: 1049, level: 10},
		{xp: 1050, level: 11},
		{xp: 1200, level: 12},
	}

	for _, tc := range testcases {
		require.Equal(t, tc.level, LevelFor(tc.xp), "xp=%d", tc.xp)
	}
}

func TestRoundTrip(t *testing.T) {
	for level := 1; level <= 100; level++ {
		require.Equal(t, level, LevelFor(XPFor(level)), "level=%d", level)
	}
}

func TestMonotonicity(t *testing.T) {
	prevLevel := LevelFor(0)
	for xp := 1; xp <= 500000; xp += 7 {
		level := LevelFor(xp)
		require.GreaterOrEqual(t, level, prevLevel, "xp=%d", xp)
		prevLevel = level
	}

	prevXP := XPFor(1)
	for level := 2; level <= 100; level++ {
		xp := XPFor(level)
		require.Greater(t, xp, prevXP, "level=%d", level)
		prevXP = xp
	}
}

func TestXPToNext(t *testing.T) {
	require.Equal(t, 100, XPToNext(0))
	require.Equal(t, 1, XPToNext(99))
	require.Equal(t, 50, XPToNext(1000))
}

func TestProgressPercent(t *testing.T) {
	require.Equal(t, 0, ProgressPercent(0))
	require.Equal(t, 50, ProgressPercent(50))
	require.Equal(t, 99, ProgressPercent(199))

	// Level 10 spans 900..1050, so xp=1000 sits at (100*100)/150.
	require.Equal(t, 66, ProgressPercent(1000))

	for xp := 0; xp <= 10000; xp += 13 {
		percent := ProgressPercent(xp)
		require.GreaterOrEqual(t, percent, 0, "xp=%d", xp)
		require.LessOrEqual(t, percent, 100, "xp=%d", xp)
	}
}

func TestNegativeXP(t *testing.T) {
	require.Equal(t, 1, LevelFor(-10))
	require.Equal(t, 0, XPFor(0))
	require.Equal(t, 0, XPFor(1))
}
