package questgen

import "fmt"

// Template describes one procedurally instantiated quest. Totals above the
// minutes threshold accumulate time, the rest count discrete actions.
type Template struct {
	// Title may contain one %s placeholder for the skill name.
	Title    string
	Total    int
	XPReward int
}

// MinutesUnitThreshold separates count targets from minute targets. No count
// template goes above it and no minute template goes below.
const MinutesUnitThreshold = 10

var genericDailyTemplates = []Template{
	{Title: "Check in and keep your streak alive", Total: 1, XPReward: 30},
	{Title: "Complete 3 tasks today", Total: 3, XPReward: 50},
	{Title: "Complete 5 tasks today", Total: 5, XPReward: 80},
}

var genericWeeklyTemplates = []Template{
	{Title: "Check in on 5 different days", Total: 5, XPReward: 120},
	{Title: "Complete 10 tasks this week", Total: 10, XPReward: 200},
}

var skillDailyTemplates = []Template{
	{Title: "Spend 30 minutes on %s", Total: 30, XPReward: 60},
	{Title: "Spend 45 minutes on %s", Total: 45, XPReward: 90},
}

var skillWeeklyTemplates = []Template{
	{Title: "Spend 3 hours on %s this week", Total: 180, XPReward: 250},
	{Title: "Spend 5 hours on %s this week", Total: 300, XPReward: 400},
}

func (t Template) Instantiate(skillName string) Template {
	t.Title = fmt.Sprintf(t.Title, skillName)
	return t
}
