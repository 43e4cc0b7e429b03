package entity

import (
	"fmt"
	"time"

	"github.com/dayflow-labs/backend/pkg/dateutil"
)

type LeaderBoardPeriodType interface {
	Period() string
	Start() time.Time
	End() time.Time
}

type LeaderBoardPeriodWeek struct {
	current time.Time
}

func NewLeaderBoardPeriodWeek(current time.Time) LeaderBoardPeriodWeek {
	return LeaderBoardPeriodWeek{current: current}
}

func (p LeaderBoardPeriodWeek) Period() string {
	return dateutil.WeekValue(p.current)
}

func (p LeaderBoardPeriodWeek) Start() time.Time {
	return dateutil.CurrentWeek(p.current)
}

func (p LeaderBoardPeriodWeek) End() time.Time {
	return p.Start().AddDate(0, 0, 7)
}

type LeaderBoardPeriodMonth struct {
	current time.Time
}

func NewLeaderBoardPeriodMonth(current time.Time) LeaderBoardPeriodMonth {
	return LeaderBoardPeriodMonth{current: current}
}

func (p LeaderBoardPeriodMonth) Period() string {
	return dateutil.MonthValue(p.current)
}

func (p LeaderBoardPeriodMonth) Start() time.Time {
	return time.Date(p.current.Year(), p.current.Month(), 1, 0, 0, 0, 0, p.current.Location())
}

func (p LeaderBoardPeriodMonth) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

func ToLeaderBoardPeriod(period string, current time.Time) (LeaderBoardPeriodType, error) {
	switch period {
	case "week":
		return NewLeaderBoardPeriodWeek(current), nil
	case "month":
		return NewLeaderBoardPeriodMonth(current), nil
	}

	return nil, fmt.Errorf("invalid period, expected week or month, but got %s", period)
}
