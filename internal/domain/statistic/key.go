package statistic

import (
	"fmt"

	"github.com/dayflow-labs/backend/internal/entity"
)

func redisKeyXPLeaderBoard(period entity.LeaderBoardPeriodType) string {
	return fmt.Sprintf("leaderboard:xp:%s", period.Period())
}
