package testutil

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/dayflow-labs/backend/config"
	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/pkg/logger"
	"github.com/dayflow-labs/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		ApiServer: config.ServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 1,
		},
		Reward: config.RewardConfigs{
			TaskCompletedXP:    50,
			TaskCreatedXP:      10,
			AssumedTaskMinutes: 30,
		},
		Quest: config.QuestConfigs{
			MinActivePerType: 3,
			SkillBiasPercent: 70,
		},
		Kafka: config.KafkaConfigs{
			Topic: "reward-events",
		},
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger())
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
