package main

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dayflow-labs/backend/config"
	"github.com/dayflow-labs/backend/internal/domain"
	"github.com/dayflow-labs/backend/internal/domain/questgen"
	"github.com/dayflow-labs/backend/internal/domain/skillmatch"
	"github.com/dayflow-labs/backend/internal/domain/statistic"
	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/internal/repository"
	"github.com/dayflow-labs/backend/pkg/kafka"
	"github.com/dayflow-labs/backend/pkg/logger"
	"github.com/dayflow-labs/backend/pkg/pubsub"
	"github.com/dayflow-labs/backend/pkg/router"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"github.com/dayflow-labs/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	userRepo           repository.UserRepository
	userProgressRepo   repository.UserProgressRepository
	xpHistoryRepo      repository.XPHistoryRepository
	skillRepo          repository.SkillRepository
	userSkillRepo      repository.UserSkillRepository
	taskValidationRepo repository.TaskValidationRepository
	questRepo          repository.QuestRepository

	progressionDomain domain.ProgressionDomain
	streakDomain      domain.StreakDomain
	skillDomain       domain.SkillDomain
	questDomain       domain.QuestDomain
	validationDomain  domain.ValidationDomain
	followUpDomain    domain.FollowUpDomain

	skillMatcher skillmatch.Matcher
	leaderboard  statistic.Leaderboard

	publisher          pubsub.Publisher
	inProcessPublisher *pubsub.InProcessPublisher
	subscriber         pubsub.Subscriber
	redisClient        xredis.Client

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(configPath string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
}

func (s *srv) loadLogger() {
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger())
}

func (s *srv) loadSnowFlake(nodeID int64) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) newDatabase() *gorm.DB {
	dbCfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.Open(dbCfg.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	if xcontext.Configs(s.ctx).Redis.Addr == "" {
		return
	}

	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx)
	if cfg.Kafka.Addr == "" {
		s.inProcessPublisher = pubsub.NewInProcessPublisher()
		s.publisher = s.inProcessPublisher
		return
	}

	publisher, err := kafka.NewPublisher("reward-engine", []string{cfg.Kafka.Addr})
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

// loadFollowUp routes reward events back into the follow-up consumer when no
// broker is configured. With Kafka, the subscriber command owns this instead.
func (s *srv) loadFollowUp() {
	if s.inProcessPublisher != nil {
		s.inProcessPublisher.Register(xcontext.Configs(s.ctx).Kafka.Topic, s.followUp)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.userProgressRepo = repository.NewUserProgressRepository()
	s.xpHistoryRepo = repository.NewXPHistoryRepository()
	s.skillRepo = repository.NewSkillRepository()
	s.userSkillRepo = repository.NewUserSkillRepository()
	s.taskValidationRepo = repository.NewTaskValidationRepository()
	s.questRepo = repository.NewQuestRepository()
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)

	if s.redisClient != nil {
		s.leaderboard = statistic.New(s.xpHistoryRepo, s.redisClient)
	}

	s.progressionDomain = domain.NewProgressionDomain(
		s.userProgressRepo, s.xpHistoryRepo, s.publisher, s.leaderboard)
	s.streakDomain = domain.NewStreakDomain(s.userProgressRepo, s.taskValidationRepo)
	s.skillMatcher = skillmatch.NewMatcher(s.skillRepo, s.userSkillRepo)
	s.skillDomain = domain.NewSkillDomain(s.skillRepo, s.userSkillRepo, s.userRepo)
	s.questDomain = domain.NewQuestDomain(
		s.questRepo, s.userSkillRepo, s.skillRepo, s.progressionDomain,
		questgen.NewGenerator(cfg.Quest.SkillBiasPercent))
	s.validationDomain = domain.NewValidationDomain(
		s.taskValidationRepo, s.progressionDomain, s.streakDomain, s.publisher)
	s.followUpDomain = domain.NewFollowUpDomain(s.skillMatcher, s.questDomain)
}

// followUp adapts the follow-up domain to a subscribe handler. Packs carry no
// ambient values, so the handler runs on the server context.
func (s *srv) followUp(ctx context.Context, pack *pubsub.Pack, tt time.Time) {
	s.followUpDomain.Subscribe(s.ctx, pack, tt)
}
