package main

import (
	"fmt"
	"net/http"

	"github.com/dayflow-labs/backend/pkg/router"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	s.loadConfig(cctx.String("config"))
	s.loadLogger()
	s.loadSnowFlake(cctx.Int64("node-id"))
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadFollowUp()
	s.loadRouter()

	port := xcontext.Configs(s.ctx).ApiServer.Port
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting api server on port %s", port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)

	// Progression API
	router.POST(s.router, "/addXP", s.progressionDomain.AddXP)
	router.POST(s.router, "/getProgressStats", s.progressionDomain.GetProgressStats)
	router.POST(s.router, "/getLeaderBoard", s.progressionDomain.GetLeaderBoard)
	router.POST(s.router, "/checkStreak", s.streakDomain.CheckAndUpdateStreak)

	// Task validation API
	router.POST(s.router, "/registerTask", s.validationDomain.RegisterTask)
	router.POST(s.router, "/validateTask", s.validationDomain.ValidateTask)
	router.POST(s.router, "/dismissTask", s.validationDomain.DismissTask)
	router.POST(s.router, "/getTasksToValidate", s.validationDomain.GetTasksToValidate)
	router.POST(s.router, "/getPendingTasksCount", s.validationDomain.GetPendingTasksCount)

	// Quest API
	router.POST(s.router, "/getUserQuests", s.questDomain.GetUserQuests)

	// Skill API
	router.POST(s.router, "/getMySkills", s.skillDomain.GetMySkills)
	router.POST(s.router, "/listSkillFamilies", s.skillDomain.ListSkillFamilies)
	router.POST(s.router, "/provisionProfileSkills", s.skillDomain.ProvisionProfileSkills)
}
