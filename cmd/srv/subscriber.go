package main

import (
	"github.com/dayflow-labs/backend/pkg/kafka"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(cctx *cli.Context) error {
	s.loadConfig(cctx.String("config"))
	s.loadLogger()
	s.loadSnowFlake(cctx.Int64("node-id"))
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()

	cfg := xcontext.Configs(s.ctx)
	subscriber, err := kafka.NewSubscriber(
		cfg.Kafka.GroupID,
		[]string{cfg.Kafka.Addr},
		[]string{cfg.Kafka.Topic},
		s.followUp,
		xcontext.Logger(s.ctx).Errorf,
	)
	if err != nil {
		panic(err)
	}

	s.subscriber = subscriber

	xcontext.Logger(s.ctx).Infof("Starting subscriber on topic %s", cfg.Kafka.Topic)
	s.subscriber.Subscribe(s.ctx)

	<-s.ctx.Done()
	return s.subscriber.Stop(s.ctx)
}
