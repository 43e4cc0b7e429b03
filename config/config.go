package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs `toml:"database"`
	ApiServer ServerConfigs   `toml:"api_server"`
	Redis     RedisConfigs    `toml:"redis"`
	Kafka     KafkaConfigs    `toml:"kafka"`
	Reward    RewardConfigs   `toml:"reward"`
	Quest     QuestConfigs    `toml:"quest"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Port         string `toml:"port"`
	DefaultLimit int    `toml:"default_limit"`
	MaxLimit     int    `toml:"max_limit"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	// Addr is the broker address. Leave empty to deliver reward events with
	// the in-process publisher instead of Kafka.
	Addr    string `toml:"addr"`
	Topic   string `toml:"topic"`
	GroupID string `toml:"group_id"`
}

type RewardConfigs struct {
	// TaskCompletedXP is the fixed amount granted when a calendar task is
	// validated as completed.
	TaskCompletedXP int `toml:"task_completed_xp"`

	// TaskCreatedXP is the fixed amount granted when a task is first created.
	TaskCreatedXP int `toml:"task_created_xp"`

	// AssumedTaskMinutes is the duration assumed for skill matching when a
	// completed task carries no duration of its own.
	AssumedTaskMinutes int `toml:"assumed_task_minutes"`
}

type QuestConfigs struct {
	// MinActivePerType is the number of active quests of each type that
	// GetUserQuests tops up to.
	MinActivePerType int `toml:"min_active_per_type"`

	// SkillBiasPercent is the chance (0-100) a generated quest targets one of
	// the user's skills instead of a generic template.
	SkillBiasPercent int `toml:"skill_bias_percent"`
}

// Load reads configurations from a TOML file. The database password can be
// overridden with the DB_PASSWORD environment variable so it stays out of the
// config file.
func Load(path string) (Configs, error) {
	var cfg Configs
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, err
	}

	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}

	return cfg.withDefaults(), nil
}

func (cfg Configs) withDefaults() Configs {
	if cfg.ApiServer.Port == "" {
		cfg.ApiServer.Port = "8080"
	}

	if cfg.ApiServer.DefaultLimit == 0 {
		cfg.ApiServer.DefaultLimit = 20
	}

	if cfg.ApiServer.MaxLimit == 0 {
		cfg.ApiServer.MaxLimit = 50
	}

	if cfg.Reward.TaskCompletedXP == 0 {
		cfg.Reward.TaskCompletedXP = 50
	}

	if cfg.Reward.TaskCreatedXP == 0 {
		cfg.Reward.TaskCreatedXP = 10
	}

	if cfg.Reward.AssumedTaskMinutes == 0 {
		cfg.Reward.AssumedTaskMinutes = 30
	}

	if cfg.Quest.MinActivePerType == 0 {
		cfg.Quest.MinActivePerType = 3
	}

	if cfg.Quest.SkillBiasPercent == 0 {
		cfg.Quest.SkillBiasPercent = 70
	}

	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "reward-events"
	}

	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "reward-engine"
	}

	return cfg
}
