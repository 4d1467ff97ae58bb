package bootstrap

import (
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort         string `mapstructure:"SERVER_PORT"`
	RedisUrl           string `mapstructure:"REDIS_URL"`
	MongoUri           string `mapstructure:"MONGO_URI"`
	MongoDatabase      string `mapstructure:"MONGO_DATABASE"`
	EngineGrpcAddr     string `mapstructure:"ENGINE_GRPC_ADDR"`
	EngineGrpcPort     string `mapstructure:"ENGINE_GRPC_PORT"`
	IsLocalCors        bool   `mapstructure:"LOCAL_CORS"`
	SaveDir            string `mapstructure:"SAVE_DIR"`
	SnapshotTTLMinutes int    `mapstructure:"SNAPSHOT_TTL_MINUTES"`
	DefaultDifficulty  string `mapstructure:"DEFAULT_DIFFICULTY"`
	DifficultyPresets  string `mapstructure:"DIFFICULTY_PRESETS"`
	BotTimeoutSeconds  int    `mapstructure:"BOT_TIMEOUT_SECONDS"`
}

var defaults = map[string]any{
	"SERVER_PORT":          ":8080",
	"REDIS_URL":            "localhost:6379",
	"MONGO_URI":            "mongodb://localhost:27017",
	"MONGO_DATABASE":       "migration",
	"ENGINE_GRPC_ADDR":     "",
	"ENGINE_GRPC_PORT":     ":8082",
	"LOCAL_CORS":           false,
	"SAVE_DIR":             "build",
	"SNAPSHOT_TTL_MINUTES": 720,
	"DEFAULT_DIFFICULTY":   "medium",
	"DIFFICULTY_PRESETS":   "",
	"BOT_TIMEOUT_SECONDS":  30,
}

// Setup reads cfgPath (a .env style file) when it exists; environment
// variables override it and every key has a default.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if cfgPath != "" {
		if _, err := os.Stat(cfgPath); err == nil {
			v.SetConfigFile(cfgPath)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
