package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Game struct {
	Theme         string        `yaml:"theme" env:"GAME_THEME" env-default:"uk"`
	BoardSize     int           `yaml:"board-size" env:"GAME_BOARD_SIZE" env-default:"11"`
	StartingMoney int           `yaml:"starting-money" env:"GAME_STARTING_MONEY" env-default:"1500"`
	PassGoBonus   int           `yaml:"pass-go-bonus" env:"GAME_PASS_GO_BONUS" env-default:"200"`
	MaxDoubles    int           `yaml:"max-doubles" env:"GAME_MAX_DOUBLES" env-default:"3"`
	MaxMessages   int           `yaml:"max-messages" env:"GAME_MAX_MESSAGES" env-default:"200"`
	SnapshotTTL   time.Duration `yaml:"snapshot-ttl" env:"GAME_SNAPSHOT_TTL" env-default:"24h"`
	Palette       []string      `yaml:"palette" env:"GAME_PALETTE" env-separator:","`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// Rules converts the game section into engine rules. An empty palette falls back to the default one.
func (that *Game) Rules() entity.Rules {
	rules := entity.DefaultRules()
	rules.StartingMoney = that.StartingMoney
	rules.PassGoBonus = that.PassGoBonus
	rules.MaxDoubles = that.MaxDoubles

	if len(that.Palette) > 0 {
		rules.Palette = append([]string(nil), that.Palette...)
	}

	return rules
}
