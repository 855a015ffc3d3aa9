package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/smart-locker/locker-service/pkg/auth"
	"github.com/smart-locker/locker-service/pkg/email"
	"github.com/smart-locker/locker-service/pkg/kafka"
	"github.com/smart-locker/locker-service/pkg/logger"
	"github.com/smart-locker/locker-service/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LOCKER_HTTP_HOST"`
	Port         string        `yaml:"port" envconfig:"LOCKER_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration
}

type Redis struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" json:"-"`
	DB       int    `envconfig:"REDIS_DB"`
}

type Config struct {
	Server        HTTPServer `yaml:"server"`
	Database      postgres.Config
	Kafka         kafka.Config
	Redis         Redis
	SMTP          email.Config
	JWT           auth.Config
	AdminEmail    string        `envconfig:"ADMIN_EMAIL" default:"locker-staff@localhost"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"10m"`
	Log           logger.Log    `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
