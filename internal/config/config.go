package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env   string `yaml:"env" env:"ENV" env-default:"local"`
	Mongo struct {
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:""`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"edudesk"`
	} `yaml:"mongo"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env:"BIND_IP" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env:"PORT" env-default:"9200"`
	} `yaml:"listen"`
	Auth struct {
		JwtSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-default:""`
	} `yaml:"auth"`
	Cors struct {
		AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
	} `yaml:"cors"`
	Otp struct {
		BaseUrl string `yaml:"base_url" env:"OTP_BASE_URL" env-default:""`
		ApiKey  string `yaml:"api_key" env:"OTP_API_KEY" env-default:""`
	} `yaml:"otp"`
	SendGrid struct {
		ApiKey    string `yaml:"api_key" env:"SENDGRID_API_KEY" env-default:""`
		FromEmail string `yaml:"from_email" env:"SENDGRID_FROM_EMAIL" env-default:"noreply@edudesk.app"`
		FromName  string `yaml:"from_name" env:"SENDGRID_FROM_NAME" env-default:"EduDesk"`
	} `yaml:"sendgrid"`
	Dashboard struct {
		QueryTimeoutSec int `yaml:"query_timeout_sec" env:"DASHBOARD_QUERY_TIMEOUT" env-default:"10"`
	} `yaml:"dashboard"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
