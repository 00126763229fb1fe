package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
	"time"
)

type Config struct {
	Env      string `yaml:"env" env:"ENV" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"BizDevCRMBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	OpenAI struct {
		Enabled bool   `yaml:"enabled" env-default:"false"`
		ApiKey  string `yaml:"api_key" env:"OPENAI_API_KEY" env-default:""`
		Model   string `yaml:"model" env-default:"gpt-4o-mini"`
	} `yaml:"openai"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:""`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
		Database string `yaml:"database" env-default:"bizdevcrm"`
	} `yaml:"mongo"`
	Auth struct {
		Secret   string        `yaml:"secret" env:"JWT_SECRET" env-default:""`
		TokenTTL time.Duration `yaml:"token_ttl" env-default:"12h"`
	} `yaml:"auth"`
	Files struct {
		Secret    string        `yaml:"secret" env:"FILE_URL_SECRET" env-default:""`
		UrlTTL    time.Duration `yaml:"url_ttl" env-default:"1h"`
		MaxSizeMB int64         `yaml:"max_size_mb" env-default:"25"`
	} `yaml:"files"`
	SMTP struct {
		Host     string        `yaml:"host" env-default:"smtp.gmail.com"`
		Port     int           `yaml:"port" env-default:"587"`
		User     string        `yaml:"user" env-default:""`
		Password string        `yaml:"password" env:"SMTP_PASSWORD" env-default:""`
		From     string        `yaml:"from" env-default:""`
		Timeout  time.Duration `yaml:"timeout" env-default:"20s"`
	} `yaml:"smtp"`
	IMAP struct {
		Enabled  bool          `yaml:"enabled" env-default:"false"`
		Host     string        `yaml:"host" env-default:"imap.gmail.com"`
		Port     int           `yaml:"port" env-default:"993"`
		User     string        `yaml:"user" env:"IMAP_USER" env-default:""`
		Password string        `yaml:"password" env:"IMAP_PASSWORD" env-default:""`
		Mailbox  string        `yaml:"mailbox" env-default:"INBOX"`
		MaxFetch uint32        `yaml:"max_fetch" env-default:"50"`
		Timeout  time.Duration `yaml:"timeout" env-default:"30s"`
	} `yaml:"imap"`
	WhatsApp struct {
		Enabled bool   `yaml:"enabled" env-default:"false"`
		BaseURL string `yaml:"base_url" env-default:"https://graph.facebook.com/v18.0"`
		PhoneID string `yaml:"phone_id" env-default:""`
		Token   string `yaml:"token" env:"WHATSAPP_TOKEN" env-default:""`
	} `yaml:"whatsapp"`
	RabbitMQ struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"5672"`
		User     string `yaml:"user" env-default:"guest"`
		Password string `yaml:"password" env:"RABBITMQ_PASSWORD" env-default:"guest"`
		Exchange string `yaml:"exchange" env-default:"ex.crm.activity"`
	} `yaml:"rabbitmq"`
	Listen struct {
		BindIP         string   `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port           string   `yaml:"port" env-default:"9100"`
		TimeoutSec     int      `yaml:"timeout_sec" env-default:"30"`
		AllowedOrigins []string `yaml:"allowed_origins" env-default:"http://localhost:5173"`
	} `yaml:"listen"`
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
		if instance.Auth.Secret == "" {
			log.Fatal("auth secret is not set (JWT_SECRET)")
		}
		if instance.Files.Secret == "" {
			instance.Files.Secret = instance.Auth.Secret
		}
	})
	return instance
}

// MaxFileSize returns the upload limit in bytes.
func (c *Config) MaxFileSize() int64 {
	if c.Files.MaxSizeMB <= 0 {
		return 25 << 20
	}
	return c.Files.MaxSizeMB << 20
}
