package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"roundbread-bot/logging"
)

type Config struct {
	Debug bool

	DiscordToken   string
	BreadChannels  []string
	BreadRoles     []string
	ReanalysisHops int

	InferenceServiceURL string
	DatabasePath        string
	DownloadsPath       string
	AdminAddr           string

	FilterBreadLabelConfidence  float64
	FilterBreadSegConfidence    float64
	BreadDetectionConfidence    float64
	OverrideDetectionConfidence float64

	TelegramToken     string
	TelegramChannelID int64
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logging.Log("Система", logrus.WarnLevel, "Файл .env не найден, используются переменные окружения")
	}

	config, err := FromEnv(os.Getenv)
	if err != nil {
		logging.Log("Система", logrus.PanicLevel, fmt.Sprintf("Ошибка чтения конфигурации: %v", err))
	}

	return config
}

// FromEnv собирает конфигурацию из произвольного источника переменных
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	config := &Config{
		Debug: p.bool("DEBUG", false),

		DiscordToken:   getenv("DISCORD_TOKEN"),
		BreadChannels:  splitList(getenv("DISCORD_BREAD_CHANNELS")),
		BreadRoles:     splitList(getenv("DISCORD_BREAD_ROLES")),
		ReanalysisHops: p.int("REANALYSIS_HOPS", 2),

		InferenceServiceURL: withDefault(getenv("INFERENCE_SERVICE_URL"), "http://localhost:8080"),
		DatabasePath:        withDefault(getenv("DB_DATA_PATH"), "data/bread.db"),
		DownloadsPath:       withDefault(getenv("DOWNLOADS_PATH"), "downloads"),
		AdminAddr:           withDefault(getenv("ADMIN_ADDR"), ":8000"),

		FilterBreadLabelConfidence:  p.float("FILTER_BREAD_LABEL_CONFIDENCE", 0.5),
		FilterBreadSegConfidence:    p.float("FILTER_BREAD_SEG_CONFIDENCE", 0.4),
		BreadDetectionConfidence:    p.float("BREAD_DETECTION_CONFIDENCE", 0.5),
		OverrideDetectionConfidence: p.float("OVERRIDE_DETECTION_CONFIDENCE", 0.1),

		TelegramToken:     getenv("TELEGRAM_TOKEN"),
		TelegramChannelID: int64(p.int("TELEGRAM_CHANNEL_ID", 0)),
	}

	if p.err != nil {
		return nil, p.err
	}
	if config.ReanalysisHops < 1 {
		return nil, fmt.Errorf("REANALYSIS_HOPS must be at least 1, got %d", config.ReanalysisHops)
	}

	return config, nil
}

type parser struct {
	getenv func(string) string
	err    error
}

func (p *parser) float(key string, def float64) float64 {
	raw := p.getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) int(key string, def int) int {
	raw := p.getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return int(v)
}

func (p *parser) bool(key string, def bool) bool {
	raw := p.getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
