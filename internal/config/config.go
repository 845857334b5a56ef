package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// 远端员工管理 API
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"https://energetic-ruby-sockeye.cyclic.cloud"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`

	// 会话存储配置：memory / sql / file
	SessionStore        string        `env:"SESSION_STORE" envDefault:"memory"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionSecret       string        `env:"SESSION_SECRET" envDefault:"dev-secret-change-me"`
	SessionCookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"hrportal_session"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	SessionFile         string        `env:"SESSION_FILE" envDefault:"datas/hrctl-session.json"`

	DBType     string `env:"DBType" envDefault:"sqlite"`
	DSNURL     string `env:"DSN_URL" envDefault:""`
	DBUser     string `env:"DBUser" envDefault:""`
	DBPassword string `env:"DBPassword" envDefault:""`
	DBAddr     string `env:"DBAddr" envDefault:""`
	DBName     string `env:"DBName" envDefault:"hrportal"`
	DBPath     string `env:"DBPath" envDefault:"datas/hrportal.db"`
	DBPort     string `env:"DBPort" envDefault:"3306"`

	MessagesFile string `env:"MESSAGES_FILE" envDefault:""`

	// 角色为 0（未选择）时是否拒绝提交
	RejectUnsetRole bool `env:"REJECT_UNSET_ROLE" envDefault:"true"`
	// 复现旧版登录页在成功后仍弹出错误提示的行为
	LegacyLoginErrorToast bool `env:"LEGACY_LOGIN_ERROR_TOAST" envDefault:"false"`
}

// APIBase returns the configured API base URL without a trailing slash.
func (c Config) APIBase() string {
	return strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
}

func ParseConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warn("failed to load .env file")
	}

	var Conf Config
	err := env.Parse(&Conf)
	if err != nil {
		logrus.WithError(err).Error("env.Parse error")
		return Config{}, err
	}
	if strings.TrimSpace(Conf.SessionSecret) == "" {
		return Config{}, errors.New("SESSION_SECRET must not be empty")
	}
	return Conf, nil
}
