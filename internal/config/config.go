package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	Database   Database   `mapstructure:",squash"`
	Auth       Auth       `mapstructure:",squash"`
	Analysis   Analysis   `mapstructure:",squash"`
	Currency   Currency   `mapstructure:",squash"`
	CorpusSync CorpusSync `mapstructure:",squash"`
	SecretKey  string     `mapstructure:"secret_key"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// Analysis настройва обработката на корпусите с бележки
type Analysis struct {
	ReceiptsDir        string `mapstructure:"receipts_dir"`
	TopMoversLimit     int    `mapstructure:"top_movers_limit"`
	MaxConcurrentFiles int    `mapstructure:"analysis_max_concurrent_files"`
	YearPolicyCurrent  int    `mapstructure:"year_policy_current"`
	YearPolicyDecember int    `mapstructure:"year_policy_december"`
}

// Currency настройва превалутирането към евро
type Currency struct {
	EURCutoverDate string  `mapstructure:"eur_cutover_date"`
	BGNPerEUR      float64 `mapstructure:"bgn_eur_rate"`
}

type CorpusSync struct {
	CronSchedule string `mapstructure:"corpus_sync_cron"`
	Enabled      bool   `mapstructure:"corpus_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/pricehistory")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	viper.SetDefault("RECEIPTS_DIR", "./receipts")
	viper.SetDefault("TOP_MOVERS_LIMIT", 10)
	viper.SetDefault("ANALYSIS_MAX_CONCURRENT_FILES", 5)

	// Прозорец за бележки само с ден и месец
	viper.SetDefault("YEAR_POLICY_CURRENT", 2026)
	viper.SetDefault("YEAR_POLICY_DECEMBER", 2025)

	viper.SetDefault("EUR_CUTOVER_DATE", "2026-01-01")
	viper.SetDefault("BGN_EUR_RATE", 1.95583)

	viper.SetDefault("CORPUS_SYNC_CRON", "0 6 * * *") // Всеки ден в 6 сутринта
	viper.SetDefault("CORPUS_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Използват се променливите от godotenv (viper не прочете .env):", err)
	} else {
		logrus.Info("Файлът .env е прочетен от Viper")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// EURCutover чете граничната дата на еврото от конфигурацията
func (c *Config) EURCutover() (time.Time, error) {
	return time.Parse(time.DateOnly, c.Currency.EURCutoverDate)
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Текущата директория не може да бъде определена:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Файлът .env е зареден от:", location)
			return
		}
	}

	logrus.Warn("Не беше намерен .env файл, използват се стойностите по подразбиране")
}
