package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Channel is a required Telegram channel the user must join during onboarding.
type Channel struct {
	ID     string // chat id or @handle accepted by the Bot API
	Handle string // shown to the user in prompts
}

type Config struct {
	DBUser        string
	DBPassword    string
	DBName        string
	DBHost        string
	DBPort        string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	BotToken      string
	AdminID       int64
	APIListenAddr string

	Channels    []Channel
	GroupLink   string
	TwitterLink string

	InitialBalance  int64
	ReferralBonus   int64
	MinimumWithdraw int64
	LaunchDate      time.Time

	TapReward         int64
	TapCooldown       time.Duration
	MuskyToSolanaRate float64
	MinConversion     int64
	SpinEnergyCost    int
	MaxEnergy         int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "musky_bot"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		BotToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
		AdminID:       getEnvInt64("ADMIN_ID", 0),
		APIListenAddr: getEnv("API_LISTEN_ADDR", ":8000"),

		Channels: []Channel{
			{ID: getEnv("CHANNEL_MUSKY_ID", "-1002251074450"), Handle: "@musky_on_sol"},
			{ID: getEnv("CHANNEL_AIRDROP_ID", "-1002498998240"), Handle: "@Airdrop_Saggitarus"},
		},
		GroupLink:   getEnv("GROUP_LINK", "@MUSKY_GROUPCHAT"),
		TwitterLink: getEnv("TWITTER_LINK", "https://x.com/Musky_On_solana"),

		InitialBalance:  getEnvInt64("INITIAL_BALANCE", 1000),
		ReferralBonus:   getEnvInt64("REFERRAL_BONUS", 2000),
		MinimumWithdraw: getEnvInt64("MINIMUM_WITHDRAW", 7000),
		LaunchDate:      getEnvTime("LAUNCH_DATE", time.Now().Add(10*24*time.Hour)),

		TapReward:         getEnvInt64("TAP_REWARD", 1),
		TapCooldown:       time.Duration(getEnvInt64("TAP_COOLDOWN_HOURS", 4)) * time.Hour,
		MuskyToSolanaRate: getEnvFloat("MUSKY_TO_SOLANA_RATE", 0.000002),
		MinConversion:     getEnvInt64("MIN_CONVERSION_AMOUNT", 10000),
		SpinEnergyCost:    int(getEnvInt64("SPIN_ENERGY_COST", 10)),
		MaxEnergy:         int(getEnvInt64("MAX_ENERGY", 100)),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
		log.Printf("Invalid value for %s, using fallback %d", key, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
		log.Printf("Invalid value for %s, using fallback %f", key, fallback)
	}
	return fallback
}

func getEnvTime(key string, fallback time.Time) time.Time {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.Parse(time.RFC3339, value); err == nil {
			return parsed
		}
		log.Printf("Invalid value for %s, expected RFC3339, using fallback", key)
	}
	return fallback
}
