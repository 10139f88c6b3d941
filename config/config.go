package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Auth         Auth
	Assessment   Assessment
	Log          Log
	GeminiApiKey string
}

type Server struct {
	Port    string
	GinMode string
}
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Auth struct {
	JWTSecret   string
	TeacherRole string
}

// Assessment holds the score thresholds applied when an attempt is submitted.
// PassScore marks a result as passed; a final exam needs strictly more than
// CertificateScore before a certificate is issued.
type Assessment struct {
	PassScore        float64
	CertificateScore float64
}

type Log struct {
	Level string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("TEACHER_ROLE", "teacher")
	viper.SetDefault("PASS_SCORE", 50)
	viper.SetDefault("CERTIFICATE_SCORE", 60)
	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	config.Auth.TeacherRole = viper.GetString("TEACHER_ROLE")

	config.Assessment.PassScore = viper.GetFloat64("PASS_SCORE")
	config.Assessment.CertificateScore = viper.GetFloat64("CERTIFICATE_SCORE")

	config.Log.Level = viper.GetString("LOG_LEVEL")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	if config.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set. Every authenticated request will be rejected.")
	}

	log.Info().
		Str("port", config.Server.Port).
		Str("database_host", config.Database.Host).
		Str("database_name", config.Database.Name).
		Float64("pass_score", config.Assessment.PassScore).
		Float64("certificate_score", config.Assessment.CertificateScore).
		Bool("gemini_enabled", config.GeminiApiKey != "").
		Msg("Config loaded")
	return &config, nil

}
