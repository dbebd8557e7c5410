package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Musallamjaw/CTRL/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret      string
	ScannerKeyHash string

	QRCodeDir string
	LogLevel  string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         os.Getenv("DB_PORT"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		ScannerKeyHash: os.Getenv("SCANNER_KEY_HASH"),
		QRCodeDir:      os.Getenv("QR_CODE_DIR"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
	}
	if cfg.QRCodeDir == "" {
		cfg.QRCodeDir = "./uploads/qrcodes"
	}
	return cfg, nil
}

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	ClubAddress string
}

func LoadSMTPConfig() (*SMTPConfig, error) {
	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT: %v", err)
		}
		port = parsed
	}

	cfg := &SMTPConfig{
		Host:        os.Getenv("SMTP_HOST"),
		Port:        port,
		Username:    os.Getenv("SMTP_USERNAME"),
		Password:    os.Getenv("SMTP_PASSWORD"),
		FromAddress: os.Getenv("SMTP_FROM"),
		ClubAddress: os.Getenv("CLUB_EMAIL"),
	}
	if cfg.FromAddress == "" {
		cfg.FromAddress = cfg.Username
	}
	if cfg.ClubAddress == "" {
		cfg.ClubAddress = cfg.FromAddress
	}
	return cfg, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.Event{}, &models.Ticket{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
