package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	internalconfig "github.com/mtauhidul/ats-backend-demo-sub000/internal/config"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/logger"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
)

func InitConfig() (*Config, error) {
	config := &Config{
		AppConfig:       &internalconfig.AppConfig{},
		Logger:          &logger.Config{},
		Tracing:         &tracing.JaegerConfig{},
		DatabaseConfig:  &internalconfig.DatabaseConfig{},
		StorageConfig:   &internalconfig.StorageConfig{},
		ParserConfig:    &internalconfig.ParserConfig{},
		SendGridConfig:  &internalconfig.SendGridConfig{},
		RabbitMQConfig:  &internalconfig.RabbitMQConfig{},
		IngestionConfig: &internalconfig.IngestionConfig{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	err = env.Parse(config)
	if err != nil {
		log.Fatalf("Error loading ingestion config: %v", err)
	}

	return config, nil
}
