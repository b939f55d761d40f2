package config

import (
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/config"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/logger"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
)

type Config struct {
	AppConfig       *config.AppConfig
	Logger          *logger.Config
	Tracing         *tracing.JaegerConfig
	DatabaseConfig  *config.DatabaseConfig
	StorageConfig   *config.StorageConfig
	ParserConfig    *config.ParserConfig
	SendGridConfig  *config.SendGridConfig
	RabbitMQConfig  *config.RabbitMQConfig
	IngestionConfig *config.IngestionConfig
}
