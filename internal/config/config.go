package config

type AppConfig struct {
	APIPort string `env:"PORT" envDefault:"12222"`
	APIKey  string `env:"API_KEY,required"`
}

type DatabaseConfig struct {
	Host            string `env:"ATS_POSTGRES_HOST,required"`
	Port            string `env:"ATS_POSTGRES_PORT,required"`
	User            string `env:"ATS_POSTGRES_USER,required"`
	DBName          string `env:"ATS_POSTGRES_DB_NAME,required"`
	Password        string `env:"ATS_POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"ATS_POSTGRES_DB_MAX_CONN" envDefault:"20"`
	MaxIdleConn     int    `env:"ATS_POSTGRES_DB_MAX_IDLE_CONN" envDefault:"5"`
	ConnMaxLifetime int    `env:"ATS_POSTGRES_DB_CONN_MAX_LIFETIME" envDefault:"60"`
	LogLevel        string `env:"ATS_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"ATS_POSTGRES_SSL_MODE" envDefault:"require"`
}

type StorageConfig struct {
	Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AccessKeySecret string `env:"AWS_SECRET_ACCESS_KEY"`
	DocumentBucket  string `env:"BUCKET_NAME_DOCUMENTS" envDefault:"ats-resumes"`
	VideoBucket     string `env:"BUCKET_NAME_VIDEOS" envDefault:"ats-videos"`
	CDNDomain       string `env:"STORAGE_CDN_DOMAIN"`
}

type ParserConfig struct {
	Url            string `env:"RESUME_PARSER_URL,required"`
	ApiKey         string `env:"RESUME_PARSER_API_KEY"`
	TimeoutSeconds int    `env:"RESUME_PARSER_TIMEOUT_SECONDS" envDefault:"60"`
	MaxAttempts    int    `env:"RESUME_PARSER_MAX_ATTEMPTS" envDefault:"3"`
}

type SendGridConfig struct {
	ApiKey    string `env:"SENDGRID_API_KEY"`
	FromEmail string `env:"SENDGRID_FROM_EMAIL" envDefault:"no-reply@example.com"`
	FromName  string `env:"SENDGRID_FROM_NAME" envDefault:"Recruiting Team"`
}

type RabbitMQConfig struct {
	URL      string `env:"RABBITMQ_URL"`
	Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"ats-events"`
}

type IngestionConfig struct {
	// CredentialsKey encrypts IMAP passwords at rest. Empty disables
	// encryption (values pass through unchanged).
	CredentialsKey string `env:"MAILBOX_CREDENTIALS_KEY"`
	// DefaultLookbackDays bounds the first fetch of an account that has no
	// high-water mark yet.
	DefaultLookbackDays int `env:"INGESTION_DEFAULT_LOOKBACK_DAYS" envDefault:"7"`
}
