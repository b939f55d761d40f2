package cron_config

type Config struct {
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Ingestion poll tick, every minute; the effective polling interval is
	// read from AutomationState on each tick
	CronScheduleIngestionPoll string `env:"CRON_SCHEDULE_INGESTION_POLL" envDefault:"0 * * * * *"`
}
