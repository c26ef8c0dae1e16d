package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Notify    NotifyConfig    `yaml:"notify"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_URL"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// SMTPConfig holds transport credentials shared by both delivery channels.
// Credentials are configured process-wide at startup and are not rotated
// at runtime.
type SMTPConfig struct {
	Host         string `yaml:"host"          env:"SMTP_HOST"          env-default:"smtp.gmail.com"`
	Username     string `yaml:"username"      env:"SMTP_USERNAME"      env-required:"true"`
	Password     string `yaml:"password"      env:"SMTP_PASSWORD"      env-required:"true"`
	FromName     string `yaml:"from_name"     env:"SMTP_FROM_NAME"     env-default:"Fitness Tracker App"`
	StartTLSPort int    `yaml:"starttls_port" env:"SMTP_STARTTLS_PORT" env-default:"587"`
	SSLPort      int    `yaml:"ssl_port"      env:"SMTP_SSL_PORT"      env-default:"465"`
}

// NotifyConfig holds notification pipeline settings. Goal defaults are
// applied to recipients with absent numeric goals before composition.
type NotifyConfig struct {
	DefaultCalorieGoal float64 `yaml:"default_calorie_goal" env:"NOTIFY_DEFAULT_CALORIE_GOAL" env-default:"2000"`
	DefaultProteinGoal float64 `yaml:"default_protein_goal" env:"NOTIFY_DEFAULT_PROTEIN_GOAL" env-default:"150"`
}

// SchedulerConfig holds the daily trigger time for reminder batches.
type SchedulerConfig struct {
	Hour     int    `yaml:"hour"     env:"SCHEDULER_HOUR"     env-default:"9"`
	Minute   int    `yaml:"minute"   env:"SCHEDULER_MINUTE"   env-default:"0"`
	Timezone string `yaml:"timezone" env:"SCHEDULER_TIMEZONE" env-default:"Local"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
