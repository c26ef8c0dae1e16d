package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
// Missing store or transport credentials fail here, before any operation
// is attempted.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required (set DATABASE_URL)")
	}

	if strings.TrimSpace(c.SMTP.Username) == "" || strings.TrimSpace(c.SMTP.Password) == "" {
		return fmt.Errorf("smtp.username and smtp.password are required")
	}
	if c.SMTP.StartTLSPort <= 0 || c.SMTP.StartTLSPort > 65535 {
		return fmt.Errorf("smtp.starttls_port out of range (got %d)", c.SMTP.StartTLSPort)
	}
	if c.SMTP.SSLPort <= 0 || c.SMTP.SSLPort > 65535 {
		return fmt.Errorf("smtp.ssl_port out of range (got %d)", c.SMTP.SSLPort)
	}

	if c.Notify.DefaultCalorieGoal <= 0 {
		return fmt.Errorf("notify.default_calorie_goal must be > 0 (got %v)", c.Notify.DefaultCalorieGoal)
	}
	if c.Notify.DefaultProteinGoal <= 0 {
		return fmt.Errorf("notify.default_protein_goal must be > 0 (got %v)", c.Notify.DefaultProteinGoal)
	}

	if err := c.Scheduler.validate(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	return nil
}

func (s *SchedulerConfig) validate() error {
	if s.Hour < 0 || s.Hour > 23 {
		return fmt.Errorf("hour must be in 0..23 (got %d)", s.Hour)
	}
	if s.Minute < 0 || s.Minute > 59 {
		return fmt.Errorf("minute must be in 0..59 (got %d)", s.Minute)
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", s.Timezone, err)
	}
	return nil
}
