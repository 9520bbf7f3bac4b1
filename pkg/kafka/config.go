package kafka

import "time"

// Config holds Kafka producer parameters.
type Config struct {
	Brokers []string
	// BatchTimeout bounds how long a partial batch waits before being flushed.
	BatchTimeout time.Duration
	// WriteTimeout caps a single WriteMessages call.
	WriteTimeout time.Duration
}

// Enabled reports whether at least one non-empty broker address is configured.
func (c Config) Enabled() bool {
	for _, b := range c.Brokers {
		if b != "" {
			return true
		}
	}
	return false
}
