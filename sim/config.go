package sim

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config groups the parameters of one run. Every duration is the upper
// bound of a uniformly sampled delay; zero disables that delay.
type Config struct {
	ApplicantCount       int           // number of Applicants (must be > 0)
	SpawnInterval        time.Duration // pause between consecutive Applicant arrivals
	OfficialWait         time.Duration // Official's pause before entering and before leaving
	CertificateRetrieval time.Duration // time an Applicant holds the lock to collect a certificate
	Decision             time.Duration // Official's pause before starting a review
	Seed                 int64         // master seed for every delay
	RunID                string        // identifies the run in sinks; generated when empty
}

// Validate checks counts and delay bounds.
func (c Config) Validate() error {
	if c.ApplicantCount < 1 {
		return fmt.Errorf("%w: applicant count must be > 0, got %d", ErrInvalidConfig, c.ApplicantCount)
	}
	bounds := []struct {
		name  string
		value time.Duration
	}{
		{"applicant spawn interval", c.SpawnInterval},
		{"official wait time", c.OfficialWait},
		{"certificate retrieval time", c.CertificateRetrieval},
		{"decision time", c.Decision},
	}
	for _, b := range bounds {
		if b.value < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidConfig, b.name, b.value)
		}
	}
	return nil
}
