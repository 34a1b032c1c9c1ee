package domain

import "time"

// SystemConfig is the singleton configuration row (config_id is always 1).
type SystemConfig struct {
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	EvaluationStart      *time.Time `json:"evaluation_start,omitempty"`
	EvaluationEnd        *time.Time `json:"evaluation_end,omitempty"`
	PublicResults        bool       `json:"public_results"`
	PassThresholdPercent float64    `json:"pass_threshold_percent"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
