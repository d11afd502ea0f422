package config

// Limits holds the size and count caps applied to temporal marker documents.
type Limits struct {
	MaxTextLength        int
	MaxTextEvents        int
	MaxGestureEvents     int
	MaxObjectAppearances int
	MaxCTAEvents         int
	MaxGestureSync       int
	MaxObjectFocus       int

	// Serialized size targets in bytes. Soft is the reduction target, Hard
	// leaves headroom under the 200KB API payload limit.
	SoftLimitBytes int
	HardLimitBytes int
}

// Config holds the full application configuration.
type Config struct {
	Limits

	ExtractionFPS      float64
	MaxConcurrent      int
	MaxRetries         int
	APIRateLimitPerMin int
}

// Default returns a Config with hardcoded defaults matching the production
// analyzer pipeline.
func Default() *Config {
	return &Config{
		Limits: Limits{
			MaxTextLength:        50,
			MaxTextEvents:        10,
			MaxGestureEvents:     8,
			MaxObjectAppearances: 5,
			MaxCTAEvents:         8,
			MaxGestureSync:       5,
			MaxObjectFocus:       5,
			SoftLimitBytes:       50 * 1024,
			HardLimitBytes:       180 * 1024,
		},
		ExtractionFPS:      2.0,
		MaxConcurrent:      3,
		MaxRetries:         3,
		APIRateLimitPerMin: 30,
	}
}
