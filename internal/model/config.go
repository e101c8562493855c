package model

// Config represents the application configuration stored in .effortcalc.yml
type Config struct {
	DefaultTechnology  Technology     `yaml:"defaultTechnology" mapstructure:"defaultTechnology" json:"defaultTechnology"`
	DefaultProjectType ProjectType    `yaml:"defaultProjectType" mapstructure:"defaultProjectType" json:"defaultProjectType"`
	PhaseBreakdown     PhaseBreakdown `yaml:"phaseBreakdown" mapstructure:"phaseBreakdown" json:"phaseBreakdown"`
	TimeUnit           TimeUnit       `yaml:"timeUnit" mapstructure:"timeUnit" json:"timeUnit"`
	RoundUpEstimations bool           `yaml:"roundUpEstimations" mapstructure:"roundUpEstimations" json:"roundUpEstimations"`
	Logging            LoggingConfig  `yaml:"logging" mapstructure:"logging" json:"logging"`
}

// TimeUnit represents the time unit configuration
type TimeUnit struct {
	Label   string `yaml:"label" mapstructure:"label" json:"label"`
	Acronym string `yaml:"acronym" mapstructure:"acronym" json:"acronym"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level" json:"level"`
	Format string `yaml:"format" mapstructure:"format" json:"format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultTechnology:  DefaultTechnology,
		DefaultProjectType: DefaultProjectType,
		PhaseBreakdown:     DefaultPhaseBreakdown(),
		TimeUnit: TimeUnit{
			Label:   "hour",
			Acronym: "h",
		},
		RoundUpEstimations: false,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// GetPhaseBreakdown returns the configured breakdown, or the default one when none is set
func (c *Config) GetPhaseBreakdown() PhaseBreakdown {
	if len(c.PhaseBreakdown) == 0 {
		return DefaultPhaseBreakdown()
	}
	return c.PhaseBreakdown.Clone()
}

// NewEstimationState starts a new estimation with the configured phase breakdown
func (c *Config) NewEstimationState(projectType ProjectType, technology Technology) (*EstimationState, error) {
	if projectType == "" {
		projectType = c.DefaultProjectType
	}
	if technology == "" {
		technology = c.DefaultTechnology
	}

	state, err := NewEstimationState(projectType, technology)
	if err != nil {
		return nil, err
	}
	state.Breakdown = c.GetPhaseBreakdown()

	return state, nil
}
