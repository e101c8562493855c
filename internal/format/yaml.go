package format

import (
	"github.com/bornholm/effortcalc/internal/model"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats estimations as YAML with calculated values
type YAMLFormatter struct {
	config *model.Config
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(config *model.Config) *YAMLFormatter {
	return &YAMLFormatter{config: config}
}

// Format formats an estimation as YAML
func (f *YAMLFormatter) Format(state *model.EstimationState) (string, error) {
	// Same output structure as the JSON formatter
	output := NewJSONFormatter(f.config).BuildOutput(state)

	data, err := yaml.Marshal(output)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
