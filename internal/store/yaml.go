package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bornholm/effortcalc/internal/document"
	"github.com/bornholm/effortcalc/internal/model"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the default config file name
	DefaultConfigFile = ".effortcalc.yml"
	// DocumentExtension is the extension of estimation documents
	DocumentExtension = ".estimate.json"
	// EnvPrefix prefixes the environment variables overriding the configuration
	EnvPrefix = "EFFORTCALC"
)

// YAMLStore handles reading and writing the configuration file and estimation documents
type YAMLStore struct {
	configFile string
}

// NewYAMLStore creates a new YAML store with the given config file path
func NewYAMLStore(configFile string) *YAMLStore {
	return &YAMLStore{
		configFile: configFile,
	}
}

// LoadConfig loads the configuration from the config file.
// If no specific config file is set, it searches for the config file
// starting from the current directory and traversing up to parent directories.
// Environment variables prefixed with EFFORTCALC_ override file values.
func (s *YAMLStore) LoadConfig() (*model.Config, error) {
	configPath := s.configFile
	if configPath == "" {
		found, err := findConfigFile(DefaultConfigFile)
		if err != nil {
			return nil, err
		}
		configPath = found
	}

	return loadConfig(configPath)
}

// findConfigFile searches for the config file starting from the current directory
// and traversing up to parent directories until it finds the file or reaches the root
func findConfigFile(filename string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func loadConfig(configPath string) (*model.Config, error) {
	v := viper.New()
	setDefaults(v, model.DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &model.Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if err := normalizeConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper, defaults *model.Config) {
	v.SetDefault("defaultTechnology", string(defaults.DefaultTechnology))
	v.SetDefault("defaultProjectType", string(defaults.DefaultProjectType))
	for phase, percent := range defaults.PhaseBreakdown {
		v.SetDefault("phaseBreakdown."+string(phase), percent)
	}
	v.SetDefault("timeUnit.label", defaults.TimeUnit.Label)
	v.SetDefault("timeUnit.acronym", defaults.TimeUnit.Acronym)
	v.SetDefault("roundUpEstimations", defaults.RoundUpEstimations)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
}

// normalizeConfig restores the canonical spelling of values viper lower-cased
func normalizeConfig(config *model.Config) error {
	technology, err := model.ParseTechnology(string(config.DefaultTechnology))
	if err != nil {
		return err
	}
	config.DefaultTechnology = technology

	projectType, err := model.ParseProjectType(string(config.DefaultProjectType))
	if err != nil {
		return err
	}
	config.DefaultProjectType = projectType

	breakdown := make(model.PhaseBreakdown, len(config.PhaseBreakdown))
	for name, percent := range config.PhaseBreakdown {
		phase, err := model.ParsePhase(string(name))
		if err != nil {
			return err
		}
		if err := breakdown.Set(phase, percent); err != nil {
			return err
		}
	}
	config.PhaseBreakdown = breakdown

	return nil
}

// SaveConfig saves the configuration to the config file
func (s *YAMLStore) SaveConfig(config *model.Config) error {
	configPath := s.configFile
	if configPath == "" {
		configPath = DefaultConfigFile
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// ReadDocument returns the raw content of a document file
func (s *YAMLStore) ReadDocument(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadState reads the document at path and merges it onto base.
// base is not modified.
func (s *YAMLStore) LoadState(path string, base *model.EstimationState) (*model.EstimationState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	state, err := document.Deserialize(data, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	state.Recompute()

	return state, nil
}

// SaveState writes the state document to path. The file is replaced atomically.
func (s *YAMLStore) SaveState(path string, state *model.EstimationState) error {
	data, err := document.Serialize(state)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}

// ListDocuments lists all estimation documents in a directory
func (s *YAMLStore) ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), DocumentExtension) {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}

// Store interface for dependency injection
type Store interface {
	LoadConfig() (*model.Config, error)
	SaveConfig(config *model.Config) error
	ReadDocument(path string) ([]byte, error)
	LoadState(path string, base *model.EstimationState) (*model.EstimationState, error)
	SaveState(path string, state *model.EstimationState) error
	ListDocuments(dir string) ([]string, error)
}

// Ensure YAMLStore implements Store interface
var _ Store = (*YAMLStore)(nil)
