package reference

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/patient-insight-engine/internal/domain"
)

// rangeFile is the YAML shape for a range table override.
type rangeFile struct {
	Specs   []domain.RangeSpec `mapstructure:"specs"`
	Aliases map[string]string  `mapstructure:"aliases"`
}

// rulesetFile is the YAML shape for a ruleset override.
type rulesetFile struct {
	Rulesets []domain.RulesetSpec `mapstructure:"rulesets"`
}

// LoadTable returns the range table for the given configuration: the file at
// path when set, otherwise the compiled-in default panel. Either way the
// partition invariant is enforced before the table is handed out.
func LoadTable(logger *logrus.Logger, cfg *domain.ReferenceConfig) (*Table, error) {
	if cfg == nil || cfg.RangeTablePath == "" {
		table := DefaultTable()
		logger.WithField("biomarkers", table.Len()).Debug("Loaded built-in range table")
		return table, nil
	}

	v := viper.New()
	v.SetConfigFile(cfg.RangeTablePath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read range table %s: %w", cfg.RangeTablePath, err)
	}

	var file rangeFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse range table %s: %w", cfg.RangeTablePath, err)
	}

	table, err := NewTable(file.Specs, file.Aliases)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"path":       cfg.RangeTablePath,
		"biomarkers": table.Len(),
	}).Info("Loaded range table override")
	return table, nil
}

// LoadRulesets returns the ruleset configuration for the given
// configuration: the file at path when set, otherwise the built-in nine
// focus areas.
func LoadRulesets(logger *logrus.Logger, cfg *domain.ReferenceConfig) ([]domain.RulesetSpec, error) {
	if cfg == nil || cfg.RulesetsPath == "" {
		specs := DefaultRulesets()
		logger.WithField("rulesets", len(specs)).Debug("Loaded built-in rulesets")
		return specs, nil
	}

	v := viper.New()
	v.SetConfigFile(cfg.RulesetsPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read rulesets %s: %w", cfg.RulesetsPath, err)
	}

	var file rulesetFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse rulesets %s: %w", cfg.RulesetsPath, err)
	}

	if err := ValidateRulesets(file.Rulesets); err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"path":     cfg.RulesetsPath,
		"rulesets": len(file.Rulesets),
	}).Info("Loaded ruleset override")
	return file.Rulesets, nil
}
