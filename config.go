package factgrid

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is the file form of the engine options.
type Config struct {
	LabelSeparator    string         `mapstructure:"label_separator"`
	TitleSeparator    string         `mapstructure:"title_separator"`
	PreferredCurrency string         `mapstructure:"preferred_currency"`
	DefaultMembers    []MemberConfig `mapstructure:"default_members"`
	AdjustmentLookup  string         `mapstructure:"adjustment_lookup"`
}

// MemberConfig declares an axis's default member. Default members are a
// list rather than a map because viper lowercases map keys.
type MemberConfig struct {
	Axis   string `mapstructure:"axis"`
	Member string `mapstructure:"member"`
	Label  string `mapstructure:"label"`
}

// LoadConfig reads a YAML, TOML or JSON config file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("label_separator", " | ")
	v.SetDefault("title_separator", " - ")
	v.SetDefault("preferred_currency", preferredCurrency)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse factgrid config: %w", err)
	}
	return &cfg, nil
}

// Options turns the config into engine options. The adjustment lookup file,
// when named, is loaded here; a missing or malformed file is an
// *IncompleteEquityError of kind MissingLookup.
func (c *Config) Options() ([]Option, error) {
	opts := []Option{
		WithLabelSeparator(c.LabelSeparator),
		WithTitleSeparator(c.TitleSeparator),
		WithPreferredCurrency(c.PreferredCurrency),
	}
	for _, m := range c.DefaultMembers {
		opts = append(opts, WithDefaultMember(m.Axis, m.Member, m.Label))
	}
	if c.AdjustmentLookup != "" {
		f, err := os.Open(c.AdjustmentLookup)
		if err != nil {
			return nil, &IncompleteEquityError{Kind: MissingLookup, Err: err}
		}
		defer f.Close()
		l, err := LoadAdjustmentLookup(f)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithAdjustmentLookup(l))
	}
	return opts, nil
}
