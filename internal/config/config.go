package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"driver_checklist_app/internal/checklist"
	"driver_checklist_app/internal/utils"
)

// QuestionTemplate seeds the question_templates collection.
type QuestionTemplate struct {
	Key      string `toml:"key"`
	Title    string `toml:"title"`
	Type     string `toml:"type"` // VEHICLE, RATION_MVP, FREE_TEXT
	Required bool   `toml:"required"`
}

type QuestionnaireConfig struct {
	RestrictedRole string `toml:"restricted_role"`
	DefaultLocale  string `toml:"default_locale"`
}

type FleetConfig struct {
	Webhook      string        `toml:"webhook"`
	SyncInterval time.Duration `toml:"sync_interval"`
}

type LogConfig struct {
	Development bool `toml:"development"`
}

type AppConfig struct {
	Questionnaire     QuestionnaireConfig `toml:"questionnaire"`
	Fleet             FleetConfig         `toml:"fleet"`
	Log               LogConfig           `toml:"log"`
	QuestionTemplates []QuestionTemplate  `toml:"question_templates"`
}

// Default is the configuration used when no config file is found.
func Default() AppConfig {
	return AppConfig{
		Questionnaire: QuestionnaireConfig{
			RestrictedRole: string(checklist.RoleMechanic),
			DefaultLocale:  "lt",
		},
		Fleet: FleetConfig{SyncInterval: 5 * time.Minute},
	}
}

// FindConfigFile looks for config.toml next to the binary's usual working
// directories.
func FindConfigFile() (string, error) {
	paths := []string{"config.toml", "../config.toml", "../../config.toml"}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", os.ErrNotExist
}

// Load decodes path over the defaults and validates the result.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, cfg.normalize()
}

// LoadDefault loads the first config file found, or the defaults when there is
// none.
func LoadDefault() (AppConfig, string, error) {
	path, err := FindConfigFile()
	if errors.Is(err, os.ErrNotExist) {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

func (c *AppConfig) normalize() error {
	c.Questionnaire.RestrictedRole = utils.NormalizeKey(c.Questionnaire.RestrictedRole)
	if c.Questionnaire.RestrictedRole == "" {
		c.Questionnaire.RestrictedRole = string(checklist.RoleMechanic)
	}
	if !checklist.HasRole(checklist.Roles, checklist.Role(c.Questionnaire.RestrictedRole)) {
		return fmt.Errorf("questionnaire.restricted_role: unknown role %q", c.Questionnaire.RestrictedRole)
	}
	c.Questionnaire.DefaultLocale = strings.ToLower(strings.TrimSpace(c.Questionnaire.DefaultLocale))
	if c.Questionnaire.DefaultLocale == "" {
		c.Questionnaire.DefaultLocale = "lt"
	}
	c.Fleet.Webhook = strings.TrimSpace(c.Fleet.Webhook)
	if c.Fleet.SyncInterval <= 0 {
		c.Fleet.SyncInterval = 5 * time.Minute
	}

	seen := map[string]bool{}
	for i := range c.QuestionTemplates {
		t := &c.QuestionTemplates[i]
		t.Key = strings.TrimSpace(t.Key)
		t.Type = utils.NormalizeKey(t.Type)
		if t.Key == "" {
			return fmt.Errorf("question_templates[%d]: key is required", i)
		}
		if seen[t.Key] {
			return fmt.Errorf("question_templates[%d]: duplicate key %q", i, t.Key)
		}
		seen[t.Key] = true
		if !checklist.QuestionType(t.Type).IsKnown() {
			return fmt.Errorf("question_templates[%d]: unknown type %q", i, t.Type)
		}
	}
	return nil
}

// RestrictedRole is the role whose holders may only view checklists.
func (c AppConfig) RestrictedRole() checklist.Role {
	return checklist.Role(c.Questionnaire.RestrictedRole)
}
