package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var validQuizCategories = map[string]struct{}{
	"reactant":   {},
	"name":       {},
	"conditions": {},
	"product":    {},
	"notes":      {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateQuiz(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSource() error {
	switch c.Source.Kind {
	case SourceDir:
		if strings.TrimSpace(c.Paths.DataDir) == "" {
			return errors.New("paths.data_dir must be set when source.kind is \"dir\"")
		}
	case SourceHTTP:
		if c.Source.BaseURL == "" {
			return fmt.Errorf("source.base_url is required when source.kind is \"http\" (or export %s)", envSourceURL)
		}
		parsed, err := url.Parse(c.Source.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("source.base_url %q must be an absolute http(s) URL", c.Source.BaseURL)
		}
	default:
		return fmt.Errorf("source.kind: unsupported value %q (want %q or %q)", c.Source.Kind, SourceDir, SourceHTTP)
	}
	return nil
}

func (c *Config) validateQuiz() error {
	for _, category := range c.Quiz.DefaultHidden {
		if _, ok := validQuizCategories[category]; !ok {
			return fmt.Errorf("quiz.default_hidden: unknown category %q", category)
		}
	}
	return nil
}

func (c *Config) validateRender() error {
	switch c.Render.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("render.theme: unsupported value %q", c.Render.Theme)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
