package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSource()
	c.normalizeQuiz()
	c.normalizeRender()
	if c.Viewer.IdleTimeoutMinutes <= 0 {
		c.Viewer.IdleTimeoutMinutes = defaultViewerIdleMinutes
	}
	if c.Cache.IndexTTLSeconds < 0 {
		c.Cache.IndexTTLSeconds = 0
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(envDataDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.IndexFile = strings.TrimLeft(strings.TrimSpace(c.Paths.IndexFile), "/")
	if c.Paths.IndexFile == "" {
		c.Paths.IndexFile = defaultIndexFile
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv(envAPIToken); ok {
			c.Paths.APIToken = value
		}
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeSource() {
	if value, ok := os.LookupEnv(envSourceURL); ok && strings.TrimSpace(value) != "" {
		c.Source.BaseURL = value
		c.Source.Kind = SourceHTTP
	}
	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	if c.Source.Kind == "" {
		c.Source.Kind = SourceDir
	}
	c.Source.BaseURL = strings.TrimRight(strings.TrimSpace(c.Source.BaseURL), "/")
	if c.Source.TimeoutSeconds <= 0 {
		c.Source.TimeoutSeconds = defaultSourceTimeout
	}
}

func (c *Config) normalizeQuiz() {
	c.Quiz.StorageKey = strings.TrimSpace(c.Quiz.StorageKey)
	if c.Quiz.StorageKey == "" {
		c.Quiz.StorageKey = defaultQuizStorageKey
	}
	if c.Quiz.DefaultHidden == nil {
		c.Quiz.DefaultHidden = append([]string(nil), DefaultQuizCategories...)
		return
	}
	hidden := make([]string, 0, len(c.Quiz.DefaultHidden))
	seen := make(map[string]struct{}, len(c.Quiz.DefaultHidden))
	for _, category := range c.Quiz.DefaultHidden {
		normalized := strings.ToLower(strings.TrimSpace(category))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		hidden = append(hidden, normalized)
	}
	c.Quiz.DefaultHidden = hidden
}

func (c *Config) normalizeRender() {
	c.Render.Command = strings.TrimSpace(c.Render.Command)
	if c.Render.Width <= 0 {
		c.Render.Width = defaultRenderWidth
	}
	if c.Render.Height <= 0 {
		c.Render.Height = defaultRenderHeight
	}
	c.Render.Theme = strings.ToLower(strings.TrimSpace(c.Render.Theme))
	if c.Render.Theme == "" {
		c.Render.Theme = defaultRenderTheme
	}
	if c.Render.TimeoutSeconds <= 0 {
		c.Render.TimeoutSeconds = defaultRenderTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
