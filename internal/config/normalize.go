package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRemote()
	if c.Autosave.DebounceMS == 0 {
		c.Autosave.DebounceMS = defaultDebounceMS
	}
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&c.Workspace.Dir, envWorkspaceDir)
	set(&c.Remote.BaseURL, envRemoteURL)
	set(&c.Remote.Token, envToken)
	set(&c.Remote.ProjectID, envProject)
	set(&c.Logging.Level, envLogLevel)
	set(&c.Server.DataDir, envServerDataDir)
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Workspace.Dir, err = expandPath(strings.TrimSpace(c.Workspace.Dir)); err != nil {
		return fmt.Errorf("workspace.dir: %w", err)
	}
	if c.Server.DataDir, err = expandPath(strings.TrimSpace(c.Server.DataDir)); err != nil {
		return fmt.Errorf("server.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRemote() {
	c.Remote.BaseURL = strings.TrimRight(strings.TrimSpace(c.Remote.BaseURL), "/")
	c.Remote.Token = strings.TrimSpace(c.Remote.Token)
	c.Remote.ProjectID = strings.TrimSpace(c.Remote.ProjectID)
	if c.Remote.TimeoutSeconds == 0 {
		c.Remote.TimeoutSeconds = defaultRemoteTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
