package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// CheckConfigValidity reports every problem in v at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	if strings.TrimSpace(v.GetString("http_addr")) == "" {
		add("http_addr is required")
	}

	raw := strings.TrimSpace(v.GetString("backend.url"))
	if raw == "" {
		add("backend.url is required")
	} else if u, err := url.Parse(raw); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("backend.url must be an http(s) url, got %q", raw)
	}
	switch v.GetString("backend.api_version") {
	case "v1", "v2":
	default:
		add("backend.api_version must be v1 or v2")
	}
	if v.GetInt("backend.timeout_seconds") <= 0 {
		add("backend.timeout_seconds must be greater than 0")
	}

	switch strings.ToLower(v.GetString("render.engine")) {
	case "staged", "markdown":
	default:
		add("render.engine must be staged or markdown")
	}
	if v.GetInt("render.width") < 20 {
		add("render.width must be at least 20")
	}

	if v.GetInt("session.idle_minutes") <= 0 {
		add("session.idle_minutes must be greater than 0")
	}
	if v.GetInt("drafts.page_size") <= 0 {
		add("drafts.page_size must be greater than 0")
	}

	switch strings.ToLower(v.GetString("log.level")) {
	case "debug", "info", "warn", "error":
	default:
		add("log.level must be one of debug|info|warn|error")
	}
	switch strings.ToLower(v.GetString("log.format")) {
	case "console", "json":
	default:
		add("log.format must be console or json")
	}

	return errors.Join(errs...)
}
