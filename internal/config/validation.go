package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
)

// Validate checks the configuration after defaults have been applied.
func Validate(cfg *Config) error {
	var problems []string

	if len(cfg.Site.Command) == 0 || strings.TrimSpace(cfg.Site.Command[0]) == "" {
		problems = append(problems, "site.command must name an executable")
	}
	if strings.ContainsAny(cfg.Site.Marker, `/\`) {
		problems = append(problems, "site.marker must be a file name, not a path")
	}
	for i, target := range cfg.Publish.Targets {
		if strings.TrimSpace(target) == "" {
			problems = append(problems, fmt.Sprintf("publish.targets[%d] is empty", i))
		}
	}
	if !strings.HasSuffix(cfg.Reconcile.Namespace, "/") {
		problems = append(problems, "reconcile.namespace must end with '/'")
	}
	for name, version := range cfg.Reconcile.Pins {
		if strings.TrimSpace(version) == "" {
			problems = append(problems, fmt.Sprintf("reconcile.pins[%s] has no version", name))
		}
	}

	if len(problems) > 0 {
		return errors.ConfigError("invalid configuration").
			WithContext("problems", strings.Join(problems, "; ")).
			Build()
	}
	return nil
}
