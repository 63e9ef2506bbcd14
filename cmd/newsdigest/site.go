package main

import (
	"fmt"

	"github.com/fwojciec/newsdigest"
	"github.com/fwojciec/newsdigest/yaml"
)

// Run executes the site command. The output is a starting point for a
// custom --site profile.
func (c *SiteCmd) Run(deps *Dependencies) error {
	site, err := loadSite(c.Path, 0)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsdigest.ErrorMessage(err))
		return err
	}

	data, err := yaml.MarshalSite(site)
	if err != nil {
		return fmt.Errorf("encode site profile: %w", err)
	}
	_, err = deps.Stdout.Write(data)
	return err
}
