package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/jobtext"
)

// Run executes the classify command.
func (c *ClassifyCmd) Run(deps *Dependencies) error {
	if c.List {
		for _, kind := range deps.Dispatcher.List() {
			fmt.Fprintln(deps.Stdout, kind)
		}
		return nil
	}
	if c.URL == "" {
		return jobtext.Errorf(jobtext.EINVALID, "URL required")
	}

	id := jobtext.Classify(c.URL, c.Frames...)
	plan := deps.Dispatcher.Plan(id)

	fmt.Fprintf(deps.Stdout, "site:       %s\n", id)
	if len(plan.Direct) > 0 {
		fmt.Fprintf(deps.Stdout, "direct:     %s\n", strategyNames(plan.Direct))
	}
	fmt.Fprintf(deps.Stdout, "strategies: %s\n", strategyNames(plan.PerContext))
	fmt.Fprintf(deps.Stdout, "rules:      %s (%d)\n", plan.Rules.Name, len(plan.Rules.Rules))
	if id.Kind == jobtext.SiteEmbeddedGreenhouse && !id.Resolved() {
		fmt.Fprintln(deps.Stdout, "note:       board token is resolved from the page's frames")
	}
	return nil
}

func strategyNames(strategies []jobtext.Strategy) string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name()
	}
	return strings.Join(names, ", ")
}
