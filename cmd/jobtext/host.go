package main

import (
	"errors"
	"io"

	"github.com/fwojciec/jobtext/nativemsg"
)

// Run executes the host command. It answers one message per invocation,
// which is how browsers start native messaging hosts.
func (c *HostCmd) Run(deps *Dependencies) error {
	h := &nativemsg.Host{
		Sink:      deps.Sink,
		Postings:  deps.Postings,
		Analyzers: deps.Analyzers,
		Settings:  deps.Settings,
		Logger:    deps.Logger,
	}
	err := h.Serve(deps.Ctx, deps.Stdin, deps.Stdout)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
