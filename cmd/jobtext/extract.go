package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/extract"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	out, err := deps.Extractor.Extract(deps.Ctx, extract.Request{URL: c.URL, TabID: "cli"})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobtext.ErrorMessage(err))
		return err
	}

	// Text goes to stdout, so status lines move to stderr.
	status := deps.Stdout
	if c.Print || !c.Set() {
		fmt.Fprintln(deps.Stdout, out.Result.Text)
		status = deps.Stderr
	}

	tokens := 0
	if deps.Tokens != nil {
		tokens, err = deps.Tokens.CountTokens(deps.Ctx, out.Result.Text)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "warning: counting tokens: %v\n", err)
		}
	}
	fmt.Fprintln(status, extract.Summary(out, tokens))
	if deps.Tokens != nil && c.Analyze {
		prompt, err := deps.Tokens.PromptTokens(deps.Ctx, out.Result.Text, out.Result.SourceURL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "warning: counting prompt tokens: %v\n", err)
		} else {
			fmt.Fprintf(status, "  Prompt %s\n", extract.FormatTokens(prompt))
		}
	}
	printAck(status, out.Ack)
	return nil
}

func printAck(w io.Writer, ack *jobtext.Ack) {
	if ack == nil {
		return
	}
	saved := ack.Filename
	if saved == "" {
		saved = ack.ID
	}
	fmt.Fprintf(w, "  Saved %s\n", saved)
	if ack.JSONFile != "" {
		fmt.Fprintf(w, "  Analysis %s\n", ack.JSONFile)
	}
}
