package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/extract"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	urls, err := c.readURLs(deps.Stdin)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	if len(urls) == 0 {
		return jobtext.Errorf(jobtext.EINVALID, "no URLs in %s", c.File)
	}

	b := &extract.Batch{
		Extractor:   deps.Extractor,
		Limiter:     deps.Limiter,
		Concurrency: c.Concurrency,
	}
	progress := func(event extract.BatchEvent) {
		u := extract.TruncateURL(event.URL, 60)
		if event.Err != nil {
			fmt.Fprintf(deps.Stderr, "  [%d/%d] skip %s: %s\n", event.Completed, event.Total, u, jobtext.ErrorMessage(event.Err))
			return
		}
		fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, extract.Summary(event.Outcome, 0))
	}

	result, err := b.Run(deps.Ctx, urls, progress)
	if result != nil {
		fmt.Fprintf(deps.Stdout, "Extracted %d postings (%d failed, %d duplicates, %d chars)\n",
			result.Extracted, result.Failed, result.Duplicates, result.Chars)
	}
	return err
}

// readURLs reads one URL per line from File, or from stdin when File is
// "-". Blank lines and lines starting with # are skipped.
func (c *BatchCmd) readURLs(stdin io.Reader) ([]string, error) {
	r := stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", c.File, err)
		}
		defer f.Close()
		r = f
	}

	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.File, err)
	}
	return urls, nil
}
