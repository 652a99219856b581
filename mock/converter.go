package mock

import "github.com/fwojciec/jobtext"

var _ jobtext.Converter = (*Converter)(nil)

// Converter is a mock implementation of jobtext.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
