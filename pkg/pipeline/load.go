package pipeline

import (
	"github.com/matzehuels/tickplot/pkg/chartspec"
)

// Load decodes the chart, applies the size overrides from opts and
// validates the result.
func Load(opts Options) (*chartspec.Chart, error) {
	c, err := chartspec.DecodeBytes(opts.Chart)
	if err != nil {
		return nil, err
	}
	if opts.Width > 0 {
		c.Width = opts.Width
	}
	if opts.Height > 0 {
		c.Height = opts.Height
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
