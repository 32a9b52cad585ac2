package cache

import "fmt"

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// ChartKey identifies chart content.
	ChartKey(chart []byte) string
	// LayoutKey identifies the resolved layout of a chart.
	LayoutKey(chartHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the chart that change the layout.
type LayoutKeyOpts struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	FontSize float64 `json:"font_size"`
	Font     string  `json:"font"`
}

// ArtifactKeyOpts are the inputs that change a rendered output.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale"`
	EmbedFonts bool    `json:"embed_fonts"`
}

// DefaultKeyer hashes key inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ChartKey returns "chart:" followed by the content hash.
func (DefaultKeyer) ChartKey(chart []byte) string {
	return fmt.Sprintf("chart:%s", Hash(chart))
}

// LayoutKey hashes the chart hash with the layout options.
func (DefaultKeyer) LayoutKey(chartHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", chartHash, opts)
}

// ArtifactKey hashes the layout hash with the artifact options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
