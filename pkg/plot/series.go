package plot

import (
	"image"
	"image/color"
	"iter"
	"math"
	"slices"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/tickplot/pkg/axis"
	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/layer"
	"github.com/matzehuels/tickplot/pkg/numrange"
	"github.com/matzehuels/tickplot/pkg/observability"
	"github.com/matzehuels/tickplot/pkg/paint"
)

// SignDomain restricts range queries for logarithmic axes.
type SignDomain int

const (
	SignBoth SignDomain = iota
	SignNegative
	SignPositive
)

// Point is a single key/value sample.
type Point struct {
	Key   float64 `json:"key"`
	Value float64 `json:"value"`
}

// Series is a line plottable: samples sorted by key, connected in key order
// and mapped through a key axis and an orthogonal value axis. NaN values
// break the line.
type Series struct {
	layer.Base

	name        string
	key, value  *axis.Axis
	data        []Point
	pen         paint.Pen
	scatterSize float64
}

// AddSeries creates a series on the current layer of the plot. The axes
// must belong to the plot and be orthogonal.
func (p *Plot) AddSeries(name string, key, value *axis.Axis) (*Series, error) {
	if key == nil || value == nil {
		return nil, observability.Report(component, errors.New(errors.ErrCodeInvalidInput, "series %q needs a key and a value axis", name))
	}
	if key.Orientation() == value.Orientation() {
		return nil, observability.Report(component, errors.New(errors.ErrCodeInvalidInput, "key and value axis of series %q are parallel", name))
	}
	if key.Stack() != p.stack || value.Stack() != p.stack {
		return nil, observability.Report(component, errors.New(errors.ErrCodeForeignOwner, "axes of series %q belong to another plot", name))
	}
	s := &Series{
		name:  name,
		key:   key,
		value: value,
		pen:   paint.SolidPen(p.nextColor(), 1),
	}
	if err := s.Init(s, p.stack, ""); err != nil {
		return nil, err
	}
	s.SetParentLayerable(key.AxisRect())
	p.series = append(p.series, s)
	return s, nil
}

// RemoveSeries detaches s from the plot.
func (p *Plot) RemoveSeries(s *Series) error {
	i := slices.Index(p.series, s)
	if i < 0 {
		return observability.Report(component, errors.New(errors.ErrCodeNotFound, "series is not part of this plot"))
	}
	p.series = slices.Delete(p.series, i, i+1)
	s.Detach()
	return nil
}

// Series returns the plottables in creation order.
func (p *Plot) Series() []*Series { return slices.Clone(p.series) }

// nextColor walks a fixed-lightness hue wheel so consecutive series stay
// distinguishable.
func (p *Plot) nextColor() color.Color {
	hue := math.Mod(float64(len(p.series))*137.508+210, 360)
	return colorful.Hcl(hue, 0.6, 0.5).Clamped()
}

// Name returns the series name.
func (s *Series) Name() string { return s.name }

// KeyAxis returns the axis keys are mapped through.
func (s *Series) KeyAxis() *axis.Axis { return s.key }

// ValueAxis returns the axis values are mapped through.
func (s *Series) ValueAxis() *axis.Axis { return s.value }

// Pen returns the line pen.
func (s *Series) Pen() paint.Pen { return s.pen }

// SetPen sets the line pen; paint.NoPen hides the line.
func (s *Series) SetPen(p paint.Pen) { s.pen = p }

// SetScatterSize draws a circle of the given diameter at every sample; 0
// disables markers.
func (s *Series) SetScatterSize(px float64) { s.scatterSize = max(px, 0) }

// SetData replaces the samples. keys and values must have equal length.
func (s *Series) SetData(keys, values []float64) error {
	if len(keys) != len(values) {
		return observability.Report(component, errors.New(errors.ErrCodeInvalidInput,
			"series %q: %d keys but %d values", s.name, len(keys), len(values)))
	}
	s.data = make([]Point, len(keys))
	for i := range keys {
		s.data[i] = Point{Key: keys[i], Value: values[i]}
	}
	sort.SliceStable(s.data, func(i, j int) bool { return s.data[i].Key < s.data[j].Key })
	return nil
}

// AddData inserts one sample, keeping key order.
func (s *Series) AddData(key, value float64) {
	i := sort.Search(len(s.data), func(i int) bool { return s.data[i].Key > key })
	s.data = slices.Insert(s.data, i, Point{Key: key, Value: value})
}

// Data returns a copy of the samples in key order.
func (s *Series) Data() []Point { return slices.Clone(s.data) }

// Len returns the number of samples.
func (s *Series) Len() int { return len(s.data) }

func inDomain(v float64, d SignDomain) bool {
	switch d {
	case SignNegative:
		return v < 0
	case SignPositive:
		return v > 0
	}
	return true
}

func spanOf(vals iter.Seq[float64], d SignDomain) (numrange.Range, bool) {
	r, found := numrange.Range{}, false
	for v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || !inDomain(v, d) {
			continue
		}
		if !found {
			r, found = numrange.Range{Lower: v, Upper: v}, true
			continue
		}
		r.Lower, r.Upper = min(r.Lower, v), max(r.Upper, v)
	}
	return r, found
}

// KeyRange returns the span of keys within d; found is false without
// matching samples.
func (s *Series) KeyRange(d SignDomain) (r numrange.Range, found bool) {
	return spanOf(func(yield func(float64) bool) {
		for _, p := range s.data {
			if !math.IsNaN(p.Value) && !yield(p.Key) {
				return
			}
		}
	}, d)
}

// ValueRange returns the span of values within d.
func (s *Series) ValueRange(d SignDomain) (r numrange.Range, found bool) {
	return spanOf(func(yield func(float64) bool) {
		for _, p := range s.data {
			if !yield(p.Value) {
				return
			}
		}
	}, d)
}

// RescaleAxes fits both axes to the data. With onlyEnlarge the current
// ranges are only ever widened.
func (s *Series) RescaleAxes(onlyEnlarge bool) {
	s.RescaleKeyAxis(onlyEnlarge)
	s.RescaleValueAxis(onlyEnlarge)
}

// RescaleKeyAxis fits the key axis to the data.
func (s *Series) RescaleKeyAxis(onlyEnlarge bool) {
	r, found := s.KeyRange(domainFor(s.key))
	rescale(s.key, r, found, onlyEnlarge)
}

// RescaleValueAxis fits the value axis to the data.
func (s *Series) RescaleValueAxis(onlyEnlarge bool) {
	r, found := s.ValueRange(domainFor(s.value))
	rescale(s.value, r, found, onlyEnlarge)
}

func domainFor(a *axis.Axis) SignDomain {
	if a.ScaleType() != axis.Logarithmic {
		return SignBoth
	}
	if a.Range().Upper < 0 {
		return SignNegative
	}
	return SignPositive
}

// rescale applies r to a. Data that collapses to a single coordinate keeps
// the current range size, centered on it.
func rescale(a *axis.Axis, r numrange.Range, found, onlyEnlarge bool) {
	if !found {
		return
	}
	cur := a.Range()
	if onlyEnlarge {
		r.Expand(cur)
	}
	if !r.Valid() {
		center := r.Center()
		if a.ScaleType() == axis.Linear {
			r = numrange.Range{Lower: center - cur.Size()/2, Upper: center + cur.Size()/2}
		} else {
			f := math.Sqrt(cur.Upper / cur.Lower)
			r = numrange.Range{Lower: center / f, Upper: center * f}
		}
	}
	_ = a.SetRange(r)
}

// RescaleAxes fits every axis to the series using it. The first series on
// an axis sets its range, later ones only enlarge it.
func (p *Plot) RescaleAxes() {
	seen := make(map[*axis.Axis]bool)
	for _, s := range p.series {
		s.RescaleKeyAxis(seen[s.key])
		s.RescaleValueAxis(seen[s.value])
		seen[s.key], seen[s.value] = true, true
	}
}

// ClipRect is the data area shared by both axes.
func (s *Series) ClipRect() image.Rectangle {
	return s.key.AxisRect().Rect().Intersect(s.value.AxisRect().Rect())
}

// ApplyDefaultAntialiasingHint applies the plottables antialiasing override.
func (s *Series) ApplyDefaultAntialiasingHint(surface paint.Surface) {
	s.ApplyAntialiasingHint(surface, s.Antialiased(), layer.AAPlottables)
}

// pixel maps a sample to surface coordinates.
func (s *Series) pixel(pt Point) (paint.Point, bool) {
	k, okK := s.key.CoordToPixelChecked(pt.Key)
	v, okV := s.value.CoordToPixelChecked(pt.Value)
	if math.IsNaN(pt.Value) || math.IsNaN(pt.Key) {
		return paint.Point{}, false
	}
	if s.key.Orientation() == axis.Horizontal {
		return paint.Point{X: k, Y: v}, okK && okV
	}
	return paint.Point{X: v, Y: k}, okK && okV
}

// Draw connects the samples, starting a new polyline after every gap.
func (s *Series) Draw(surface paint.Surface) {
	var segment []paint.Point
	var markers []paint.Point
	flush := func() {
		if len(segment) > 1 && !s.pen.IsNone() {
			surface.SetPen(s.pen)
			surface.DrawPolyline(segment)
		}
		segment = segment[:0]
	}
	for _, pt := range s.data {
		px, ok := s.pixel(pt)
		if !ok {
			flush()
			continue
		}
		segment = append(segment, px)
		markers = append(markers, px)
	}
	flush()

	if s.scatterSize <= 0 || len(markers) == 0 {
		return
	}
	r := s.scatterSize / 2
	surface.SetPen(s.pen)
	surface.SetBrush(paint.Brush{Color: s.pen.Color})
	for _, m := range markers {
		surface.DrawEllipse(m.X, m.Y, r, r)
	}
}
