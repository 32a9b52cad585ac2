package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/tickplot/pkg/cache"
	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/observability"
	"github.com/matzehuels/tickplot/pkg/render"
)

const chart = `
title = "Load"
width = 400
height = 300

[[panels]]
  [panels.x]
  label = "t"
  [[panels.series]]
  name = "cpu"
  x = [0, 1, 2, 3]
  y = [0.2, 0.5, 0.4, 0.9]
  [[panels.series]]
  name = "mem"
  x = [0, 1, 2, 3]
  y = [0.1, 0.1, 0.3, 0.2]
`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
		check   func(t *testing.T, o Options)
	}{
		{
			name: "defaults",
			opts: Options{Chart: []byte(chart)},
			check: func(t *testing.T, o Options) {
				if diff := cmp.Diff([]string{"svg"}, o.Formats); diff != "" {
					t.Errorf("Formats mismatch (-want +got):\n%s", diff)
				}
				if o.Scale != DefaultScale {
					t.Errorf("Scale = %g, want %g", o.Scale, DefaultScale)
				}
				if o.Logger == nil {
					t.Error("Logger should default to a discard logger")
				}
			},
		},
		{name: "missing chart", opts: Options{}, wantErr: true},
		{name: "negative width", opts: Options{Chart: []byte(chart), Width: -1}, wantErr: true},
		{name: "bad format", opts: Options{Chart: []byte(chart), Formats: []string{"gif"}}, wantErr: true},
		{name: "scale too large", opts: Options{Chart: []byte(chart), Scale: MaxScale + 1}, wantErr: true},
		{name: "negative scale", opts: Options{Chart: []byte(chart), Scale: -2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, opts)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 2, EmbedFonts: true}

	tests := []struct {
		format string
		want   cache.ArtifactKeyOpts
	}{
		{"png", cache.ArtifactKeyOpts{Format: "png", Scale: 2}},
		{"svg", cache.ArtifactKeyOpts{Format: "svg", EmbedFonts: true}},
		{"pdf", cache.ArtifactKeyOpts{Format: "pdf", EmbedFonts: true}},
		{"json", cache.ArtifactKeyOpts{Format: "json"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, opts.ArtifactKeyOpts(tt.format)); diff != "" {
			t.Errorf("ArtifactKeyOpts(%q) mismatch (-want +got):\n%s", tt.format, diff)
		}
	}
}

func TestLoad(t *testing.T) {
	c, err := Load(Options{Chart: []byte(chart), Width: 640})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Width != 640 || c.Height != 300 {
		t.Errorf("size = %dx%d, want 640x300", c.Width, c.Height)
	}

	_, err = Load(Options{Chart: []byte("width = -5")})
	if !errors.Is(err, errors.ErrCodeInvalidChart) {
		t.Errorf("Load(invalid) error = %v, want INVALID_CHART", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	c, err := Load(Options{Chart: []byte(chart)})
	if err != nil {
		t.Fatal(err)
	}
	snap, err := GenerateLayout(c)
	if err != nil {
		t.Fatalf("GenerateLayout() error = %v", err)
	}
	data, err := MarshalSnapshot(snap)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(snap, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("snapshot round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := UnmarshalSnapshot([]byte("{")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("UnmarshalSnapshot(garbage) error = %v, want INVALID_FORMAT", err)
	}
}

func TestRender(t *testing.T) {
	opts := Options{Chart: []byte(chart), Formats: []string{"svg", "png", "json"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	c, err := Load(opts)
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(context.Background(), c, nil, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(artifacts))
	}
	if !bytes.Contains(artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact does not contain <svg")
	}
	if !bytes.HasPrefix(artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}
	var snap map[string]any
	if err := json.Unmarshal(artifacts["json"], &snap); err != nil {
		t.Errorf("json artifact: %v", err)
	}
}

func TestRenderEmbedFonts(t *testing.T) {
	opts := Options{Chart: []byte(chart), EmbedFonts: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	c, err := Load(opts)
	if err != nil {
		t.Fatal(err)
	}
	svg, err := RenderFormat(context.Background(), c, nil, FormatSVG, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "@font-face") {
		t.Error("embedded SVG is missing @font-face")
	}
}

func TestRenderCanceled(t *testing.T) {
	opts := Options{Chart: []byte(chart)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	c, err := Load(opts)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Render(ctx, c, nil, opts); err == nil {
		t.Error("Render() with canceled context should fail")
	}
}

func TestRenderPDF(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	opts := Options{Chart: []byte(chart), Formats: []string{"pdf"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	c, err := Load(opts)
	if err != nil {
		t.Fatal(err)
	}
	pdf, err := RenderFormat(context.Background(), c, nil, FormatPDF, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("pdf artifact does not start with %PDF")
	}
}

func TestRunnerExecute(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()
	ctx := context.Background()
	opts := Options{Chart: []byte(chart), Formats: []string{"svg", "json"}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if first.Stats.PanelCount != 1 || first.Stats.SeriesCount != 2 {
		t.Errorf("Stats = %+v, want 1 panel 2 series", first.Stats)
	}
	if first.ChartHash != cache.Hash([]byte(chart)) {
		t.Errorf("ChartHash = %q", first.ChartHash)
	}
	if len(first.Snapshot.Series) != 2 {
		t.Errorf("snapshot series = %d, want 2", len(first.Snapshot.Series))
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached svg differs from rendered svg")
	}
	if first.LayoutHash != second.LayoutHash {
		t.Error("layout hash changed between runs")
	}

	// A new format is rendered while cached ones are reused.
	opts.Formats = []string{"svg", "png"}
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("partial cache hit reported as full hit")
	}
	if len(third.Artifacts) != 2 {
		t.Errorf("got %d artifacts, want 2", len(third.Artifacts))
	}

	opts.Refresh = true
	fresh, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheInfo.LayoutHit || fresh.CacheInfo.RenderHit {
		t.Error("Refresh should bypass cache reads")
	}
}

func TestRunnerSizeOverrideChangesLayoutKey(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Chart: []byte(chart)}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Chart: []byte(chart), Width: 500})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("width override should miss the layout cache")
	}
	if res.Snapshot.Width != 500 {
		t.Errorf("snapshot width = %d, want 500", res.Snapshot.Width)
	}
}

func TestRunnerErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute(empty) error = %v, want INVALID_INPUT", err)
	}
	if _, err := r.Execute(ctx, Options{Chart: []byte("nope = ")}); !errors.Is(err, errors.ErrCodeInvalidChart) {
		t.Errorf("Execute(bad toml) error = %v, want INVALID_CHART", err)
	}
}

func TestRunnerLayout(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	snap, hit, err := r.LayoutWithCacheInfo(context.Background(), Options{Chart: []byte(chart)})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("null cache cannot hit")
	}
	if snap.Width != 400 || snap.Height != 300 {
		t.Errorf("snapshot size = %dx%d, want 400x300", snap.Width, snap.Height)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnLoadStart(context.Context, string) { h.record("load-start") }
func (h *recordingHooks) OnLoadComplete(_ context.Context, _ string, panels int, _ time.Duration, err error) {
	h.record("load-complete")
}
func (h *recordingHooks) OnLayoutStart(context.Context, int)                     { h.record("layout-start") }
func (h *recordingHooks) OnLayoutComplete(context.Context, time.Duration, error) { h.record("layout-complete") }
func (h *recordingHooks) OnRenderStart(context.Context, []string)                { h.record("render-start") }
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.record("render-complete")
}
func (h *recordingHooks) OnCacheHit(_ context.Context, keyType string)  { h.record("hit:" + keyType) }
func (h *recordingHooks) OnCacheMiss(_ context.Context, keyType string) { h.record("miss:" + keyType) }
func (h *recordingHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.record("set:" + keyType)
}

func TestRunnerHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	if _, err := r.Execute(context.Background(), Options{Chart: []byte(chart)}); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"load-start", "load-complete",
		"layout-start", "miss:layout", "set:layout", "layout-complete",
		"render-start", "miss:artifact", "set:artifact", "render-complete",
	}
	if diff := cmp.Diff(want, h.events); diff != "" {
		t.Errorf("hook events mismatch (-want +got):\n%s", diff)
	}
}
