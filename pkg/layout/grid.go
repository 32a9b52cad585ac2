package layout

import (
	"image"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/layer"
)

// DefaultSpacing is the initial row and column spacing of a Grid.
const DefaultSpacing = 5

// Grid arranges elements in rows and columns. Cells may be empty. Column
// widths and row heights come from [SectionSizes] over the elements'
// size constraints and the grid's stretch factors.
type Grid struct {
	ContainerBase

	cells         [][]Element
	colStretch    []float64
	rowStretch    []float64
	columnSpacing int
	rowSpacing    int
}

// NewGrid returns an empty grid. With a nil stack it stays detached until a
// container adopts it.
func NewGrid(stack *layer.Stack, layerName string) *Grid {
	g := &Grid{columnSpacing: DefaultSpacing, rowSpacing: DefaultSpacing}
	g.InitContainer(g, stack, layerName)
	return g
}

// RowCount returns the number of rows.
func (g *Grid) RowCount() int { return len(g.cells) }

// ColumnCount returns the number of columns.
func (g *Grid) ColumnCount() int {
	if len(g.cells) == 0 {
		return 0
	}
	return len(g.cells[0])
}

func (g *Grid) inRange(row, col int) bool {
	return row >= 0 && row < g.RowCount() && col >= 0 && col < g.ColumnCount()
}

// Element returns the element at (row, col).
func (g *Grid) Element(row, col int) (Element, error) {
	if !g.inRange(row, col) {
		return nil, reportf(errors.ErrCodeInvalidIndex, "invalid cell (%d, %d)", row, col)
	}
	el := g.cells[row][col]
	if el == nil {
		return nil, reportf(errors.ErrCodeNotFound, "cell (%d, %d) is empty", row, col)
	}
	return el, nil
}

// HasElement reports whether (row, col) exists and is occupied.
func (g *Grid) HasElement(row, col int) bool {
	return g.inRange(row, col) && g.cells[row][col] != nil
}

// AddElement places el at (row, col), growing the grid as needed. An
// element held by another layout is taken from it first.
func (g *Grid) AddElement(row, col int, el Element) error {
	if el == nil {
		return reportf(errors.ErrCodeInvalidInput, "nil element")
	}
	if row < 0 || col < 0 {
		return reportf(errors.ErrCodeInvalidIndex, "invalid cell (%d, %d)", row, col)
	}
	if g.HasElement(row, col) {
		return reportf(errors.ErrCodeDuplicate, "cell (%d, %d) is occupied", row, col)
	}
	takeFromParent(el)
	g.ExpandTo(row+1, col+1)
	g.cells[row][col] = el
	g.adopt(el)
	return nil
}

// ExpandTo grows the grid to at least rows x cols. It never shrinks.
func (g *Grid) ExpandTo(rows, cols int) {
	for len(g.cells) < rows {
		g.cells = append(g.cells, nil)
		g.rowStretch = append(g.rowStretch, 1)
	}
	if len(g.cells) == 0 {
		return
	}
	cols = max(cols, g.ColumnCount())
	for i := range g.cells {
		for len(g.cells[i]) < cols {
			g.cells[i] = append(g.cells[i], nil)
		}
	}
	for len(g.colStretch) < cols {
		g.colStretch = append(g.colStretch, 1)
	}
}

// InsertRow inserts an empty row before index, clamped to [0, RowCount].
// A grid without cells is instead expanded to at least one row and one
// column, so rows without columns gain a column rather than a row.
func (g *Grid) InsertRow(index int) {
	defer g.SizeConstraintsChanged()
	if g.RowCount() == 0 || g.ColumnCount() == 0 {
		g.ExpandTo(1, 1)
		return
	}
	index = min(max(index, 0), g.RowCount())
	g.rowStretch = insertAt(g.rowStretch, index, 1)
	row := make([]Element, g.ColumnCount())
	g.cells = append(g.cells[:index], append([][]Element{row}, g.cells[index:]...)...)
}

// InsertColumn inserts an empty column before index, clamped to
// [0, ColumnCount]. A grid without cells is instead expanded to at least
// one row and one column.
func (g *Grid) InsertColumn(index int) {
	defer g.SizeConstraintsChanged()
	if g.RowCount() == 0 || g.ColumnCount() == 0 {
		g.ExpandTo(1, 1)
		return
	}
	index = min(max(index, 0), g.ColumnCount())
	g.colStretch = insertAt(g.colStretch, index, 1)
	for i, row := range g.cells {
		g.cells[i] = append(row[:index], append([]Element{nil}, row[index:]...)...)
	}
}

func insertAt[T any](s []T, i int, v T) []T {
	return append(s[:i], append([]T{v}, s[i:]...)...)
}

// ColumnStretchFactors returns a copy of the column stretch factors.
func (g *Grid) ColumnStretchFactors() []float64 { return append([]float64(nil), g.colStretch...) }

// RowStretchFactors returns a copy of the row stretch factors.
func (g *Grid) RowStretchFactors() []float64 { return append([]float64(nil), g.rowStretch...) }

// SetColumnStretchFactor sets one column's stretch factor, which must be
// positive.
func (g *Grid) SetColumnStretchFactor(col int, factor float64) error {
	if col < 0 || col >= g.ColumnCount() {
		return reportf(errors.ErrCodeInvalidIndex, "invalid column %d", col)
	}
	if !(factor > 0) {
		return reportf(errors.ErrCodeInvalidInput, "stretch factor must be positive, got %v", factor)
	}
	g.colStretch[col] = factor
	return nil
}

// SetColumnStretchFactors replaces all column stretch factors. Non-positive
// entries are reported and replaced by 1.
func (g *Grid) SetColumnStretchFactors(factors []float64) error {
	fs, err := checkFactors(factors, len(g.colStretch), "column")
	if err != nil {
		return err
	}
	g.colStretch = fs
	return nil
}

// SetRowStretchFactor sets one row's stretch factor, which must be positive.
func (g *Grid) SetRowStretchFactor(row int, factor float64) error {
	if row < 0 || row >= g.RowCount() {
		return reportf(errors.ErrCodeInvalidIndex, "invalid row %d", row)
	}
	if !(factor > 0) {
		return reportf(errors.ErrCodeInvalidInput, "stretch factor must be positive, got %v", factor)
	}
	g.rowStretch[row] = factor
	return nil
}

// SetRowStretchFactors replaces all row stretch factors. Non-positive
// entries are reported and replaced by 1.
func (g *Grid) SetRowStretchFactors(factors []float64) error {
	fs, err := checkFactors(factors, len(g.rowStretch), "row")
	if err != nil {
		return err
	}
	g.rowStretch = fs
	return nil
}

func checkFactors(factors []float64, want int, what string) ([]float64, error) {
	if len(factors) != want {
		return nil, reportf(errors.ErrCodeInvalidInput, "%s count %d does not match %d stretch factors", what, want, len(factors))
	}
	fs := append([]float64(nil), factors...)
	for i, f := range fs {
		if !(f > 0) {
			_ = reportf(errors.ErrCodeInvalidInput, "stretch factor must be positive, got %v", f)
			fs[i] = 1
		}
	}
	return fs, nil
}

// ColumnSpacing returns the gap between columns.
func (g *Grid) ColumnSpacing() int { return g.columnSpacing }

// SetColumnSpacing sets the gap between columns.
func (g *Grid) SetColumnSpacing(px int) {
	if g.columnSpacing == px {
		return
	}
	g.columnSpacing = px
	g.SizeConstraintsChanged()
}

// RowSpacing returns the gap between rows.
func (g *Grid) RowSpacing() int { return g.rowSpacing }

// SetRowSpacing sets the gap between rows.
func (g *Grid) SetRowSpacing(px int) {
	if g.rowSpacing == px {
		return
	}
	g.rowSpacing = px
	g.SizeConstraintsChanged()
}

// UpdateLayout splits the inner rect into cells and assigns each element
// its cell as outer rect.
func (g *Grid) UpdateLayout() {
	rows, cols := g.RowCount(), g.ColumnCount()
	if rows == 0 || cols == 0 {
		return
	}
	minCols, minRows := g.minimumRowColSizes()
	maxCols, maxRows := g.maximumRowColSizes()
	r := g.Rect()

	widths, err := SectionSizes(maxCols, minCols, g.colStretch, r.Dx()-(cols-1)*g.columnSpacing)
	if err != nil {
		return
	}
	heights, err := SectionSizes(maxRows, minRows, g.rowStretch, r.Dy()-(rows-1)*g.rowSpacing)
	if err != nil {
		return
	}

	y := r.Min.Y
	for row := range rows {
		if row > 0 {
			y += heights[row-1] + g.rowSpacing
		}
		x := r.Min.X
		for col := range cols {
			if col > 0 {
				x += widths[col-1] + g.columnSpacing
			}
			if el := g.cells[row][col]; el != nil {
				el.Layout().SetOuterRect(image.Rect(x, y, x+widths[col], y+heights[row]))
			}
		}
	}
}

// minimumRowColSizes returns the largest final minimum size per column and
// per row.
func (g *Grid) minimumRowColSizes() (cols, rows []int) {
	cols = make([]int, g.ColumnCount())
	rows = make([]int, g.RowCount())
	for r, row := range g.cells {
		for c, el := range row {
			if el == nil {
				continue
			}
			s := finalMinSize(el)
			cols[c] = max(cols[c], s.W)
			rows[r] = max(rows[r], s.H)
		}
	}
	return cols, rows
}

// maximumRowColSizes returns the smallest final maximum size per column and
// per row.
func (g *Grid) maximumRowColSizes() (cols, rows []int) {
	cols = make([]int, g.ColumnCount())
	rows = make([]int, g.RowCount())
	for i := range cols {
		cols[i] = MaxSize
	}
	for i := range rows {
		rows[i] = MaxSize
	}
	for r, row := range g.cells {
		for c, el := range row {
			if el == nil {
				continue
			}
			s := finalMaxSize(el)
			cols[c] = min(cols[c], s.W)
			rows[r] = min(rows[r], s.H)
		}
	}
	return cols, rows
}

// MinimumSizeHint sums the column and row minimums plus spacing and margins.
func (g *Grid) MinimumSizeHint() Size {
	cols, rows := g.minimumRowColSizes()
	return g.sizeHint(cols, rows)
}

// MaximumSizeHint sums the column and row maximums plus spacing and margins.
func (g *Grid) MaximumSizeHint() Size {
	cols, rows := g.maximumRowColSizes()
	return g.sizeHint(cols, rows)
}

func (g *Grid) sizeHint(cols, rows []int) Size {
	var s Size
	for _, w := range cols {
		s.W += w
	}
	for _, h := range rows {
		s.H += h
	}
	m := g.Margins()
	s.W += max(0, len(cols)-1)*g.columnSpacing + m.Left + m.Right
	s.H += max(0, len(rows)-1)*g.rowSpacing + m.Top + m.Bottom
	return s
}

// ElementCount returns RowCount * ColumnCount.
func (g *Grid) ElementCount() int { return g.RowCount() * g.ColumnCount() }

// ElementAt returns the element in row-major cell i.
func (g *Grid) ElementAt(i int) Element {
	if i < 0 || i >= g.ElementCount() {
		return nil
	}
	cols := g.ColumnCount()
	return g.cells[i/cols][i%cols]
}

// TakeAt empties row-major cell i and returns its element.
func (g *Grid) TakeAt(i int) Element {
	el := g.ElementAt(i)
	if el == nil {
		_ = reportf(errors.ErrCodeInvalidIndex, "nothing to take at index %d", i)
		return nil
	}
	cols := g.ColumnCount()
	g.cells[i/cols][i%cols] = nil
	g.release(el)
	return el
}

// Take removes el from its cell.
func (g *Grid) Take(el Element) error {
	if el == nil {
		return reportf(errors.ErrCodeInvalidInput, "nil element")
	}
	for i := range g.ElementCount() {
		if g.ElementAt(i) == el {
			g.TakeAt(i)
			return nil
		}
	}
	return reportf(errors.ErrCodeNotFound, "element not in this grid")
}

// Simplify removes rows, then columns, that hold no element.
func (g *Grid) Simplify() {
	for row := g.RowCount() - 1; row >= 0; row-- {
		empty := true
		for _, el := range g.cells[row] {
			if el != nil {
				empty = false
				break
			}
		}
		if !empty {
			continue
		}
		g.rowStretch = append(g.rowStretch[:row], g.rowStretch[row+1:]...)
		g.cells = append(g.cells[:row], g.cells[row+1:]...)
		if len(g.cells) == 0 {
			g.colStretch = nil
		}
	}
	for col := g.ColumnCount() - 1; col >= 0; col-- {
		empty := true
		for _, row := range g.cells {
			if row[col] != nil {
				empty = false
				break
			}
		}
		if !empty {
			continue
		}
		g.colStretch = append(g.colStretch[:col], g.colStretch[col+1:]...)
		for r, row := range g.cells {
			g.cells[r] = append(row[:col], row[col+1:]...)
		}
	}
}

var _ Container = (*Grid)(nil)
