package main

import "image"

// Grid overlays on area a maximal MxN grid of icons. The dimensions are calculated
// from the iconSize and the padding.
type Grid struct {
	area     image.Rectangle
	iconSize image.Point
	padding  int
}

// Offset is used with a grid and an implicit slice to track which items should be displayed.
// A MxN grid will display items [pos, pos + M*N) of the slice.
type Offset struct {
	grid  *Grid
	pos   int
	limit int
}

// NewGrid returns a new grid.
func NewGrid(area image.Rectangle, iconSize image.Point, padding int) *Grid {
	return &Grid{
		area:     area,
		iconSize: iconSize,
		padding:  padding,
	}
}

// Attach should be called when the grid area changes.
func (g *Grid) Attach(r image.Rectangle) {
	g.area = r
}

// Dimensions return the grid dimensions, rows x columns. A grid has at least one cell.
func (g *Grid) Dimensions() (rows int, cols int) {
	rows = max(1, (g.area.Dy()-g.padding)/(g.iconSize.Y+g.padding))
	cols = max(1, (g.area.Dx()-g.padding)/(g.iconSize.X+g.padding))
	return
}

// Area returns the icon area of the grid, rows * columns.
func (g *Grid) Area() int {
	rows, cols := g.Dimensions()
	return rows * cols
}

// cell returns the size of a grid cell, an icon and its padding.
func (g *Grid) cell() image.Point {
	return g.iconSize.Add(image.Pt(g.padding, g.padding))
}

// GridCoords translates the area coordinates to the grid coordinates.
func (g *Grid) GridCoords(at image.Point) (x int, y int, inside bool) {
	h := g.PaintableArea()
	inside = at.In(h)
	if !inside {
		return
	}
	c := g.cell()
	x = (at.X - h.Min.X) / c.X
	y = (at.Y - h.Min.Y) / c.Y
	return
}

// CellRect returns the rectangle of the icon at grid coordinates x, y.
func (g *Grid) CellRect(x, y int) image.Rectangle {
	c := g.cell()
	at := g.PaintableArea().Min.Add(image.Pt(x*c.X+g.padding, y*c.Y+g.padding))
	return image.Rectangle{at, at.Add(g.iconSize)}
}

// PaintableArea is the area of the grid which contains icons.
// Only full icons are displayed and there may be empty space at the edges of grid.area
func (g *Grid) PaintableArea() image.Rectangle {
	rows, cols := g.Dimensions()
	c := g.cell()
	ir := image.Rect(0, 0, cols*c.X, rows*c.Y)
	return center(g.area, ir)
}

// NewOffset returns a new offset with limit and grid.
func NewOffset(grid *Grid, limit int) *Offset {
	return &Offset{grid: grid, limit: limit}
}

// Visible returns the visible items for the current grid page.
func (o *Offset) Visible() (int, int) {
	return o.pos, min(o.limit, o.pos+o.grid.Area())
}

// CurrentPage return the current page.
func (o *Offset) CurrentPage() int {
	return o.PageOfItem(o.pos)
}

// PageOfItem returns the screen page of the item.
func (o *Offset) PageOfItem(i int) int {
	if 0 <= i && i < o.limit {
		return i / o.grid.Area()
	}
	return -1
}

// MoveUpRow scrolls the page one grid row up.
func (o *Offset) MoveUpRow() {
	_, cols := o.grid.Dimensions()
	o.pos = max(0, o.pos-cols)
}

// MoveDownRow scrolls the page one grid row down.
func (o *Offset) MoveDownRow() {
	rows, cols := o.grid.Dimensions()
	if o.Row() < o.Rows()-rows {
		o.pos += cols
	}
}

// GotoPage moves view to page.
func (o *Offset) GotoPage(page int) {
	numPages := intCeil(o.limit, o.grid.Area())
	if 0 <= page && page < numPages {
		o.pos = page * o.grid.Area()
	}
}

// Row returns the first visible row.
func (o *Offset) Row() int {
	_, cols := o.grid.Dimensions()
	return o.pos / cols
}

// Rows returns the number of rows the items need, plus an empty row at the end.
func (o *Offset) Rows() int {
	_, cols := o.grid.Dimensions()
	return intCeil(o.limit, cols) + 1
}

// GotoRow scrolls so that row is the first visible. The last page
// shows an empty row after the last icons.
func (o *Offset) GotoRow(row int) {
	rows, cols := o.grid.Dimensions()
	last := max(0, o.Rows()-rows)
	o.pos = min(max(0, row), last) * cols
}

// At computes the offset under the point.
func (o *Offset) At(p image.Point) (int, bool) {
	x, y, inside := o.grid.GridCoords(p)
	if !inside {
		return -1, false
	}

	_, cols := o.grid.Dimensions()
	position := o.pos + y*cols + x
	return position, position < o.limit
}

// SetLimit changes the number of items and keeps the position valid.
func (o *Offset) SetLimit(limit int) {
	o.limit = limit
	o.GotoRow(o.Row())
}
