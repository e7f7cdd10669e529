package main

import (
	"image"
	"image/color"
	"log"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	bgColor     = color.RGBA{0x66, 0x66, 0x66, 0xff}
	borderColor = color.RGBA{0xff, 0xff, 0x00, 0xff}
	fontColor   = color.RGBA{0xff, 0xff, 0x00, 0xff}
	hoverColor  = color.RGBA{0x99, 0x99, 0x99, 0xff}

	textFace font.Face = basicfont.Face7x13
)

// fill paints r with c.
func fill(dst xdraw.Image, r image.Rectangle, c color.Color) {
	xdraw.Draw(dst, r, image.NewUniform(c), image.Point{}, xdraw.Src)
}

// border paints a border of width w inside r.
func border(dst xdraw.Image, r image.Rectangle, w int, c color.Color) {
	for _, e := range edges(r, w) {
		fill(dst, e, c)
	}
}

// lineHeight is the distance between two lines of text.
func lineHeight() int {
	return textFace.Metrics().Height.Ceil()
}

// text writes s with its top left corner at p.
func text(dst xdraw.Image, p image.Point, s string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fontColor),
		Face: textFace,
		Dot:  fixed.P(p.X, p.Y+textFace.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// paintIcons draws the grid of icons. hover is the index in icons under the
// pointer or -1.
func paintIcons(dst xdraw.Image, grid *Grid, icons []*IconImage, hover int) {
	fill(dst, dst.Bounds(), bgColor)

	rows, cols := grid.Dimensions()
	pad := grid.padding
	for i, icon := range icons {
		if i >= rows*cols {
			break
		}
		cell := grid.CellRect(i%cols, i/cols)
		if i == hover {
			fill(dst, cell.Inset(-pad/2), hoverColor)
		}
		img, err := icon.Fitted()
		if err != nil {
			log.Printf("paintIcons: image not ready: %v", err)
			continue
		}
		dr := center(cell, img.Bounds())
		xdraw.Draw(dst, dr, img, img.Bounds().Min, xdraw.Over)
		if icon.marked {
			border(dst, dr.Inset(-pad), pad, borderColor)
		}
	}
}

// paintScrollbar draws a vertical scrollbar in r for a content of size
// with a viewport of winsize at pos.
func paintScrollbar(dst xdraw.Image, r image.Rectangle, pos, size, winsize float32) {
	if size <= 0 || winsize >= size {
		return
	}
	fill(dst, r, bgColor)
	h := float32(r.Dy())
	top := r.Min.Y + int(h*pos/size)
	bottom := r.Min.Y + int(h*min(size, pos+winsize)/size)
	fill(dst, image.Rect(r.Min.X, top, r.Max.X, max(bottom, top+1)), borderColor)
}
