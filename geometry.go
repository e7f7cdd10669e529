package main

import "image"

// center assumes sr fits in dr and centers it inside dr. If this is not the case, it returns dr.
func center(dr, sr image.Rectangle) image.Rectangle {
	dx := dr.Dx() - sr.Dx()
	dy := dr.Dy() - sr.Dy()

	if dx < 0 || dy < 0 {
		return dr
	}

	return sr.Sub(sr.Min).Add(dr.Min.Add(image.Pt(dx, dy).Div(2)))
}

// bestFit scales down sr to fit in dr and centers it. If sr already fits, it is not scaled up.
func bestFit(dr, sr image.Rectangle) image.Rectangle {
	var r image.Rectangle
	if sr.Dx() <= dr.Dx() && sr.Dy() <= dr.Dy() {
		r = sr
	} else {
		scale := max(float32(sr.Dy())/float32(dr.Dy()), float32(sr.Dx())/float32(dr.Dx()))
		r.Max.X = int(float32(sr.Dx()) / scale)
		r.Max.Y = int(float32(sr.Dy()) / scale)
	}
	return center(dr, r)
}

// intCeil returns the ceiling of a/b
func intCeil(a, b int) int {
	n := a / b
	if a%b > 0 {
		n++
	}
	return n
}

// edges returns the strips of width w along the left, right, top and
// bottom sides of r, in this order.
func edges(r image.Rectangle, w int) [4]image.Rectangle {
	return [4]image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y),
		image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w),
		image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y),
	}
}
