package main

import (
	"bytes"
	"fmt"
	"image"
	"log"

	draw9 "9fans.net/go/draw"
)

// DisplayControl holds the connection to the display and the
// devices of the window.
type DisplayControl struct {
	display *draw9.Display
	errch   chan error
	mctl    *draw9.Mousectl
	kctl    *draw9.Keyboardctl
	canvas  *image.RGBA // what the views draw on
}

// lockarrow is the cursor shown while the views are busy loading images.
var lockarrow = &draw9.Cursor{
	Point: image.Point{-7, -7},
	White: [2 * 16]uint8{
		0x00, 0x00, 0x3f, 0xfc, 0x3f, 0xfc, 0x1f, 0xf8,
		0x0f, 0xf0, 0x07, 0xe0, 0x03, 0xc0, 0x01, 0x80,
		0x01, 0x80, 0x03, 0xc0, 0x07, 0xe0, 0x0f, 0xf0,
		0x1f, 0xf8, 0x3f, 0xfc, 0x3f, 0xfc, 0x00, 0x00,
	},
	Black: [2 * 16]uint8{
		0x7f, 0xfe, 0x40, 0x02, 0x40, 0x02, 0x20, 0x04,
		0x10, 0x08, 0x08, 0x10, 0x04, 0x20, 0x02, 0x40,
		0x02, 0x40, 0x04, 0x20, 0x08, 0x10, 0x10, 0x08,
		0x20, 0x04, 0x40, 0x02, 0x40, 0x02, 0x7f, 0xfe,
	},
}

func connectToDisplay(dims image.Point) *DisplayControl {
	errch := make(chan error)
	disp, err := draw9.Init(errch, "", progName, fmt.Sprintf("%dx%d", dims.X, dims.Y))
	if err != nil {
		log.Fatalf("display: cannot connect: %v", err)
	}

	return &DisplayControl{
		display: disp,
		errch:   errch,
		mctl:    disp.InitMouse(),
		kctl:    disp.InitKeyboard(),
	}
}

// bounds returns the window rectangle.
func (dctl *DisplayControl) bounds() image.Rectangle {
	return dctl.display.Image.Bounds()
}

// reattach reconnects to the window after a resize.
func (dctl *DisplayControl) reattach() {
	if err := dctl.display.Attach(draw9.RefNone); err != nil {
		log.Fatalf("display: failed to attach: %v", err)
	}
}

// canvasFor returns the canvas resized to the window. Views draw on
// it in window coordinates, with the origin at the top left corner.
func (dctl *DisplayControl) canvasFor(r image.Rectangle) *image.RGBA {
	if dctl.canvas == nil || dctl.canvas.Bounds().Size() != r.Size() {
		dctl.canvas = image.NewRGBA(image.Rectangle{Max: r.Size()})
	}
	return dctl.canvas
}

// present copies the canvas to the window.
func (dctl *DisplayControl) present() {
	if dctl.canvas == nil {
		return
	}
	img, err := dctl.display.ReadImage(toPlan9Bitmap(dctl.canvas))
	if err != nil {
		log.Printf("display: cannot load canvas: %v", err)
		return
	}
	defer img.Free()

	window := dctl.display.Image
	window.Draw(window.Bounds(), img, nil, image.Point{})
	if err := dctl.display.Flush(); err != nil {
		log.Printf("display: flush: %v", err)
	}
}

// showWaitingAndCall changes the cursor to the waiting one and executes fn
func (dctl *DisplayControl) showWaitingAndCall(fn func()) {
	if err := dctl.display.SwitchCursor(lockarrow); err != nil {
		log.Printf("failed to switch cursor: %v", err)
	}
	fn()
	if err := dctl.display.SwitchCursor(nil); err != nil {
		log.Printf("failed to switch cursor: %v", err)
	}
}

// toPlan9Bitmap converts an image to the plan9 format for display.
func toPlan9Bitmap(img *image.RGBA) *bytes.Buffer {
	r := img.Bounds()
	n := 60 + r.Dx()*r.Dy()*4
	b := bytes.NewBuffer(make([]byte, 0, n))
	fmt.Fprintf(b, "%11s %11d %11d %11d %11d ",
		"r8g8b8a8", 0, 0, r.Dx(), r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]
		for ; len(row) > 0; row = row[4:] {
			b.WriteByte(row[3])
			b.WriteByte(row[2])
			b.WriteByte(row[1])
			b.WriteByte(row[0])
		}
	}
	return b
}
