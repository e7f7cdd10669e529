package main

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/anastasop/iview/views"
	xdraw "golang.org/x/image/draw"
)

var errNothingSelected = errors.New("no image selected")

// darkroom is a view module that shows single images at large scale.
type darkroom struct {
	session *Session
}

// darkroomData is the private data of a loaded darkroom.
type darkroomData struct {
	cache     *PageCache[*IconImage]
	at        int
	area      image.Rectangle
	showInfo  bool
	published float32
}

func newDarkroom(s *Session) *darkroom {
	return &darkroom{session: s}
}

func darkroomDataOf(self *views.Handle) *darkroomData {
	return self.Data().(*darkroomData)
}

func (dr *darkroom) Name(self *views.Handle) string {
	return "darkroom"
}

func (dr *darkroom) Init(self *views.Handle) {
	self.SetData(&darkroomData{area: dr.session.area})
}

func (dr *darkroom) Cleanup(self *views.Handle) {
	dr.freeCache(darkroomDataOf(self))
	self.SetData(nil)
}

// TryEnter refuses to enter without an image to show.
func (dr *darkroom) TryEnter(self *views.Handle) error {
	if _, ok := dr.session.Selected(); !ok {
		return errNothingSelected
	}
	return nil
}

func (dr *darkroom) Enter(self *views.Handle) {
	d := darkroomDataOf(self)
	d.at, _ = dr.session.Selected()
	d.area = dr.session.area
	dr.resetCache(d)
	dr.publishScroll(self, d)
}

// Leave hands the image the user ended at to the other views.
func (dr *darkroom) Leave(self *views.Handle) {
	d := darkroomDataOf(self)
	dr.session.Select(d.at)
	dr.freeCache(d)
}

func (dr *darkroom) Reset(self *views.Handle) {
	darkroomDataOf(self).showInfo = false
}

func (dr *darkroom) Configure(self *views.Handle, width, height int) {
	dr.attach(darkroomDataOf(self), image.Rect(0, 0, width, height))
}

func (dr *darkroom) Expose(self *views.Handle, dst xdraw.Image, width, height, px, py int) {
	d := darkroomDataOf(self)
	if d.cache == nil {
		return
	}
	dr.attach(d, image.Rect(0, 0, width, height))
	if s := self.Scroll(); s.VPos != d.published {
		dr.goTo(d, int(s.VPos+0.5))
	}
	dr.paint(dst, d)
	dr.publishScroll(self, d)
}

func (dr *darkroom) KeyPressed(self *views.Handle, code uint16) bool {
	d := darkroomDataOf(self)
	switch code {
	case 'b', escKey:
		dr.session.RequestView("lighttable")
	case leftArrowKey:
		dr.goTo(d, d.at-1)
	case rightArrowKey:
		dr.goTo(d, d.at+1)
	case 'i':
		d.showInfo = !d.showInfo
	case 'm':
		dr.session.icons[d.at].ToggleMarked()
	case 'p':
		dr.session.plumbImage(dr.session.icons[d.at].path)
	default:
		return false
	}
	return true
}

func (dr *darkroom) ButtonPressed(self *views.Handle, x, y float64, which int, typ views.ClickType, state uint32) bool {
	d := darkroomDataOf(self)
	switch which {
	case 1:
		dr.goTo(d, d.at-1)
	case 2:
		dr.session.RequestView("lighttable")
	case 3:
		dr.goTo(d, d.at+1)
	default:
		return false
	}
	return true
}

func (dr *darkroom) Scrolled(self *views.Handle, x, y float64, dir views.ScrollDirection) {
	d := darkroomDataOf(self)
	if dir == views.ScrollUp {
		dr.goTo(d, d.at-1)
	} else {
		dr.goTo(d, d.at+1)
	}
}

// borderStep is how many images a scroll over a border skips.
const borderStep = 10

func (dr *darkroom) BorderScrolled(self *views.Handle, x, y float64, b views.Border, dir views.ScrollDirection) {
	d := darkroomDataOf(self)
	if dir == views.ScrollUp {
		dr.goTo(d, max(0, d.at-borderStep))
	} else {
		dr.goTo(d, min(len(dr.session.icons)-1, d.at+borderStep))
	}
}

// goTo moves to image i if it exists.
func (dr *darkroom) goTo(d *darkroomData, i int) {
	if 0 <= i && i < len(dr.session.icons) {
		d.at = i
	}
}

func (dr *darkroom) attach(d *darkroomData, r image.Rectangle) {
	if r.Eq(d.area) {
		return
	}
	d.area = r
	if d.cache != nil {
		dr.resetCache(d)
	}
}

func (dr *darkroom) resetCache(d *darkroomData) {
	dr.freeCache(d)
	images := NewIconImages(dr.session.icons, FitBest(d.area))
	d.cache = NewPageCache("darkroom", images, 2, dr.session.stats)
}

func (dr *darkroom) freeCache(d *darkroomData) {
	if d.cache != nil {
		d.cache.Free()
		d.cache = nil
	}
}

// publishScroll sets the vertical scroll state of self in images.
func (dr *darkroom) publishScroll(self *views.Handle, d *darkroomData) {
	d.published = float32(d.at)
	self.SetScroll(views.Scroll{
		VSize:     float32(len(dr.session.icons)),
		VViewport: 1,
		VPos:      d.published,
	})
}

func (dr *darkroom) paint(dst xdraw.Image, d *darkroomData) {
	fill(dst, dst.Bounds(), bgColor)

	icon, ok := d.cache.At(d.at)
	if !ok {
		return
	}
	img, err := icon.Fitted()
	if err != nil {
		log.Printf("darkroom: image not ready: %v", err)
		return
	}

	var lines []string
	if d.showInfo {
		lines = append(lines, fmt.Sprintf("%d/%d %dx%d %s",
			d.at+1, d.cache.Len(), icon.bounds.X, icon.bounds.Y, icon.path))
		if icon.exifInfo != "" {
			lines = append(lines, icon.exifInfo)
		}
	}

	area := d.area
	if len(lines) > 0 {
		area.Min.Y += (len(lines) + 1) * lineHeight()
	}
	ir := center(area, img.Bounds())
	xdraw.Draw(dst, ir, img, img.Bounds().Min, xdraw.Over)

	if icon.marked {
		mr := image.Rect(d.area.Max.X-50, d.area.Min.Y, d.area.Max.X, d.area.Min.Y+lineHeight())
		fill(dst, mr, borderColor)
	}
	for i, s := range lines {
		text(dst, d.area.Min.Add(image.Pt(0, i*lineHeight())), s)
	}
}
