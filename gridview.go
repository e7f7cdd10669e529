package main

import (
	"errors"
	"image"
	"slices"

	"github.com/anastasop/iview/views"
	xdraw "golang.org/x/image/draw"
)

var (
	errNoImages      = errors.New("no images")
	errNothingMarked = errors.New("no marked images")
)

// gridView is a view module that shows icons over a grid. One screen of
// icons is called a page. It provides operations to scroll pages and mark
// icons. It also maintains an icon cache for smoother UI.
//
// The lighttable and marked views are gridViews over different icons.
type gridView struct {
	title   string
	session *Session
	source  func() []*Icon // the icons to show, collected on enter
	empty   error          // TryEnter error when source is empty
	back    string         // view to request on escape, "" for none
}

// gridData is the private data of a loaded gridView.
type gridData struct {
	icons           []*Icon
	cache           *PageCache[*IconImage]
	grid            *Grid
	offset          *Offset
	hover           int   // item under the pointer or -1
	pagesWithMarked []int // the pages with marked icons. Used for moving up/down.
	published       float32
}

// newLightTable returns the view of all the images.
func newLightTable(s *Session) *gridView {
	return &gridView{
		title:   "lighttable",
		session: s,
		source:  func() []*Icon { return s.icons },
		empty:   errNoImages,
	}
}

// newMarkedView returns the view of the marked images.
func newMarkedView(s *Session) *gridView {
	return &gridView{
		title:   "marked",
		session: s,
		source:  s.Marked,
		empty:   errNothingMarked,
		back:    "lighttable",
	}
}

func gridDataOf(self *views.Handle) *gridData {
	return self.Data().(*gridData)
}

func (gv *gridView) Name(self *views.Handle) string {
	return gv.title
}

func (gv *gridView) Init(self *views.Handle) {
	grid := NewGrid(gv.session.area, gv.session.iconSize, gv.session.padding)
	self.SetData(&gridData{
		grid:   grid,
		offset: NewOffset(grid, 0),
		hover:  -1,
	})
}

func (gv *gridView) Cleanup(self *views.Handle) {
	gv.freeCache(gridDataOf(self))
	self.SetData(nil)
}

func (gv *gridView) TryEnter(self *views.Handle) error {
	if len(gv.source()) == 0 {
		return gv.empty
	}
	return nil
}

func (gv *gridView) Enter(self *views.Handle) {
	d := gridDataOf(self)
	d.icons = gv.source()
	d.grid.Attach(gv.session.area)
	d.offset.SetLimit(len(d.icons))
	d.hover = -1

	gv.freeCache(d)
	pageSize := gv.session.pageSize
	if pageSize == 0 {
		pageSize = d.grid.Area()
	}
	images := NewIconImages(d.icons, FitFast(image.Rectangle{image.Point{}, d.grid.iconSize}))
	d.cache = NewPageCache(gv.title, images, pageSize, gv.session.stats)

	if sel, ok := gv.session.Selected(); ok {
		if i := slices.Index(d.icons, gv.session.icons[sel]); i >= 0 {
			d.offset.GotoPage(d.offset.PageOfItem(i))
		}
	}
	gv.resetPagesWithMarked(d)
	gv.publishScroll(self, d)
}

func (gv *gridView) Leave(self *views.Handle) {
	gv.freeCache(gridDataOf(self))
}

func (gv *gridView) Reset(self *views.Handle) {
	d := gridDataOf(self)
	d.offset.GotoPage(0)
	d.hover = -1
}

func (gv *gridView) Expose(self *views.Handle, dst xdraw.Image, width, height, px, py int) {
	d := gridDataOf(self)
	if d.cache == nil {
		return
	}
	if r := image.Rect(0, 0, width, height); !r.Eq(d.grid.area) {
		gv.attach(d, r)
	}
	if s := self.Scroll(); s.VPos != d.published {
		d.offset.GotoRow(int(s.VPos + 0.5))
	}

	from, to := d.offset.Visible()
	images := make([]*IconImage, 0, to-from)
	for icon := range d.cache.Items(from, to) {
		images = append(images, icon)
	}
	hover := -1
	if d.hover >= from && d.hover < to {
		hover = d.hover - from
	}
	paintIcons(dst, d.grid, images, hover)
	gv.publishScroll(self, d)
}

func (gv *gridView) Configure(self *views.Handle, width, height int) {
	gv.attach(gridDataOf(self), image.Rect(0, 0, width, height))
}

func (gv *gridView) MouseMoved(self *views.Handle, x, y float64, which int) bool {
	d := gridDataOf(self)
	i, ok := d.offset.At(image.Pt(int(x), int(y)))
	if !ok {
		i = -1
	}
	if i == d.hover {
		return false
	}
	d.hover = i
	return true
}

func (gv *gridView) MouseLeave(self *views.Handle) bool {
	d := gridDataOf(self)
	d.hover = -1
	return true
}

func (gv *gridView) ButtonPressed(self *views.Handle, x, y float64, which int, typ views.ClickType, state uint32) bool {
	d := gridDataOf(self)
	i, ok := d.offset.At(image.Pt(int(x), int(y)))
	if !ok {
		return false
	}
	switch which {
	case 1: // open image
		gv.session.Select(gv.session.indexOf(d.icons[i]))
		gv.session.RequestView("darkroom")
		return true
	case 3: // mark image
		gv.toggleMarked(d, i)
		return true
	}
	return false
}

func (gv *gridView) KeyPressed(self *views.Handle, code uint16) bool {
	d := gridDataOf(self)
	switch code {
	case upArrowKey:
		d.offset.MoveUpRow()
	case downArrowKey:
		d.offset.MoveDownRow()
	case leftArrowKey:
		d.offset.GotoPage(d.offset.CurrentPage() - 1)
	case rightArrowKey:
		d.offset.GotoPage(d.offset.CurrentPage() + 1)
	case 'N':
		gv.moveUpToNextPageWithMarked(d)
	case 'n':
		gv.moveDownToNextPageWithMarked(d)
	case 'm':
		if d.hover < 0 {
			return false
		}
		gv.toggleMarked(d, d.hover)
	case 'p':
		if d.hover < 0 {
			return false
		}
		gv.session.plumbImage(d.icons[d.hover].path)
	case 'M':
		gv.session.RequestView("marked")
	case 'b', escKey:
		if gv.back == "" {
			return false
		}
		gv.session.RequestView(gv.back)
	default:
		return false
	}
	return true
}

func (gv *gridView) Scrolled(self *views.Handle, x, y float64, dir views.ScrollDirection) {
	d := gridDataOf(self)
	if dir == views.ScrollUp {
		d.offset.MoveUpRow()
	} else {
		d.offset.MoveDownRow()
	}
}

// BorderScrolled pages on the top and bottom borders and moves between
// pages with marks on the left and right ones.
func (gv *gridView) BorderScrolled(self *views.Handle, x, y float64, b views.Border, dir views.ScrollDirection) {
	d := gridDataOf(self)
	switch b {
	case views.BorderTop, views.BorderBottom:
		if dir == views.ScrollUp {
			d.offset.GotoPage(d.offset.CurrentPage() - 1)
		} else {
			d.offset.GotoPage(d.offset.CurrentPage() + 1)
		}
	case views.BorderLeft, views.BorderRight:
		if dir == views.ScrollUp {
			gv.moveUpToNextPageWithMarked(d)
		} else {
			gv.moveDownToNextPageWithMarked(d)
		}
	}
}

// attach moves the grid to r keeping the first visible icon on screen.
func (gv *gridView) attach(d *gridData, r image.Rectangle) {
	if r.Eq(d.grid.area) {
		return
	}
	first, _ := d.offset.Visible()
	d.grid.Attach(r)
	_, cols := d.grid.Dimensions()
	d.offset.GotoRow(first / cols)
	gv.resetPagesWithMarked(d)
}

// publishScroll sets the vertical scroll state of self in grid rows.
func (gv *gridView) publishScroll(self *views.Handle, d *gridData) {
	rows, _ := d.grid.Dimensions()
	d.published = float32(d.offset.Row())
	self.SetScroll(views.Scroll{
		VSize:     float32(d.offset.Rows()),
		VViewport: float32(rows),
		VPos:      d.published,
	})
}

func (gv *gridView) freeCache(d *gridData) {
	if d.cache != nil {
		d.cache.Free()
		d.cache = nil
	}
}

// moveUpToNextPageWithMarked moves up to the next page with a marked icon.
func (gv *gridView) moveUpToNextPageWithMarked(d *gridData) {
	i, _ := slices.BinarySearch(d.pagesWithMarked, d.offset.CurrentPage())
	if i > 0 {
		d.offset.GotoPage(d.pagesWithMarked[i-1])
	}
}

// moveDownToNextPageWithMarked moves down to the next page with a marked icon.
func (gv *gridView) moveDownToNextPageWithMarked(d *gridData) {
	i, found := slices.BinarySearch(d.pagesWithMarked, d.offset.CurrentPage())
	if found {
		i++
	}
	if i < len(d.pagesWithMarked) {
		d.offset.GotoPage(d.pagesWithMarked[i])
	}
}

func (gv *gridView) resetPagesWithMarked(d *gridData) {
	d.pagesWithMarked = d.pagesWithMarked[0:0]
	for i, icon := range d.icons {
		if icon.marked {
			if p := d.offset.PageOfItem(i); !slices.Contains(d.pagesWithMarked, p) {
				d.pagesWithMarked = append(d.pagesWithMarked, p)
			}
		}
	}
}

func (gv *gridView) toggleMarked(d *gridData, i int) {
	d.icons[i].ToggleMarked()
	gv.resetPagesWithMarked(d)
}
