package main

import (
	"image"
	"log"
	"path/filepath"
	"slices"

	"9fans.net/go/plan9"
	"9fans.net/go/plan9/client"
	"9fans.net/go/plumb"
)

// Session is the state shared by the view modules: the images and
// which one the user selected. It also carries the requests of the
// modules to switch the active view, which the shell applies once the
// event that caused them has been dispatched.
type Session struct {
	icons    []*Icon
	selected int

	area     image.Rectangle // the view area, kept current by the shell
	iconSize image.Point
	padding  int
	pageSize int         // pages of the icon caches, 0 is one screen
	stats    *log.Logger // cache statistics, nil to disable

	requests []string
	plumber  *client.Fid
}

// NewSession returns a session for icons with nothing selected.
func NewSession(icons []*Icon) *Session {
	return &Session{
		icons:    icons,
		selected: -1,
		area:     image.Rect(0, 0, 1300, 1000),
		iconSize: image.Pt(320, 240),
		padding:  4,
	}
}

// Select makes icon i the selected one. An index out of range clears the selection.
func (s *Session) Select(i int) {
	if i < 0 || i >= len(s.icons) {
		i = -1
	}
	s.selected = i
}

// Selected returns the selected icon index.
func (s *Session) Selected() (int, bool) {
	return s.selected, s.selected >= 0
}

// indexOf returns the index of icon in the session or -1.
func (s *Session) indexOf(icon *Icon) int {
	return slices.Index(s.icons, icon)
}

// Marked returns the marked icons.
func (s *Session) Marked() []*Icon {
	var icons []*Icon
	for _, icon := range s.icons {
		if icon.marked {
			icons = append(icons, icon)
		}
	}
	return icons
}

// RequestView asks the shell to switch to the view module id.
func (s *Session) RequestView(id string) {
	s.requests = append(s.requests, id)
}

// takeRequests returns and clears the pending view requests.
func (s *Session) takeRequests() []string {
	r := s.requests
	s.requests = nil
	return r
}

// connectToPlumber opens the plumber. Without it plumbing is disabled.
func (s *Session) connectToPlumber() {
	fid, err := plumb.Open("send", plan9.OWRITE|plan9.OCEXEC)
	if err != nil {
		log.Printf("plumber not available: %v", err)
		return
	}
	s.plumber = fid
}

// plumbImage sends the path of an image to the plumber.
func (s *Session) plumbImage(path string) {
	if s.plumber == nil {
		log.Printf("plumber not available")
		return
	}

	m := plumb.Message{
		Src:  progName,
		Dir:  filepath.Dir(path),
		Type: "text",
		Data: []byte(path),
	}
	if err := m.Send(s.plumber); err != nil {
		log.Printf("plumber: %v", err)
	}
}
