package main

import (
	"fmt"
	"iter"
	"log"
	"slices"
	"sync"
	"time"
)

// Loadable is anything that can be lazily loaded and unloaded.
type Loadable interface {
	// Load loads the item and prepares it for use.
	Load() error
	// Unload releases the resources of the item. To use it again,
	// the caller must call Load.
	Unload()
}

// PageCache is a slice of Loadables split into pages. The pages around
// the ones in use are loaded in the background and only a few pages
// stay loaded at any time.
type PageCache[E Loadable] struct {
	name     string
	items    []E
	pageSize int
	keep     int
	stats    *log.Logger // nil disables statistics
	fetchC   chan<- pageRequest
	stopped  <-chan struct{} // closed when the prefetcher returns
	workers  sync.WaitGroup  // page loads and evictions in progress
}

// defaultKeepPages is how many pages a PageCache keeps loaded.
const defaultKeepPages = 5

// NewPageCache returns a PageCache for the items. It starts a goroutine
// to fetch pages before use. Caller must call Free to release it.
func NewPageCache[E Loadable](name string, items []E, pageSize int, stats *log.Logger) *PageCache[E] {
	if pageSize < 1 {
		pageSize = 1
	}
	c := &PageCache[E]{
		name:     name,
		items:    items,
		pageSize: pageSize,
		keep:     defaultKeepPages,
		stats:    stats,
	}
	c.logf("%d pages", c.numPages())
	c.startPreFetcher()
	return c
}

// Items returns the items in [from, to) as an iterator, loading them on the way.
func (c *PageCache[E]) Items(from, to int) iter.Seq[E] {
	return func(yield func(E) bool) {
		for ; from < to; from++ {
			i, ok := c.At(from)
			if !ok || !yield(i) {
				return
			}
		}
	}
}

// At returns the ith item and ensures it is loaded. It also returns a bool
// saying whether the slice contains the item.
func (c *PageCache[E]) At(pos int) (E, bool) {
	if pos < 0 || pos >= len(c.items) {
		var z E
		return z, false
	}
	page := pos / c.pageSize
	c.fetchPagesLater(page-1, page+1)
	c.fetchPageNow(page)
	return c.items[pos], true
}

// Len returns the number of items.
func (c *PageCache[E]) Len() int {
	return len(c.items)
}

// Free stops the prefetcher, waits for the page loads in progress and
// unloads all items. The cache cannot be used after this.
func (c *PageCache[E]) Free() {
	c.stopPreFetcher()
	c.workers.Wait()
	for i := range c.items {
		c.items[i].Unload()
	}
}

func (c *PageCache[E]) logf(format string, args ...any) {
	if c.stats != nil {
		c.stats.Printf("cache %s(%d/%d): %s", c.name, len(c.items), c.pageSize, fmt.Sprintf(format, args...))
	}
}

func (c *PageCache[E]) numPages() int {
	return intCeil(len(c.items), c.pageSize)
}

// pageRequest is a request to the page fetcher for a page.
type pageRequest struct {
	// page is the page number to load.
	page int
	// done is an optional channel to notify after load. Should be buffered.
	done chan int
}

// fetchPageNow requests a page and waits until it is loaded.
func (c *PageCache[E]) fetchPageNow(p int) {
	if c.fetchC != nil && 0 <= p && p < c.numPages() {
		r := pageRequest{p, make(chan int, 1)}
		c.fetchC <- r
		<-r.done
	}
}

// fetchPagesLater requests some pages and returns. The pages are loaded in the background.
func (c *PageCache[E]) fetchPagesLater(pages ...int) {
	for _, p := range pages {
		if c.fetchC != nil && 0 <= p && p < c.numPages() {
			c.fetchC <- pageRequest{p, nil}
		}
	}
}

// startPreFetcher launches the goroutine that (pre)fetches pages and maintains the cache.
// All requests for pages go through c.fetchC.
func (c *PageCache[E]) startPreFetcher() {
	in := make(chan pageRequest)
	stopped := make(chan struct{})
	c.fetchC = in
	c.stopped = stopped
	go func() {
		defer close(stopped)
		loaded := pageSet{capacity: c.keep}
		var inflight loader

		ready := make(chan int)
		for {
			select {
			case req, ok := <-in:
				if !ok {
					return
				}
				if loaded.contains(req.page) {
					if req.done != nil {
						req.done <- req.page
					}
				} else if inflight.track(req) {
					c.workers.Add(1)
					go func(p int) {
						defer c.workers.Done()
						start := time.Now()
						c.mapPageItems(p, func(item E) { item.Load() })
						c.logf("load page %d time %v", p, time.Since(start))
						select {
						case ready <- p:
						case <-stopped:
						}
					}(req.page)
				}
			case page := <-ready:
				if !inflight.isActive(page) {
					panic(fmt.Sprintf("cache: ready page %d not in progress", page))
				}
				if ep, evicted := loaded.add(page); evicted {
					c.workers.Add(1)
					go func(p int) {
						defer c.workers.Done()
						c.logf("evicted page %d", p)
						c.mapPageItems(p, func(item E) { item.Unload() })
					}(ep)
				}
				c.logf("pages %v", loaded.pages)
				inflight.done(page)
			}
		}
	}()
}

// stopPreFetcher stops the fetcher goroutine and waits for it to return.
// Loads it started may still be running.
func (c *PageCache[E]) stopPreFetcher() {
	if c.fetchC != nil {
		close(c.fetchC)
		<-c.stopped
	}
	c.fetchC = nil
}

// mapPageItems processes all the items of a page in parallel.
func (c *PageCache[E]) mapPageItems(p int, fn func(item E)) {
	begin := p * c.pageSize
	end := min(len(c.items), begin+c.pageSize)
	var wg sync.WaitGroup
	for i := begin; i < end; i++ {
		wg.Add(1)
		go func(j int) {
			defer wg.Done()
			fn(c.items[j])
		}(i)
	}
	wg.Wait()
}

// pageSet is the set of loaded pages.
type pageSet struct {
	capacity int
	pages    []int
}

func (ps *pageSet) contains(page int) bool {
	return slices.Contains(ps.pages, page)
}

// add adds the page to the set. If the set is full, it evicts the page
// farthest from the new one and returns it. The bool tells if a page
// was evicted.
func (ps *pageSet) add(page int) (int, bool) {
	if ps.contains(page) {
		return 0, false
	}

	ps.pages = append(ps.pages, page)
	if len(ps.pages) <= ps.capacity {
		return 0, false
	}

	slices.Sort(ps.pages)
	var evicted int
	if i := slices.Index(ps.pages, page); i >= ps.capacity-i-1 {
		evicted = ps.pages[0]
		copy(ps.pages, ps.pages[1:])
	} else {
		evicted = ps.pages[ps.capacity]
	}
	ps.pages = ps.pages[0:ps.capacity]
	return evicted, true
}

// inProgress is an active page request.
type inProgress struct {
	p     int        // the page number
	reply []chan int // channels to notify after loading
}

// loader tracks the active page requests.
type loader struct {
	loading []inProgress
}

// isActive returns whether a request for page is already in progress.
func (l *loader) isActive(page int) bool {
	return slices.ContainsFunc(l.loading, func(this inProgress) bool {
		return this.p == page
	})
}

// track tracks a request for a page. Returns whether this is
// a request for a new page.
func (l *loader) track(req pageRequest) bool {
	var reply []chan int
	if req.done != nil {
		reply = append(reply, req.done)
	}

	i := slices.IndexFunc(l.loading, func(this inProgress) bool {
		return this.p == req.page
	})
	if i != -1 {
		l.loading[i].reply = append(l.loading[i].reply, reply...)
		return false
	}

	l.loading = append(l.loading, inProgress{req.page, reply})
	return true
}

// done removes tracking for the page. It notifies requesters.
func (l *loader) done(page int) {
	i := slices.IndexFunc(l.loading, func(this inProgress) bool {
		return this.p == page
	})
	if i >= 0 {
		for _, c := range l.loading[i].reply {
			c <- page
		}
		l.loading[i] = l.loading[len(l.loading)-1]
		l.loading = l.loading[0 : len(l.loading)-1]
	}
}
