// Package gallery holds the lightbox viewer state: a closed/open index over
// the gallery items, circular navigation and bounded zoom.
package gallery

// Zoom bounds and step match the product screenshots viewer.
const (
	ZoomMin  = 0.6
	ZoomMax  = 3.0
	ZoomStep = 0.2
)

// Item is one gallery entry.
type Item struct {
	Src        string
	Alt        string
	CaptionKey string
}

// Lightbox is the viewer state machine. A currentIndex of -1 means closed.
type Lightbox struct {
	items   []Item
	current int
	zoom    float64
}

func New(items []Item) *Lightbox {
	return &Lightbox{items: items, current: -1, zoom: 1.0}
}

func (lb *Lightbox) Len() int { return len(lb.items) }

// Current returns the open index, or -1 when closed.
func (lb *Lightbox) Current() int { return lb.current }

// IsOpen reports whether an image is displayed.
func (lb *Lightbox) IsOpen() bool { return lb.current >= 0 }

// Zoom returns the current zoom level.
func (lb *Lightbox) Zoom() float64 { return lb.zoom }

// Open displays the item at index, wrapping circularly, and resets zoom.
// Opening an empty gallery is a no-op.
func (lb *Lightbox) Open(index int) {
	if len(lb.items) == 0 {
		return
	}
	lb.current = wrap(index, len(lb.items))
	lb.zoom = 1.0
}

// Close clears the displayed image.
func (lb *Lightbox) Close() {
	lb.current = -1
	lb.zoom = 1.0
}

// Next advances circularly; from the last index it wraps to 0.
func (lb *Lightbox) Next() {
	if lb.IsOpen() {
		lb.Open(lb.current + 1)
	}
}

// Prev retreats circularly; from index 0 it wraps to the last index.
func (lb *Lightbox) Prev() {
	if lb.IsOpen() {
		lb.Open(lb.current - 1)
	}
}

// ZoomIn and ZoomOut adjust by one step inside [ZoomMin, ZoomMax].
func (lb *Lightbox) ZoomIn()  { lb.SetZoom(lb.zoom + ZoomStep) }
func (lb *Lightbox) ZoomOut() { lb.SetZoom(lb.zoom - ZoomStep) }

// SetZoom clamps the requested level into bounds.
func (lb *Lightbox) SetZoom(level float64) {
	if level < ZoomMin {
		level = ZoomMin
	}
	if level > ZoomMax {
		level = ZoomMax
	}
	lb.zoom = level
}

// Item returns the open item; ok is false while closed.
func (lb *Lightbox) Item() (Item, bool) {
	if !lb.IsOpen() {
		return Item{}, false
	}
	return lb.items[lb.current], true
}

func wrap(index, n int) int {
	return ((index % n) + n) % n
}
