package autodetect

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"markestedt/devpanel/classify"
)

// Reader reads the current clipboard text.
type Reader interface {
	ReadText() (string, error)
}

// Detection is the result of classifying the clipboard
type Detection struct {
	Text     string
	Category classify.Category
}

type subscription struct {
	expected classify.Category
	fn       func(Detection)
}

// Detector classifies clipboard contents on demand and tells subscribers
// when the clipboard holds the kind of content they accept.
type Detector struct {
	clip  Reader
	cache *cache.Cache

	mu     sync.Mutex
	last   Detection
	subs   map[int]subscription
	nextID int
}

// NewDetector creates a detector. Classifications are memoized by content
// hash for ttl, so repeated focus events on an unchanged clipboard skip
// re-parsing large payloads.
func NewDetector(clip Reader, ttl time.Duration) *Detector {
	return &Detector{
		clip:  clip,
		cache: cache.New(ttl, 2*ttl),
		subs:  make(map[int]subscription),
	}
}

// Subscribe registers fn to be called with each detection whose category
// equals expected. The returned function removes the subscription.
func (d *Detector) Subscribe(expected classify.Category, fn func(Detection)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.subs[id] = subscription{expected: expected, fn: fn}

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.subs, id)
	}
}

// Check reads and classifies the clipboard. An empty clipboard leaves the
// last detection untouched and notifies nobody.
func (d *Detector) Check() (Detection, error) {
	text, err := d.clip.ReadText()
	if err != nil {
		return Detection{}, fmt.Errorf("failed to read clipboard: %w", err)
	}
	if text == "" {
		return d.Last(), nil
	}

	det := Detection{Text: text, Category: d.classify(text)}
	slog.Debug("Clipboard classified", "category", det.Category, "length", len(text))

	d.mu.Lock()
	d.last = det
	var matched []func(Detection)
	for _, sub := range d.subs {
		if sub.expected == det.Category {
			matched = append(matched, sub.fn)
		}
	}
	d.mu.Unlock()

	for _, fn := range matched {
		fn(det)
	}
	return det, nil
}

// Last returns the most recent non-empty detection.
func (d *Detector) Last() Detection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

func (d *Detector) classify(text string) classify.Category {
	sum := sha256.Sum256([]byte(text))
	key := hex.EncodeToString(sum[:])

	if v, found := d.cache.Get(key); found {
		return v.(classify.Category)
	}
	c := classify.Classify(text)
	d.cache.Set(key, c, cache.DefaultExpiration)
	return c
}
