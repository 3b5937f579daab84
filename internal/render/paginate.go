package render

// Page is one slice of a list. The first page carries the initial items and,
// when more remain, the offset the lazy tail should be fetched from.
type Page[T any] struct {
	Items      []T
	Total      int
	Offset     int
	NextOffset int
}

// HasMore reports whether a lazy tail must be requested after this page.
func (p Page[T]) HasMore() bool { return p.NextOffset > 0 }

// Paginate returns the first `initial` items when offset is zero, or the whole
// remainder from offset on. There is never more than one lazy tail.
func Paginate[T any](items []T, initial, offset int) Page[T] {
	total := len(items)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	if offset > 0 || initial <= 0 || total <= initial {
		return Page[T]{Items: items[offset:], Total: total, Offset: offset}
	}
	return Page[T]{Items: items[:initial], Total: total, NextOffset: initial}
}

// Sentinel describes the placeholder that fetches a lazy tail once it loads.
type Sentinel struct {
	URL     string
	DelayMs int64
}
