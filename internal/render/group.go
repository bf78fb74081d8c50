package render

import (
	"fmt"
	"slices"

	"github.com/guridi/pubsite/internal/publication"
)

// Bucket is the set of publications sharing one category, in display order.
type Bucket struct {
	Category publication.Category
	Pubs     []publication.Publication
}

// Group validates pubs and partitions them into non-empty buckets in page
// order (working papers first). Each bucket is sorted with SortPubs.
func Group(pubs []publication.Publication) ([]Bucket, error) {
	byCat := make(map[publication.Category][]publication.Publication)
	for i, p := range pubs {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("record %d (%q): %w", i+1, p.Title, err)
		}
		byCat[p.Category] = append(byCat[p.Category], p)
	}

	var buckets []Bucket
	for _, c := range publication.Categories() {
		items := byCat[c]
		if len(items) == 0 {
			continue
		}
		SortPubs(items)
		buckets = append(buckets, Bucket{Category: c, Pubs: items})
	}
	return buckets, nil
}

// SortPubs orders forthcoming publications first, then by year descending.
// Equal keys keep their original order.
func SortPubs(pubs []publication.Publication) {
	slices.SortStableFunc(pubs, func(a, b publication.Publication) int {
		switch {
		case a.Year == nil && b.Year == nil:
			return 0
		case a.Year == nil:
			return -1
		case b.Year == nil:
			return 1
		}
		return *b.Year - *a.Year
	})
}
