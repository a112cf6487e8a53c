package search

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"nearby-search-system/geohash"
	"nearby-search-system/models"
)

// Document is one record returned by a range query.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// RangeQuerier is the contract a document store backend satisfies: return
// every document whose field value falls lexicographically in [start, end],
// ordered ascending by that field.
type RangeQuerier interface {
	QueryRange(ctx context.Context, field, start, end string) ([]Document, error)
}

// Request describes one radius search.
type Request struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	// Field is the dotted path to the GeoData value on each record,
	// e.g. "location".
	Field string
}

// Candidate is a matched document annotated with its distance to the
// search center.
type Candidate struct {
	Document
	DistanceKm float64
}

// distanceBuffer widens the accepted radius slightly so records sitting on
// a cell edge are not lost to rounding.
const distanceBuffer = 1.01

// Search runs a radius search: it covers the query circle with the center
// cell plus its 8 neighbors at a radius-derived precision, fans the 9 range
// queries out concurrently, then deduplicates, filters by true great-circle
// distance and sorts nearest-first. A failure in any one query fails the
// whole search.
func Search(ctx context.Context, q RangeQuerier, req Request) ([]Candidate, error) {
	if req.Latitude < -90 || req.Latitude > 90 {
		return nil, fmt.Errorf("%w: latitude %v out of range [-90, 90]", geohash.ErrInvalidInput, req.Latitude)
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return nil, fmt.Errorf("%w: longitude %v out of range [-180, 180]", geohash.ErrInvalidInput, req.Longitude)
	}
	if req.RadiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius %v must be positive", geohash.ErrInvalidInput, req.RadiusKm)
	}
	if req.Field == "" {
		return nil, fmt.Errorf("%w: empty geo field path", geohash.ErrInvalidInput)
	}

	precision := geohash.PrecisionForRadius(req.RadiusKm)
	buffer := req.RadiusKm * distanceBuffer

	centerHash := geohash.Encode(req.Latitude, req.Longitude, geohash.StoredPrecision)[:precision]
	cells, err := geohash.Neighbors(centerHash)
	if err != nil {
		return nil, err
	}
	cells = append(cells, centerHash)

	hashField := req.Field + ".geohash"
	results := make([][]Document, len(cells))

	g, gctx := errgroup.WithContext(ctx)
	for i, cell := range cells {
		i, cell := i, cell
		g.Go(func() error {
			docs, err := q.QueryRange(gctx, hashField, cell, cell+geohash.RangeSuffix)
			if err != nil {
				return fmt.Errorf("range query for cell %q: %w", cell, err)
			}
			results[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Overlapping cells can return the same document more than once; the
	// first occurrence in cell order wins. Records without resolvable geo
	// data are not a match.
	seen := make(map[string]struct{})
	var out []Candidate
	for _, docs := range results {
		for _, doc := range docs {
			if _, dup := seen[doc.ID]; dup {
				continue
			}
			seen[doc.ID] = struct{}{}

			geo, ok := models.GeoDataAt(doc.Fields, req.Field)
			if !ok {
				continue
			}
			dist := geohash.HaversineKm(req.Latitude, req.Longitude, geo.Latitude, geo.Longitude)
			if dist > buffer {
				continue
			}
			out = append(out, Candidate{Document: doc, DistanceKm: dist})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out, nil
}
