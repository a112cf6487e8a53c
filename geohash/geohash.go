package geohash

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Alphabet is the 32-symbol geohash character set. It contains no 'a', 'i',
// 'l' or 'o'.
const Alphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// RangeSuffix sorts after every symbol in Alphabet, so the lexicographic
// range [prefix, prefix+RangeSuffix] captures exactly the hashes sharing
// that prefix.
const RangeSuffix = "~"

const (
	// MaxPrecision is the longest supported hash length.
	MaxPrecision = 18
	// StoredPrecision is the hash length persisted on every record.
	StoredPrecision = 9
)

// ErrInvalidInput marks rejected coordinates, malformed hash characters and
// unparseable textual coordinates.
var ErrInvalidInput = errors.New("geohash: invalid input")

// alphabetIndex maps a character back to its 5-bit value, -1 for characters
// outside the alphabet. Built once, never mutated.
var alphabetIndex = buildAlphabetIndex()

func buildAlphabetIndex() [256]int8 {
	var idx [256]int8
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		idx[Alphabet[i]] = int8(i)
	}
	return idx
}

// BoundingBox is the rectangular cell denoted by a geohash.
type BoundingBox struct {
	MinLat float64 `json:"min_latitude"`
	MinLon float64 `json:"min_longitude"`
	MaxLat float64 `json:"max_latitude"`
	MaxLon float64 `json:"max_longitude"`
}

// Encode converts coordinates into a geohash of the given length. Bits
// alternate between longitude and latitude refinement, longitude first, and
// the alternation continues across character boundaries.
func Encode(lat, lon float64, precision int) string {
	if precision < 1 {
		return ""
	}
	if precision > MaxPrecision {
		precision = MaxPrecision
	}

	latMin, latMax := -90.0, 90.0
	lonMin, lonMax := -180.0, 180.0

	var b strings.Builder
	b.Grow(precision)
	even := true // longitude bit
	ch, bit := 0, 0

	for b.Len() < precision {
		if even {
			mid := (lonMin + lonMax) / 2
			if lon > mid {
				ch |= 1 << (4 - bit)
				lonMin = mid
			} else {
				lonMax = mid
			}
		} else {
			mid := (latMin + latMax) / 2
			if lat > mid {
				ch |= 1 << (4 - bit)
				latMin = mid
			} else {
				latMax = mid
			}
		}
		even = !even

		if bit < 4 {
			bit++
		} else {
			b.WriteByte(Alphabet[ch])
			bit, ch = 0, 0
		}
	}

	return b.String()
}

// autoPrecision maps the number of decimal digits in textual coordinates to
// a hash length. Indexed by digit count, capped at 10.
var autoPrecision = [...]int{0, 5, 7, 8, 11, 12, 13, 15, 16, 17, 18}

// EncodeFromStrings encodes textual coordinates, deriving the hash length
// from the number of decimal digits they carry. Callers holding float64
// values cannot use this mode and pick a fixed length via Encode instead.
func EncodeFromStrings(lat, lon string) (string, error) {
	latVal, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return "", fmt.Errorf("%w: latitude %q", ErrInvalidInput, lat)
	}
	lonVal, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return "", fmt.Errorf("%w: longitude %q", ErrInvalidInput, lon)
	}

	digits := decimalDigits(lat)
	if d := decimalDigits(lon); d > digits {
		digits = d
	}
	if digits >= len(autoPrecision) {
		digits = len(autoPrecision) - 1
	}

	return Encode(latVal, lonVal, autoPrecision[digits]), nil
}

func decimalDigits(s string) int {
	if _, frac, ok := strings.Cut(s, "."); ok {
		return len(frac)
	}
	return 0
}

// Decode returns the center of the cell denoted by hash together with the
// half-widths of the cell as error bounds. The empty hash decodes to (0, 0)
// with the full globe as uncertainty.
func Decode(hash string) (lat, lon, latErr, lonErr float64, err error) {
	box, err := DecodeBoundingBox(hash)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	lat = (box.MinLat + box.MaxLat) / 2
	lon = (box.MinLon + box.MaxLon) / 2
	latErr = (box.MaxLat - box.MinLat) / 2
	lonErr = (box.MaxLon - box.MinLon) / 2
	return lat, lon, latErr, lonErr, nil
}

// DecodeBoundingBox runs the inverse bisection and returns the cell bounds.
func DecodeBoundingBox(hash string) (BoundingBox, error) {
	box := BoundingBox{MinLat: -90, MinLon: -180, MaxLat: 90, MaxLon: 180}

	even := true
	for i := 0; i < len(hash); i++ {
		val := alphabetIndex[hash[i]]
		if val < 0 {
			return BoundingBox{}, fmt.Errorf("%w: character %q in hash %q", ErrInvalidInput, hash[i], hash)
		}
		for b := 4; b >= 0; b-- {
			bit := (val >> uint(b)) & 1
			if even {
				mid := (box.MinLon + box.MaxLon) / 2
				if bit == 1 {
					box.MinLon = mid
				} else {
					box.MaxLon = mid
				}
			} else {
				mid := (box.MinLat + box.MaxLat) / 2
				if bit == 1 {
					box.MinLat = mid
				} else {
					box.MaxLat = mid
				}
			}
			even = !even
		}
	}

	return box, nil
}
