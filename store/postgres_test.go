package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONPath(t *testing.T) {
	assert.Equal(t, []string{"location", "geohash"}, jsonPath("location.geohash"))
	assert.Equal(t, []string{"meta", "location", "geohash"}, jsonPath("meta.location.geohash"))
	assert.Equal(t, []string{"geohash"}, jsonPath("geohash"))
}
