package geohash

// precisionSteps maps a radius upper bound in kilometers (inclusive) to the
// minimal hash length whose cell size still covers that radius.
var precisionSteps = []struct {
	maxRadiusKm float64
	length      int
}{
	{0.00477, 9},
	{0.0382, 8},
	{0.153, 7},
	{1.22, 6},
	{4.89, 5},
	{39.1, 4},
	{156, 3},
	{1250, 2},
}

// PrecisionForRadius picks the geohash length used to cover a search radius.
// Smaller radii map to longer, finer hashes.
func PrecisionForRadius(radiusKm float64) int {
	for _, step := range precisionSteps {
		if radiusKm <= step.maxRadiusKm {
			return step.length
		}
	}
	return 1
}
