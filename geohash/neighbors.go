package geohash

// neighborOffsets are the direction vectors (latDir, lonDir) of the 8
// adjacent cells, due north first and proceeding clockwise.
var neighborOffsets = [8][2]float64{
	{1, 0},   // N
	{1, 1},   // NE
	{0, 1},   // E
	{-1, 1},  // SE
	{-1, 0},  // S
	{-1, -1}, // SW
	{0, -1},  // W
	{1, -1},  // NW
}

// Neighbors returns the geohashes of the 8 cells adjacent to hash, ordered
// N, NE, E, SE, S, SW, W, NW, at the same precision as hash. Offsets past
// the poles are clamped to ±90; offsets across the antimeridian wrap.
func Neighbors(hash string) ([]string, error) {
	lat, lon, latErr, lonErr, err := Decode(hash)
	if err != nil {
		return nil, err
	}

	// Doubling the error bounds gives the full cell height and width.
	cellHeight := 2 * latErr
	cellWidth := 2 * lonErr

	out := make([]string, 0, len(neighborOffsets))
	for _, off := range neighborOffsets {
		nLat := clampLat(lat + off[0]*cellHeight)
		nLon := wrapLon(lon + off[1]*cellWidth)
		out = append(out, Encode(nLat, nLon, len(hash)))
	}
	return out, nil
}

func clampLat(lat float64) float64 {
	if lat > 90 {
		return 90
	}
	if lat < -90 {
		return -90
	}
	return lat
}

func wrapLon(lon float64) float64 {
	if lon > 180 {
		return lon - 360
	}
	if lon < -180 {
		return lon + 360
	}
	return lon
}
