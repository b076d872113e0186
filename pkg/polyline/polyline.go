// Package polyline implements Google's encoded polyline algorithm with
// precision 5, the format OSRM and most routing providers emit for route
// geometries.
package polyline

// Coordinate is a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

const precision = 1e5

// Decode converts an encoded polyline string into coordinates.
// Returns nil for an empty string.
func Decode(encoded string) []Coordinate {
	if encoded == "" {
		return nil
	}

	var coords []Coordinate
	var lat, lon int
	idx := 0

	for idx < len(encoded) {
		dLat, next := decodeDelta(encoded, idx)
		idx = next
		lat += dLat

		dLon, next := decodeDelta(encoded, idx)
		idx = next
		lon += dLon

		coords = append(coords, Coordinate{
			Lat: float64(lat) / precision,
			Lon: float64(lon) / precision,
		})
	}

	return coords
}

// Encode converts coordinates to an encoded polyline string.
func Encode(coords []Coordinate) string {
	var out []byte
	var prevLat, prevLon int

	for _, c := range coords {
		lat := int(round(c.Lat * precision))
		lon := int(round(c.Lon * precision))

		out = encodeDelta(out, lat-prevLat)
		out = encodeDelta(out, lon-prevLon)

		prevLat = lat
		prevLon = lon
	}

	return string(out)
}

// decodeDelta reads one zigzag-encoded delta starting at idx.
// Returns the delta and the index of the next unread byte.
func decodeDelta(encoded string, idx int) (int, int) {
	result := 0
	shift := 0

	for idx < len(encoded) {
		b := int(encoded[idx]) - 63
		idx++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), idx
	}
	return result >> 1, idx
}

func encodeDelta(out []byte, delta int) []byte {
	v := delta << 1
	if delta < 0 {
		v = ^v
	}
	for v >= 0x20 {
		out = append(out, byte((0x20|(v&0x1f))+63))
		v >>= 5
	}
	return append(out, byte(v+63))
}

func round(f float64) float64 {
	if f < 0 {
		return float64(int(f - 0.5))
	}
	return float64(int(f + 0.5))
}
