package geo

import "food-dash/internal/model"

// polylinePrecision is the fixed divisor of the encoded polyline format.
const polylinePrecision = 1e5

// DecodePolyline decodes a compact encoded-route string into an ordered
// sequence of coordinates using signed delta-varint decoding. An empty or
// malformed tail yields whatever decoded cleanly; it never fails.
func DecodePolyline(encoded string) []model.Coordinates {
	coords := []model.Coordinates{}
	var lat, lng int64

	i := 0
	for i < len(encoded) {
		dLat, n := decodeSignedVarint(encoded[i:])
		if n == 0 {
			break
		}
		i += n

		dLng, n := decodeSignedVarint(encoded[i:])
		if n == 0 {
			break
		}
		i += n

		lat += dLat
		lng += dLng
		coords = append(coords, model.Coordinates{
			Lat: float64(lat) / polylinePrecision,
			Lng: float64(lng) / polylinePrecision,
		})
	}

	return coords
}

// decodeSignedVarint reads one zigzag-encoded delta from the head of s and
// returns it with the number of bytes consumed. A truncated chunk sequence
// consumes zero bytes.
func decodeSignedVarint(s string) (int64, int) {
	var result int64
	var shift uint

	for n := 0; n < len(s); n++ {
		b := int64(s[n]) - 63
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			if result&1 != 0 {
				return ^(result >> 1), n + 1
			}
			return result >> 1, n + 1
		}
	}

	return 0, 0
}
