package spatial

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// Centroid calculates the geographic centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// PathLength calculates the total path length along a sequence of points in meters
func PathLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(points); i++ {
		total += HaversineDistance(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
	}

	return total
}

// MaxDistanceFrom returns the maximum distance in meters from center to any point
func MaxDistanceFrom(center Point, points []Point) float64 {
	var max float64
	for _, p := range points {
		d := HaversineDistance(center.Lat, center.Lon, p.Lat, p.Lon)
		if d > max {
			max = d
		}
	}
	return max
}
