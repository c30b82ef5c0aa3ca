package heatmap

// Bucket is the colour intensity of a heatmap cell, 0 (empty) to 5
type Bucket int

const (
	BucketEmpty Bucket = iota
	Bucket1
	Bucket2
	Bucket3
	Bucket4
	Bucket5
)

// BucketFor maps a daily count to its colour bucket.
// Thresholds: 0, 1, 2, 3-4, 5-7, 8+.
func BucketFor(count int) Bucket {
	switch {
	case count <= 0:
		return BucketEmpty
	case count == 1:
		return Bucket1
	case count == 2:
		return Bucket2
	case count <= 4:
		return Bucket3
	case count <= 7:
		return Bucket4
	default:
		return Bucket5
	}
}
