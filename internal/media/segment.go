package media

import "time"

// Group splits timestamp-sorted items into segments wherever the gap
// between neighbors strictly exceeds the threshold. The input is trusted to
// be sorted; grouping depends only on the timestamp sequence and the
// threshold, so identical inputs always yield identical boundaries.
func Group(items []*Item, gapThreshold time.Duration) []Segment {
	if len(items) == 0 {
		return nil
	}

	var segments []Segment
	current := Segment{items[0]}

	for i := 1; i < len(items); i++ {
		if items[i].Timestamp.Sub(items[i-1].Timestamp) > gapThreshold {
			segments = append(segments, current)
			current = Segment{}
		}
		current = append(current, items[i])
	}

	return append(segments, current)
}
