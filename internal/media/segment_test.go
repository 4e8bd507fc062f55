package media

import (
	"testing"
	"time"
)

func itemAt(ts time.Time) *Item {
	return &Item{Kind: KindPhoto, Timestamp: ts}
}

func TestGroupEmpty(t *testing.T) {
	segments := Group(nil, time.Hour)
	if len(segments) != 0 {
		t.Errorf("expected no segments, got %d", len(segments))
	}
}

func TestGroupSingleItem(t *testing.T) {
	base := time.Date(2025, 7, 26, 9, 0, 0, 0, time.UTC)
	segments := Group([]*Item{itemAt(base)}, time.Hour)

	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if len(segments[0]) != 1 {
		t.Errorf("expected 1 item, got %d", len(segments[0]))
	}
}

func TestGroupSplitsOnGap(t *testing.T) {
	base := time.Date(2025, 7, 26, 9, 0, 0, 0, time.UTC)
	items := []*Item{
		itemAt(base),
		itemAt(base.Add(10 * time.Second)),
		itemAt(base.Add(4000 * time.Second)),
		itemAt(base.Add(4010 * time.Second)),
	}

	segments := Group(items, 3600*time.Second)

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if len(segments[0]) != 2 || len(segments[1]) != 2 {
		t.Errorf("expected 2+2 items, got %d+%d", len(segments[0]), len(segments[1]))
	}
	if !segments[1][0].Timestamp.Equal(base.Add(4000 * time.Second)) {
		t.Errorf("second segment starts at wrong item")
	}
}

func TestGroupGapExactlyThreshold(t *testing.T) {
	base := time.Date(2025, 7, 26, 9, 0, 0, 0, time.UTC)
	items := []*Item{
		itemAt(base),
		itemAt(base.Add(time.Hour)),
	}

	// boundary opens only on strictly-greater gaps
	segments := Group(items, time.Hour)
	if len(segments) != 1 {
		t.Errorf("gap equal to threshold should not split, got %d segments", len(segments))
	}

	segments = Group(items, time.Hour-time.Second)
	if len(segments) != 2 {
		t.Errorf("gap above threshold should split, got %d segments", len(segments))
	}
}

func TestGroupInvariants(t *testing.T) {
	base := time.Date(2025, 7, 26, 9, 0, 0, 0, time.UTC)
	offsets := []time.Duration{
		0, time.Minute, 2 * time.Hour, 2*time.Hour + time.Minute,
		10 * time.Hour, 30 * time.Hour,
	}

	var items []*Item
	for _, off := range offsets {
		items = append(items, itemAt(base.Add(off)))
	}

	threshold := time.Hour
	segments := Group(items, threshold)

	total := 0
	var prev time.Time
	for si, seg := range segments {
		if len(seg) == 0 {
			t.Fatalf("segment %d is empty", si)
		}
		for i, item := range seg {
			if total > 0 && item.Timestamp.Before(prev) {
				t.Errorf("timestamps not non-decreasing at segment %d item %d", si, i)
			}
			if i > 0 && item.Timestamp.Sub(seg[i-1].Timestamp) > threshold {
				t.Errorf("intra-segment gap above threshold at segment %d item %d", si, i)
			}
			prev = item.Timestamp
			total++
		}
		if si > 0 {
			gap := seg[0].Timestamp.Sub(segments[si-1][len(segments[si-1])-1].Timestamp)
			if gap <= threshold {
				t.Errorf("boundary gap %v not above threshold before segment %d", gap, si)
			}
		}
	}

	if total != len(items) {
		t.Errorf("expected %d items across segments, got %d", len(items), total)
	}
}
