package compose

import "testing"

func TestSubtitleFromFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Reaching_the-Viewpoint.mp4", "Reaching The Viewpoint"},
		{"/trips/italy/sunsetOverVenice.jpg", "Sunset Over Venice"},
		{"IMG_1234.heic", "Img 1234"},
		{"beach-day_2.mov", "Beach Day 2"},
		{"hello.png", "Hello"},
		{"ALLCAPS.mp4", "Allcaps"},
		{"already spaced.jpg", "Already Spaced"},
	}

	for _, tc := range cases {
		if got := SubtitleFromFilename(tc.in); got != tc.want {
			t.Errorf("SubtitleFromFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
