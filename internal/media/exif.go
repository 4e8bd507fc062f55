package media

import (
	"fmt"
	"image"
	"os"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
)

// exifTimeLayout is the timestamp format used by EXIF DateTimeOriginal.
const exifTimeLayout = "2006:01:02 15:04:05"

// PhotoMeta is the best-effort metadata for one photo. Timestamp is always
// set; everything else is optional. Diagnostics records why a field fell
// back, so tests and verbose logs can inspect failure modes that would
// otherwise be swallowed.
type PhotoMeta struct {
	Timestamp   time.Time
	TimeSource  string // "exif" or "mtime"
	Location    *LatLon
	Width       int
	Height      int
	Diagnostics []string
}

// readPhotoMeta extracts metadata from the image at path. The only error
// case is an unreadable file; every metadata-level failure degrades to the
// filesystem fallback instead.
func readPhotoMeta(path string) (PhotoMeta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return PhotoMeta{}, fmt.Errorf("stat: %w", err)
	}

	m := PhotoMeta{
		Timestamp:  info.ModTime(),
		TimeSource: "mtime",
	}

	if w, h, err := imageDimensions(path); err == nil {
		m.Width = w
		m.Height = h
	} else {
		m.Diagnostics = append(m.Diagnostics, "dimensions: "+err.Error())
	}

	f, err := os.Open(path)
	if err != nil {
		m.Diagnostics = append(m.Diagnostics, "open: "+err.Error())
		return m, nil
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		m.Diagnostics = append(m.Diagnostics, "no EXIF data: "+err.Error())
		return m, nil
	}

	// The baseline only moves when DateTimeOriginal parses cleanly.
	if tag, err := x.Get(exif.DateTimeOriginal); err == nil {
		if s, err := tag.StringVal(); err == nil {
			if t, err := time.Parse(exifTimeLayout, s); err == nil {
				m.Timestamp = t
				m.TimeSource = "exif"
			} else {
				m.Diagnostics = append(m.Diagnostics, fmt.Sprintf("unparseable DateTimeOriginal %q", s))
			}
		}
	}

	if lat, ok := gpsCoordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef, "S"); ok {
		if lon, ok := gpsCoordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef, "W"); ok {
			m.Location = &LatLon{Lat: lat, Lon: lon}
		}
	}

	return m, nil
}

// gpsCoordinate reads one degrees/minutes/seconds rational triple and
// converts it to signed decimal degrees. A coordinate counts as valid only
// when every component has a non-zero denominator. The hemisphere reference
// negates southern and western values.
func gpsCoordinate(x *exif.Exif, field, refField exif.FieldName, negRef string) (float64, bool) {
	tag, err := x.Get(field)
	if err != nil || tag.Count < 3 {
		return 0, false
	}

	var dms [3]float64
	for i := 0; i < 3; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil || den == 0 {
			return 0, false
		}
		dms[i] = float64(num) / float64(den)
	}

	deg := dms[0] + dms[1]/60 + dms[2]/3600

	if ref, err := x.Get(refField); err == nil {
		if s, err := ref.StringVal(); err == nil && s == negRef {
			deg = -deg
		}
	}

	return deg, true
}

// imageDimensions reads width and height from the container header without
// decoding pixel data.
func imageDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}

	return cfg.Width, cfg.Height, nil
}
