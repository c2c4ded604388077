package aim

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GpsFix is a resolved geographic coordinate derived from EXIF GPS tags.
// Altitude and Direction are optional; nil when the tag is absent.
type GpsFix struct {
	Latitude  float64
	Longitude float64
	Altitude  *float64
	Direction *float64
	Timestamp string
}

// DegreesToDecimal converts a latitude or longitude value to decimal degrees.
// It accepts a 3-element sequence of (degrees, minutes, seconds) or a
// comma-separated string of three numbers.
func DegreesToDecimal(v TagValue) (float64, error) {
	switch v.Kind {
	case TagSeq:
		seq := v.Seq()
		if len(seq) != 3 {
			return 0, fmt.Errorf("expected 3 values, got %d", len(seq))
		}
		var parts [3]float64
		for i, e := range seq {
			f, ok := e.Float64()
			if !ok {
				return 0, fmt.Errorf("non-numeric coordinate part %q", e.Display())
			}
			parts[i] = f
		}
		return parts[0] + parts[1]/60 + parts[2]/3600, nil
	case TagText:
		return parseDegrees(v.Text())
	case TagRational, TagInteger:
		f, _ := v.Float64()
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported coordinate kind %d", v.Kind)
	}
}

func parseDegrees(s string) (float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected 3 comma-separated values in %q", s)
	}
	var deg, min, sec float64
	for i, p := range []*float64{&deg, &min, &sec} {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse %q: %w", s, err)
		}
		*p = f
	}
	return deg + min/60 + sec/3600, nil
}

// ResolveGpsFix derives a GpsFix from a normalized GPS tag set.
// It fails (returns false) if latitude, longitude or either hemisphere
// reference is missing or malformed. The reference comparison is
// case-insensitive: anything that isn't "N" negates latitude, anything
// that isn't "E" negates longitude.
func ResolveGpsFix(tags TagSet) (GpsFix, bool) {
	lat, ok := decimalWithRef(tags, "GPSLatitude", "GPSLatitudeRef", "N")
	if !ok || lat < -90 || lat > 90 {
		return GpsFix{}, false
	}
	lon, ok := decimalWithRef(tags, "GPSLongitude", "GPSLongitudeRef", "E")
	if !ok || lon < -180 || lon > 180 {
		return GpsFix{}, false
	}

	fix := GpsFix{Latitude: lat, Longitude: lon}

	if v, found := tags["GPSAltitude"]; found {
		if f, ok := v.Float64(); ok {
			fix.Altitude = &f
		}
	}
	if v, found := tags["GPSImgDirection"]; found {
		if f, ok := v.Float64(); ok {
			fix.Direction = &f
		}
	}
	if v, found := tags["GPSTimeStamp"]; found {
		fix.Timestamp = v.Display()
	}

	return fix, true
}

func decimalWithRef(tags TagSet, coordTag, refTag, positiveRef string) (float64, bool) {
	coord, found := tags[coordTag]
	if !found {
		return 0, false
	}
	ref, found := tags[refTag]
	if !found {
		return 0, false
	}
	d, err := DegreesToDecimal(coord)
	if err != nil {
		return 0, false
	}
	if !strings.EqualFold(strings.TrimSpace(ref.Display()), positiveRef) {
		d = -d
	}
	return d, true
}

// exifTimeLayouts are the known EXIF timestamp shapes, tried in order.
var exifTimeLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
}

const displayTimeLayout = "January 02, 2006 at 15:04:05"

// FormatExifTime normalizes an EXIF timestamp to a long-form human string.
// Unparseable input is returned unchanged.
func FormatExifTime(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range exifTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(displayTimeLayout)
		}
	}
	return s
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// HumanSize converts a byte count to a human-readable string.
// Whole bytes print without decimals, larger units with two.
func HumanSize(n int64) string {
	size := float64(n)
	for _, unit := range sizeUnits {
		if size < 1024 {
			if unit == "B" {
				return fmt.Sprintf("%d %s", n, unit)
			}
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2f PB", size)
}

// FormatExposureTime renders an exposure time tag for display.
func FormatExposureTime(v TagValue) string {
	if v.Kind == TagRational {
		r := v.Rat()
		if r.Den != 1 {
			return fmt.Sprintf("%d/%d sec", r.Num, r.Den)
		}
		return fmt.Sprintf("%d sec", r.Num)
	}
	if f, ok := v.Float64(); ok {
		return fmt.Sprintf("%s sec", strconv.FormatFloat(f, 'f', -1, 64))
	}
	return v.Display()
}

// FormatAperture renders an f-number tag for display.
func FormatAperture(v TagValue) string {
	if f, ok := v.Float64(); ok {
		return fmt.Sprintf("f/%.1f", f)
	}
	return v.Display()
}

// FormatFocalLength renders a focal length tag for display.
func FormatFocalLength(v TagValue) string {
	if f, ok := v.Float64(); ok {
		return fmt.Sprintf("%.1f mm", f)
	}
	return v.Display()
}
