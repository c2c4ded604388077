package aim

import "strconv"

// TagSet maps canonical EXIF tag names to decoded values.
type TagSet map[string]TagValue

// ExifSource resolves the EXIF tags of an image file.
// A nil TagSet with a nil error means the source found no EXIF block;
// callers must tolerate either source being entirely absent.
type ExifSource interface {
	Name() string
	Resolve(path string) (TagSet, error)
}

// MergeTagSets merges two tag sets by explicit priority: the primary
// source wins for every key it provides, the secondary only supplements.
func MergeTagSets(primary, secondary TagSet) TagSet {
	merged := make(TagSet, len(primary)+len(secondary))
	for k, v := range secondary {
		merged[k] = v
	}
	for k, v := range primary {
		merged[k] = v
	}
	return merged
}

// gpsTags extracts the GPS tag mapping from a merged tag set.
// Modern sources surface named GPS tags directly; legacy sources surface a
// single GPSInfo tag holding a flat ordered sequence indexed by GPS tag ID.
// Both shapes normalize to the same named mapping.
func gpsTags(tags TagSet) TagSet {
	gps := make(TagSet)
	for _, name := range []string{
		"GPSLatitudeRef", "GPSLatitude", "GPSLongitudeRef", "GPSLongitude",
		"GPSAltitude", "GPSTimeStamp", "GPSImgDirection",
	} {
		if v, found := tags[name]; found {
			gps[name] = v
		}
	}
	if len(gps) > 0 {
		return gps
	}
	if info, found := tags["GPSInfo"]; found && info.Kind == TagSeq {
		return NormalizeGPSSequence(info.Seq())
	}
	return gps
}

// legacyGPSPositions maps positions of the legacy flat GPS sequence to
// canonical tag names: 1-4 are hemisphere/latitude/hemisphere/longitude,
// 5, 6 and 16 are optional altitude, timestamp and direction.
var legacyGPSPositions = map[int]string{
	1:  "GPSLatitudeRef",
	2:  "GPSLatitude",
	3:  "GPSLongitudeRef",
	4:  "GPSLongitude",
	5:  "GPSAltitude",
	6:  "GPSTimeStamp",
	16: "GPSImgDirection",
}

// NormalizeGPSSequence converts the legacy flat GPS tuple shape to the
// named GPS tag mapping used everywhere else.
func NormalizeGPSSequence(seq []TagValue) TagSet {
	gps := make(TagSet)
	for pos, name := range legacyGPSPositions {
		if pos < len(seq) && !seq[pos].IsZero() {
			gps[name] = seq[pos]
		}
	}
	return gps
}

// toInt coerces a tag value to an integer where that makes sense.
func toInt(v TagValue) (int64, bool) {
	switch v.Kind {
	case TagInteger:
		return v.Int(), true
	case TagRational:
		r := v.Rat()
		if r.Den == 0 {
			return 0, false
		}
		return r.Num / r.Den, true
	case TagText:
		n, err := strconv.ParseInt(v.Text(), 10, 64)
		return n, err == nil
	case TagSeq:
		if len(v.Seq()) > 0 {
			return toInt(v.Seq()[0])
		}
	}
	return 0, false
}
