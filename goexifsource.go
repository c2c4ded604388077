package aim

import (
	"os"
	"strconv"
	"sync"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"
)

var registerMknoteOnce sync.Once

// supplementaryFields is the fixed set of tags resolved through the
// secondary decoder. It deliberately overlaps little with what the
// streaming source surfaces; the merge is supplement-only anyway.
var supplementaryFields = []exif.FieldName{
	"Orientation",
	"LightSource",
	"ExposureProgram",
	"MeteringMode",
	"WhiteBalance",
	"SceneCaptureType",
	"LensModel",
	"LensSerialNumber",
	"BodySerialNumber",
	"Contrast",
	"Saturation",
	"Sharpness",
	"DigitalZoomRatio",
	"ExposureBiasValue",
	"MaxApertureValue",
	"SubjectDistance",
	"FocalLengthIn35mmFilm",
}

// goexifSource is the secondary EXIF source. It runs rwcarlsen/goexif
// against the file and exposes a fixed pre-named set of supplementary
// tags the streaming source may miss (maker notes included).
type goexifSource struct{}

// NewGoexifSource returns the secondary, tag-stream based EXIF source.
func NewGoexifSource() ExifSource {
	registerMknoteOnce.Do(func() {
		exif.RegisterParsers(mknote.All...)
	})
	return &goexifSource{}
}

func (s *goexifSource) Name() string { return "goexif" }

// Resolve returns (nil, nil) when goexif finds no EXIF data; a missing
// block is not an error for the pipeline.
func (s *goexifSource) Resolve(path string) (TagSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, nil
	}

	tags := make(TagSet)
	for _, name := range supplementaryFields {
		tag, err := x.Get(name)
		if err != nil || tag == nil {
			continue
		}
		if v, ok := convertGoexifTag(tag); ok {
			tags[string(name)] = v
		}
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}

func convertGoexifTag(tag *tiff.Tag) (TagValue, bool) {
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return TagValue{}, false
		}
		return TextValue(printableString(s)), true
	case tiff.IntVal:
		n, err := tag.Int(0)
		if err != nil {
			return TagValue{}, false
		}
		return IntegerValue(int64(n)), true
	case tiff.RatVal:
		num, den, err := tag.Rat2(0)
		if err != nil {
			return TagValue{}, false
		}
		return RationalValue(num, den), true
	case tiff.FloatVal:
		f, err := tag.Float(0)
		if err != nil {
			return TagValue{}, false
		}
		return TextValue(strconv.FormatFloat(f, 'f', -1, 64)), true
	default:
		s := printableString(tag.String())
		if s == "" {
			return TagValue{}, false
		}
		return TextValue(s), true
	}
}
