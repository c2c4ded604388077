package aim

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	toolName    = "AIM Forensic Extractor"
	toolVersion = "v1.0"

	defaultTamperQuality   = 90
	defaultTamperThreshold = 15.0
)

// Placeholders for categories whose source data is unavailable.
const (
	noGPSData      = "No GPS data found"
	noDateTimeData = "No date/time metadata found"
	noCameraData   = "No camera metadata found"
)

// Options configures an Extractor. The zero value gives the default
// pipeline: streaming primary EXIF source, goexif secondary source,
// built-in device patterns and the recompression tamper check.
type Options struct {
	// Warnf is called for each recoverable anomaly, in addition to the
	// warning being recorded in the output record.
	Warnf func(string, ...any)

	// Primary and Secondary override the two EXIF sources.
	// The primary source is authoritative for every tag it provides.
	Primary   ExifSource
	Secondary ExifSource

	// DevicePatterns overrides the phone brand signature table.
	DevicePatterns []DevicePattern

	// TamperCheck overrides the recompression check.
	TamperCheck TamperCheck
	// DisableTamperCheck turns the optional pixel recompression check off.
	DisableTamperCheck bool
	// TamperQuality is the fixed JPEG re-encode quality. Default 90.
	TamperQuality int
	// TamperThreshold is the mean-absolute-difference score above which
	// the recompression check reports a manipulation indicator.
	// An uncalibrated heuristic; default 15 on a 0-255 scale.
	TamperThreshold float64
}

// Extractor runs the metadata assembly pipeline. One Extract call
// processes exactly one file, synchronously, and always returns a
// record; failures are encoded in record content.
type Extractor struct {
	opts    Options
	matcher *DeviceMatcher
}

func NewExtractor(opts Options) *Extractor {
	if opts.Warnf == nil {
		opts.Warnf = func(string, ...any) {}
	}
	if opts.DevicePatterns == nil {
		opts.DevicePatterns = DefaultDevicePatterns()
	}
	if opts.TamperQuality == 0 {
		opts.TamperQuality = defaultTamperQuality
	}
	if opts.TamperThreshold == 0 {
		opts.TamperThreshold = defaultTamperThreshold
	}
	return &Extractor{
		opts:    opts,
		matcher: NewDeviceMatcher(opts.DevicePatterns),
	}
}

// Extract is a convenience wrapper with default options.
func Extract(path string) *MetadataRecord {
	return NewExtractor(Options{}).Extract(path)
}

// Extract reads one image file and assembles its metadata record.
// It never returns an error: recoverable anomalies become warnings or
// placeholders, and a file that cannot be opened or decoded at all
// yields a record in the critical-failure shape.
func (e *Extractor) Extract(path string) *MetadataRecord {
	var warnings []string
	warnf := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		warnings = append(warnings, msg)
		e.opts.Warnf("%s", msg)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return criticalRecord(err)
	}

	fileFields := e.fileInfoFields(path, fi)
	hashes := ComputeFileHashes(path)

	cfg, formatName, err := decodeImageConfig(path)
	if err != nil {
		// Total image-open failure aborts all remaining stages and
		// discards the categories built so far.
		return criticalRecord(err)
	}
	fileFields = append(fileFields,
		Field{"File Type", strings.ToUpper(formatName)},
		Field{"MIME Type", mimeTypes[formatName]},
	)

	rec := &MetadataRecord{}
	rec.Add(CategoryFileInfo, fileFields)

	integrity := make(FlatFields, 0, len(HashAlgorithms))
	for _, name := range HashAlgorithms {
		integrity = append(integrity, Field{name, hashes[name]})
	}
	rec.Add(CategoryIntegrity, integrity)

	rec.Add(CategoryDimensions, dimensionFields(cfg))

	primaryTags := e.resolveSource(e.primarySource(warnf), path, warnf)
	secondaryTags := e.resolveSource(e.secondarySource(), path, warnf)
	merged := MergeTagSets(primaryTags, secondaryTags)

	rec.Add(CategoryForensic, e.forensicFields(path, merged))

	e.addGPS(rec, merged, warnf)
	e.addDateTime(rec, merged)
	e.addCamera(rec, merged)
	e.addAdditional(rec, secondaryTags)

	rec.Add(CategoryTool, FlatFields{
		{"Tool Name", toolName},
		{"Tool Version", toolVersion},
		{"Go Version", runtime.Version()},
		{"Operating System", runtime.GOOS},
		{"Architecture", runtime.GOARCH},
	})

	if len(warnings) > 0 {
		rec.Add(CategoryWarnings, StringList(warnings))
	}

	return rec
}

func (e *Extractor) primarySource(warnf func(string, ...any)) ExifSource {
	if e.opts.Primary != nil {
		return e.opts.Primary
	}
	return NewStreamExifSource(warnf)
}

func (e *Extractor) secondarySource() ExifSource {
	if e.opts.Secondary != nil {
		return e.opts.Secondary
	}
	return NewGoexifSource()
}

func (e *Extractor) tamperCheck() TamperCheck {
	if e.opts.DisableTamperCheck {
		return nil
	}
	if e.opts.TamperCheck != nil {
		return e.opts.TamperCheck
	}
	return RecompressionCheck{Quality: e.opts.TamperQuality, Threshold: e.opts.TamperThreshold}
}

func (e *Extractor) resolveSource(src ExifSource, path string, warnf func(string, ...any)) TagSet {
	tags, err := src.Resolve(path)
	if err != nil {
		warnf("EXIF source %s: %s", src.Name(), err)
	}
	return tags
}

func (e *Extractor) fileInfoFields(path string, fi os.FileInfo) FlatFields {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fields := FlatFields{
		{"File Name", filepath.Base(path)},
		{"File Path", abs},
		{"File Extension", strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))},
		{"File Size", HumanSize(fi.Size())},
	}
	if created, accessed, ok := statTimes(fi); ok {
		fields = append(fields, Field{"Created", created.Format(displayTimeLayout)})
		fields = append(fields, Field{"Modified", fi.ModTime().Format(displayTimeLayout)})
		fields = append(fields, Field{"Accessed", accessed.Format(displayTimeLayout)})
	} else {
		fields = append(fields, Field{"Modified", fi.ModTime().Format(displayTimeLayout)})
	}
	fields = append(fields, Field{"File Permissions", fmt.Sprintf("%03o", fi.Mode().Perm())})
	return fields
}

func decodeImageConfig(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer f.Close()
	return image.DecodeConfig(f)
}

var mimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"tiff": "image/tiff",
	"webp": "image/webp",
	"bmp":  "image/bmp",
}

func dimensionFields(cfg image.Config) FlatFields {
	fields := FlatFields{
		{"Width", fmt.Sprintf("%d pixels", cfg.Width)},
		{"Height", fmt.Sprintf("%d pixels", cfg.Height)},
		{"Megapixels", fmt.Sprintf("%.2f MP", float64(cfg.Width)*float64(cfg.Height)/1e6)},
	}
	if cfg.Height > 0 {
		fields = append(fields, Field{"Aspect Ratio", fmt.Sprintf("%.2f:1", float64(cfg.Width)/float64(cfg.Height))})
	}
	fields = append(fields, Field{"Color Mode", colorModelName(cfg.ColorModel)})
	fields = append(fields, Field{"Has Transparency", yesNo(hasTransparency(cfg.ColorModel))})
	return fields
}

func (e *Extractor) forensicFields(path string, merged TagSet) FlatFields {
	_, hasThumbnail := merged["ThumbnailOffset"]
	blocks, suspicious := InspectMetadataBlocks(path)
	if suspicious {
		blocks += " (suspicious)"
	}

	fields := FlatFields{
		{"Thumbnail Present", yesNo(hasThumbnail)},
		{"Steganography Indicators", ScanSignatures(path)},
		{"Metadata Blocks", blocks},
	}

	if check := e.tamperCheck(); check != nil {
		fields = append(fields, Field{"Recompression Check", formatTamperResult(check.Check(path), e.opts.TamperThreshold)})
	}
	return fields
}

func formatTamperResult(res TamperResult, threshold float64) string {
	if res.Skipped {
		return fmt.Sprintf("Skipped: %s", res.Reason)
	}
	if res.Suspicious {
		return fmt.Sprintf("Possible manipulation: mean pixel difference %.2f exceeds threshold %.2f", res.Score, threshold)
	}
	return fmt.Sprintf("No indication (mean pixel difference %.2f)", res.Score)
}

func (e *Extractor) addGPS(rec *MetadataRecord, merged TagSet, warnf func(string, ...any)) {
	gps := gpsTags(merged)
	fix, ok := ResolveGpsFix(gps)
	if !ok {
		if len(gps) > 0 {
			warnf("GPS data present but could not be resolved to a fix")
		}
		rec.Add(CategoryGPS, Placeholder(noGPSData))
		return
	}

	fields := FlatFields{
		{"Latitude", fmt.Sprintf("%.6f°", fix.Latitude)},
		{"Longitude", fmt.Sprintf("%.6f°", fix.Longitude)},
		{"Google Maps Link", fmt.Sprintf("https://maps.google.com/?q=%.6f,%.6f", fix.Latitude, fix.Longitude)},
		{"OpenStreetMap Link", fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.6f&mlon=%.6f", fix.Latitude, fix.Longitude)},
	}
	if fix.Altitude != nil {
		fields = append(fields, Field{"Altitude", fmt.Sprintf("%s meters", strconv.FormatFloat(*fix.Altitude, 'f', -1, 64))})
	}
	if fix.Timestamp != "" {
		fields = append(fields, Field{"GPS Timestamp", fix.Timestamp})
	}
	if fix.Direction != nil {
		fields = append(fields, Field{"Direction", fmt.Sprintf("%s°", strconv.FormatFloat(*fix.Direction, 'f', -1, 64))})
	}
	rec.Add(CategoryGPS, fields)
}

var dateTags = []struct {
	tag   string
	label string
}{
	{"DateTime", "Capture Time"},
	{"DateTimeOriginal", "Original Capture Time"},
	{"DateTimeDigitized", "Digitization Time"},
}

func (e *Extractor) addDateTime(rec *MetadataRecord, merged TagSet) {
	var fields FlatFields
	for _, d := range dateTags {
		if v, found := merged[d.tag]; found {
			fields = append(fields, Field{d.label, FormatExifTime(v.Display())})
		}
	}
	if v, found := merged["SubSecTimeOriginal"]; found {
		fields = append(fields, Field{"Subsecond Time", v.Display()})
	}
	if len(fields) == 0 {
		rec.Add(CategoryDateTime, Placeholder(noDateTimeData))
		return
	}
	rec.Add(CategoryDateTime, fields)
}

func (e *Extractor) addCamera(rec *MetadataRecord, merged TagSet) {
	var camera, settings []Field

	addText := func(dst *[]Field, tag, label string) {
		if v, found := merged[tag]; found {
			*dst = append(*dst, Field{label, v.Display()})
		}
	}

	addText(&camera, "Make", "Manufacturer")
	addText(&camera, "Model", "Model")
	addText(&camera, "Software", "Software")
	addText(&camera, "ExifVersion", "EXIF Version")
	addText(&camera, "BodySerialNumber", "Camera Serial Number")

	if v, found := merged["ExposureTime"]; found {
		settings = append(settings, Field{"Exposure Time", FormatExposureTime(v)})
	}
	if v, found := merged["FNumber"]; found {
		settings = append(settings, Field{"Aperture", FormatAperture(v)})
	}
	addText(&settings, "ISOSpeedRatings", "ISO Speed")
	if v, found := merged["FocalLength"]; found {
		settings = append(settings, Field{"Focal Length", FormatFocalLength(v)})
	}
	if v, found := merged["Flash"]; found {
		if code, ok := toInt(v); ok {
			settings = append(settings, Field{"Flash", FlashDescription(code)})
		} else {
			settings = append(settings, Field{"Flash", v.Display()})
		}
	}

	if len(camera) == 0 && len(settings) == 0 {
		rec.Add(CategoryCamera, Placeholder(noCameraData))
		return
	}

	var groups NestedGroups
	if len(camera) > 0 {
		groups = append(groups, Group{"Camera", camera})
	}
	if len(settings) > 0 {
		groups = append(groups, Group{"Settings", settings})
	}
	rec.Add(CategoryCamera, groups)

	// Device inference is a side effect of the camera stage: a Model tag
	// matching a phone signature synthesizes an extra category.
	if v, found := merged["Model"]; found {
		if brand, sub, ok := e.matcher.Match(v.Display()); ok {
			rec.Add(CategoryDevice, FlatFields{
				{"Device Type", "Smartphone"},
				{"Brand", brand},
				{"Model", sub},
				{"Operating System", e.matcher.OperatingSystem(brand)},
			})
		}
	}
}

var additionalTags = []struct {
	tag   string
	label string
}{
	{"Orientation", "Orientation"},
	{"LightSource", "Light Source"},
	{"ExposureProgram", "Exposure Program"},
	{"MeteringMode", "Metering Mode"},
	{"WhiteBalance", "White Balance"},
	{"SceneCaptureType", "Scene Type"},
	{"LensModel", "Lens Model"},
	{"LensSerialNumber", "Lens Serial"},
	{"BodySerialNumber", "Camera Serial"},
	{"Contrast", "Contrast"},
	{"Saturation", "Saturation"},
	{"Sharpness", "Sharpness"},
	{"DigitalZoomRatio", "Digital Zoom"},
	{"ExposureBiasValue", "Exposure Bias"},
	{"MaxApertureValue", "Max Aperture"},
	{"SubjectDistance", "Subject Distance"},
	{"FocalLengthIn35mmFilm", "35mm Equivalent Focal Length"},
}

func (e *Extractor) addAdditional(rec *MetadataRecord, secondary TagSet) {
	var fields FlatFields
	for _, a := range additionalTags {
		if v, found := secondary[a.tag]; found {
			fields = append(fields, Field{a.label, v.Display()})
		}
	}
	if len(fields) > 0 {
		rec.Add(CategoryAdditional, fields)
	}
}

func criticalRecord(err error) *MetadataRecord {
	rec := &MetadataRecord{}
	rec.Add(CategoryError, Placeholder(fmt.Sprintf("Failed to process image: %s", err)))
	rec.Add(CategoryTrace, Placeholder(string(debug.Stack())))
	return rec
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func colorModelName(m color.Model) string {
	switch m {
	case color.RGBAModel:
		return "RGBA"
	case color.RGBA64Model:
		return "RGBA64"
	case color.NRGBAModel:
		return "NRGBA"
	case color.NRGBA64Model:
		return "NRGBA64"
	case color.GrayModel:
		return "Grayscale"
	case color.Gray16Model:
		return "Grayscale16"
	case color.CMYKModel:
		return "CMYK"
	case color.YCbCrModel:
		return "YCbCr"
	case color.NYCbCrAModel:
		return "YCbCrA"
	}
	if _, ok := m.(color.Palette); ok {
		return "Palette"
	}
	return "Unknown"
}

func hasTransparency(m color.Model) bool {
	switch m {
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model,
		color.AlphaModel, color.Alpha16Model, color.NYCbCrAModel:
		return true
	}
	if p, ok := m.(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a < 0xffff {
				return true
			}
		}
	}
	return false
}
