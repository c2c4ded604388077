package aim

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
)

// Signature scan outcomes, first category matched wins.
const (
	ScanEditingDetected = "Potential Photoshop editing detected"
	ScanStegoMarkers    = "Possible steganography markers found"
	ScanNothingFound    = "No obvious steganography markers detected"
	ScanFailed          = "Steganography analysis failed"
)

type byteSignature struct {
	result   string
	patterns [][]byte
}

// Ordered signature table; the first pattern hit decides the result.
var contentSignatures = []byteSignature{
	{ScanEditingDetected, [][]byte{[]byte("Photoshop")}},
	{ScanStegoMarkers, [][]byte{[]byte("Steg"), []byte("steg")}},
}

// ScanSignatures reads the raw file once and reports the first signature
// category found. A read failure degrades to ScanFailed, never an error.
func ScanSignatures(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return ScanFailed
	}
	for _, sig := range contentSignatures {
		for _, p := range sig.patterns {
			if bytes.Contains(content, p) {
				return sig.result
			}
		}
	}
	return ScanNothingFound
}

// InspectMetadataBlocks counts the metadata-carrying segments of a JPEG
// file. Multiple EXIF blocks or an Adobe APP14 segment are weak tamper
// indicators. Non-JPEG input yields no findings.
func InspectMetadataBlocks(path string) (description string, suspicious bool) {
	f, err := os.Open(path)
	if err != nil {
		return "Analysis failed", false
	}
	defer f.Close()

	head := make([]byte, 2)
	if _, err := io.ReadFull(f, head); err != nil || DetectFormat(head) != FormatJPEG {
		return "Not applicable", false
	}

	var exifBlocks, photoshopBlocks, adobeBlocks int

	func() {
		sr := newStreamReader(f, binary.BigEndian)
		defer func() {
			if rec := recover(); rec != nil && rec != errStop {
				panic(rec)
			}
		}()
		for {
			marker := sr.read2()
			if sr.isEOF || marker == markerSOS || marker == markerEOI {
				return
			}
			if marker == 0 {
				continue
			}
			length := sr.read2()
			if length < 2 {
				return
			}
			switch marker {
			case markerApp1EXIF:
				exifBlocks++
			case markerApp13:
				photoshopBlocks++
			case markerApp14:
				adobeBlocks++
			}
			sr.skip(int64(length) - 2)
		}
	}()

	suspicious = exifBlocks > 1 || adobeBlocks > 0
	switch {
	case exifBlocks > 1:
		description = fmt.Sprintf("Multiple EXIF blocks present (%d)", exifBlocks)
	case adobeBlocks > 0:
		description = "Adobe APP14 segment present"
	case photoshopBlocks > 0:
		description = "Photoshop IRB segment present"
	default:
		description = "Normal segment layout"
	}
	return description, suspicious
}

// TamperResult is the typed outcome of a tamper check: either skipped
// with a reason, or an indicator score on a 0-255 scale.
type TamperResult struct {
	Skipped bool
	Reason  string

	Score      float64
	Suspicious bool
}

func tamperSkipped(reason string) TamperResult {
	return TamperResult{Skipped: true, Reason: reason}
}

// TamperCheck is an optional enrichment; a skipped check is a visible,
// reportable state rather than a silent fallthrough.
type TamperCheck interface {
	Check(path string) TamperResult
}

// RecompressionCheck re-encodes the decoded pixel grid as JPEG at a fixed
// quality and compares the mean absolute pixel difference against a
// threshold. The threshold is an uncalibrated heuristic, hence
// configurable.
type RecompressionCheck struct {
	Quality   int
	Threshold float64
}

func (c RecompressionCheck) Check(path string) TamperResult {
	f, err := os.Open(path)
	if err != nil {
		return tamperSkipped(fmt.Sprintf("open failed: %s", err))
	}
	defer f.Close()

	original, _, err := image.Decode(f)
	if err != nil {
		return tamperSkipped(fmt.Sprintf("decode failed: %s", err))
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, original, &jpeg.Options{Quality: c.Quality}); err != nil {
		return tamperSkipped(fmt.Sprintf("re-encode failed: %s", err))
	}

	recompressed, err := jpeg.Decode(&buf)
	if err != nil {
		return tamperSkipped(fmt.Sprintf("re-decode failed: %s", err))
	}

	score, err := meanAbsDiff(original, recompressed)
	if err != nil {
		return tamperSkipped(err.Error())
	}

	return TamperResult{Score: score, Suspicious: score > c.Threshold}
}

// meanAbsDiff computes the mean absolute per-channel difference of two
// images on a 0-255 scale.
func meanAbsDiff(a, b image.Image) (float64, error) {
	ba, bb := a.Bounds(), b.Bounds()
	if ba.Dx() != bb.Dx() || ba.Dy() != bb.Dy() {
		return 0, fmt.Errorf("image dimensions changed during recompression")
	}
	if ba.Dx() == 0 || ba.Dy() == 0 {
		return 0, fmt.Errorf("empty image")
	}

	var sum, count float64
	for y := 0; y < ba.Dy(); y++ {
		for x := 0; x < ba.Dx(); x++ {
			ra, ga, bla, _ := a.At(ba.Min.X+x, ba.Min.Y+y).RGBA()
			rb, gb, blb, _ := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			sum += absDiff(ra>>8, rb>>8) + absDiff(ga>>8, gb>>8) + absDiff(bla>>8, blb>>8)
			count += 3
		}
	}
	return sum / count, nil
}

func absDiff(a, b uint32) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}
