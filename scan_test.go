package aim_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	aim "github.com/Sabirtanvir12/AIM-Forensic-Extractor"

	qt "github.com/frankban/quicktest"
)

func writeTempFile(c *qt.C, name string, content []byte) string {
	c.Helper()
	path := filepath.Join(c.TempDir(), name)
	c.Assert(os.WriteFile(path, content, 0o644), qt.IsNil)
	return path
}

func TestScanSignatures(t *testing.T) {
	c := qt.New(t)

	path := writeTempFile(c, "edited.jpg", []byte("xxAdobe Photoshop CC 2020xx"))
	c.Assert(aim.ScanSignatures(path), qt.Equals, aim.ScanEditingDetected)

	path = writeTempFile(c, "stego.jpg", []byte("payload hidden by steghide"))
	c.Assert(aim.ScanSignatures(path), qt.Equals, aim.ScanStegoMarkers)

	// Editing markers take precedence over steganography markers.
	path = writeTempFile(c, "both.jpg", []byte("steg Photoshop"))
	c.Assert(aim.ScanSignatures(path), qt.Equals, aim.ScanEditingDetected)

	path = writeTempFile(c, "clean.jpg", []byte("nothing of interest"))
	c.Assert(aim.ScanSignatures(path), qt.Equals, aim.ScanNothingFound)

	c.Assert(aim.ScanSignatures(filepath.Join(c.TempDir(), "missing")), qt.Equals, aim.ScanFailed)
}

func TestInspectMetadataBlocks(t *testing.T) {
	c := qt.New(t)

	// A plain encoder-produced JPEG has no APP segments at all.
	path := writeTempFile(c, "plain.jpg", encodeJPEG(c, 16, 16))
	desc, suspicious := aim.InspectMetadataBlocks(path)
	c.Assert(suspicious, qt.IsFalse)
	c.Assert(desc, qt.Equals, "Normal segment layout")

	// Non-JPEG input is out of scope for segment analysis.
	path = writeTempFile(c, "notjpeg.png", []byte("\x89PNG\r\n\x1a\nrest"))
	desc, suspicious = aim.InspectMetadataBlocks(path)
	c.Assert(suspicious, qt.IsFalse)
	c.Assert(desc, qt.Equals, "Not applicable")

	// Two EXIF APP1 segments are a weak tamper indicator.
	jpg := encodeJPEG(c, 16, 16)
	app1 := exifApp1Segment(minimalTIFF())
	doctored := append([]byte{}, jpg[:2]...)
	doctored = append(doctored, app1...)
	doctored = append(doctored, app1...)
	doctored = append(doctored, jpg[2:]...)
	path = writeTempFile(c, "double.jpg", doctored)
	desc, suspicious = aim.InspectMetadataBlocks(path)
	c.Assert(suspicious, qt.IsTrue)
	c.Assert(desc, qt.Equals, "Multiple EXIF blocks present (2)")

	// An Adobe APP14 segment is also flagged.
	app14 := []byte{0xff, 0xee, 0x00, 0x04, 'A', 'd'}
	doctored = append([]byte{}, jpg[:2]...)
	doctored = append(doctored, app14...)
	doctored = append(doctored, jpg[2:]...)
	path = writeTempFile(c, "adobe.jpg", doctored)
	desc, suspicious = aim.InspectMetadataBlocks(path)
	c.Assert(suspicious, qt.IsTrue)
	c.Assert(desc, qt.Equals, "Adobe APP14 segment present")
}

func TestRecompressionCheck(t *testing.T) {
	c := qt.New(t)

	check := aim.RecompressionCheck{Quality: 90, Threshold: 15.0}

	// A uniform image survives recompression nearly unchanged.
	path := writeTempFile(c, "uniform.jpg", encodeJPEG(c, 32, 32))
	res := check.Check(path)
	c.Assert(res.Skipped, qt.IsFalse)
	c.Assert(res.Suspicious, qt.IsFalse)
	c.Assert(res.Score < 15.0, qt.IsTrue, qt.Commentf("score %v", res.Score))

	// Undecodable input skips with a reason instead of failing.
	path = writeTempFile(c, "noise.jpg", []byte("not an image at all"))
	res = check.Check(path)
	c.Assert(res.Skipped, qt.IsTrue)
	c.Assert(res.Reason, qt.Not(qt.Equals), "")

	res = check.Check(filepath.Join(c.TempDir(), "missing.jpg"))
	c.Assert(res.Skipped, qt.IsTrue)
	c.Assert(res.Reason, qt.Not(qt.Equals), "")
}

// encodeJPEG renders a uniform gray image through the stock encoder.
func encodeJPEG(c *qt.C, w, h int) []byte {
	c.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 120, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	c.Assert(jpeg.Encode(&buf, img, nil), qt.IsNil)
	return buf.Bytes()
}
