package aim

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"golang.org/x/image/riff"
)

// ImageFormat is the sniffed container format.
type ImageFormat int

const (
	FormatUnknown ImageFormat = iota
	FormatJPEG
	FormatPNG
	FormatTIFF
	FormatWebP
	FormatGIF
	FormatBMP
)

const (
	markerSOI      = 0xffd8
	markerEOI      = 0xffd9
	markerSOS      = 0xffda
	markerApp1EXIF = 0xffe1
	markerApp13    = 0xffed
	markerApp14    = 0xffee
	pngEXIFMarker  = 0x65584966 // "eXIf"
)

var (
	jpegExifPrefix = []byte("Exif\x00\x00")
	pngSignature   = []byte("\x89PNG\r\n\x1a\n")
	fccWEBP        = riff.FourCC{'W', 'E', 'B', 'P'}
	fccEXIF        = riff.FourCC{'E', 'X', 'I', 'F'}
)

// DetectFormat sniffs the container format from the first file bytes.
func DetectFormat(head []byte) ImageFormat {
	switch {
	case len(head) >= 2 && head[0] == 0xff && head[1] == 0xd8:
		return FormatJPEG
	case len(head) >= 8 && bytes.Equal(head[:8], pngSignature):
		return FormatPNG
	case len(head) >= 4 && (bytes.Equal(head[:4], []byte("II*\x00")) || bytes.Equal(head[:4], []byte("MM\x00*"))):
		return FormatTIFF
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP")):
		return FormatWebP
	case len(head) >= 4 && bytes.Equal(head[:4], []byte("GIF8")):
		return FormatGIF
	case len(head) >= 2 && bytes.Equal(head[:2], []byte("BM")):
		return FormatBMP
	default:
		return FormatUnknown
	}
}

// streamExifSource is the primary EXIF source: it locates the raw EXIF
// block inside the image container and walks it with the streaming
// decoder. Tag IDs are resolved to names and byte values decoded here.
type streamExifSource struct {
	warnf func(string, ...any)
}

// NewStreamExifSource returns the primary streaming EXIF source.
// warnf may be nil.
func NewStreamExifSource(warnf func(string, ...any)) ExifSource {
	return &streamExifSource{warnf: warnf}
}

func (s *streamExifSource) Name() string { return "exif-stream" }

// Resolve returns (nil, nil) when the container carries no EXIF block.
func (s *streamExifSource) Resolve(path string) (TagSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, 16)
	n, _ := io.ReadFull(f, head)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var block []byte
	switch DetectFormat(head[:n]) {
	case FormatJPEG:
		block, err = jpegEXIFBlock(f)
	case FormatPNG:
		block, err = pngEXIFBlock(f)
	case FormatTIFF:
		block, err = io.ReadAll(f)
	case FormatWebP:
		block, err = webpEXIFBlock(f)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, nil
	}

	return decodeEXIFBlock(block, s.warnf)
}

// jpegEXIFBlock scans JPEG segments up to SOS for an APP1 Exif payload
// and returns the contained TIFF block.
func jpegEXIFBlock(r io.ReadSeeker) (block []byte, err error) {
	sr := newStreamReader(r, binary.BigEndian)

	defer func() {
		if rec := recover(); rec != nil {
			if rec != errStop {
				panic(rec)
			}
			err = sr.readErr
		}
	}()

	soi, err := sr.read2E()
	if err != nil || soi != markerSOI {
		return nil, newInvalidFormatErrorf("missing JPEG SOI marker")
	}

	for {
		marker := sr.read2()
		if sr.isEOF {
			return nil, nil
		}
		if marker == 0 {
			continue
		}
		if marker == markerSOS || marker == markerEOI {
			// Start of scan; no metadata past this point.
			return nil, nil
		}

		// Segment length includes its own two bytes.
		length := sr.read2()
		if length < 2 {
			return nil, errInvalidFormat
		}
		length -= 2

		if marker == markerApp1EXIF && length > uint16(len(jpegExifPrefix)) {
			prefix := sr.readBytesVolatile(len(jpegExifPrefix))
			if bytes.Equal(prefix, jpegExifPrefix) {
				block := make([]byte, int(length)-len(jpegExifPrefix))
				if _, err := io.ReadFull(r, block); err != nil {
					return nil, err
				}
				return block, nil
			}
			sr.skip(int64(length) - int64(len(jpegExifPrefix)))
			continue
		}

		sr.skip(int64(length))
	}
}

// pngEXIFBlock walks PNG chunks for an eXIf chunk, which holds a raw
// TIFF block per the PNG extensions spec.
func pngEXIFBlock(r io.ReadSeeker) (block []byte, err error) {
	sr := newStreamReader(r, binary.BigEndian)

	defer func() {
		if rec := recover(); rec != nil {
			if rec != errStop {
				panic(rec)
			}
			err = sr.readErr
		}
	}()

	// Skip signature.
	sr.skip(8)
	for {
		chunkLength, typ := sr.read4(), sr.read4()
		if sr.isEOF {
			return nil, nil
		}
		if typ == pngEXIFMarker {
			block := make([]byte, chunkLength)
			if _, err := io.ReadFull(r, block); err != nil {
				return nil, err
			}
			return block, nil
		}
		sr.skip(int64(chunkLength))
		sr.skip(4) // CRC
	}
}

// webpEXIFBlock walks the RIFF chunks of a WebP file for an EXIF chunk.
func webpEXIFBlock(r io.ReadSeeker) ([]byte, error) {
	formType, rr, err := riff.NewReader(r)
	if err != nil {
		return nil, err
	}
	if formType != fccWEBP {
		return nil, newInvalidFormatErrorf("not a WebP file")
	}

	for {
		chunkID, _, chunkData, err := rr.Next()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if chunkID != fccEXIF {
			continue
		}
		block, err := io.ReadAll(chunkData)
		if err != nil {
			return nil, err
		}
		// Some writers keep the JPEG APP1 prefix in the chunk.
		block = bytes.TrimPrefix(block, jpegExifPrefix)
		return block, nil
	}
}
