package aim

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
)

const (
	exifIFDPointer        = 0x8769
	gpsIFDPointer         = 0x8825
	interopIFDPointer     = 0xa005
	byteOrderBigEndian    = 0x4d4d
	byteOrderLittleEndian = 0x4949
)

// exifType represents the basic TIFF tag data types.
type exifType uint16

const (
	typeUnsignedByte  exifType = 1
	typeUnsignedASCII exifType = 2
	typeUnsignedShort exifType = 3
	typeUnsignedLong  exifType = 4
	typeUnsignedRat   exifType = 5
	typeSignedByte    exifType = 6
	typeUndef         exifType = 7
	typeSignedShort   exifType = 8
	typeSignedLong    exifType = 9
	typeSignedRat     exifType = 10
	typeSignedFloat   exifType = 11
	typeSignedDouble  exifType = 12
)

// Size in bytes of each type.
var exifTypeSize = map[exifType]uint32{
	typeUnsignedByte:  1,
	typeUnsignedASCII: 1,
	typeUnsignedShort: 2,
	typeUnsignedLong:  4,
	typeUnsignedRat:   8,
	typeSignedByte:    1,
	typeUndef:         1,
	typeSignedShort:   2,
	typeSignedLong:    4,
	typeSignedRat:     8,
	typeSignedFloat:   4,
	typeSignedDouble:  8,
}

const (
	limitNumTags = 5000
	limitTagSize = 10000
)

type exifDecoder struct {
	*streamReader

	block    *bytes.Reader
	tags     TagSet
	warnf    func(string, ...any)
	tagCount int
}

// decodeEXIFBlock walks a raw TIFF/EXIF block (offsets relative to the
// block start) and returns the decoded tag set. A structural failure
// returns the tags decoded up to that point together with the error;
// single undecodable tags are reported through warnf and skipped.
func decodeEXIFBlock(block []byte, warnf func(string, ...any)) (tags TagSet, err error) {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	br := bytes.NewReader(block)
	d := &exifDecoder{
		streamReader: newStreamReader(br, binary.BigEndian),
		block:        br,
		tags:         make(TagSet),
		warnf:        warnf,
	}

	defer func() {
		if r := recover(); r != nil {
			if r != errStop {
				panic(r)
			}
			err = d.readErr
		}
		tags = d.tags
	}()

	return d.tags, d.decode()
}

func (d *exifDecoder) decode() error {
	byteOrderTag := d.read2()
	switch byteOrderTag {
	case byteOrderBigEndian:
		d.byteOrder = binary.BigEndian
	case byteOrderLittleEndian:
		d.byteOrder = binary.LittleEndian
	default:
		return newInvalidFormatErrorf("unknown byte order 0x%x", byteOrderTag)
	}

	d.skip(2)

	// Main image.
	ifd0Offset := d.read4()
	if ifd0Offset < 8 {
		return nil
	}
	d.seek(int64(ifd0Offset))

	if err := d.decodeTags("IFD0", exifFields); err != nil {
		return err
	}

	// Thumbnail IFD. Only presence-related tags are kept; the rest of
	// IFD1 duplicates IFD0 names and must not overwrite them.
	ifd1Offset := d.read4()
	if ifd1Offset == 0 {
		return nil
	}
	d.seek(int64(ifd1Offset))

	return d.decodeTags("IFD1", exifFieldsThumbnail)
}

func (d *exifDecoder) decodeTags(namespace string, table map[uint16]string) error {
	numTags := d.read2()
	for i := 0; i < int(numTags); i++ {
		d.tagCount++
		if d.tagCount > limitNumTags {
			return nil
		}
		if err := d.decodeTag(namespace, table); err != nil {
			return err
		}
	}
	return nil
}

func (d *exifDecoder) decodeTagsAt(namespace string, offset int64, table map[uint16]string) error {
	oldPos := d.pos()
	defer func() {
		d.seek(oldPos)
	}()
	d.seek(offset)
	return d.decodeTags(namespace, table)
}

// A tag is represented in 12 bytes:
//   - 2 bytes for the tag ID
//   - 2 bytes for the data type
//   - 4 bytes for the number of data values of the specified type
//   - 4 bytes for the value itself, if it fits, otherwise for a pointer to
//     another location where the data may be found.
func (d *exifDecoder) decodeTag(namespace string, table map[uint16]string) error {
	tagID := d.read2()
	dataType := d.read2()
	count := d.read4()

	if count > 0x10000 {
		d.warnf("EXIF tag 0x%x: implausible value count %d, skipped", tagID, count)
		d.skip(4)
		return nil
	}

	if namespace == "IFD0" {
		switch tagID {
		case exifIFDPointer:
			offset := d.read4()
			return d.decodeTagsAt("ExifIFD", int64(offset), exifFields)
		case gpsIFDPointer:
			offset := d.read4()
			return d.decodeTagsAt("GPSIFD", int64(offset), exifFieldsGPS)
		case interopIFDPointer:
			d.skip(4)
			return nil
		}
	}

	typ := exifType(dataType)
	size, known := exifTypeSize[typ]
	if !known {
		d.warnf("EXIF tag 0x%x: unknown type %d, skipped", tagID, dataType)
		d.skip(4)
		return nil
	}

	valLen := size * count
	if valLen > limitTagSize {
		d.skip(4)
		return nil
	}

	tagName, named := table[tagID]
	if !named {
		if namespace == "IFD1" {
			d.skip(4)
			return nil
		}
		tagName = fmt.Sprintf("%s0x%x", UnknownPrefix, tagID)
	}

	var r io.Reader = d.r
	if valLen > 4 {
		valueOffset := d.read4()
		r = io.NewSectionReader(d.block, int64(valueOffset), int64(valLen))
	}

	val := d.convertValues(typ, int(count), int(valLen), r)

	if valLen <= 4 {
		if padding := 4 - valLen; padding > 0 {
			d.skip(int64(padding))
		}
	}

	if !val.IsZero() {
		d.tags[tagName] = val
	}
	return nil
}

func (d *exifDecoder) convertValues(typ exifType, count, length int, r io.Reader) TagValue {
	if count == 0 {
		return TagValue{}
	}

	if typ == typeUnsignedASCII {
		b := d.readBytesFromRVolatile(length, r)
		return TextValue(printableString(string(trimBytesNulls(b[:count]))))
	}

	if typ == typeUndef {
		b := d.readBytesFromRVolatile(length, r)
		cp := make([]byte, count)
		copy(cp, b[:count])
		return BytesValue(cp)
	}

	if count == 1 {
		return d.convertValue(typ, r)
	}

	values := make([]TagValue, count)
	for i := 0; i < count; i++ {
		values[i] = d.convertValue(typ, r)
	}
	return SeqValue(values...)
}

func (d *exifDecoder) convertValue(typ exifType, r io.Reader) TagValue {
	switch typ {
	case typeUnsignedByte:
		return IntegerValue(int64(d.read1r(r)))
	case typeSignedByte:
		return IntegerValue(int64(int8(d.read1r(r))))
	case typeUnsignedShort:
		return IntegerValue(int64(d.read2r(r)))
	case typeSignedShort:
		return IntegerValue(int64(int16(d.read2r(r))))
	case typeUnsignedLong:
		return IntegerValue(int64(d.read4r(r)))
	case typeSignedLong:
		return IntegerValue(int64(d.read4sr(r)))
	case typeUnsignedRat:
		n, den := d.read4r(r), d.read4r(r)
		return RationalValue(int64(n), int64(den))
	case typeSignedRat:
		n, den := d.read4sr(r), d.read4sr(r)
		return RationalValue(int64(n), int64(den))
	case typeSignedFloat:
		f := math.Float32frombits(d.read4r(r))
		return TextValue(strconv.FormatFloat(float64(f), 'f', -1, 32))
	case typeSignedDouble:
		hi, lo := d.read4r(r), d.read4r(r)
		var bits uint64
		if d.byteOrder == binary.BigEndian {
			bits = uint64(hi)<<32 | uint64(lo)
		} else {
			bits = uint64(lo)<<32 | uint64(hi)
		}
		f := math.Float64frombits(bits)
		return TextValue(strconv.FormatFloat(f, 'f', -1, 64))
	default:
		return TagValue{}
	}
}
