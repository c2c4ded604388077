package aim

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// TagKind discriminates the closed set of EXIF tag value shapes.
// The shape is decided once at decode time; formatting code never
// needs to re-inspect raw decoder output.
type TagKind uint8

const (
	TagText TagKind = iota + 1
	TagBytes
	TagInteger
	TagRational
	TagSeq
)

// Rational is an EXIF rational number.
// It's a lightweight version of math/big.Rat.
type Rational struct {
	Num int64
	Den int64
}

// NewRational returns a Rational reduced by the greatest common divisor,
// with a positive denominator.
func NewRational(num, den int64) Rational {
	if den == 0 {
		return Rational{Num: num, Den: 0}
	}
	gcd := func(a, b int64) int64 {
		for b != 0 {
			a, b = b, a%b
		}
		if a < 0 {
			return -a
		}
		return a
	}
	if d := gcd(num, den); d > 1 {
		num, den = num/d, den/d
	}
	if den < 0 {
		num, den = -num, -den
	}
	return Rational{Num: num, Den: den}
}

// Float64 returns the float64 representation of the rational number.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// String returns the string representation of the rational number.
// If the denominator is 1, the string will be the numerator only.
func (r Rational) String() string {
	if r.Den == 1 {
		return strconv.FormatInt(r.Num, 10)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// TagValue is one decoded EXIF value.
type TagValue struct {
	Kind TagKind

	text  string
	bytes []byte
	num   int64
	rat   Rational
	seq   []TagValue
}

func TextValue(s string) TagValue {
	return TagValue{Kind: TagText, text: s}
}

func IntegerValue(n int64) TagValue {
	return TagValue{Kind: TagInteger, num: n}
}

func RationalValue(num, den int64) TagValue {
	return TagValue{Kind: TagRational, rat: NewRational(num, den)}
}

func SeqValue(vs ...TagValue) TagValue {
	return TagValue{Kind: TagSeq, seq: vs}
}

// BytesValue decodes a byte-valued tag. Valid UTF-8 becomes text,
// anything else is decoded as Latin-1 with unmappable bytes replaced.
// Only if both fail does the value stay in its raw byte form.
func BytesValue(b []byte) TagValue {
	b = trimBytesNulls(b)
	if len(b) == 0 {
		return TextValue("")
	}
	if utf8.Valid(b) {
		return TextValue(printableString(string(b)))
	}
	if s, err := charmap.ISO8859_1.NewDecoder().Bytes(b); err == nil {
		return TextValue(printableString(string(s)))
	}
	return TagValue{Kind: TagBytes, bytes: b}
}

func (v TagValue) Text() string    { return v.text }
func (v TagValue) Int() int64      { return v.num }
func (v TagValue) Rat() Rational   { return v.rat }
func (v TagValue) Seq() []TagValue { return v.seq }
func (v TagValue) IsZero() bool    { return v.Kind == 0 }

// Display renders the value as a final display string.
func (v TagValue) Display() string {
	switch v.Kind {
	case TagText:
		return v.text
	case TagBytes:
		return fmt.Sprintf("%q", v.bytes)
	case TagInteger:
		return strconv.FormatInt(v.num, 10)
	case TagRational:
		return v.rat.String()
	case TagSeq:
		parts := make([]string, len(v.seq))
		for i, e := range v.seq {
			parts[i] = e.Display()
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// Float64 coerces the value to a float where that makes sense.
func (v TagValue) Float64() (float64, bool) {
	switch v.Kind {
	case TagInteger:
		return float64(v.num), true
	case TagRational:
		if v.rat.Den == 0 {
			return 0, false
		}
		return v.rat.Float64(), true
	case TagText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		return f, err == nil
	case TagSeq:
		if len(v.seq) == 1 {
			return v.seq[0].Float64()
		}
	}
	return 0, false
}

func printableString(s string) string {
	ss := strings.Map(func(r rune) rune {
		if unicode.IsGraphic(r) {
			return r
		}
		return -1
	}, s)

	return strings.TrimSpace(ss)
}

func trimBytesNulls(b []byte) []byte {
	var lo, hi int
	for lo = 0; lo < len(b) && b[lo] == 0; lo++ {
	}
	for hi = len(b) - 1; hi >= 0 && b[hi] == 0; hi-- {
	}
	if lo > hi {
		return nil
	}
	return b[lo : hi+1]
}
