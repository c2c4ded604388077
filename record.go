package aim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Category labels, in the order they appear in a record.
const (
	CategoryFileInfo   = "File Information"
	CategoryIntegrity  = "File Integrity"
	CategoryDimensions = "Image Dimensions"
	CategoryForensic   = "Forensic Analysis"
	CategoryGPS        = "GPS & Location"
	CategoryDateTime   = "Date & Time"
	CategoryCamera     = "Camera Information"
	CategoryDevice     = "Device Information"
	CategoryAdditional = "Additional EXIF Data"
	CategoryTool       = "Tool Information"
	CategoryWarnings   = "Warnings"
	CategoryError      = "Critical Error"
	CategoryTrace      = "Stack Trace"
)

// Field is one display-ready name/value pair.
type Field struct {
	Name  string
	Value string
}

// Group is a named sub-group of fields inside a category.
type Group struct {
	Name   string
	Fields []Field
}

// CategoryValue is the closed set of category payload shapes.
type CategoryValue interface {
	isCategoryValue()
	appendJSON(buf *bytes.Buffer)
}

// FlatFields is an ordered flat mapping from field name to display value.
type FlatFields []Field

// NestedGroups is an ordered mapping of named sub-groups.
type NestedGroups []Group

// StringList is a plain list of strings (warnings).
type StringList []string

// Placeholder marks a category whose source data was unavailable,
// or carries a single free-text value.
type Placeholder string

func (FlatFields) isCategoryValue()   {}
func (NestedGroups) isCategoryValue() {}
func (StringList) isCategoryValue()   {}
func (Placeholder) isCategoryValue()  {}

// Category is one (label, payload) pair of a record.
type Category struct {
	Name  string
	Value CategoryValue
}

// MetadataRecord is the ordered, categorized output of one extraction.
// It is fully populated at assembly time and read-only thereafter.
type MetadataRecord struct {
	categories []Category
}

// Add appends a category. Insertion order is preserved in all renderings.
func (r *MetadataRecord) Add(name string, v CategoryValue) {
	r.categories = append(r.categories, Category{Name: name, Value: v})
}

// Categories returns the categories in insertion order.
func (r *MetadataRecord) Categories() []Category {
	return r.categories
}

// Lookup returns the payload for a category label.
func (r *MetadataRecord) Lookup(name string) (CategoryValue, bool) {
	for _, c := range r.categories {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// Failed reports whether the record is in the critical-failure shape.
func (r *MetadataRecord) Failed() bool {
	_, found := r.Lookup(CategoryError)
	return found
}

func appendJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

func appendJSONFields(buf *bytes.Buffer, fields []Field) {
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		appendJSONString(buf, f.Name)
		buf.WriteByte(':')
		appendJSONString(buf, f.Value)
	}
	buf.WriteByte('}')
}

func (v FlatFields) appendJSON(buf *bytes.Buffer) {
	appendJSONFields(buf, v)
}

func (v NestedGroups) appendJSON(buf *bytes.Buffer) {
	buf.WriteByte('{')
	for i, g := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		appendJSONString(buf, g.Name)
		buf.WriteByte(':')
		appendJSONFields(buf, g.Fields)
	}
	buf.WriteByte('}')
}

func (v StringList) appendJSON(buf *bytes.Buffer) {
	buf.WriteByte('[')
	for i, s := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		appendJSONString(buf, s)
	}
	buf.WriteByte(']')
}

func (v Placeholder) appendJSON(buf *bytes.Buffer) {
	appendJSONString(buf, string(v))
}

// MarshalJSON renders the record as a single JSON object whose keys appear
// in category insertion order. Plain maps would lose the ordering.
func (r *MetadataRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		appendJSONString(&buf, c.Name)
		buf.WriteByte(':')
		c.Value.appendJSON(&buf)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSON renders the record with 4-space indentation.
func (r *MetadataRecord) JSON() ([]byte, error) {
	b, err := r.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "    "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Report flattens the record to a plain-text forensic report:
// file information, the forensic-analysis block, then the complete
// structured dump.
func (r *MetadataRecord) Report() string {
	var sb strings.Builder
	rule := strings.Repeat("=", 60)

	sb.WriteString(rule + "\n")
	sb.WriteString("IMAGE METADATA FORENSIC REPORT\n")
	sb.WriteString(rule + "\n\n")

	if v, found := r.Lookup(CategoryFileInfo); found {
		if fields, ok := v.(FlatFields); ok {
			sb.WriteString("=== FILE INFORMATION ===\n")
			for _, f := range fields {
				fmt.Fprintf(&sb, "%s: %s\n", f.Name, f.Value)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString(r.forensicText())

	sb.WriteString("\n=== COMPLETE METADATA ===\n")
	if b, err := r.JSON(); err == nil {
		sb.Write(b)
		sb.WriteString("\n")
	}

	return sb.String()
}

// forensicText renders the forensic-analysis block: file integrity,
// forensic indicators, warnings, and the critical error if present.
func (r *MetadataRecord) forensicText() string {
	var sb strings.Builder
	sb.WriteString("=== FORENSIC ANALYSIS REPORT ===\n\n")

	if v, found := r.Lookup(CategoryIntegrity); found {
		if fields, ok := v.(FlatFields); ok {
			sb.WriteString("=== FILE INTEGRITY ===\n")
			for _, f := range fields {
				fmt.Fprintf(&sb, "%s: %s\n", f.Name, f.Value)
			}
			sb.WriteString("\n")
		}
	}

	if v, found := r.Lookup(CategoryForensic); found {
		if fields, ok := v.(FlatFields); ok {
			sb.WriteString("=== FORENSIC INDICATORS ===\n")
			for _, f := range fields {
				fmt.Fprintf(&sb, "%s: %s\n", f.Name, f.Value)
			}
			sb.WriteString("\n")
		}
	}

	if v, found := r.Lookup(CategoryWarnings); found {
		if warnings, ok := v.(StringList); ok && len(warnings) > 0 {
			sb.WriteString("=== WARNINGS ===\n")
			for _, w := range warnings {
				fmt.Fprintf(&sb, "- %s\n", w)
			}
			sb.WriteString("\n")
		}
	}

	if v, found := r.Lookup(CategoryError); found {
		sb.WriteString("=== CRITICAL ERROR ===\n")
		if msg, ok := v.(Placeholder); ok {
			sb.WriteString(string(msg) + "\n")
		}
		if t, found := r.Lookup(CategoryTrace); found {
			if trace, ok := t.(Placeholder); ok {
				sb.WriteString("\nStack Trace:\n" + string(trace) + "\n")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
