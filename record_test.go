package aim_test

import (
	"encoding/json"
	"strings"
	"testing"

	aim "github.com/Sabirtanvir12/AIM-Forensic-Extractor"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

func TestRecordJSON(t *testing.T) {
	c := qt.New(t)

	rec := &aim.MetadataRecord{}
	rec.Add("A", aim.FlatFields{{Name: "k", Value: "v"}})
	rec.Add("B", aim.NestedGroups{{Name: "G", Fields: []aim.Field{{Name: "k2", Value: "v2"}}}})
	rec.Add("C", aim.StringList{"w"})
	rec.Add("D", aim.Placeholder("p"))

	b, err := rec.JSON()
	c.Assert(err, qt.IsNil)
	c.Assert(json.Valid(b), qt.IsTrue)

	want := `{
    "A": {
        "k": "v"
    },
    "B": {
        "G": {
            "k2": "v2"
        }
    },
    "C": [
        "w"
    ],
    "D": "p"
}`
	c.Assert(string(b), qt.Equals, want)
}

func TestRecordCategoryOrder(t *testing.T) {
	c := qt.New(t)

	// Insertion order must survive into the rendering; sorted map keys
	// would reorder these.
	rec := &aim.MetadataRecord{}
	rec.Add("Zulu", aim.Placeholder("1"))
	rec.Add("Alpha", aim.Placeholder("2"))
	rec.Add("Mike", aim.Placeholder("3"))

	var names []string
	for _, cat := range rec.Categories() {
		names = append(names, cat.Name)
	}
	c.Assert(cmp.Diff([]string{"Zulu", "Alpha", "Mike"}, names), qt.Equals, "")

	b, err := rec.JSON()
	c.Assert(err, qt.IsNil)
	s := string(b)
	c.Assert(strings.Index(s, "Zulu") < strings.Index(s, "Alpha"), qt.IsTrue)
	c.Assert(strings.Index(s, "Alpha") < strings.Index(s, "Mike"), qt.IsTrue)
}

func TestRecordLookup(t *testing.T) {
	c := qt.New(t)

	rec := &aim.MetadataRecord{}
	rec.Add(aim.CategoryGPS, aim.Placeholder("No GPS data found"))

	v, found := rec.Lookup(aim.CategoryGPS)
	c.Assert(found, qt.IsTrue)
	c.Assert(v, qt.Equals, aim.Placeholder("No GPS data found"))

	_, found = rec.Lookup(aim.CategoryCamera)
	c.Assert(found, qt.IsFalse)

	c.Assert(rec.Failed(), qt.IsFalse)
	rec.Add(aim.CategoryError, aim.Placeholder("boom"))
	c.Assert(rec.Failed(), qt.IsTrue)
}

func TestRecordReport(t *testing.T) {
	c := qt.New(t)

	rec := &aim.MetadataRecord{}
	rec.Add(aim.CategoryFileInfo, aim.FlatFields{{Name: "File Name", Value: "a.jpg"}})
	rec.Add(aim.CategoryIntegrity, aim.FlatFields{{Name: "MD5", Value: "abc"}})
	rec.Add(aim.CategoryForensic, aim.FlatFields{{Name: "Thumbnail Present", Value: "No"}})
	rec.Add(aim.CategoryWarnings, aim.StringList{"first warning", "second warning"})

	report := rec.Report()

	for _, section := range []string{
		"IMAGE METADATA FORENSIC REPORT",
		"=== FILE INFORMATION ===",
		"=== FORENSIC ANALYSIS REPORT ===",
		"=== FILE INTEGRITY ===",
		"=== FORENSIC INDICATORS ===",
		"=== WARNINGS ===",
		"=== COMPLETE METADATA ===",
	} {
		c.Assert(strings.Contains(report, section), qt.IsTrue, qt.Commentf("missing section %q", section))
	}

	// Sections keep the fixed report order.
	c.Assert(strings.Index(report, "=== FILE INFORMATION ===") <
		strings.Index(report, "=== FILE INTEGRITY ==="), qt.IsTrue)
	c.Assert(strings.Index(report, "=== FILE INTEGRITY ===") <
		strings.Index(report, "=== FORENSIC INDICATORS ==="), qt.IsTrue)
	c.Assert(strings.Index(report, "=== WARNINGS ===") <
		strings.Index(report, "=== COMPLETE METADATA ==="), qt.IsTrue)

	c.Assert(strings.Contains(report, "- first warning\n"), qt.IsTrue)
	c.Assert(strings.Contains(report, "MD5: abc\n"), qt.IsTrue)
	c.Assert(strings.Contains(report, "=== CRITICAL ERROR ==="), qt.IsFalse)
}

func TestRecordReportCriticalError(t *testing.T) {
	c := qt.New(t)

	rec := &aim.MetadataRecord{}
	rec.Add(aim.CategoryError, aim.Placeholder("Failed to process image: boom"))
	rec.Add(aim.CategoryTrace, aim.Placeholder("goroutine 1 [running]:"))

	report := rec.Report()
	c.Assert(strings.Contains(report, "=== CRITICAL ERROR ==="), qt.IsTrue)
	c.Assert(strings.Contains(report, "Failed to process image: boom"), qt.IsTrue)
	c.Assert(strings.Contains(report, "Stack Trace:"), qt.IsTrue)
}
