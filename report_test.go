package aim_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	aim "github.com/Sabirtanvir12/AIM-Forensic-Extractor"

	qt "github.com/frankban/quicktest"
)

func TestSidecarPaths(t *testing.T) {
	c := qt.New(t)

	jsonPath, reportPath := aim.SidecarPaths("/photos/holiday.jpg", "/tmp/out")
	c.Assert(jsonPath, qt.Equals, filepath.Join("/tmp/out", "holiday_metadata.json"))
	c.Assert(reportPath, qt.Equals, filepath.Join("/tmp/out", "holiday_metadata_report.txt"))

	jsonPath, _ = aim.SidecarPaths("noext", ".")
	c.Assert(jsonPath, qt.Equals, "noext_metadata.json")
}

func TestSaveArtifacts(t *testing.T) {
	c := qt.New(t)

	rec := &aim.MetadataRecord{}
	rec.Add(aim.CategoryFileInfo, aim.FlatFields{{Name: "File Name", Value: "a.jpg"}})

	dir := c.TempDir()
	jsonPath, reportPath := aim.SidecarPaths("a.jpg", dir)

	c.Assert(aim.SaveJSON(rec, jsonPath), qt.IsNil)
	b, err := os.ReadFile(jsonPath)
	c.Assert(err, qt.IsNil)
	c.Assert(strings.HasSuffix(string(b), "}\n"), qt.IsTrue)
	c.Assert(strings.Contains(string(b), `"File Name": "a.jpg"`), qt.IsTrue)

	c.Assert(aim.SaveReport(rec, reportPath), qt.IsNil)
	b, err = os.ReadFile(reportPath)
	c.Assert(err, qt.IsNil)
	c.Assert(strings.Contains(string(b), "IMAGE METADATA FORENSIC REPORT"), qt.IsTrue)
}
