package aim

import (
	"os"
	"path/filepath"
	"strings"
)

// SidecarPaths returns the two persisted artifact paths for an image:
// the structured metadata sidecar and the plain-text report, both
// relative to outDir.
func SidecarPaths(imagePath, outDir string) (jsonPath, reportPath string) {
	base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	jsonPath = filepath.Join(outDir, base+"_metadata.json")
	reportPath = filepath.Join(outDir, base+"_metadata_report.txt")
	return
}

// SaveJSON writes the record's structured sidecar file.
func SaveJSON(rec *MetadataRecord, path string) error {
	b, err := rec.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// SaveReport writes the record's plain-text forensic report.
func SaveReport(rec *MetadataRecord, path string) error {
	return os.WriteFile(path, []byte(rec.Report()), 0o644)
}
