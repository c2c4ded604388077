package aim

import (
	"regexp"
	"strings"
)

// DevicePattern matches a camera Model tag against one phone brand.
type DevicePattern struct {
	Brand   string
	Pattern *regexp.Regexp
}

// DefaultDevicePatterns returns the built-in brand signature table.
// Table order is the tie-break: the first matching pattern wins.
func DefaultDevicePatterns() []DevicePattern {
	return []DevicePattern{
		{"iPhone", regexp.MustCompile(`(?i)iPhone\s*([0-9]+[a-zA-Z]*)`)},
		{"iPad", regexp.MustCompile(`(?i)iPad\s*([0-9]+[a-zA-Z]*)`)},
		{"Samsung", regexp.MustCompile(`(?i)Samsung[-\s]*(Galaxy\s*[A-Za-z0-9]+)`)},
		{"Huawei", regexp.MustCompile(`(?i)Huawei[-\s]*([A-Za-z0-9]+)`)},
		{"Xiaomi", regexp.MustCompile(`(?i)Xiaomi[-\s]*(Mi\s*[A-Za-z0-9]+)`)},
		{"Google", regexp.MustCompile(`(?i)Google[-\s]*(Pixel\s*[0-9]+)`)},
		{"OnePlus", regexp.MustCompile(`(?i)OnePlus[-\s]*([0-9]+[A-Z]*)`)},
		{"Sony", regexp.MustCompile(`(?i)Sony[-\s]*(Xperia\s*[A-Za-z0-9]+)`)},
		{"LG", regexp.MustCompile(`(?i)LG[-\s]*([A-Za-z0-9]+)`)},
		{"Motorola", regexp.MustCompile(`(?i)Moto[-\s]*([A-Za-z0-9]+)`)},
	}
}

var osByBrand = map[string]string{
	"iphone":   "iOS",
	"ipad":     "iOS",
	"samsung":  "Android",
	"huawei":   "Android",
	"xiaomi":   "Android",
	"google":   "Android",
	"oneplus":  "Android",
	"sony":     "Android",
	"lg":       "Android",
	"motorola": "Android",
}

// DeviceMatcher infers a phone brand and model from a free-text Model tag.
// The pattern table is immutable after construction.
type DeviceMatcher struct {
	patterns []DevicePattern
}

func NewDeviceMatcher(patterns []DevicePattern) *DeviceMatcher {
	return &DeviceMatcher{patterns: patterns}
}

// Match returns the first matching brand and the extracted model.
// If the winning pattern has a capture group, the captured substring is the
// model; otherwise the model is the original string with the brand removed.
// ok is false when no pattern matches, in which case model is the original
// string.
func (m *DeviceMatcher) Match(model string) (brand, sub string, ok bool) {
	for _, p := range m.patterns {
		match := p.Pattern.FindStringSubmatch(model)
		if match == nil {
			continue
		}
		if len(match) > 1 && match[1] != "" {
			return p.Brand, match[1], true
		}
		stripped := strings.TrimSpace(strings.ReplaceAll(model, p.Brand, ""))
		return p.Brand, stripped, true
	}
	return "", model, false
}

// OperatingSystem maps a matched brand to its OS family.
func (m *DeviceMatcher) OperatingSystem(brand string) string {
	if os, found := osByBrand[strings.ToLower(brand)]; found {
		return os
	}
	return "Unknown"
}
