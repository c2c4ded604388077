package aim_test

import (
	"regexp"
	"testing"

	aim "github.com/Sabirtanvir12/AIM-Forensic-Extractor"

	qt "github.com/frankban/quicktest"
)

func TestDeviceMatcher(t *testing.T) {
	c := qt.New(t)

	m := aim.NewDeviceMatcher(aim.DefaultDevicePatterns())

	for _, test := range []struct {
		model string
		brand string
		sub   string
		os    string
	}{
		{"iPhone13Pro", "iPhone", "13Pro", "iOS"},
		{"iPhone 14 Pro Max", "iPhone", "14", "iOS"},
		{"Samsung Galaxy S21", "Samsung", "Galaxy S21", "Android"},
		{"samsung-Galaxy Note20", "Samsung", "Galaxy Note20", "Android"},
		{"Google Pixel 7", "Google", "Pixel 7", "Android"},
		{"HUAWEI P30", "Huawei", "P30", "Android"},
		{"Moto G7", "Motorola", "G7", "Android"},
	} {
		c.Run(test.model, func(c *qt.C) {
			brand, sub, ok := m.Match(test.model)
			c.Assert(ok, qt.IsTrue)
			c.Assert(brand, qt.Equals, test.brand)
			c.Assert(sub, qt.Equals, test.sub)
			c.Assert(m.OperatingSystem(brand), qt.Equals, test.os)
		})
	}
}

func TestDeviceMatcherNoMatch(t *testing.T) {
	c := qt.New(t)

	m := aim.NewDeviceMatcher(aim.DefaultDevicePatterns())

	brand, sub, ok := m.Match("Canon EOS 5D Mark IV")
	c.Assert(ok, qt.IsFalse)
	c.Assert(brand, qt.Equals, "")
	c.Assert(sub, qt.Equals, "Canon EOS 5D Mark IV")
	c.Assert(m.OperatingSystem(brand), qt.Equals, "Unknown")
}

func TestDeviceMatcherFirstMatchWins(t *testing.T) {
	c := qt.New(t)

	m := aim.NewDeviceMatcher([]aim.DevicePattern{
		{Brand: "First", Pattern: regexp.MustCompile(`Phone\s*([0-9]+)`)},
		{Brand: "Second", Pattern: regexp.MustCompile(`Phone`)},
	})

	brand, sub, ok := m.Match("Phone 9")
	c.Assert(ok, qt.IsTrue)
	c.Assert(brand, qt.Equals, "First")
	c.Assert(sub, qt.Equals, "9")

	// A pattern without a capture group strips the brand name instead.
	brand, sub, ok = m.Match("PhoneX")
	c.Assert(ok, qt.IsTrue)
	c.Assert(brand, qt.Equals, "Second")
	c.Assert(sub, qt.Equals, "PhoneX")
}

func TestFlashDescription(t *testing.T) {
	c := qt.New(t)

	c.Assert(aim.FlashDescription(0x0), qt.Equals, "No Flash")
	c.Assert(aim.FlashDescription(0x1), qt.Equals, "Fired")
	c.Assert(aim.FlashDescription(0x19), qt.Equals, "Auto, Fired")
	c.Assert(aim.FlashDescription(0xFF), qt.Equals, "Unknown (Value: 255)")
}
