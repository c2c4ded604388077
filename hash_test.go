package aim_test

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	aim "github.com/Sabirtanvir12/AIM-Forensic-Extractor"

	qt "github.com/frankban/quicktest"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
)

func TestComputeFileHashes(t *testing.T) {
	c := qt.New(t)

	content := []byte("hello forensic world")
	path := filepath.Join(c.TempDir(), "sample.bin")
	c.Assert(os.WriteFile(path, content, 0o644), qt.IsNil)

	hashes := aim.ComputeFileHashes(path)
	c.Assert(hashes, qt.HasLen, len(aim.HashAlgorithms))

	b2b := blake2b.Sum512(content)
	b2s := blake2s.Sum256(content)
	want := map[string]string{
		"MD5":     fmt.Sprintf("%x", md5.Sum(content)),
		"SHA256":  fmt.Sprintf("%x", sha256.Sum256(content)),
		"SHA512":  fmt.Sprintf("%x", sha512.Sum512(content)),
		"BLAKE2b": fmt.Sprintf("%x", b2b),
		"BLAKE2s": fmt.Sprintf("%x", b2s),
	}
	for _, name := range aim.HashAlgorithms {
		c.Assert(hashes[name], qt.Equals, want[name], qt.Commentf("algorithm %s", name))
	}

	// The same input hashes to the same digests.
	again := aim.ComputeFileHashes(path)
	c.Assert(again, qt.DeepEquals, hashes)
}

func TestComputeFileHashesEmptyFile(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(c.TempDir(), "empty")
	c.Assert(os.WriteFile(path, nil, 0o644), qt.IsNil)

	hashes := aim.ComputeFileHashes(path)
	c.Assert(hashes["MD5"], qt.Equals, fmt.Sprintf("%x", md5.Sum(nil)))
	c.Assert(hashes["SHA256"], qt.Equals, fmt.Sprintf("%x", sha256.Sum256(nil)))
}

func TestComputeFileHashesMissingFile(t *testing.T) {
	c := qt.New(t)

	hashes := aim.ComputeFileHashes(filepath.Join(c.TempDir(), "does-not-exist"))
	c.Assert(hashes, qt.HasLen, len(aim.HashAlgorithms))
	for _, name := range aim.HashAlgorithms {
		c.Assert(strings.HasPrefix(hashes[name], "Error: "), qt.IsTrue, qt.Commentf("algorithm %s: %s", name, hashes[name]))
	}
}
