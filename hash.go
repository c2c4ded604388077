package aim

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
)

// HashAlgorithms is the fixed set of digests computed for every file,
// in record order.
var HashAlgorithms = []string{"MD5", "SHA256", "SHA512", "BLAKE2b", "BLAKE2s"}

// HashSet maps algorithm name to a lowercase hex digest, or to an
// "Error: ..." string if hashing failed. All algorithms are always present.
type HashSet map[string]string

func newHashers() map[string]hash.Hash {
	b2b, _ := blake2b.New512(nil)
	b2s, _ := blake2s.New256(nil)
	return map[string]hash.Hash{
		"MD5":     md5.New(),
		"SHA256":  sha256.New(),
		"SHA512":  sha512.New(),
		"BLAKE2b": b2b,
		"BLAKE2s": b2s,
	}
}

// ComputeFileHashes streams the file once in 8 KiB chunks and updates all
// digest accumulators per chunk. An I/O failure populates every entry with
// the same error string; it never aborts the caller.
func ComputeFileHashes(path string) HashSet {
	hashes := make(HashSet, len(HashAlgorithms))
	fail := func(err error) HashSet {
		for _, name := range HashAlgorithms {
			hashes[name] = fmt.Sprintf("Error: %s", err)
		}
		return hashes
	}

	f, err := os.Open(path)
	if err != nil {
		return fail(err)
	}
	defer f.Close()

	hashers := newHashers()
	writers := make([]io.Writer, 0, len(hashers))
	for _, name := range HashAlgorithms {
		writers = append(writers, hashers[name])
	}

	buf := make([]byte, 8192)
	if _, err := io.CopyBuffer(io.MultiWriter(writers...), f, buf); err != nil {
		return fail(err)
	}

	for _, name := range HashAlgorithms {
		hashes[name] = fmt.Sprintf("%x", hashers[name].Sum(nil))
	}
	return hashes
}
