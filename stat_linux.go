//go:build linux

package aim

import (
	"os"
	"syscall"
	"time"
)

// statTimes returns the inode change and access times where the
// platform exposes them.
func statTimes(fi os.FileInfo) (created, accessed time.Time, ok bool) {
	st, isStat := fi.Sys().(*syscall.Stat_t)
	if !isStat {
		return
	}
	created = time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
	accessed = time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec))
	return created, accessed, true
}
