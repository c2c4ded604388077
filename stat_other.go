//go:build !linux

package aim

import (
	"os"
	"time"
)

func statTimes(os.FileInfo) (created, accessed time.Time, ok bool) {
	return
}
