package appid

import (
	"fmt"
	"sync/atomic"
	"time"
)

const Prefix = "APP"

var last int64

// New returns an application identifier: the prefix followed by six digits
// derived from the unix-millisecond clock. The counter is kept monotonic so
// two in-process creations inside the same millisecond still differ, but the
// six-digit truncation means ids can collide across processes or after
// wrap-around; callers must tolerate a uniqueness error from the store and
// retry with a fresh id.
func New() string {
	ms := time.Now().UnixMilli()
	for {
		prev := atomic.LoadInt64(&last)
		if ms <= prev {
			ms = prev + 1
		}
		if atomic.CompareAndSwapInt64(&last, prev, ms) {
			break
		}
	}
	return fmt.Sprintf("%s%06d", Prefix, ms%1_000_000)
}
