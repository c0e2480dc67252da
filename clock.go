package ridgedb

import "time"

// Clock supplies the current wall-clock time in milliseconds, used by
// WriteEngine to stamp items whose timestamp was omitted. Injected so
// tests can exercise deterministic timestamp assertions without racing
// the real clock.
type Clock interface {
	NowMS() uint64
}

// SystemClock reports the real wall-clock time. It is the default Clock
// used by Open when Options.Clock is left nil.
type SystemClock struct{}

func (SystemClock) NowMS() uint64 {
	return uint64(time.Now().UnixMilli())
}

// FixedClock always reports the same instant. Useful for tests that need
// every omitted timestamp in one put_row call to collide.
type FixedClock uint64

func (c FixedClock) NowMS() uint64 { return uint64(c) }

// SteppingClock reports an increasing sequence of timestamps, one
// millisecond apart per call, starting at Start. Useful for tests that
// need omitted timestamps to be distinguishable and ordered.
type SteppingClock struct {
	Start uint64
	n     uint64
}

func (c *SteppingClock) NowMS() uint64 {
	v := c.Start + c.n
	c.n++
	return v
}
