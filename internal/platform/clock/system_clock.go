package clock

import "time"

// SystemClock reads the wall clock. All stored timestamps are UTC.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC() }
