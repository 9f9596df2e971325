// ABOUTME: Head+tail output truncation and pipe-level capture capping
// ABOUTME: Keeps startup context and final error lines, drops the middle

package executor

import "bytes"

// TruncationMarker is spliced in where the middle of an over-long stream
// was dropped.
const TruncationMarker = "\n... [output truncated] ...\n"

// truncateMiddle bounds s to roughly max characters by keeping the first
// and last max/2 and splicing in TruncationMarker. Strings already within
// the truncated size pass through unchanged, which makes the operation
// idempotent for a fixed limit. Limits are byte counts; multi-byte text can
// be split mid-sequence at the cut points.
func truncateMiddle(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max+len(TruncationMarker) {
		return s, false
	}
	half := max / 2
	return s[:half] + TruncationMarker + s[len(s)-half:], true
}

// cappedBuffer is an io.Writer that silently discards everything past its
// limit while reporting the full write as accepted, so a chatty subprocess
// never blocks on a full pipe or grows memory unbounded.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	remaining := c.limit - c.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		c.buf.Write(p[:remaining])
		return len(p), nil
	}
	return c.buf.Write(p)
}

func (c *cappedBuffer) String() string {
	return c.buf.String()
}
