package sandbox

import (
	"bytes"
)

const binaryPlaceholder = "[Binary Content]"

// collector is the single writer behind a child's stdout and stderr.
// It keeps at most maxBytes and drops the rest while still reporting
// full writes, so the child never blocks on a full pipe.
type collector struct {
	buffer    bytes.Buffer
	maxBytes  int
	truncated bool
	binary    bool

	bytesChecked int
	sampleSize   int
	textBOM      bool
}

func newCollector(maxBytes, sampleSize int) *collector {
	return &collector{
		maxBytes:   maxBytes,
		sampleSize: sampleSize,
	}
}

func (c *collector) Write(p []byte) (int, error) {
	if c.binary {
		return len(p), nil
	}

	if c.bytesChecked < c.sampleSize {
		toCheck := p[:min(len(p), c.sampleSize-c.bytesChecked)]
		if c.bytesChecked == 0 {
			c.textBOM = hasTextBOM(toCheck)
		}
		if !c.textBOM && hasNUL(toCheck) {
			c.binary = true
			c.truncated = true
			c.buffer.Reset()
			return len(p), nil
		}
		c.bytesChecked += len(toCheck)
	}

	remaining := c.maxBytes - c.buffer.Len()
	if remaining <= 0 {
		if len(p) > 0 {
			c.truncated = true
		}
		return len(p), nil
	}

	toWrite := p
	if len(toWrite) > remaining {
		toWrite = toWrite[:remaining]
		c.truncated = true
	}
	if _, err := c.buffer.Write(toWrite); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *collector) String() string {
	if c.binary {
		return binaryPlaceholder
	}
	return c.buffer.String()
}

func (c *collector) Len() int {
	return c.buffer.Len()
}

func (c *collector) Truncated() bool {
	return c.truncated
}
