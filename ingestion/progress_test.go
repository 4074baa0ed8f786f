package ingestion

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Increment(t *testing.T) {
	var buf bytes.Buffer
	tracker := newProgressTracker(&buf, 100, 10)

	tracker.start()
	tracker.increment(25)
	tracker.increment(25)
	tracker.increment(50)

	output := buf.String()
	assert.Contains(t, output, "100/100")
	assert.Contains(t, output, "100.0%")
	assert.Contains(t, output, "rows/s")
}

func TestProgressTracker_FinishKeepsCount(t *testing.T) {
	var buf bytes.Buffer
	tracker := newProgressTracker(&buf, 100, 1000)

	tracker.start()
	tracker.increment(40)
	tracker.finish()

	output := buf.String()
	assert.Contains(t, output, "40/100")
	assert.Contains(t, output, "\n")
}

func TestProgressTracker_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := newProgressTracker(&buf, 0, 10)

	tracker.start()
	tracker.finish()

	assert.Contains(t, buf.String(), "0/0")
}

func TestProgressTracker_IncrementBeyondTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := newProgressTracker(&buf, 100, 10)

	tracker.start()
	tracker.increment(150)

	assert.Contains(t, buf.String(), "100/100")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := newProgressTracker(&buf, 100, 10)

	tracker.increment(10)
	tracker.finish()

	assert.Equal(t, "", buf.String())
}

func TestProgressTracker_ReportInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := newProgressTracker(&buf, 1000, 100)

	tracker.start()
	tracker.increment(50)
	assert.Equal(t, "", buf.String(), "below interval should not report")

	tracker.increment(50)
	assert.Contains(t, buf.String(), "100/1000")
}
