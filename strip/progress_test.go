package strip

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 5)
	tracker.Start()

	tracker.Update(3, 1)
	assert.Empty(t, buf.String(), "no report before the interval is crossed")

	tracker.Update(5, 2)
	assert.Contains(t, buf.String(), "5/10")
	assert.Contains(t, buf.String(), "2 modified")

	tracker.Update(7, 3)
	assert.NotContains(t, buf.String(), "7/10", "interval not crossed again yet")

	tracker.Finish()
	assert.Contains(t, buf.String(), "10/10")
	assert.Contains(t, buf.String(), "100.0%")
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 4, 1)
	tracker.Start()

	tracker.Update(9, 9)
	assert.Contains(t, buf.String(), "4/4")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Update(5, 5)
	tracker.Finish()

	assert.Empty(t, buf.String(), "tracker should be silent before Start")
	assert.Zero(t, tracker.Elapsed())
}

func TestProgressTracker_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 0, 1)
	tracker.Start()
	tracker.Finish()

	assert.Contains(t, buf.String(), "0/0")
	assert.Contains(t, buf.String(), "0.0%")
}

func TestProgressTracker_Elapsed(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1, 1)
	tracker.Start()
	tracker.Update(1, 0)
	tracker.Finish()

	assert.Greater(t, tracker.Elapsed().Nanoseconds(), int64(0))
}
