package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildRID(t *testing.T) {
	assert.Equal(t, "42:100:7", BuildRID(42, 100, 7))
}

func TestSanitizeStripsControlRunes(t *testing.T) {
	assert.Equal(t, "hello\tworld\n", Sanitize("hel\x00lo\tworld\x1b\n"))
}

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "abc", SanitizeLimit("abcdef", 3))
	assert.Equal(t, "", SanitizeLimit("abcdef", 0))
	assert.Equal(t, "abc", SanitizeLimit("abc", 10))
}

func TestRoundMS(t *testing.T) {
	assert.Equal(t, time.Duration(0), RoundMS(-time.Second))
	assert.Equal(t, 12*time.Millisecond, RoundMS(12*time.Millisecond+400*time.Microsecond))
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithRID(Background(), "1:2:3")
	ctx = WithUpdateMeta(ctx, 1, 3, 2)
	ctx = WithHandler(ctx, "report.submit")

	assert.Equal(t, "1:2:3", RIDFrom(ctx))
	assert.Equal(t, 1, UpdateIDFrom(ctx))
	assert.Equal(t, int64(2), ChatIDFrom(ctx))
	assert.Equal(t, int64(3), UserIDFrom(ctx))
	assert.Equal(t, "report.submit", HandlerFrom(ctx))
}
