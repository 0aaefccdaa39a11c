package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	Version, Commit, Date = "2.0.0", "0123456", "2026-01-02"
	assert.Equal(t, "2.0.0 (commit: 0123456, built: 2026-01-02)", String())
}
