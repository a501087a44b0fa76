package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		ctx         *Context
		wantVersion string
		wantDate    string
		wantString  string
	}{
		{"nil context", nil, UnknownValue, UnknownValue, "unknown (built unknown)"},
		{"empty", NewContext("", ""), UnknownValue, UnknownValue, "unknown (built unknown)"},
		{"release", NewContext("v1.2.0", "2024-03-01"), "v1.2.0", "2024-03-01", "v1.2.0 (built 2024-03-01)"},
		{"pre-release", NewContext("v1.3.0-rc.1", ""), "v1.3.0-rc.1", UnknownValue, "v1.3.0-rc.1 (built unknown)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantVersion, tt.ctx.Version())
			assert.Equal(t, tt.wantDate, tt.ctx.BuildDate())
			assert.Equal(t, tt.wantString, tt.ctx.String())
		})
	}
}

func TestCurrent(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, Current().Version())
}
