package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ctx     *Context
		version string
		date    string
	}{
		{"nil context", nil, "unknown", "unknown"},
		{"empty context", &Context{}, "unknown", "unknown"},
		{"populated", &Context{Version: "v1.2.0", BuildDate: "2025-09-01"}, "v1.2.0", "2025-09-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.version, tt.ctx.GetVersion())
			assert.Equal(t, tt.date, tt.ctx.GetBuildDate())
			assert.Equal(t, "trapstats "+tt.version+" (built "+tt.date+")", tt.ctx.String())
		})
	}
}
