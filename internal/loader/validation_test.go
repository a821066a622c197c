package loader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/trapstats/internal/errors"
)

func TestValidateCoordinates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lat, lng float64
		valid    bool
	}{
		{"chisinau", 47.0105, 28.8638, true},
		{"purcari", 46.5275, 29.8569, true},
		{"corner", MinLatitude, MaxLongitude, true},
		{"too far north", 48.6, 28.0, false},
		{"too far west", 47.0, 26.5, false},
		{"null island", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateCoordinates(tt.lat, tt.lng)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
		})
	}
}

func TestValidateFileSize(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateFileSize(DefaultMaxFileSize, DefaultMaxFileSize))
	assert.Error(t, ValidateFileSize(DefaultMaxFileSize+1, DefaultMaxFileSize))
	assert.NoError(t, ValidateFileSize(0, DefaultMaxFileSize))
}

func TestValidateDateRange(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)
	start := time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateDateRange(start, end, now))
	assert.NoError(t, ValidateDateRange(start, start, now))
	assert.Error(t, ValidateDateRange(end, start, now))
	assert.Error(t, ValidateDateRange(start, now.Add(time.Hour), now))
}

func TestValidateDataFileName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"a.csv", "B.TXT", "export.geojson", "dir/data.json"} {
		assert.NoError(t, ValidateDataFileName(name), name)
	}
	for _, name := range []string{"a.xlsx", "noext", "a.csv.bak"} {
		assert.Error(t, ValidateDataFileName(name), name)
	}
}

func TestSanitizeInput(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"&lt;script&gt;alert(&quot;x&quot;)&lt;&#x2F;script&gt; &#x27;fox&#x27;",
		SanitizeInput(`<script>alert("x")</script> 'fox'`))
	assert.Equal(t, "Mésange charbonnière", SanitizeInput("Mésange charbonnière"))
}
