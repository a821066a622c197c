package loader

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/tphakala/trapstats/internal/errors"
)

// DefaultMaxFileSize is the largest input file accepted, 10 MB
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Study region bounds, roughly the territory of Moldova
const (
	MinLatitude  = 45.4
	MaxLatitude  = 48.5
	MinLongitude = 26.6
	MaxLongitude = 30.2
)

// dataFileExtensions are the accepted input file extensions
var dataFileExtensions = []string{".csv", ".txt", ".geojson", ".json"}

func validationError(field, format string, args ...any) error {
	return errors.Newf(format, args...).
		Component(componentName).
		Category(errors.CategoryValidation).
		Context("field", field).
		Build()
}

// ValidateCoordinates checks that a position lies inside the study region
func ValidateCoordinates(lat, lng float64) error {
	if lat < MinLatitude || lat > MaxLatitude || lng < MinLongitude || lng > MaxLongitude {
		return validationError("coordinates", "coordinates (%.4f, %.4f) are outside valid range", lat, lng)
	}
	return nil
}

// ValidateFileSize rejects files larger than maxBytes
func ValidateFileSize(size, maxBytes int64) error {
	if size > maxBytes {
		return validationError("file_size", "file size %d exceeds maximum allowed (%d MB)", size, maxBytes/(1024*1024))
	}
	return nil
}

// ValidateDateRange requires start <= end <= now
func ValidateDateRange(start, end, now time.Time) error {
	if start.After(end) || start.After(now) || end.After(now) {
		return validationError("date_range", "invalid date range %s to %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return nil
}

// ValidateDataFileName accepts .csv, .txt, .geojson and .json files
func ValidateDataFileName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(dataFileExtensions, ext) {
		return validationError("file_name", "invalid file format %q, use one of %s",
			filepath.Base(name), strings.Join(dataFileExtensions, ", "))
	}
	return nil
}

var htmlEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// SanitizeInput escapes characters that are unsafe in HTML output
func SanitizeInput(s string) string {
	return htmlEscaper.Replace(s)
}
