package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/trapstats/internal/detection"
	"github.com/tphakala/trapstats/internal/errors"
)

func loadTestExport(t *testing.T) *Document {
	t.Helper()
	doc, err := LoadGeoJSONFile(filepath.Join("testdata", "export.geojson"))
	require.NoError(t, err)
	return doc
}

func TestValidateGeoJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"empty items", `{"count": 0, "items": []}`, false},
		{"numeric id", `{"count": 1, "items": [{"id": 7, "title": "Fox", "geojson": {"type": "Point", "coordinates": [28.1, 47.2]}}]}`, false},
		{"not an object", `[1, 2]`, true},
		{"count not number", `{"count": "6", "items": []}`, true},
		{"items not array", `{"count": 1, "items": {}}`, true},
		{"missing title", `{"count": 1, "items": [{"id": "a", "geojson": {"type": "Point", "coordinates": [1, 2]}}]}`, true},
		{"missing id", `{"count": 1, "items": [{"title": "Fox", "geojson": {"type": "Point", "coordinates": [1, 2]}}]}`, true},
		{"not a point", `{"count": 1, "items": [{"id": "a", "title": "Fox", "geojson": {"type": "LineString", "coordinates": [[1, 2], [3, 4]]}}]}`, true},
		{"one coordinate", `{"count": 1, "items": [{"id": "a", "title": "Fox", "geojson": {"type": "Point", "coordinates": [1]}}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateGeoJSON([]byte(tt.raw))
			if tt.wantErr {
				require.ErrorIs(t, err, errors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseGeoJSON(t *testing.T) {
	t.Parallel()

	doc := loadTestExport(t)
	assert.Equal(t, 6, doc.Count)
	require.Len(t, doc.Items, 6)

	first := doc.Items[0]
	assert.Equal(t, ItemID("obs-001"), first.ID)
	assert.Equal(t, "ct01", first.SensorRef())
	require.NotNil(t, first.Properties.IsNight)
	assert.True(t, *first.Properties.IsNight)

	pt, ok := first.Point()
	require.True(t, ok)
	assert.InDelta(t, 28.8638, pt.Lon(), 1e-9)
	assert.InDelta(t, 47.0105, pt.Lat(), 1e-9)

	assert.Nil(t, doc.Items[3].Properties.IsNight)
}

func TestDocumentDetections(t *testing.T) {
	t.Parallel()

	dets, err := loadTestExport(t).Detections(DefaultProcessOptions())
	require.NoError(t, err)
	require.Len(t, dets, 6)

	wantTypes := []detection.SpeciesType{
		detection.Mammal, detection.Mammal, detection.Mammal,
		detection.Bat, detection.Bird, detection.Bird,
	}
	for i, d := range dets {
		assert.Equal(t, i, d.ID)
		assert.Equal(t, wantTypes[i], d.Type, d.Species)
		require.NotNil(t, d.Coordinates)
	}

	assert.Equal(t, 1, dets[0].HotspotID)
	assert.Equal(t, 3, dets[3].HotspotID)
	assert.Equal(t, 22, dets[0].Hour())
	assert.Nil(t, dets[3].IsNight, "no flag and no sun calculator")
}

func TestProcessGeoJSON(t *testing.T) {
	t.Parallel()

	ds, err := ProcessGeoJSON(loadTestExport(t), DefaultProcessOptions())
	require.NoError(t, err)

	a := ds.Analysis
	assert.Equal(t, SourceGeoJSON, ds.Source)
	assert.Equal(t, 6, a.Summary.Total)
	assert.Equal(t, 5, a.Summary.SpeciesCount)
	assert.Equal(t, 3, a.Summary.Hotspots)
	assert.Equal(t, 25, a.Summary.MonitoringDays)
	assert.Empty(t, a.Hypotheses)
	assert.NotNil(t, a.Hypotheses)

	assert.Equal(t, detection.TypeDistribution{
		detection.Mammal: 3,
		detection.Bat:    1,
		detection.Bird:   2,
	}, a.Types)

	assert.Equal(t, []detection.SpeciesCount{
		{Name: "Chevreuil européen", Count: 1},
		{Name: "Merle noir", Count: 1},
		{Name: "Mésange charbonnière", Count: 1},
		{Name: "Pipistrelle commune", Count: 1},
		{Name: "Renard roux", Count: 2},
	}, a.Rare)
	assert.Empty(t, a.Common)

	assert.Equal(t, 1, a.Hourly[22])
	assert.Equal(t, 1, a.Hourly[3])
}

func TestProcessGeoJSONEmpty(t *testing.T) {
	t.Parallel()

	doc, err := ParseGeoJSON(strings.NewReader(`{"count": 0, "items": []}`))
	require.NoError(t, err)

	_, err = ProcessGeoJSON(doc, DefaultProcessOptions())
	require.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestDetectionsRejectsBadTimestamp(t *testing.T) {
	t.Parallel()

	doc, err := ParseGeoJSON(strings.NewReader(`{"count": 1, "items": [
		{"id": "x", "title": "Fox", "startdate": "yesterday",
		 "geojson": {"type": "Point", "coordinates": [28.8, 47.0]}}]}`))
	require.NoError(t, err)

	_, err = doc.Detections(DefaultProcessOptions())
	require.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestDetectionsTimestampLayouts(t *testing.T) {
	t.Parallel()

	doc, err := ParseGeoJSON(strings.NewReader(`{"count": 2, "items": [
		{"id": "a", "title": "Fox", "startdate": "2024-05-10 21:00:00",
		 "geojson": {"type": "Point", "coordinates": [28.8, 47.0]}},
		{"id": "b", "title": "Fox", "startdate": "2024-05-10T05:30:00",
		 "geojson": {"type": "Point", "coordinates": [28.8, 47.0]}}]}`))
	require.NoError(t, err)

	loc := time.FixedZone("EEST", 3*60*60)
	dets, err := doc.Detections(ProcessOptions{Location: loc})
	require.NoError(t, err)
	assert.Equal(t, 21, dets[0].Hour())
	assert.Equal(t, 5, dets[1].Hour())
	assert.Equal(t, loc, dets[0].Timestamp.Location())
}

func TestDetectionsConvertsOffsetToStationZone(t *testing.T) {
	t.Parallel()

	doc, err := ParseGeoJSON(strings.NewReader(`{"count": 1, "items": [
		{"id": "a", "title": "Fox", "startdate": "2025-05-03T22:30:00Z",
		 "geojson": {"type": "Point", "coordinates": [28.8, 47.0]}}]}`))
	require.NoError(t, err)

	utc, err := doc.Detections(DefaultProcessOptions())
	require.NoError(t, err)
	assert.Equal(t, 22, utc[0].Hour())

	loc, err := time.LoadLocation("Europe/Chisinau")
	require.NoError(t, err)
	dets, err := doc.Detections(ProcessOptions{Location: loc})
	require.NoError(t, err)
	assert.Equal(t, 1, dets[0].Hour())
	assert.Equal(t, 4, dets[0].Timestamp.Day())
	assert.Equal(t, loc, dets[0].Timestamp.Location())
	assert.True(t, dets[0].Timestamp.Equal(utc[0].Timestamp))
}

func TestExtractHotspots(t *testing.T) {
	t.Parallel()

	got := ExtractHotspots(loadTestExport(t))
	assert.Equal(t, []detection.Hotspot{
		{ID: "ct01", Name: "Camera ct01", Lat: 47.0105, Lng: 28.8638, Detections: 3, Species: 2},
		{ID: "ct02", Name: "Camera ct02", Lat: 47.0110, Lng: 28.8650, Detections: 2, Species: 2},
		{ID: "ct03", Name: "Camera ct03", Lat: 47.0150, Lng: 28.8700, Detections: 1, Species: 1},
	}, got)
}

func TestHotspotNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, hotspotNumber("ct07"))
	assert.Equal(t, 12, hotspotNumber("12"))
	assert.Equal(t, 0, hotspotNumber("camera"))
	assert.Equal(t, 0, hotspotNumber(""))
}

func TestLoadGeoJSONFileRejectsExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "export.xml")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	_, err := LoadGeoJSONFile(path)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}
