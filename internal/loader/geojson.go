package loader

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/antonholmquist/jason"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/tphakala/trapstats/internal/analysis/biodiversity"
	"github.com/tphakala/trapstats/internal/detection"
	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/logger"
	"github.com/tphakala/trapstats/internal/suncalc"
)

// Document is a camera-trap platform export: a count and a list of
// observation points
type Document struct {
	Count int                `json:"count"`
	Items []ObservationPoint `json:"items"`
}

// ObservationPoint is one exported observation
type ObservationPoint struct {
	ID         ItemID                `json:"id"`
	Title      string                `json:"title"`
	Dataset    string                `json:"dataset,omitempty"`
	Datatype   string                `json:"datatype,omitempty"`
	StartDate  string                `json:"startdate"`
	EndDate    string                `json:"enddate,omitempty"`
	Properties ObservationProperties `json:"properties"`
	Geometry   *geojson.Geometry     `json:"geojson"`
}

// ObservationProperties carries the optional per-observation metadata
type ObservationProperties struct {
	Sensor *struct {
		Ref string `json:"ref"`
	} `json:"sensor,omitempty"`
	IsNight *bool `json:"isnight,omitempty"`
}

// SensorRef returns the sensor reference or "" when absent
func (p *ObservationPoint) SensorRef() string {
	if p.Properties.Sensor == nil {
		return ""
	}
	return p.Properties.Sensor.Ref
}

// Point returns the observation location as lng/lat
func (p *ObservationPoint) Point() (orb.Point, bool) {
	if p.Geometry == nil {
		return orb.Point{}, false
	}
	pt, ok := p.Geometry.Geometry().(orb.Point)
	return pt, ok
}

// ItemID accepts both string and numeric ids
type ItemID string

// UnmarshalJSON implements json.Unmarshaler
func (id *ItemID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ItemID(n.String())
	return nil
}

// ProcessOptions controls how a Document becomes a Dataset
type ProcessOptions struct {
	RareBelow   int
	CommonAbove int

	// Location interprets timestamps without a zone. Nil means UTC.
	Location *time.Location

	// SunCalc decides night for observations without an isnight flag.
	// Nil leaves those observations unflagged.
	SunCalc *suncalc.SunCalc

	// Now bounds the date range check, zero means time.Now
	Now time.Time
}

// DefaultProcessOptions uses the real-data rarity thresholds
func DefaultProcessOptions() ProcessOptions {
	return ProcessOptions{
		RareBelow:   biodiversity.DefaultRareBelow,
		CommonAbove: biodiversity.DefaultCommonAbove,
	}
}

// timestampLayouts are tried in order when parsing startdate
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

// ValidateGeoJSON checks the structure of an export before decoding it:
// count must be a number, items an array, and the first item needs an id, a
// title and a Point geometry with two numeric coordinates.
func ValidateGeoJSON(raw []byte) error {
	obj, err := jason.NewObjectFromBytes(raw)
	if err != nil {
		return invalidGeoJSON("document is not a JSON object: %v", err)
	}
	if _, err := obj.GetNumber("count"); err != nil {
		return invalidGeoJSON("count must be a number")
	}
	items, err := obj.GetValueArray("items")
	if err != nil {
		return invalidGeoJSON("items must be an array")
	}
	if len(items) == 0 {
		return nil
	}

	first, err := items[0].Object()
	if err != nil {
		return invalidGeoJSON("items[0] is not an object")
	}
	id, idErr := first.GetString("id")
	if idErr != nil {
		if num, numErr := first.GetNumber("id"); numErr == nil {
			id = num.String()
		}
	}
	if id == "" {
		return invalidGeoJSON("items[0] has no id")
	}
	if title, err := first.GetString("title"); err != nil || title == "" {
		return invalidGeoJSON("items[0] has no title")
	}
	if kind, err := first.GetString("geojson", "type"); err != nil || kind != "Point" {
		return invalidGeoJSON("items[0] geometry must be a Point")
	}
	if coords, err := first.GetFloat64Array("geojson", "coordinates"); err != nil || len(coords) != 2 {
		return invalidGeoJSON("items[0] coordinates must be two numbers")
	}

	return nil
}

func invalidGeoJSON(format string, args ...any) error {
	return errors.InvalidInput(componentName, "invalid GeoJSON data structure: "+format, args...)
}

// ParseGeoJSON validates and decodes an export
func ParseGeoJSON(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.New(err).
			Component(componentName).
			Category(errors.CategoryFileIO).
			Build()
	}
	if err := ValidateGeoJSON(raw); err != nil {
		return nil, err
	}

	var doc Document
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Newf("%w: decode GeoJSON: %w", errors.ErrInvalidInput, err).
			Component(componentName).
			Category(errors.CategoryInvalidInput).
			Build()
	}
	return &doc, nil
}

// LoadGeoJSONFile checks name and size of path then parses it
func LoadGeoJSONFile(path string) (*Document, error) {
	if err := ValidateDataFileName(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FileError(err, path, 0)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.FileError(err, path, 0)
	}
	if err := ValidateFileSize(info.Size(), DefaultMaxFileSize); err != nil {
		return nil, err
	}

	doc, err := ParseGeoJSON(f)
	if err != nil {
		return nil, err
	}

	getLog().Info("loaded GeoJSON export",
		logger.String("file", path),
		logger.Int("items", len(doc.Items)),
		logger.Int("count", doc.Count))
	return doc, nil
}

// Detections maps every item to a Detection. Species type comes from the
// name classifier and the hotspot from the numeric part of the sensor ref.
//
// Timestamps without an offset are read in opts.Location. When opts.Location
// is set, timestamps that carry an offset are converted to it as well, so
// hour-of-day always refers to station time.
func (doc *Document) Detections(opts ProcessOptions) ([]detection.Detection, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	dets := make([]detection.Detection, 0, len(doc.Items))
	outside := 0
	for i := range doc.Items {
		item := &doc.Items[i]

		ts, err := parseTimestamp(item.StartDate, loc)
		if err != nil {
			return nil, errors.Newf("%w: item %d (%s) has invalid startdate %q",
				errors.ErrInvalidInput, i, item.ID, item.StartDate).
				Component(componentName).
				Category(errors.CategoryInvalidInput).
				Context("item", i).
				Build()
		}
		if opts.Location != nil {
			ts = ts.In(opts.Location)
		}

		species := item.Title
		if species == "" {
			species = "Unknown"
		}

		d := detection.Detection{
			ID:        i,
			Timestamp: ts,
			Species:   species,
			Type:      detection.ClassifySpecies(species),
			HotspotID: hotspotNumber(item.SensorRef()),
			IsNight:   item.Properties.IsNight,
		}
		if pt, ok := item.Point(); ok {
			d.Coordinates = &detection.Coordinates{Lat: pt.Lat(), Lng: pt.Lon()}
			if ValidateCoordinates(pt.Lat(), pt.Lon()) != nil {
				outside++
			}
		}
		if d.IsNight == nil && opts.SunCalc != nil {
			if night, err := opts.SunCalc.IsNight(ts); err == nil {
				d.IsNight = &night
			}
		}

		dets = append(dets, d)
	}

	if outside > 0 {
		getLog().Warn("observations outside the expected study region",
			logger.Int("count", outside))
	}
	return dets, nil
}

// ProcessGeoJSON converts an export into a Dataset. Summary.Total is the
// export's own count. The hypothesis list is empty for real data.
func ProcessGeoJSON(doc *Document, opts ProcessOptions) (*Dataset, error) {
	if len(doc.Items) == 0 {
		return nil, errors.InvalidInput(componentName, "no data found in GeoJSON export")
	}

	dets, err := doc.Detections(opts)
	if err != nil {
		return nil, err
	}

	analysis := buildAnalysis(dets, opts.RareBelow, opts.CommonAbove)
	analysis.Summary.Total = doc.Count
	hotspots := ExtractHotspots(doc)
	analysis.Hotspots = hotspots
	analysis.Summary.Hotspots = len(hotspots)

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	if err := ValidateDateRange(analysis.Summary.Start, analysis.Summary.End, now); err != nil {
		getLog().Warn("export date range looks wrong", logger.Error(err))
	}

	return &Dataset{
		Source:     SourceGeoJSON,
		Detections: dets,
		Analysis:   analysis,
		Hotspots:   hotspots,
	}, nil
}

// ExtractHotspots groups items by sensor ref in order of first appearance.
// Each hotspot takes the location of its first observation. Items without a
// sensor are skipped.
func ExtractHotspots(doc *Document) []detection.Hotspot {
	hotspots := []detection.Hotspot{}
	index := make(map[string]int)
	species := make(map[string]map[string]struct{})

	for i := range doc.Items {
		item := &doc.Items[i]
		ref := item.SensorRef()
		if ref == "" {
			continue
		}

		idx, ok := index[ref]
		if !ok {
			h := detection.Hotspot{ID: ref, Name: "Camera " + ref}
			if pt, ok := item.Point(); ok {
				h.Lat, h.Lng = pt.Lat(), pt.Lon()
			}
			idx = len(hotspots)
			index[ref] = idx
			hotspots = append(hotspots, h)
			species[ref] = make(map[string]struct{})
		}

		hotspots[idx].Detections++
		species[ref][item.Title] = struct{}{}
	}

	for i := range hotspots {
		hotspots[i].Species = len(species[hotspots[i].ID])
	}
	return hotspots
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, strings.TrimSpace(s), loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// hotspotNumber extracts the trailing number of a sensor ref like "ct07".
// Refs without digits map to 0.
func hotspotNumber(ref string) int {
	digits := strings.TrimLeftFunc(ref, func(r rune) bool { return !unicode.IsDigit(r) })
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
