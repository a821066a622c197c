// Package metrics provides constants used across metric definitions.
package metrics

// Operation label values for the analysis pipeline stages.
const (
	// OpLoad covers reading a data source into a Dataset.
	OpLoad = "load"
	// OpFeatures covers feature extraction and matrix assembly.
	OpFeatures = "features"
	// OpDiversity covers Shannon, Simpson, richness and evenness.
	OpDiversity = "diversity"
	// OpTemporal covers night/day ratio and peak hour.
	OpTemporal = "temporal"
	// OpNormalize covers min-max scaling of the feature matrix.
	OpNormalize = "normalize"
	// OpPCA covers principal component analysis.
	OpPCA = "pca"
	// OpKMeans covers k-means clustering.
	OpKMeans = "kmeans"
	// OpAnomaly covers outlier scoring.
	OpAnomaly = "anomaly"
	// OpImportance covers feature importance ranking.
	OpImportance = "importance"
	// OpForecast covers moving-average forecasting.
	OpForecast = "forecast"
	// OpSunEvents covers sun event calculation for night classification.
	OpSunEvents = "sun_events"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Histogram bucket configuration constants.
const (
	// BucketStart100us is the starting bucket for 0.1ms histograms (0.1ms to ~400ms range).
	BucketStart100us = 0.0001
	// BucketStart1ms is the starting bucket for 1ms histograms (1ms to ~1s range).
	BucketStart1ms = 0.001

	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2

	// BucketCount10 defines 10 exponential buckets.
	BucketCount10 = 10
	// BucketCount12 defines 12 exponential buckets.
	BucketCount12 = 12
)
