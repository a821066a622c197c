package loader

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies the errgroup loaders leave no goroutines behind
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
