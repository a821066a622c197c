package analysis

import "github.com/tphakala/trapstats/internal/logger"

const componentName = "analysis"

func getLog() logger.Logger {
	return logger.Global().Module(componentName)
}
