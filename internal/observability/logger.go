package observability

import "github.com/tphakala/trapstats/internal/logger"

const componentName = "observability"

func getLog() logger.Logger {
	return logger.Global().Module(componentName)
}
