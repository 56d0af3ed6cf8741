package logging

import "go.uber.org/zap"

// New builds the process-wide logger. Production gets JSON output with
// sampling; everything else gets the human-readable development encoder.
func New(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
