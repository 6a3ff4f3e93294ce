package utils

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger builds the process logger. "debug" gets the development config,
// anything else the production one.
func NewLogger(level string) (*zap.Logger, error) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
