package main

import (
	"go.uber.org/zap"
)

// Logger returns a development logger writing onto STDERR when
// verbose, a no-op logger otherwise.
func (rcc *rootCmdConfig) Logger() *zap.Logger {
	if rcc.logger != nil {
		return rcc.logger
	}
	rcc.logger = zap.NewNop()
	if rcc.verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			rcc.logger = l
		}
	}
	return rcc.logger
}

func (rcc *rootCmdConfig) Logf(format string, a ...interface{}) {
	rcc.Logger().Sugar().Infof(format, a...)
}
