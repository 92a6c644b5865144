package search

import "github.com/btcsuite/btclog/v2"

// Subsystem is the logging subsystem tag for the search engines.
const Subsystem = "SRCH"

// log is a logger that is initialized with no output filters. This means the
// package will not perform any logging by default until the caller requests
// it via UseLogger.
var log btclog.Logger = btclog.Disabled

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}
