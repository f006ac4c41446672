package main

import (
	"github.com/decred/slog"
	"github.com/gov-power/govpower/libgov"
)

// log is the main-package subsystem logger. It stays disabled until
// initLogging registers it against the libgov logging backend, which must
// happen before the governance manager initializes the log rotator.
var log = slog.Disabled

func initLogging() {
	l, err := libgov.RegisterLogger("MAIN")
	if err != nil {
		return
	}
	log = l
}
