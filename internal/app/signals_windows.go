//go:build windows

package app

import "os"

// shutdownSignals are the OS signals that cancel the command context.
var shutdownSignals = []os.Signal{os.Interrupt}
