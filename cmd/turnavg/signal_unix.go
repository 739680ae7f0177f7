//go:build unix

package main

import (
	"os"
	"syscall"
)

var refreshSignals = []os.Signal{syscall.SIGUSR1}
