//go:build !unix

package main

import "os"

var refreshSignals []os.Signal
