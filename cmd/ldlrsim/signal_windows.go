//go:build windows

package main

import (
	"os"
	"os/signal"
)

// notifySignals subscribes ch to the shutdown signals so an in-flight
// batch can cancel cleanly. Windows only delivers os.Interrupt (Ctrl+C);
// there is no SIGTERM.
func notifySignals(ch chan<- os.Signal) {
	signal.Notify(ch, os.Interrupt)
}
