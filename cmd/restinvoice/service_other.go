//go:build !windows

package main

import (
	"fmt"
	"os"
)

func isRunningAsService() bool {
	return false
}

func runAsService() {}

func installService()   { windowsOnly("install") }
func uninstallService() { windowsOnly("uninstall") }
func startService()     { windowsOnly("start") }
func stopService()      { windowsOnly("stop") }

func windowsOnly(cmd string) {
	fmt.Printf("'%s' manages a Windows service and is only available on Windows.\n", cmd)
	os.Exit(1)
}
