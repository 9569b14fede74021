package common

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// crashLogDir is where crash reports are written. Overridable via
// InstallCrashHandler for deployments that redirect logs.
var crashLogDir = "./logs"

// InstallCrashHandler sets the crash report directory and ensures it
// exists. Call once at the start of main.
func InstallCrashHandler(logDir string) {
	if logDir != "" {
		crashLogDir = logDir
	}
	if err := os.MkdirAll(crashLogDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "CRASH: failed to create log directory: %v\n", err)
	}
}

// WriteCrashFile writes a crash report for an unrecovered panic and returns
// the report path. Called from the deferred recovery in main before exit.
func WriteCrashFile(panicVal interface{}) string {
	report := fmt.Sprintf(
		"=== SPECULOR CRASH REPORT ===\nTime: %s\nVersion: %s\n\nPanic: %v\n\n%s\n",
		time.Now().Format(time.RFC3339),
		GetFullVersion(),
		panicVal,
		allGoroutineStacks(),
	)

	crashPath := filepath.Join(crashLogDir, fmt.Sprintf("crash-%s.log", time.Now().Format("2006-01-02T15-04-05")))
	if err := os.WriteFile(crashPath, []byte(report), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "CRASH: failed to write crash file: %v\n%s", err, report)
		return ""
	}

	fmt.Fprintf(os.Stderr, "\n!!! FATAL CRASH - report saved to %s !!!\nPanic: %v\n", crashPath, panicVal)
	return crashPath
}

func allGoroutineStacks() string {
	buf := make([]byte, 64*1024)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			return string(buf[:n])
		}
		buf = make([]byte, len(buf)*2)
	}
}
