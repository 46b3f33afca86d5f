package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// Loggers are usable before Init; Init redirects them to stdout and the log file.
var (
	Info  = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	Error = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	Debug = log.New(io.Discard, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
)

// Init initializes the loggers to write to both stdout and restinvoice.log in logDir.
// Debug output is only written when debug is true.
func Init(logDir string, debug bool) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	logFile, err := os.OpenFile(filepath.Join(logDir, "restinvoice.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)

	Info.SetOutput(multiWriter)
	Error.SetOutput(multiWriter)
	if debug {
		Debug.SetOutput(multiWriter)
	} else {
		Debug.SetOutput(io.Discard)
	}

	return nil
}
