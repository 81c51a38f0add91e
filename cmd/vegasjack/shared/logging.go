package shared

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/vegasjack/internal/fileutil"
)

// SetupLogger configures a text logger writing to w
func SetupLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
}

// SetupFileLogger configures a logfmt logger appending to filename, for
// commands that own the terminal. Close the returned file when done.
func SetupFileLogger(filename string, debug bool) (*log.Logger, io.Closer, error) {
	f, err := fileutil.OpenAppend(filename)
	if err != nil {
		return nil, nil, err
	}

	logger := SetupLogger(f, debug)
	logger.SetFormatter(log.LogfmtFormatter)
	logger.SetTimeFormat("2006-01-02T15:04:05.000Z07:00")
	return logger, f, nil
}
