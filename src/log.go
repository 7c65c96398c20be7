package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Structured logging for the core and the daemons built
 *		on top of it.
 *
 * Description:	A lightweight severity enum (mirrors the DW_COLOR_*
 *		convention of the link-layer teacher code) layered on
 *		top of github.com/charmbracelet/log, plus optional
 *		date-named log files named with
 *		github.com/lestrrat-go/strftime patterns.
 *
 *------------------------------------------------------------------*/

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

type dw_color_e int

const (
	DW_COLOR_INFO dw_color_e = iota
	DW_COLOR_ERROR
	DW_COLOR_WARN
	DW_COLOR_DEBUG
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.RFC3339,
})

// SetLogOutput redirects the package logger, e.g. to a rotating file.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLogLevel sets the minimum severity that is emitted.
func SetLogLevel(l log.Level) {
	logger.SetLevel(l)
}

func logEvent(color dw_color_e, msg string, kv ...interface{}) {
	switch color {
	case DW_COLOR_ERROR:
		logger.Error(msg, kv...)
	case DW_COLOR_WARN:
		logger.Warn(msg, kv...)
	case DW_COLOR_DEBUG:
		logger.Debug(msg, kv...)
	default:
		logger.Info(msg, kv...)
	}
}

// DailyLogFile opens (creating parent dirs as needed) a log file in
// dir named by the strftime pattern applied to the current UTC time.
// The name is formatted once, at open; the file is not rotated when
// the formatted name later changes. Callers close the returned file
// when done.
func DailyLogFile(dir, pattern string) (*os.File, error) {
	fm, err := strftime.New(pattern)
	if err != nil {
		return nil, err
	}

	name := fm.FormatString(time.Now().UTC())
	full := filepath.Join(dir, name)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(full, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	logEvent(DW_COLOR_INFO, "opened log file", "path", full)

	return f, nil
}
