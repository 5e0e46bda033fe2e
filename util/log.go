package util

import (
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// NewLogger returns a logfmt logger with UTC timestamps that drops
// entries below the named level (debug, info, warn, error)
func NewLogger(levelName string, w io.Writer) (log.Logger, error) {
	var option level.Option
	switch levelName {
	case "debug":
		option = level.AllowDebug()
	case "info", "":
		option = level.AllowInfo()
	case "warn":
		option = level.AllowWarn()
	case "error":
		option = level.AllowError()
	default:
		return nil, errors.Errorf("unknown log level %q", levelName)
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, option), nil
}
