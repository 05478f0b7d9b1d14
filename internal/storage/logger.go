package storage

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
)

// badgerLogger adapts a logr.Logger to badger.Logger.
// Badger's info and debug chatter is pushed to higher verbosity levels.
type badgerLogger struct {
	log logr.Logger
}

func newBadgerLogger(l logr.Logger) *badgerLogger {
	return &badgerLogger{log: l.WithName("badger")}
}

func (b *badgerLogger) Errorf(format string, args ...interface{}) {
	b.log.Error(nil, message(format, args...))
}

func (b *badgerLogger) Warningf(format string, args ...interface{}) {
	b.log.Info(message(format, args...), "level", "warning")
}

func (b *badgerLogger) Infof(format string, args ...interface{}) {
	b.log.V(1).Info(message(format, args...))
}

func (b *badgerLogger) Debugf(format string, args ...interface{}) {
	b.log.V(2).Info(message(format, args...))
}

// message formats a badger log line; badger terminates most with a newline.
func message(format string, args ...interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
