package log

import (
	"gopkg.in/Sirupsen/logrus.v0"
)

// Entry is a minimal, allocation-light wrapper used for the printf-style
// logging family (Module.Debugf, Module.Warnf, ...). The structured,
// chainable family lives in entryz.go.
type Entry struct {
	mod Module
}

func (entry Entry) log() *logrus.Entry {
	return logrus.StandardLogger().WithField("mod", entry.mod.Name())
}

func (entry Entry) Debugf(format string, args ...any) {
	if entry.mod.Enabled(DebugLevel) {
		entry.log().Debugf(format, args...)
	}
}

func (entry Entry) Infof(format string, args ...any) {
	if entry.mod.Enabled(InfoLevel) {
		entry.log().Infof(format, args...)
	}
}

func (entry Entry) Warnf(format string, args ...any) {
	if entry.mod.Enabled(WarnLevel) {
		entry.log().Warnf(format, args...)
	}
}

func (entry Entry) Errorf(format string, args ...any) {
	if entry.mod.Enabled(ErrorLevel) {
		entry.log().Errorf(format, args...)
	}
}

func (entry Entry) Fatalf(format string, args ...any) {
	if entry.mod.Enabled(FatalLevel) {
		entry.log().Fatalf(format, args...)
	}
}
