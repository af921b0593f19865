package log

import "gopkg.in/Sirupsen/logrus.v0"

// Level mirrors logrus' severity ordering: lower values are more severe.
// Panic/Fatal/Error/Warn are always emitted; Info/Debug are gated by the
// enabled module mask (see Module.Enabled).
type Level logrus.Level

const (
	PanicLevel Level = Level(logrus.PanicLevel)
	FatalLevel Level = Level(logrus.FatalLevel)
	ErrorLevel Level = Level(logrus.ErrorLevel)
	WarnLevel  Level = Level(logrus.WarnLevel)
	InfoLevel  Level = Level(logrus.InfoLevel)
	DebugLevel Level = Level(logrus.DebugLevel)
)
