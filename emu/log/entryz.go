package log

import (
	"fmt"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

// maxZFields bounds the number of chained fields a single EntryZ can carry
// before End(). Every call site in this codebase attaches at most a handful
// of fields, so this stays small and stack-friendly.
const maxZFields = 8

// EntryZ is a chainable, allocation-light log entry. Module.DebugZ and its
// siblings return nil when the level/module combination is disabled, and
// every method below is nil-receiver-safe, so a disabled EntryZ chain costs
// nothing beyond the initial Enabled() check.
type EntryZ struct {
	mod Module
	lvl Level
	msg string

	fields [maxZFields]ZField
	nfield int
}

func newEntryZ() *EntryZ {
	return &EntryZ{}
}

func (e *EntryZ) push(f ZField) *EntryZ {
	if e == nil {
		return nil
	}
	if e.nfield < len(e.fields) {
		e.fields[e.nfield] = f
		e.nfield++
	}
	return e
}

func (e *EntryZ) Bool(key string, val bool) *EntryZ {
	return e.push(ZField{Type: FieldTypeBool, Key: key, Boolean: val})
}

func (e *EntryZ) String(key string, val string) *EntryZ {
	return e.push(ZField{Type: FieldTypeString, Key: key, String: val})
}

func (e *EntryZ) Hex8(key string, val uint8) *EntryZ {
	return e.push(ZField{Type: FieldTypeHex8, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Hex16(key string, val uint16) *EntryZ {
	return e.push(ZField{Type: FieldTypeHex16, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Hex32(key string, val uint32) *EntryZ {
	return e.push(ZField{Type: FieldTypeHex32, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Hex64(key string, val uint64) *EntryZ {
	return e.push(ZField{Type: FieldTypeHex64, Key: key, Integer: val})
}

func (e *EntryZ) Uint8(key string, val uint8) *EntryZ {
	return e.push(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Uint16(key string, val uint16) *EntryZ {
	return e.push(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Uint32(key string, val uint32) *EntryZ {
	return e.push(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Uint64(key string, val uint64) *EntryZ {
	return e.push(ZField{Type: FieldTypeUint, Key: key, Integer: val})
}

func (e *EntryZ) Int(key string, val int) *EntryZ {
	return e.push(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Int64(key string, val int64) *EntryZ {
	return e.push(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Err(err error) *EntryZ {
	return e.push(ZField{Type: FieldTypeError, Key: "error", Error: err})
}

func (e *EntryZ) Duration(key string, val time.Duration) *EntryZ {
	return e.push(ZField{Type: FieldTypeDuration, Key: key, Duration: val})
}

func (e *EntryZ) Stringer(key string, val fmt.Stringer) *EntryZ {
	return e.push(ZField{Type: FieldTypeStringer, Key: key, Interface: val})
}

func (e *EntryZ) Blob(key string, val []byte) *EntryZ {
	return e.push(ZField{Type: FieldTypeBlob, Key: key, Blob: val})
}

// End emits the entry. A nil receiver (disabled module/level) is a no-op.
func (e *EntryZ) End() {
	if e == nil {
		return
	}

	var logf func(args ...any)
	entry := logrus.StandardLogger().WithField("mod", e.mod.Name())
	for i := 0; i < e.nfield; i++ {
		f := &e.fields[i]
		entry = entry.WithField(f.Key, f.Value())
	}

	switch Level(e.lvl) {
	case DebugLevel:
		logf = entry.Debug
	case InfoLevel:
		logf = entry.Info
	case WarnLevel:
		logf = entry.Warn
	case ErrorLevel:
		logf = entry.Error
	case FatalLevel:
		logf = entry.Fatal
	case PanicLevel:
		logf = entry.Panic
	default:
		logf = entry.Info
	}
	logf(e.msg)
}
