package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// floorCore drops entries below a minimum level on top of the wrapped core's own level.
type floorCore struct {
	zapcore.Core

	// floor is the lowest level passed to the wrapped core.
	floor zapcore.Level
}

// Enabled reports whether both the floor and the wrapped core accept the level.
func (c *floorCore) Enabled(l zapcore.Level) bool {
	return l >= c.floor && c.Core.Enabled(l)
}

// Check adds the core to the checked entry when the entry level is enabled.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *floorCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, c)
}

// With keeps the floor on the derived core.
//
//nolint:ireturn,nolintlint // Returning zapcore.Core is intended for zap integration.
func (c *floorCore) With(fields []zapcore.Field) zapcore.Core {
	return &floorCore{
		Core:  c.Core.With(fields),
		floor: c.floor,
	}
}

// WithMinLevel returns an option that silences entries below lvl.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithMinLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &floorCore{Core: core, floor: lvl}
	})
}
