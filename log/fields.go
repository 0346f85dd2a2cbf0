package log

import "go.uber.org/zap"

var (
	String     = zap.String
	Int        = zap.Int
	Int64      = zap.Int64
	Float64    = zap.Float64
	Bool       = zap.Bool
	Any        = zap.Any
	ErrorField = zap.Error
)
