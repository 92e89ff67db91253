// Package logger re-exports the shared goLogger package so internal code can
// keep the short import path used throughout the project.
package logger

import (
	pkglogger "github.com/Bparsons0904/goLogger"
)

type Logger = pkglogger.Logger

var (
	New                = pkglogger.New
	ContextWithTraceID = pkglogger.ContextWithTraceID
)
