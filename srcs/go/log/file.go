package log

import (
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// TeeToFile duplicates the standard logger output into a rotated log file.
func TeeToFile(filename string) io.Closer {
	lf := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     28,
	}
	SetOutput(io.MultiWriter(os.Stdout, lf))
	return lf
}
