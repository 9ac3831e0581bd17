package logging

import (
	"log/slog"
	"os"
	"runtime/debug"
)

func NewProgramAttr() slog.Attr {
	hostname, _ := os.Hostname()

	version := "unknown"
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		version = buildInfo.Main.Version
	}

	return slog.Group("program",
		slog.Int("pid", os.Getpid()),
		slog.String("machine", hostname),
		slog.String("version", version),
	)
}

func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

func Address(addr string) slog.Attr {
	return slog.String("address", addr)
}
