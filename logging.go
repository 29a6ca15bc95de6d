package main

import (
	"io"
	"log/slog"
	"strings"
)

// parseLevel 설정의 log_level 문자열을 slog 레벨로 바꿉니다 (알 수 없으면 info)
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger 텍스트 핸들러 로거를 생성합니다. debug가 켜지면 설정 레벨을 무시합니다.
func newLogger(w io.Writer, level string, debug bool) *slog.Logger {
	lvl := parseLevel(level)
	if debug {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
