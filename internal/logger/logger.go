package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New собирает zap-логгер. Без LOG_FILE — обычный production-логгер,
// с LOG_FILE пишем и в stderr, и в файл с ротацией.
func New() (*zap.Logger, error) {
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		return zap.NewProduction()
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, err
	}

	maxSize, _ := strconv.Atoi(os.Getenv("LOG_MAX_SIZE_MB"))
	if maxSize <= 0 {
		maxSize = 64
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    maxSize, // MB
		MaxBackups: 3,
		MaxAge:     7, // дней
		Compress:   true,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(io.MultiWriter(os.Stderr, fileWriter)),
		zapcore.InfoLevel,
	)

	return zap.New(core), nil
}
