/*
Copyright 2022 The FuzzCloud Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package log

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *zap.Logger
var sugaredLogger *zap.SugaredLogger

type Config struct {
	Level       string
	Filename    string
	SendToFile  bool
	NoCaller    bool
	NoLogLevel  bool
	Development bool
	MaxSize     int // megabytes
	MaxAge      int // days
	MaxBackups  int
}

func Init(cfg *Config) {
	var l = new(zapcore.Level)
	if err := l.UnmarshalText([]byte(cfg.Level)); err != nil {
		panic(err)
	}

	consoleSyncer := zapcore.AddSync(os.Stdout)
	consoleEncoder := getConsoleEncoder(cfg)
	consoleCore := zapcore.NewCore(consoleEncoder, consoleSyncer, l)

	var opts []zap.Option
	opts = append(opts, zap.AddStacktrace(zap.DPanicLevel))
	if !cfg.NoCaller {
		opts = append(opts, zap.AddCaller())
	}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}

	core := consoleCore
	if cfg.SendToFile {
		fileSyncer := zapcore.AddSync(getLumberjackLogger(cfg))
		fileEncoder := getJSONEncoder(cfg)
		fileCore := zapcore.NewCore(fileEncoder, fileSyncer, l)

		core = zapcore.NewTee(consoleCore, fileCore)
	}

	logger = zap.New(core, opts...)
	sugaredLogger = logger.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// NewFileLogger returns a logger writing JSON entries to the given file
// only, used for the request log.
func NewFileLogger(filename string) *zap.Logger {
	cfg := &Config{Level: "info", Filename: filename, NoCaller: true}

	syncer := zapcore.AddSync(getLumberjackLogger(cfg))
	core := zapcore.NewCore(getJSONEncoder(cfg), syncer, zapcore.InfoLevel)

	return zap.New(core)
}

func getJSONEncoder(cfg *Config) zapcore.Encoder {
	return getEncoder(cfg, true)
}

func getConsoleEncoder(cfg *Config) zapcore.Encoder {
	return getEncoder(cfg, false)
}

func lastNthIndexString(s string, sub string, index int) string {
	r := strings.Split(s, sub)
	if len(r) < index {
		return s
	}
	return strings.Join(r[len(r)-index:], "/")
}

func customCallerEncoder(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(lastNthIndexString(caller.String(), "/", 3))
}

func getEncoder(cfg *Config, jsonFormat bool) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	encoderConfig.EncodeCaller = customCallerEncoder

	if cfg.NoLogLevel {
		encoderConfig.LevelKey = zapcore.OmitKey
	}

	if jsonFormat {
		return zapcore.NewJSONEncoder(encoderConfig)
	}

	return zapcore.NewConsoleEncoder(encoderConfig)
}

func getLumberjackLogger(cfg *Config) *lumberjack.Logger {
	maxBackups := cfg.MaxBackups
	// keep 10 backups if not set to avoid running out of disk space
	if maxBackups == 0 {
		maxBackups = 10
	}

	return &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: maxBackups,
	}
}

func Logger() *zap.Logger {
	return getLogger()
}

func SugaredLogger() *zap.SugaredLogger {
	return getSugaredLogger()
}

func NopSugaredLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func getLogger() *zap.Logger {
	if logger == nil {
		Init(&Config{Level: "debug", Development: true})
	}

	return logger
}

func getSugaredLogger() *zap.SugaredLogger {
	if sugaredLogger == nil {
		Init(&Config{Level: "debug", Development: true})
	}

	return sugaredLogger
}
