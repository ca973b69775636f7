package logger

import (
	"context"

	"go-ojs/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the console logger and tees warnings and errors into the log sink
func NewLogger(lc fx.Lifecycle, cfg *config.Config, sink LogSink) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Important: Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	dbWriter := NewDBLogWriter(sink, cfg.AppId)
	finalCore := NewDBCore(baseLogger.Core(), dbWriter, zapcore.WarnLevel)
	logger := zap.New(finalCore, zap.AddCaller())

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			dbWriter.Close()
			_ = logger.Sync()
			return nil
		},
	})

	return logger, nil
}
