// Package bootstrap initializes shared process infrastructure: the
// logger, configuration, and the assembled pipeline.
package bootstrap

import (
	"fmt"
	"os"

	"tcgen/config"
	"tcgen/service"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger initializes the zap logger with colored console output.
func InitLogger() (*zap.Logger, *zap.SugaredLogger, error) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
	core := zapcore.NewCore(
		consoleEncoder,
		zapcore.AddSync(os.Stdout),
		zapcore.InfoLevel,
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, logger.Sugar(), nil
}

// InitConfig loads the application configuration.
func InitConfig(sugar *zap.SugaredLogger) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if viper.ConfigFileUsed() == "" {
		sugar.Info("No config file found, using defaults and env vars")
	}
	return cfg, nil
}

// InitPipeline loads the rule tables and assembles the pipeline.
func InitPipeline(cfg *config.Config, sugar *zap.SugaredLogger) (*service.Pipeline, error) {
	rules, err := config.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load rule tables: %w", err)
	}
	sugar.Infow("Rule tables loaded", "version", rules.Version)

	pipeline, err := service.NewPipeline(cfg, rules, sugar)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	return pipeline, nil
}
