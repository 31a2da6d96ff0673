package internal

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger for the CLI. Logs go to stderr so they never
// interleave with rendered output on stdout. Verbose enables debug level with
// the development encoder; quiet raises the threshold to errors only.
func NewLogger(verbose, quiet bool) (*zap.Logger, error) {
	var config zap.Config

	if verbose {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config = zap.NewProductionConfig()
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	if quiet {
		config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	}
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}

// NewFileLogger builds a zap logger writing to a file under the cache
// directory. The MCP server runs its protocol over stdio, so its logs must
// stay off both standard streams.
func NewFileLogger(cacheDir, name string, verbose bool) (*zap.Logger, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = []string{filepath.Join(cacheDir, name)}
	config.ErrorOutputPaths = config.OutputPaths

	return config.Build()
}
