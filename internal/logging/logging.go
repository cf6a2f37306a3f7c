package logging

import "go.uber.org/zap"

// New builds the process-wide sugared logger. Development mode trades
// structure for readability.
func New(debug bool) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// NewNop returns a logger that discards everything; used by tests.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
