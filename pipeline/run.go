package pipeline

import "github.com/google/uuid"
import "go.uber.org/zap"

import "github.com/neurlang/newsclassifier/config"
import "github.com/neurlang/newsclassifier/diag"

// Logger builds the program logger from cfg.Log, tagged with the program name and a
// fresh run id.
func Logger(cfg config.Config, program string) (*zap.Logger, error) {
	log, err := diag.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("program", program), zap.String("run", uuid.NewString())), nil
}
