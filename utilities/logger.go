package utilities

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop().Sugar()
)

// InitLogger inicializa o logger global. Em "prod" usa JSON, nos demais ambientes
// usa o formato de console com níveis coloridos.
func InitLogger(env string) error {
	var (
		zl  *zap.Logger
		err error
	)
	if env == "prod" {
		zl, err = zap.NewProduction(zap.AddCallerSkip(1))
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zl, err = cfg.Build(zap.AddCallerSkip(1))
	}
	if err != nil {
		return err
	}
	SetLogger(zl)
	return nil
}

// SetLogger troca o logger global (usado também nos testes).
func SetLogger(zl *zap.Logger) {
	mu.Lock()
	logger = zl.Sugar()
	mu.Unlock()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Sync descarrega os buffers do logger.
func Sync() {
	_ = current().Sync()
}

// LogRequest registra informações sobre a requisição HTTP
func LogRequest(method, path, remoteAddr string, status int, duration time.Duration) {
	current().Infow("request",
		"method", method,
		"path", path,
		"remote_addr", remoteAddr,
		"status", status,
		"duration", duration,
	)
}

// LogError registra erros com o contexto informado
func LogError(err error, context string) {
	current().Errorw(context, "error", err)
}

// LogDebug registra informações de debug
func LogDebug(format string, v ...interface{}) {
	current().Debugf(format, v...)
}

// LogInfo registra informações gerais
func LogInfo(format string, v ...interface{}) {
	current().Infof(format, v...)
}
