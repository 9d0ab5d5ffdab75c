// Package logx adiciona níveis (DEBUG, INFO, WARN, ERROR) ao *log.Logger da aplicação.
package logx

import (
	"log"
	"strings"
)

var order = map[string]int{"DEBUG": 10, "INFO": 20, "WARN": 30, "ERROR": 40}

// Logger filtra mensagens abaixo do nível configurado.
type Logger struct {
	*log.Logger
	level int
}

// New envolve l com o nível informado; nível desconhecido vira INFO.
func New(l *log.Logger, level string) *Logger {
	lv, ok := order[strings.ToUpper(strings.TrimSpace(level))]
	if !ok {
		lv = order["INFO"]
	}
	return &Logger{Logger: l, level: lv}
}

// Enabled informa se o nível será registrado.
func (l *Logger) Enabled(level string) bool {
	return order[strings.ToUpper(level)] >= l.level
}

// Debugf registra em nível debug.
func (l *Logger) Debugf(format string, args ...any) {
	if l.Enabled("DEBUG") {
		l.Printf("[DEBUG] "+format, args...)
	}
}

// Infof registra em nível info.
func (l *Logger) Infof(format string, args ...any) {
	if l.Enabled("INFO") {
		l.Printf("[INFO]  "+format, args...)
	}
}

// Warnf registra em nível warn.
func (l *Logger) Warnf(format string, args ...any) {
	if l.Enabled("WARN") {
		l.Printf("[WARN]  "+format, args...)
	}
}

// Errorf registra em nível error.
func (l *Logger) Errorf(format string, args ...any) {
	if l.Enabled("ERROR") {
		l.Printf("[ERROR] "+format, args...)
	}
}
