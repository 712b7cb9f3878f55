package logger

import (
	"github.com/sirupsen/logrus"
)

// Log по умолчанию пишет в stderr, пока Init не вызван (например, в тестах).
var Log = logrus.New()

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// WithComponent возвращает запись с полем component для логов подсистемы.
func WithComponent(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
