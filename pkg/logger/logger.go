package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// serviceHook добавляет имя приложения в каждую запись (поле app)
type serviceHook struct {
	service string
}

func (h serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h serviceHook) Fire(entry *logrus.Entry) error {
	entry.Data["app"] = h.service
	return nil
}

func New(logLevel, service string) *logrus.Logger {
	return NewWithOutput(logLevel, service, os.Stdout)
}

// NewWithOutput создает JSON-логгер, пишущий в out
func NewWithOutput(logLevel, service string, out io.Writer) *logrus.Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{})

	log.SetOutput(out)

	// Уровень логирования
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel // Уровень по умолчанию, если передан некорректный
	}
	log.SetLevel(level)

	if service != "" {
		log.AddHook(serviceHook{service: service})
	}
	return log
}
