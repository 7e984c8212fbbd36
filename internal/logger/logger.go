package logger

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

func Init() {
	logger = logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
}

// SetLevel parses a logrus level name ("debug", "warn", ...). Unknown names
// leave the current level untouched and return false.
func SetLevel(name string) bool {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return false
	}
	Get().SetLevel(level)
	return true
}

func Get() *logrus.Logger {
	once.Do(func() {
		if logger == nil {
			Init()
		}
	})
	return logger
}
