package app

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// testLogger возвращает молчаливый logger для тестов пакета.
func testLogger() *log.Entry {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "test")
}
