package utils

import "github.com/sirupsen/logrus"

// ExtendedLogger is the logging interface used across the server. It is
// implemented by pkg/logger.Logger and keeps packages decoupled from the
// concrete logrus setup.
type ExtendedLogger interface {
	Info(args ...interface{})
	Infof(format string, v ...any)
	Error(args ...interface{})
	Errorf(format string, v ...any)
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	WithField(key string, value interface{}) *logrus.Entry
	WithFields(fields logrus.Fields) *logrus.Entry
	WithError(err error) *logrus.Entry
}
