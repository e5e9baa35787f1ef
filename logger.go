package threadpool

// Logger is the logging contract of the pool.
// *logrus.Logger and *logrus.Entry satisfy it.
type Logger interface {
	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})
}

type discardLogger struct{}

func (l *discardLogger) Debugf(string, ...interface{}) {}

func (l *discardLogger) Infof(string, ...interface{}) {}

func (l *discardLogger) Warnf(string, ...interface{}) {}

func (l *discardLogger) Errorf(string, ...interface{}) {}
