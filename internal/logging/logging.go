package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger with the given level and format.
// Lambda always gets JSON so CloudWatch can index the fields.
func Setup(level, format string) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(NewFormatter(format, os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""))

	return nil
}

// NewFormatter returns the formatter for format; serverless forces JSON
func NewFormatter(format string, serverless bool) logrus.Formatter {
	if serverless || strings.EqualFold(format, "json") {
		return &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		}
	}
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
}
