package apiclient

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

const logSnippetLimit = 120

func requestLogger(ctx context.Context, method, endpoint string) *logrus.Entry {
	entry := logrus.WithFields(logrus.Fields{
		"method":   method,
		"endpoint": endpoint,
	})
	if ctx != nil {
		entry = entry.WithContext(ctx)
	}
	return entry
}

func logSnippet(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	runes := []rune(value)
	if len(runes) <= logSnippetLimit {
		return value
	}

	return string(runes[:logSnippetLimit]) + "..."
}
