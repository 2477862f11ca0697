package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetup(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	if err := Setup("DEBUG", "json"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if logrus.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level, got %s", logrus.GetLevel())
	}

	if err := Setup("loud", "text"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		serverless bool
		wantJSON   bool
	}{
		{"text locally", "text", false, false},
		{"json locally", "JSON", false, true},
		{"text forced to json in lambda", "text", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, isJSON := NewFormatter(tt.format, tt.serverless).(*logrus.JSONFormatter)
			if isJSON != tt.wantJSON {
				t.Errorf("NewFormatter(%q, %v) json = %v, want %v", tt.format, tt.serverless, isJSON, tt.wantJSON)
			}
		})
	}
}
