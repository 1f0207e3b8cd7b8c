package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"":        logrus.InfoLevel,
		"DEBUG":   logrus.DebugLevel,
		" warn ":  logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"verbose": logrus.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestUseText(t *testing.T) {
	defer func() {
		Logger.SetOutput(os.Stdout)
		Logger.SetFormatter(&logrus.JSONFormatter{})
	}()

	var buf bytes.Buffer
	UseText(&buf)
	WithField("cells", 3).Info("Saved sprites")

	assert.Contains(t, buf.String(), `msg="Saved sprites"`)
	assert.Contains(t, buf.String(), "cells=3")
}
