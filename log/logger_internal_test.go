// Copyright (c) 2024 - for information on the respective copyright owner
// see the NOTICE file and/or the repository at
// https://github.com/royalty-labs/royalty-node
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewLoggerWithField(t *testing.T) {
	t.Run("happy_without_init", func(t *testing.T) {
		setCleanup(t)
		logger = nil

		var l Logger
		assert.NotPanics(t, func() {
			l = NewLoggerWithField("component", "client")
		})
		require.NotNil(t, l)
		assert.Equal(t, logrus.DebugLevel, logger.Level)
		assert.Equal(t, logrus.DebugLevel, l.(*logrus.Entry).Logger.Level)
	})

	t.Run("happy_with_init_stdout", func(t *testing.T) {
		setCleanup(t)
		err := InitLogger("error", "")
		require.NoError(t, err)

		var l Logger
		assert.NotPanics(t, func() {
			l = NewLoggerWithField("testkey", "testval")
		})
		require.NotNil(t, l)
		assert.Equal(t, logrus.ErrorLevel, logger.Level)
		assert.Equal(t, logrus.ErrorLevel, l.(*logrus.Entry).Logger.Level)
	})

	t.Run("happy_with_init_file", func(t *testing.T) {
		setCleanup(t)
		logFile := filepath.Join(t.TempDir(), "node.log")

		err := InitLogger("info", logFile)
		require.NoError(t, err)

		l := NewLoggerWithField("testkey", "testval")
		l.Info("written to file")
		assert.Equal(t, logrus.InfoLevel, l.(*logrus.Entry).Logger.Level)

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "written to file")
		assert.Contains(t, string(content), "testkey=testval")
	})
}

func Test_NewDerivedLoggerWithField(t *testing.T) {
	t.Run("happy", func(t *testing.T) {
		setCleanup(t)
		logger = nil
		parent := NewLoggerWithField("component", "client")

		derived := NewDerivedLoggerWithField(parent, "method", "GetRoyaltyStats")
		entry, ok := derived.(*logrus.Entry)
		require.True(t, ok)
		assert.Equal(t, "client", entry.Data["component"])
		assert.Equal(t, "GetRoyaltyStats", entry.Data["method"])
	})

	t.Run("err_nil_parent", func(t *testing.T) {
		assert.Panics(t, func() {
			NewDerivedLoggerWithField(nil, "method", "any")
		})
	})
}

func Test_InitLogger(t *testing.T) {
	t.Run("err_multiple_init", func(t *testing.T) {
		setCleanup(t)
		err1 := InitLogger("error", "")
		require.NoError(t, err1)
		err2 := InitLogger("info", "")
		require.Error(t, err2)
		t.Log(err2)

		require.NotNil(t, logger)
		assert.Equal(t, logrus.ErrorLevel, logger.Level)
	})

	t.Run("err_invalid_level", func(t *testing.T) {
		setCleanup(t)
		err := InitLogger("invalid-level", "")
		require.Error(t, err)
		t.Log(err)

		require.Nil(t, logger)
	})

	t.Run("err_setting_up_file", func(t *testing.T) {
		setCleanup(t)
		logFile := filepath.Join(t.TempDir(), "missing-dir", "node.log")

		err := InitLogger("error", logFile)
		require.Error(t, err)
		t.Log(err)

		require.Nil(t, logger)
	})
}

func Test_customTextFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	l := newLogger(logrus.InfoLevel, buf)
	l.WithField("path", "mock").Info("served")

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("▶ ")))
	assert.Contains(t, buf.String(), "path=mock")
}

// setCleanup backs up the original value of package level logger instance and
// registers a callback to test cleanup to restore it after the test.
func setCleanup(t *testing.T) {
	oldLogger := logger
	logger = nil
	t.Cleanup(func() {
		logger = oldLogger
	})
}
