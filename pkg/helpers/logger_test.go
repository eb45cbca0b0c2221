package helpers

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("development is text at debug", func(t *testing.T) {
		l := newLogger(&bytes.Buffer{}, "pokedex-api", "development", "")
		assert.Equal(t, logrus.DebugLevel, l.GetLevel())
		assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
	})

	t.Run("production is json at info", func(t *testing.T) {
		var buf bytes.Buffer
		l := newLogger(&buf, "pokedex-api", "production", "")
		assert.Equal(t, logrus.InfoLevel, l.GetLevel())

		l.WithField("user_id", "u1").Info("hello")
		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "hello", line["msg"])
		assert.Equal(t, "u1", line["user_id"])
	})

	t.Run("explicit level wins", func(t *testing.T) {
		l := newLogger(&bytes.Buffer{}, "pokedex-api", "production", "warn")
		assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	})

	t.Run("bad level keeps default", func(t *testing.T) {
		l := newLogger(&bytes.Buffer{}, "pokedex-api", "production", "loud")
		assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	})
}
