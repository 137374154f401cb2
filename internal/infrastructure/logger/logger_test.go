package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Level = "loud"
		assert.Error(t, Setup(cfg))
	})

	t.Run("file output with component", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		cfg := DefaultConfig()
		cfg.Output = path
		require.NoError(t, Setup(cfg))

		l := WithComponent("invoice-usecase")
		l.Info().Str("invoice_id", "inv-1").Msg("create success")

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		line := string(raw)
		assert.True(t, strings.Contains(line, `"component":"invoice-usecase"`), line)
		assert.True(t, strings.Contains(line, `"invoice_id":"inv-1"`), line)
	})
}
