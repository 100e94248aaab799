package erpdump

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, 100, c.PageSize)
	assert.Empty(t, c.Entities)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		c := NewConfig()
		c.Endpoint = "https://erp.example.com/api"
		c.Output = "dump.ndjson"
		return c
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing endpoint", func(t *testing.T) {
		c := valid()
		c.Endpoint = ""
		assert.Error(t, c.Validate())
	})

	t.Run("missing output", func(t *testing.T) {
		c := valid()
		c.Output = ""
		assert.Error(t, c.Validate())
	})

	t.Run("bad page size", func(t *testing.T) {
		c := valid()
		c.PageSize = 0
		assert.Error(t, c.Validate())
	})

	t.Run("unknown entity", func(t *testing.T) {
		c := valid()
		c.Entities = []string{"invoices", "widgets"}
		assert.Error(t, c.Validate())
	})
}

func TestOutputPath(t *testing.T) {
	c := NewConfig()
	c.Output = "dump.ndjson"
	assert.Equal(t, "dump.ndjson", c.OutputPath())

	c.Dir = "backups"
	assert.Equal(t, filepath.Join("backups", "dump.ndjson"), c.OutputPath())
}
