package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsml3/pkg/rl3"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.Nil(t, err)
	assert.Equal(t, "network", cfg.Codec.Role)
	assert.Equal(t, rl3.DefaultCodecTag, cfg.Codec.CodecTag)
	assert.Equal(t, uint16(4729), cfg.GSMTAP.Port)
	assert.Nil(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "gsml3.yaml", `
codec:
  role: ms
  dump_ies: true
log:
  level: debug
  format: json
serve:
  addr: ":5000"
`)
	cfg, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, "ms", cfg.Codec.Role)
	assert.True(t, cfg.Codec.DumpIEs)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":5000", cfg.Serve.Addr)
	// untouched sections keep their defaults
	assert.Equal(t, 100, cfg.Log.MaxSizeMB)
	assert.Equal(t, "127.0.0.1:9473", cfg.Serve.MetricsAddr)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "gsml3.toml", `
[codec]
codec_tag = "nas"
nas_integrity_key = "000102030405060708090a0b0c0d0e0f"
nas_ciphering_key = "000102030405060708090a0b0c0d0e0f"

[gsmtap]
port = 4800
`)
	cfg, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, "nas", cfg.Codec.CodecTag)
	assert.Equal(t, uint16(4800), cfg.GSMTAP.Port)

	opts, err := cfg.Codec.CodecOptions(logrus.WithField("test", t.Name()))
	require.Nil(t, err)
	assert.Equal(t, 6, len(opts))

	cd, err := cfg.NewCodec()
	require.Nil(t, err)
	assert.Equal(t, rl3.Network, cd.Role())
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"role.yaml":   "codec:\n  role: bts\n",
		"level.yaml":  "log:\n  level: loud\n",
		"format.yaml": "log:\n  format: xml\n",
		"keys.yaml":   "codec:\n  nas_integrity_key: \"00\"\n",
		"port.toml":   "[gsmtap]\nport = 0\n",
		"bad.toml":    "[codec\n",
		"gsml3.ini":   "",
	}
	for name, content := range cases {
		_, err := Load(writeFile(t, name, content))
		assert.NotNil(t, err, name)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)

	cfg := Default()
	cfg.Codec.IntegrityKey = "zz"
	cfg.Codec.CipheringKey = "00"
	_, err = cfg.NewCodec()
	assert.NotNil(t, err)
}
