// Package config holds the settings shared by the gsml3 commands.
package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"gsml3/pkg/gsmtap"
	"gsml3/pkg/nassec"
	"gsml3/pkg/rl3"
)

type Config struct {
	Codec  Codec  `yaml:"codec" toml:"codec"`
	Log    Log    `yaml:"log" toml:"log"`
	GSMTAP GSMTAP `yaml:"gsmtap" toml:"gsmtap"`
	Serve  Serve  `yaml:"serve" toml:"serve"`
}

type Codec struct {
	Role       string `yaml:"role" toml:"role"`
	DumpMsg    bool   `yaml:"dump_msg" toml:"dump_msg"`
	DumpIEs    bool   `yaml:"dump_ies" toml:"dump_ies"`
	PrintDebug bool   `yaml:"print_debug" toml:"print_debug"`
	CodecTag   string `yaml:"codec_tag" toml:"codec_tag"`

	// hex encoded 128 bit NAS keys, both empty leaves protected payloads
	// unchecked and in clear
	IntegrityKey string `yaml:"nas_integrity_key" toml:"nas_integrity_key"`
	CipheringKey string `yaml:"nas_ciphering_key" toml:"nas_ciphering_key"`
}

type Log struct {
	Level      string `yaml:"level" toml:"level"`
	Format     string `yaml:"format" toml:"format"`
	File       string `yaml:"file" toml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

type GSMTAP struct {
	Port uint16 `yaml:"port" toml:"port"`
}

type Serve struct {
	Addr        string `yaml:"addr" toml:"addr"`
	MetricsAddr string `yaml:"metrics_addr" toml:"metrics_addr"`
}

func Default() *Config {
	return &Config{
		Codec: Codec{
			Role:     rl3.Network.String(),
			CodecTag: rl3.DefaultCodecTag,
		},
		Log: Log{
			Level:      logrus.InfoLevel.String(),
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		GSMTAP: GSMTAP{Port: gsmtap.Port},
		Serve: Serve{
			Addr:        "127.0.0.1:4730",
			MetricsAddr: "127.0.0.1:9473",
		},
	}
}

// Load reads path over the defaults. The extension selects the format,
// .yaml or .yml for YAML and .toml for TOML.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "os.ReadFile")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, errors.Errorf("unknown config format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, ok := rl3.ParseRole(c.Codec.Role); !ok {
		return errors.Errorf("codec.role %q is neither network nor ms", c.Codec.Role)
	}
	if c.Codec.CodecTag == "" {
		return errors.New("codec.codec_tag is empty")
	}
	if (c.Codec.IntegrityKey == "") != (c.Codec.CipheringKey == "") {
		return errors.New("codec.nas_integrity_key and codec.nas_ciphering_key go together")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.Errorf("log.format %q is neither text nor json", c.Log.Format)
	}
	if c.GSMTAP.Port == 0 {
		return errors.New("gsmtap.port is zero")
	}
	return nil
}

// CodecOptions builds the rl3 codec settings.
func (c *Codec) CodecOptions(log *logrus.Entry) ([]rl3.CodecOpt, error) {
	role, ok := rl3.ParseRole(c.Role)
	if !ok {
		return nil, errors.Errorf("unknown role %q", c.Role)
	}

	var flags rl3.Flags
	if c.DumpMsg {
		flags |= rl3.XmlDumpMsg
	}
	if c.DumpIEs {
		flags |= rl3.XmlDumpIEs
	}
	opts := []rl3.CodecOpt{
		rl3.WithRole(role),
		rl3.WithFlags(flags),
		rl3.WithLogger(log),
		rl3.WithPrintDebug(c.PrintDebug),
		rl3.WithDefaultCodecTag(c.CodecTag),
	}

	if c.IntegrityKey != "" {
		hooks, err := c.securityHooks(role)
		if err != nil {
			return nil, err
		}
		opts = append(opts, rl3.WithSecurityHooks(hooks))
	}
	return opts, nil
}

// securityHooks checks and deciphers what the role receives: uplink on the
// network side, downlink on the mobile station.
func (c *Codec) securityHooks(role rl3.Role) (*nassec.Hooks, error) {
	kint, err := hex.DecodeString(c.IntegrityKey)
	if err != nil {
		return nil, errors.Wrap(err, "codec.nas_integrity_key")
	}
	kenc, err := hex.DecodeString(c.CipheringKey)
	if err != nil {
		return nil, errors.Wrap(err, "codec.nas_ciphering_key")
	}
	recv := nassec.Uplink
	if role == rl3.MobileStation {
		recv = nassec.Downlink
	}
	return nassec.New(kint, kenc, nassec.WithReceiveDirection(recv))
}

// NewCodec is a shorthand for rl3.New with CodecOptions.
func (c *Config) NewCodec() (*rl3.Codec, error) {
	opts, err := c.Codec.CodecOptions(logrus.WithField("module", "rl3"))
	if err != nil {
		return nil, err
	}
	return rl3.New(opts...), nil
}
