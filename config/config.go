// Package config loads bertml runtime configuration from YAML, TOML or
// JSON files.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/bertml/errors"
)

// Config holds runtime parameters for the host.
type Config struct {
	ModuleName       string `json:"module_name" yaml:"module_name" toml:"module_name"`
	Codec            string `json:"codec" yaml:"codec" toml:"codec"`
	LogLevel         string `json:"log_level" yaml:"log_level" toml:"log_level"`
	Llama            Llama  `json:"llama" yaml:"llama" toml:"llama"`
	MemoryLimitPages uint32 `json:"memory_limit_pages" yaml:"memory_limit_pages" toml:"memory_limit_pages"`
	Metrics          bool   `json:"metrics" yaml:"metrics" toml:"metrics"`
}

// Llama configures the llama.cpp backend. With an empty ModelPath,
// creating a text generation or conversation model fails with an
// invalid configuration error.
type Llama struct {
	ModelPath   string   `json:"model_path" yaml:"model_path" toml:"model_path"`
	Stop        []string `json:"stop" yaml:"stop" toml:"stop"`
	ContextSize int      `json:"context_size" yaml:"context_size" toml:"context_size"`
	Threads     int      `json:"threads" yaml:"threads" toml:"threads"`
	MaxTokens   int      `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
	TopK        int      `json:"top_k" yaml:"top_k" toml:"top_k"`
	Seed        int      `json:"seed" yaml:"seed" toml:"seed"`
	Temperature float32  `json:"temperature" yaml:"temperature" toml:"temperature"`
	TopP        float32  `json:"top_p" yaml:"top_p" toml:"top_p"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ModuleName: "bertml",
		Codec:      "json",
		LogLevel:   "info",
		Llama: Llama{
			ContextSize: 2048,
			Threads:     4,
			MaxTokens:   128,
			TopK:        40,
			Temperature: 0.8,
			TopP:        0.95,
		},
	}
}

// Load reads the file at path over Default. The format is chosen by
// extension: .yaml/.yml, .toml or .json.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, errors.Config("empty config path", nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Config("read "+path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, errors.Config("unsupported config extension: "+ext, nil)
	}
	if err != nil {
		return cfg, errors.Config("parse "+path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects unknown codecs and log levels and negative sizes.
func (c Config) Validate() error {
	if c.ModuleName == "" {
		return errors.Config("module_name is empty", nil)
	}
	switch c.Codec {
	case "json", "msgpack":
	default:
		return errors.Config("unknown codec "+c.Codec, nil)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Config("invalid log_level", err)
	}
	l := c.Llama
	if l.ContextSize < 0 || l.Threads < 0 || l.MaxTokens < 0 || l.TopK < 0 {
		return errors.Config("llama sizes must not be negative", nil)
	}
	if l.Temperature < 0 || l.TopP < 0 || l.TopP > 1 {
		return errors.Config("llama temperature and top_p out of range", nil)
	}
	return nil
}
