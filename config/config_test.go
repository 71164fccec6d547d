package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/bertml/errors"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "bertml", cfg.ModuleName)
	assert.Equal(t, "json", cfg.Codec)
	assert.Empty(t, cfg.Llama.ModelPath)
}

func TestLoadYAML(t *testing.T) {
	p := writeTempFile(t, "cfg.yaml", `
codec: msgpack
log_level: debug
metrics: true
memory_limit_pages: 512
llama:
  model_path: /models/chat.gguf
  threads: 8
  stop: ["###"]
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "msgpack", cfg.Codec)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Metrics)
	assert.EqualValues(t, 512, cfg.MemoryLimitPages)
	assert.Equal(t, "/models/chat.gguf", cfg.Llama.ModelPath)
	assert.Equal(t, 8, cfg.Llama.Threads)
	assert.Equal(t, []string{"###"}, cfg.Llama.Stop)
	// Unset fields keep their defaults.
	assert.Equal(t, "bertml", cfg.ModuleName)
	assert.Equal(t, 2048, cfg.Llama.ContextSize)
}

func TestLoadJSON(t *testing.T) {
	p := writeTempFile(t, "cfg.json", `{"module_name":"nlp","llama":{"max_tokens":64,"top_p":0.5}}`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "nlp", cfg.ModuleName)
	assert.Equal(t, 64, cfg.Llama.MaxTokens)
	assert.InDelta(t, 0.5, cfg.Llama.TopP, 1e-6)
	assert.Equal(t, 40, cfg.Llama.TopK)
}

func TestLoadTOML(t *testing.T) {
	p := writeTempFile(t, "cfg.toml", "codec = \"json\"\nlog_level = \"warn\"\n\n[llama]\nmodel_path = \"/m.gguf\"\nseed = 7\n")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/m.gguf", cfg.Llama.ModelPath)
	assert.Equal(t, 7, cfg.Llama.Seed)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unsupported extension", "cfg.txt", "codec: json"},
		{"malformed yaml", "cfg.yaml", "codec: [json"},
		{"unknown json field", "cfg.json", `{"codecs":"json"}`},
		{"unknown codec", "cfg.yaml", "codec: protobuf"},
		{"bad log level", "cfg.yaml", "log_level: chatty"},
		{"negative threads", "cfg.toml", "[llama]\nthreads = -1\n"},
		{"top_p above one", "cfg.json", `{"llama":{"top_p":1.5}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTempFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindInvalidInput), "got %v", err)
		})
	}

	_, err := Load("")
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
