package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audioharvest/internal/config"
	"audioharvest/internal/logging"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"YOUTUBE_API_KEY",
		"HARVEST_INPUT_FILE",
		"HARVEST_DATA_DIR",
		"YTDLP_PATH",
		"HARVEST_MAX_CONCURRENT_JOBS",
	} {
		t.Setenv(key, "")
	}
}

func TestRootCommandWithoutCredentialRunsFallbackJob(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{
		"--input", filepath.Join(dir, "missing.csv"),
		"--data-dir", filepath.Join(dir, "data"),
		"--concurrency", "3",
	})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Config:      defaults and environment")
	assert.Contains(t, text, "Concurrency: 3")
	assert.Contains(t, text, "YOUTUBE_API_KEY is not set")
	assert.Contains(t, text, "Loaded 1 jobs")
	assert.Contains(t, text, "Completed job: language=RU count=10 (downloaded=0 skipped=0 failed=0)")
	assert.Contains(t, text, "=== All jobs done ===")
	assert.Equal(t, 1, strings.Count(text, "Completed job:"))

	_, err := os.Stat(filepath.Join(dir, "data"))
	assert.True(t, os.IsNotExist(err), "no downloads means no output tree")
}

func TestRootCommandReportsConfigFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "harvester.toml")
	body := "[paths]\ninput_file = \"" + filepath.ToSlash(filepath.Join(dir, "none.csv")) + "\"\n" +
		"data_dir = \"" + filepath.ToSlash(filepath.Join(dir, "out")) + "\"\n\n" +
		"[scheduler]\nmax_concurrent_jobs = 2\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-c", cfgPath})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Config:      "+cfgPath)
	assert.Contains(t, out.String(), "Concurrency: 2")
}

func TestRootCommandRejectsInvalidConcurrency(t *testing.T) {
	isolateEnv(t)
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--concurrency", "0"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_concurrent_jobs")
}

func TestRootCommandRejectsArgs(t *testing.T) {
	isolateEnv(t)
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})

	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestRequiredBinaries(t *testing.T) {
	isolateEnv(t)
	cmd := newRootCommand()
	cfg, source, err := loadConfig(cmd, flagValues{})
	require.NoError(t, err)
	assert.Equal(t, "defaults and environment", source)

	reqs := requiredBinaries(cfg)
	require.Len(t, reqs, 2)
	assert.Equal(t, "yt-dlp", reqs[0].Command)
	assert.Equal(t, "ffmpeg", reqs[1].Command)
}

func TestCheckBinariesLogsResolution(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}
	stub := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	cfg := config.Default()
	cfg.Download.Binary = stub
	cfg.Download.FFmpegBinary = "clearly-not-present-ffmpeg"

	var buf bytes.Buffer
	statuses := checkBinaries(&cfg, logging.New(&buf))

	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Available())
	assert.False(t, statuses[1].Available())
	assert.Contains(t, buf.String(), "Using yt-dlp at "+stub)
	assert.Contains(t, buf.String(), "WARN: clearly-not-present-ffmpeg not found")
	assert.Contains(t, buf.String(), "yt-dlp cannot extract or convert audio")
}
