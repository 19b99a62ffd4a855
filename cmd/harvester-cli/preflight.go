package main

import (
	"audioharvest/internal/config"
	"audioharvest/internal/deps"
	"audioharvest/internal/logging"
)

// checkBinaries logs where each required binary resolved, or a WARN when it
// did not. Missing binaries are not fatal.
func checkBinaries(cfg *config.Config, sink *logging.Sink) []deps.Status {
	statuses := deps.Resolve(requiredBinaries(cfg))
	for _, status := range statuses {
		if status.Available() {
			sink.Printf("Using %s at %s", status.Name, status.Path)
			continue
		}
		sink.Printf("WARN: %v; %s", status.Err, status.Impact)
	}
	return statuses
}

func requiredBinaries(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:    "yt-dlp",
			Command: cfg.Download.Binary,
			Impact:  "every fetch will fail",
		},
		{
			Name:    "ffmpeg",
			Command: cfg.Download.FFmpegBinary,
			Impact:  "yt-dlp cannot extract or convert audio",
		},
	}
}
