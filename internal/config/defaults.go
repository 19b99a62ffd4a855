package config

const (
	defaultInputFile              = "input.csv"
	defaultDataDir                = "data"
	defaultPageSize               = 50
	defaultPublishedAfter         = "2023-01-01T00:00:00Z"
	defaultLanguageKeywords       = true
	defaultBinary                 = "yt-dlp"
	defaultFFmpegBinary           = "ffmpeg"
	defaultAudioFormat            = "mp3"
	defaultAudioQuality           = "192K"
	defaultSocketTimeoutSeconds   = 30
	defaultRetries                = 1
	defaultProbeTimeoutSeconds    = 60
	defaultTransferTimeoutSeconds = 600
	defaultMaxConcurrentJobs      = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputFile: defaultInputFile,
			DataDir:   defaultDataDir,
		},
		Search: Search{
			PageSize:         defaultPageSize,
			PublishedAfter:   defaultPublishedAfter,
			LanguageKeywords: defaultLanguageKeywords,
		},
		Download: Download{
			Binary:                 defaultBinary,
			FFmpegBinary:           defaultFFmpegBinary,
			AudioFormat:            defaultAudioFormat,
			AudioQuality:           defaultAudioQuality,
			SocketTimeoutSeconds:   defaultSocketTimeoutSeconds,
			Retries:                defaultRetries,
			ProbeTimeoutSeconds:    defaultProbeTimeoutSeconds,
			TransferTimeoutSeconds: defaultTransferTimeoutSeconds,
		},
		Scheduler: Scheduler{
			MaxConcurrentJobs: defaultMaxConcurrentJobs,
		},
	}
}
