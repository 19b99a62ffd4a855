package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audioharvest/internal/adapters/csvspec"
	"audioharvest/internal/adapters/localstorage"
	"audioharvest/internal/core/domain"
)

type panickingLocator struct{}

func (panickingLocator) Locate(context.Context, domain.JobDescriptor) domain.LocateOutcome {
	panic("search client exploded")
}

func TestRunJobScenarioTwoVideos(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "input.csv")
	require.NoError(t, os.WriteFile(specPath, []byte("relevance_language,audio_num,search_keywords\nEN,2,funny\n"), 0o644))

	sink, buf := newTestSink()
	jobs := csvspec.NewSource(specPath, sink).Load(context.Background())
	require.Equal(t, []domain.JobDescriptor{{Language: "EN", TargetCount: 2, Query: "funny"}}, jobs)

	search := staticSearch("vidA", "vidB")
	dl := newFakeDownloader()
	storage := localstorage.NewLocalStorage(filepath.Join(dir, "data"), "mp3")
	o := NewOrchestrator(
		NewLocator(search, testLocatorConfig(), sink),
		NewFetcher(dl, storage, sink),
		sink,
	)
	o.newID = func() string { return "job00001" }

	report := o.RunJob(context.Background(), jobs[0])

	assert.Equal(t, 2, report.Located)
	assert.Equal(t, 2, report.Downloaded)
	assert.Zero(t, report.Failed)
	assert.Empty(t, report.Reason)

	entries, err := os.ReadDir(filepath.Join(dir, "data", "EN"))
	require.NoError(t, err)
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	assert.ElementsMatch(t, []string{"Title vidA-vidA.mp3", "Title vidB-vidB.mp3"}, files)

	assert.Equal(t, "funny", search.Requests()[0].Query)
	assert.Equal(t, 1, buf.Count("Completed job: language=EN count=2"))
	assert.Contains(t, buf.String(), "[JOB job00001] Located 2 videos")
	assert.Contains(t, buf.String(), "[JOB job00001] Video IDs: [vidA, vidB]")
}

func TestRunJobScenarioNoConfigNoCredential(t *testing.T) {
	dir := t.TempDir()
	sink, buf := newTestSink()

	jobs := csvspec.NewSource(filepath.Join(dir, "input.csv"), sink).Load(context.Background())
	require.Equal(t, []domain.JobDescriptor{{Language: "RU", TargetCount: 10, Query: ""}}, jobs)

	cfg := testLocatorConfig()
	cfg.APIKey = ""
	search := staticSearch("never")
	dl := newFakeDownloader()
	o := NewOrchestrator(
		NewLocator(search, cfg, sink),
		NewFetcher(dl, localstorage.NewLocalStorage(filepath.Join(dir, "data"), "mp3"), sink),
		sink,
	)

	report := o.RunJob(context.Background(), jobs[0])

	assert.Zero(t, report.Located)
	assert.Zero(t, dl.TotalTransfers())
	assert.Empty(t, search.Requests())
	assert.Contains(t, report.Reason, domain.ErrCredentialMissing.Error())

	out := buf.String()
	assert.Contains(t, out, "Located 0 videos")
	assert.Contains(t, out, "No videos to download")
	assert.Equal(t, 1, buf.Count("Completed job: language=RU count=10"))
}

func TestRunJobFetchesInLocatorOrder(t *testing.T) {
	order := []string{"z", "a", "m", "b"}
	dl := newFakeDownloader()
	o := NewOrchestrator(
		NewLocator(staticSearch(order...), testLocatorConfig(), nil),
		NewFetcher(dl, localstorage.NewLocalStorage(t.TempDir(), "mp3"), nil),
		nil,
	)

	report := o.RunJob(context.Background(), domain.JobDescriptor{Language: "EN", TargetCount: 10})

	assert.Equal(t, 4, report.Downloaded)
	assert.Equal(t, ids(order...), dl.transferOrder)
}

func TestRunJobCountsOutcomes(t *testing.T) {
	dir := t.TempDir()
	storage := localstorage.NewLocalStorage(dir, "mp3")
	existing := storage.AudioPath("EN", "Title old", "old")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0o755))
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	dl := newFakeDownloader()
	dl.transferErr["bad"] = domain.ErrTransfer
	sink, buf := newTestSink()
	o := NewOrchestrator(
		NewLocator(staticSearch("old", "bad", "new"), testLocatorConfig(), sink),
		NewFetcher(dl, storage, sink),
		sink,
	)

	report := o.RunJob(context.Background(), domain.JobDescriptor{Language: "EN", TargetCount: 3})

	assert.Equal(t, 3, report.Located)
	assert.Equal(t, 1, report.Downloaded)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, buf.String(), "Video bad download failed")
	assert.Contains(t, buf.String(), "Video old already downloaded")
	assert.Contains(t, buf.String(), "Video new downloaded successfully")
}

func TestRunJobRecoversPanic(t *testing.T) {
	sink, buf := newTestSink()
	o := NewOrchestrator(panickingLocator{}, NewFetcher(newFakeDownloader(), localstorage.NewLocalStorage(t.TempDir(), "mp3"), nil), sink)

	var report domain.JobReport
	require.NotPanics(t, func() {
		report = o.RunJob(context.Background(), domain.JobDescriptor{Language: "EN", TargetCount: 1})
	})

	assert.Contains(t, report.Reason, "search client exploded")
	assert.False(t, report.CompletedAt.IsZero())
	assert.Equal(t, 1, buf.Count("Completed job: language=EN count=1"))
}
