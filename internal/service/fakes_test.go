package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"audioharvest/internal/core/domain"
	"audioharvest/internal/core/ports"
	"audioharvest/internal/logging"
)

// syncBuffer collects log output from concurrent jobs.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Count(substr string) int {
	return strings.Count(b.String(), substr)
}

func newTestSink() (*logging.Sink, *syncBuffer) {
	buf := &syncBuffer{}
	return logging.FromLogger(log.New(buf, "", 0)), buf
}

// fakeSearch serves pages keyed by the request's page token.
type fakeSearch struct {
	mu       sync.Mutex
	pages    map[string]*ports.SearchPage
	errOn    map[string]error
	requests []ports.SearchRequest
}

func (f *fakeSearch) SearchPage(ctx context.Context, req ports.SearchRequest) (*ports.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if err, ok := f.errOn[req.PageToken]; ok {
		return nil, err
	}
	page, ok := f.pages[req.PageToken]
	if !ok {
		return &ports.SearchPage{}, nil
	}
	return page, nil
}

func (f *fakeSearch) Requests() []ports.SearchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.SearchRequest(nil), f.requests...)
}

// staticSearch returns the same single page for every language.
func staticSearch(ids ...string) *fakeSearch {
	return &fakeSearch{pages: map[string]*ports.SearchPage{"": page("", ids...)}}
}

func page(next string, ids ...string) *ports.SearchPage {
	p := &ports.SearchPage{NextPageToken: next}
	for _, id := range ids {
		p.Items = append(p.Items, ports.SearchItem{VideoID: id})
	}
	return p
}

func idRange(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s%03d", prefix, i)
	}
	return ids
}

// fakeDownloader writes a small file for each transfer and counts calls.
type fakeDownloader struct {
	mu            sync.Mutex
	titles        map[domain.VideoID]string
	probeErr      map[domain.VideoID]error
	transferErr   map[domain.VideoID]error
	skipWrite     bool
	panicOn       domain.VideoID
	probes        map[domain.VideoID]int
	transfers     map[domain.VideoID]int
	transferOrder []domain.VideoID
}

func newFakeDownloader() *fakeDownloader {
	return &fakeDownloader{
		titles:      map[domain.VideoID]string{},
		probeErr:    map[domain.VideoID]error{},
		transferErr: map[domain.VideoID]error{},
		probes:      map[domain.VideoID]int{},
		transfers:   map[domain.VideoID]int{},
	}
}

func (d *fakeDownloader) ProbeTitle(ctx context.Context, videoID domain.VideoID) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.probes[videoID]++
	if videoID == d.panicOn {
		panic("probe exploded")
	}
	if err, ok := d.probeErr[videoID]; ok {
		return "", err
	}
	if title, ok := d.titles[videoID]; ok {
		return title, nil
	}
	return "Title " + string(videoID), nil
}

func (d *fakeDownloader) DownloadAudio(ctx context.Context, videoID domain.VideoID, outputPath string) error {
	d.mu.Lock()
	d.transfers[videoID]++
	d.transferOrder = append(d.transferOrder, videoID)
	err := d.transferErr[videoID]
	skip := d.skipWrite
	d.mu.Unlock()

	if err != nil {
		return err
	}
	if skip {
		return nil
	}
	return os.WriteFile(outputPath, []byte("ID3"+string(videoID)), 0o644)
}

func (d *fakeDownloader) Transfers(videoID domain.VideoID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transfers[videoID]
}

func (d *fakeDownloader) TotalTransfers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, n := range d.transfers {
		total += n
	}
	return total
}
