package youtube

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"audioharvest/internal/core/domain"
	"audioharvest/internal/core/ports"
)

// Fixed search policy: short videos with closed captions.
const (
	searchPart    = "id"
	resultType    = "video"
	videoCaption  = "closedCaption"
	videoDuration = "short"
)

// Client implements ports.SearchService using the YouTube Data API v3.
type Client struct {
	svc *yt.Service
}

// NewClient creates a new Client authenticated with apiKey. Extra options are
// appended after the key (tests use option.WithEndpoint).
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, domain.ErrCredentialMissing
	}
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// SearchPage runs one search.list call.
func (c *Client) SearchPage(ctx context.Context, req ports.SearchRequest) (*ports.SearchPage, error) {
	call := c.svc.Search.List([]string{searchPart}).
		MaxResults(req.PageSize).
		Type(resultType).
		VideoCaption(videoCaption).
		VideoDuration(videoDuration).
		Q(req.Query)
	if req.PublishedAfter != "" {
		call = call.PublishedAfter(req.PublishedAfter)
	}
	if req.Language != "" {
		call = call.RelevanceLanguage(req.Language)
	}
	if req.PageToken != "" {
		call = call.PageToken(req.PageToken)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchService, err)
	}

	page := &ports.SearchPage{
		Items:         make([]ports.SearchItem, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, item := range resp.Items {
		var id string
		if item != nil && item.Id != nil {
			id = item.Id.VideoId
		}
		page.Items = append(page.Items, ports.SearchItem{VideoID: id})
	}
	return page, nil
}
