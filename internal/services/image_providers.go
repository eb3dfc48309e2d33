package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"
	"tripplan/pkg/utils"
)

const (
	placePhotoEndpoint = "https://maps.googleapis.com/maps/api/place/photo"
	maxPhotoCandidates = 5
)

type placeSearcher interface {
	TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error)
}

// PlacePhotoProvider finds photos through Google Places text search.
type PlacePhotoProvider struct {
	searcher placeSearcher
	apiKey   string
	limiter  *rate.Limiter
	cache    PhotoCache
}

func NewPlacePhotoProvider(apiKey string, limiter *rate.Limiter, cache PhotoCache) (*PlacePhotoProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return newPlacePhotoProvider(client, apiKey, limiter, cache), nil
}

func newPlacePhotoProvider(searcher placeSearcher, apiKey string, limiter *rate.Limiter, cache PhotoCache) *PlacePhotoProvider {
	return &PlacePhotoProvider{searcher: searcher, apiKey: apiKey, limiter: limiter, cache: cache}
}

func (p *PlacePhotoProvider) Name() string { return "places" }

func (p *PlacePhotoProvider) Search(ctx context.Context, keyword string) ([]string, error) {
	key := photoCacheKey(p.Name(), keyword)
	if p.cache != nil {
		if urls, ok := p.cache.Get(ctx, key); ok {
			return urls, nil
		}
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: places: %v", utils.ErrRateLimited, err)
		}
	}

	resp, err := p.searcher.TextSearch(ctx, &maps.TextSearchRequest{
		Query:    keyword,
		Language: "vi",
		Region:   "VN",
	})
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	var urls []string
	for _, result := range resp.Results {
		if len(result.Photos) == 0 || result.Photos[0].PhotoReference == "" {
			continue
		}
		urls = append(urls, p.photoURL(result.Photos[0].PhotoReference))
		if len(urls) >= maxPhotoCandidates {
			break
		}
	}

	if p.cache != nil {
		p.cache.Set(ctx, key, urls)
	}
	return urls, nil
}

func (p *PlacePhotoProvider) photoURL(reference string) string {
	q := url.Values{}
	q.Set("maxwidth", "800")
	q.Set("photo_reference", reference)
	q.Set("key", p.apiKey)
	return placePhotoEndpoint + "?" + q.Encode()
}

// PexelsProvider is the secondary media search tier.
type PexelsProvider struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
	limiter *rate.Limiter
	cache   PhotoCache
}

func NewPexelsProvider(baseURL, apiKey string, limiter *rate.Limiter, cache PhotoCache) *PexelsProvider {
	return &PexelsProvider{
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		limiter: limiter,
		cache:   cache,
	}
}

func (p *PexelsProvider) Name() string { return "pexels" }

func (p *PexelsProvider) Search(ctx context.Context, keyword string) ([]string, error) {
	key := photoCacheKey(p.Name(), keyword)
	if p.cache != nil {
		if urls, ok := p.cache.Get(ctx, key); ok {
			return urls, nil
		}
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: pexels: %v", utils.ErrRateLimited, err)
		}
	}

	q := url.Values{}
	q.Set("query", keyword)
	q.Set("per_page", strconv.Itoa(maxPhotoCandidates))
	q.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/v1/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", p.APIKey)

	resp, err := p.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("pexels bad status: %s", resp.Status)
	}

	var payload struct {
		Photos []struct {
			Src struct {
				Large    string `json:"large"`
				Medium   string `json:"medium"`
				Original string `json:"original"`
			} `json:"src"`
		} `json:"photos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("pexels decode: %w", err)
	}

	urls := make([]string, 0, len(payload.Photos))
	for _, photo := range payload.Photos {
		for _, u := range []string{photo.Src.Large, photo.Src.Medium, photo.Src.Original} {
			if u != "" {
				urls = append(urls, u)
				break
			}
		}
	}

	if p.cache != nil {
		p.cache.Set(ctx, key, urls)
	}
	return urls, nil
}
