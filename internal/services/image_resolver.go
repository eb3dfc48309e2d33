package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"tripplan/internal/models/response_models"
)

const DefaultActivityImage = "https://images.unsplash.com/photo-1488646953014-85cb44e25828?w=800&q=80"

// ImageProvider returns candidate image URLs for a keyword, best first.
type ImageProvider interface {
	Name() string
	Search(ctx context.Context, keyword string) ([]string, error)
}

// ProviderMiss explains why a tier produced no image.
type ProviderMiss struct {
	Tier    string
	Keyword string
	Reason  string
	Err     error
}

func (m *ProviderMiss) Error() string {
	if m.Err != nil {
		return fmt.Sprintf("%s: no image for %q (%s): %v", m.Tier, m.Keyword, m.Reason, m.Err)
	}
	return fmt.Sprintf("%s: no image for %q (%s)", m.Tier, m.Keyword, m.Reason)
}

func (m *ProviderMiss) Unwrap() error { return m.Err }

// UsedImages records image URLs already assigned within one generation or merge pass.
type UsedImages struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewUsedImages(seed ...string) *UsedImages {
	u := &UsedImages{seen: make(map[string]struct{}, len(seed))}
	for _, s := range seed {
		u.Add(s)
	}
	return u
}

// TryAdd claims url and reports whether it was still free.
func (u *UsedImages) TryAdd(url string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.seen[url]; ok {
		return false
	}
	u.seen[url] = struct{}{}
	return true
}

func (u *UsedImages) Add(url string) {
	if url == "" {
		return
	}
	u.mu.Lock()
	u.seen[url] = struct{}{}
	u.mu.Unlock()
}

func (u *UsedImages) Contains(url string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.seen[url]
	return ok
}

func (u *UsedImages) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.seen)
}

type ImageResolverConfig struct {
	LookupTimeout  time.Duration
	Concurrency    int
	PlaceholderURL string
}

type ImageResolverInterface interface {
	ResolveImage(ctx context.Context, activity response_models.ItineraryActivity, destination string, used *UsedImages) string
	ResolveDays(ctx context.Context, days []response_models.ItineraryDay, destination string, used *UsedImages)
}

// ImageResolver walks an ordered chain of providers and ends at a constant placeholder.
// Provider errors, panics and timeouts are all treated as a miss for that tier.
type ImageResolver struct {
	tiers  []ImageProvider
	cfg    ImageResolverConfig
	logger *zap.Logger
}

func NewImageResolver(tiers []ImageProvider, cfg ImageResolverConfig, logger *zap.Logger) *ImageResolver {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 5 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.PlaceholderURL == "" {
		cfg.PlaceholderURL = DefaultActivityImage
	}

	active := make([]ImageProvider, 0, len(tiers))
	for _, t := range tiers {
		if t != nil {
			active = append(active, t)
		}
	}
	return &ImageResolver{tiers: active, cfg: cfg, logger: logger}
}

func (r *ImageResolver) ResolveImage(ctx context.Context, activity response_models.ItineraryActivity, destination string, used *UsedImages) string {
	// Inline images are kept verbatim even when another activity already has the same URL.
	if img := strings.TrimSpace(activity.Image); img != "" {
		if used.Contains(img) {
			r.logger.Debug("inline image repeats an earlier one", zap.String("image", img))
		}
		used.Add(img)
		return img
	}

	keyword := imageKeyword(activity, destination)
	if keyword == "" {
		return r.cfg.PlaceholderURL
	}

	for _, tier := range r.tiers {
		url, miss := r.tryTier(ctx, tier, keyword, used)
		if miss == nil {
			return url
		}
		r.logger.Debug("image tier miss",
			zap.String("tier", miss.Tier),
			zap.String("keyword", miss.Keyword),
			zap.String("reason", miss.Reason),
			zap.Error(miss.Err))
	}
	return r.cfg.PlaceholderURL
}

// ResolveDays fills the image of every activity. Days are handled in order and the
// activities of one day concurrently; each activity keeps its position.
func (r *ImageResolver) ResolveDays(ctx context.Context, days []response_models.ItineraryDay, destination string, used *UsedImages) {
	for i := range days {
		r.resolveDay(ctx, &days[i], destination, used)
		r.logger.Debug("day images resolved",
			zap.Int("day", days[i].Day),
			zap.Int("used_images", used.Len()))
	}
}

func (r *ImageResolver) resolveDay(ctx context.Context, day *response_models.ItineraryDay, destination string, used *UsedImages) {
	var g errgroup.Group
	g.SetLimit(r.cfg.Concurrency)

	for i := range day.Activities {
		g.Go(func() error {
			day.Activities[i].Image = r.ResolveImage(ctx, day.Activities[i], destination, used)
			return nil
		})
	}
	_ = g.Wait()
}

func (r *ImageResolver) tryTier(ctx context.Context, tier ImageProvider, keyword string, used *UsedImages) (string, *ProviderMiss) {
	candidates, err := r.lookup(ctx, tier, keyword)
	if err != nil {
		var miss *ProviderMiss
		if errors.As(err, &miss) {
			return "", miss
		}
		return "", &ProviderMiss{Tier: tier.Name(), Keyword: keyword, Reason: "error", Err: err}
	}

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c != "" && used.TryAdd(c) {
			return c, nil
		}
	}

	reason := "no results"
	if len(candidates) > 0 {
		reason = "all candidates already used"
	}
	return "", &ProviderMiss{Tier: tier.Name(), Keyword: keyword, Reason: reason}
}

func (r *ImageResolver) lookup(ctx context.Context, tier ImageProvider, keyword string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.LookupTimeout)
	defer cancel()

	type result struct {
		urls []string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- result{err: &ProviderMiss{Tier: tier.Name(), Keyword: keyword, Reason: "panic", Err: fmt.Errorf("%v", rec)}}
			}
		}()
		urls, err := tier.Search(ctx, keyword)
		ch <- result{urls: urls, err: err}
	}()

	select {
	case res := <-ch:
		return res.urls, res.err
	case <-ctx.Done():
		return nil, &ProviderMiss{Tier: tier.Name(), Keyword: keyword, Reason: "timeout", Err: ctx.Err()}
	}
}

// imageKeyword prefers the address, then the place detail, then the destination.
func imageKeyword(activity response_models.ItineraryActivity, destination string) string {
	for _, k := range []string{activity.Address, activity.PlaceDetail, destination} {
		if s := strings.TrimSpace(k); s != "" {
			return s
		}
	}
	return ""
}
