package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"tripplan/internal/models/request_models"
	"tripplan/pkg/utils"
)

// fakeGateway replays canned replies in order and records every prompt it sees.
type fakeGateway struct {
	mu           sync.Mutex
	replies      []string
	generateErr  error
	repairReply  string
	repairErr    error
	prompts      []string
	repairInputs []string
}

func (g *fakeGateway) Generate(_ context.Context, prompt string, _ int, _ float32) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if g.generateErr != nil {
		return "", g.generateErr
	}
	if len(g.replies) == 0 {
		return "", errors.New("no reply queued")
	}
	reply := g.replies[0]
	g.replies = g.replies[1:]
	return reply, nil
}

func (g *fakeGateway) Repair(_ context.Context, broken string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.repairInputs = append(g.repairInputs, broken)
	return g.repairReply, g.repairErr
}

func (g *fakeGateway) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

// fakeProvider is an ImageProvider driven by a function.
type fakeProvider struct {
	name   string
	search func(ctx context.Context, keyword string) ([]string, error)

	mu       sync.Mutex
	keywords []string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Search(ctx context.Context, keyword string) ([]string, error) {
	p.mu.Lock()
	p.keywords = append(p.keywords, keyword)
	p.mu.Unlock()
	return p.search(ctx, keyword)
}

func (p *fakeProvider) calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keywords...)
}

func staticProvider(name string, urls ...string) *fakeProvider {
	return &fakeProvider{name: name, search: func(context.Context, string) ([]string, error) {
		return urls, nil
	}}
}

const testPlaceholder = "https://example.com/placeholder.jpg"

func newTestResolver(tiers ...ImageProvider) *ImageResolver {
	return NewImageResolver(tiers, ImageResolverConfig{
		LookupTimeout:  50 * time.Millisecond,
		Concurrency:    4,
		PlaceholderURL: testPlaceholder,
	}, zap.NewNop())
}

func newTestItineraryService(gateway ModelGatewayInterface, tiers ...ImageProvider) *ItineraryService {
	return &ItineraryService{
		builder: NewPromptBuilder(),
		gateway: gateway,
		images:  newTestResolver(tiers...),
		cfg:     ItineraryConfig{MaxOutputTokens: 4096, Temperature: 0.7},
		logger:  zap.NewNop(),
	}
}

func newTestRequest(days int) request_models.TravelRequest {
	return request_models.TravelRequest{
		Destination:    "Da Lat",
		TravelDate:     request_models.NewDate(time.Date(2025, 3, 10, 0, 0, 0, 0, utils.VNLocation())),
		Days:           days,
		Preferences:    "coffee, nature",
		BudgetVND:      5_000_000,
		Transportation: "motorbike",
	}
}
