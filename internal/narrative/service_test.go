package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/cache"
	"github.com/resilroute/resilroute/internal/news"
)

type fakeGenerator struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenerator) Name() string { return "fake" }

func sampleRequest() Request {
	return Request{
		Routes: []RouteSummary{
			{Name: "Route 1", DistanceText: "120.0 km", DurationText: "2h", Resilience: 82.5},
			{Name: "Route 2", DistanceText: "140.0 km", DurationText: "2h 20m", Resilience: 71.0},
		},
		Origin:      "Mumbai",
		Destination: "Pune",
	}
}

const validResponse = `{
	"routes": {
		"Route 1": {
			"route_name": "The Expressway Sprint",
			"short_summary": "Fastest route with moderate weather exposure.",
			"reasoning": "Scores highest on time and road quality.",
			"intermediate_cities": [
				{"name": "Lonavala", "lat": 18.7546, "lon": 73.4062}
			]
		},
		"Route 2": {
			"route_name": "The Ghat Passage",
			"short_summary": "Scenic but slower.",
			"reasoning": "Longer distance lowers its score.",
			"intermediate_cities": []
		}
	},
	"news_sentiment": {
		"sentiment_score": 0.65,
		"risk_factors": ["congestion near toll plaza"],
		"positive_factors": ["new lane opened"],
		"reasoning": "Mostly favorable conditions.",
		"article_sentiments": []
	}
}`

func TestGenerateParsesResponse(t *testing.T) {
	gen := &fakeGenerator{response: validResponse}
	svc := NewService(ServiceConfig{Generator: gen, Logger: zerolog.Nop()})

	report := svc.Generate(context.Background(), sampleRequest())

	if got := report.Routes["Route 1"].CreativeName; got != "The Expressway Sprint" {
		t.Errorf("creative name = %q, want %q", got, "The Expressway Sprint")
	}
	if len(report.Routes["Route 1"].IntermediateCities) != 1 {
		t.Errorf("got %d cities, want 1", len(report.Routes["Route 1"].IntermediateCities))
	}
	if report.Sentiment.Score != 0.65 {
		t.Errorf("sentiment score = %v, want 0.65", report.Sentiment.Score)
	}
	if report.Comparison != nil {
		t.Error("comparison present without a previous analysis")
	}
}

func TestGenerateStripsCodeFences(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n" + validResponse + "\n```"}
	svc := NewService(ServiceConfig{Generator: gen, Logger: zerolog.Nop()})

	report := svc.Generate(context.Background(), sampleRequest())
	if got := report.Routes["Route 2"].CreativeName; got != "The Ghat Passage" {
		t.Errorf("creative name = %q, want %q", got, "The Ghat Passage")
	}
}

func TestGenerateNoGeneratorUsesDefaults(t *testing.T) {
	svc := NewService(ServiceConfig{Logger: zerolog.Nop()})

	report := svc.Generate(context.Background(), sampleRequest())

	if len(report.Routes) != 2 {
		t.Fatalf("got %d default narratives, want 2", len(report.Routes))
	}
	if got := report.Routes["Route 1"].CreativeName; got != "Route 1" {
		t.Errorf("default creative name = %q, want route name", got)
	}
	if report.Sentiment.Score != 0.5 {
		t.Errorf("default sentiment score = %v, want neutral 0.5", report.Sentiment.Score)
	}
}

func TestGenerateFailureUsesDefaults(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exhausted")}
	svc := NewService(ServiceConfig{Generator: gen, Logger: zerolog.Nop(), MaxAttempts: 1})

	report := svc.Generate(context.Background(), sampleRequest())

	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}
	if report.Sentiment.Score != 0.5 {
		t.Errorf("sentiment score = %v after failure, want neutral 0.5", report.Sentiment.Score)
	}
}

func TestGenerateUnparseableUsesDefaults(t *testing.T) {
	gen := &fakeGenerator{response: "I could not produce JSON today."}
	svc := NewService(ServiceConfig{Generator: gen, Logger: zerolog.Nop()})

	report := svc.Generate(context.Background(), sampleRequest())
	if len(report.Routes) != 2 {
		t.Fatalf("got %d default narratives, want 2", len(report.Routes))
	}
}

func TestGenerateClampsSentiment(t *testing.T) {
	gen := &fakeGenerator{response: `{"routes": {}, "news_sentiment": {"sentiment_score": 1.8}}`}
	svc := NewService(ServiceConfig{Generator: gen, Logger: zerolog.Nop()})

	report := svc.Generate(context.Background(), sampleRequest())
	if report.Sentiment.Score != 1.0 {
		t.Errorf("sentiment score = %v, want clamped 1.0", report.Sentiment.Score)
	}
	if report.Sentiment.RiskFactors == nil {
		t.Error("risk factors nil, want empty slice")
	}
}

func TestGenerateFillsMissingRoutes(t *testing.T) {
	gen := &fakeGenerator{response: `{"routes": {"Route 1": {"route_name": "The Sprint"}}}`}
	svc := NewService(ServiceConfig{Generator: gen, Logger: zerolog.Nop()})

	report := svc.Generate(context.Background(), sampleRequest())
	if got := report.Routes["Route 2"].CreativeName; got != "Route 2" {
		t.Errorf("missing route narrative = %q, want default from route name", got)
	}
}

func TestGenerateCachesReports(t *testing.T) {
	gen := &fakeGenerator{response: validResponse}
	svc := NewService(ServiceConfig{
		Generator: gen,
		Logger:    zerolog.Nop(),
		Cache:     cache.New(cache.Config{}),
	})

	req := sampleRequest()
	svc.Generate(context.Background(), req)
	svc.Generate(context.Background(), req)

	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1 with warm cache", gen.calls)
	}
}

func TestGeneratePromptIncludesHeadlinesAndPrevious(t *testing.T) {
	gen := &fakeGenerator{response: validResponse}
	svc := NewService(ServiceConfig{Generator: gen, Logger: zerolog.Nop()})

	req := sampleRequest()
	req.Headlines = []news.Article{{Title: "Bridge closure on NH-48"}}
	req.Previous = &PreviousAnalysis{
		RouteName:       "Route 9",
		Sentiment:       NeutralSentiment("previous"),
		ResilienceScore: 64,
		AnalyzedAt:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}

	svc.Generate(context.Background(), req)

	prompt := gen.prompts[0]
	for _, want := range []string{"Bridge closure on NH-48", "REROUTE scenario", "Route 9", "TASK B", "TASK C"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestLinearBackOffSchedule(t *testing.T) {
	lb := &linearBackOff{maxAttempts: 3}

	if d := lb.NextBackOff(); d != 1*time.Second {
		t.Errorf("first delay = %v, want 1s", d)
	}
	if d := lb.NextBackOff(); d != 3*time.Second {
		t.Errorf("second delay = %v, want 3s", d)
	}
	if d := lb.NextBackOff(); d != backoff.Stop {
		t.Errorf("third delay = %v, want Stop", d)
	}

	lb.Reset()
	if d := lb.NextBackOff(); d != 1*time.Second {
		t.Errorf("delay after reset = %v, want 1s", d)
	}
}

func TestTopByResilience(t *testing.T) {
	routes := []RouteSummary{
		{Name: "Route 1", Resilience: 40},
		{Name: "Route 2", Resilience: 90},
		{Name: "Route 3", Resilience: 70},
		{Name: "Route 4", Resilience: 80},
	}

	top := topByResilience(routes, 3)

	if len(top) != 3 {
		t.Fatalf("got %d routes, want 3", len(top))
	}
	if top[0].Name != "Route 2" || top[1].Name != "Route 4" || top[2].Name != "Route 3" {
		t.Errorf("top routes = [%s %s %s], want [Route 2 Route 4 Route 3]",
			top[0].Name, top[1].Name, top[2].Name)
	}
	if routes[0].Name != "Route 1" {
		t.Error("input slice order mutated")
	}
}
