package narrative

import (
	"encoding/json"
	"fmt"
	"strings"
)

// promptSizeLimit guards against oversized prompts blowing rate limits; when
// exceeded, news and comparison tasks are dropped from the request.
const promptSizeLimit = 15000

// buildPrompt assembles the combined generation prompt: route naming and
// reasoning (always), news sentiment (when headlines are present), and a
// comparison report (when a previous analysis is supplied).
func buildPrompt(routes []RouteSummary, origin, destination string, headlines []string, previous *PreviousAnalysis) string {
	routesJSON, _ := json.Marshal(routes)

	var b strings.Builder
	fmt.Fprintf(&b, "You are a Logistics Analysis Expert. Analyze these supply chain routes from %s to %s.\n\n", origin, destination)
	fmt.Fprintf(&b, "Routes Data:\n%s\n\n", routesJSON)
	b.WriteString(`TASK A: Route Analysis
1. Give each route a unique, creative, professional name based on its characteristics (e.g., "The Coastal Expressway", "The Industrial Corridor").
2. Write a 1-sentence 'short_summary' highlighting the key trade-off (e.g., "Fastest route but high weather risk").
3. Write a 'reasoning' paragraph explaining why it got its resilience score.
4. IMPORTANT: Identify exactly 3 major intermediate cities/towns that this route ACTUALLY passes through between origin and destination, with accurate latitude and longitude for each.
`)

	if len(headlines) > 0 {
		headlinesJSON, _ := json.Marshal(headlines)
		fmt.Fprintf(&b, `
---
NEWS ARTICLES FOR SENTIMENT ANALYSIS:
The following news articles are related to the transportation corridor from %s to %s.

%s

TASK B: News Sentiment Analysis
Analyze these news articles to assess their impact on route resilience for logistics/freight transport.
For each article, determine if it is POSITIVE (good for transport), NEGATIVE (accidents, closures, congestion, strikes), or NEUTRAL.
Provide an overall sentiment_score from 0 to 1 where 0.5 is neutral and above 0.7 indicates significant improvements to transport.
`, origin, destination, headlinesJSON)
	}

	if previous != nil {
		riskJSON, _ := json.Marshal(previous.Sentiment.RiskFactors)
		positiveJSON, _ := json.Marshal(previous.Sentiment.PositiveFactors)
		fmt.Fprintf(&b, `
---
PREVIOUS ROUTE ANALYSIS (from %s):
This is a REROUTE scenario. Compare the new analysis with the previous one.

Previous Route: %s
Previous Sentiment Score: %.2f
Previous Risk Factors: %s
Previous Positive Factors: %s
Previous Resilience Score: %.2f

TASK C: Comparison Report
Compare the NEW route analysis with the PREVIOUS one.
CRITICAL: Focus on the upsides of the NEW route and the downsides of the OLD route to justify the reroute.
1. Sentiment Change: Explain how the sentiment has improved (or if it hasn't, why).
2. Risk Comparison: Highlight risks present in the OLD route that are avoided in the NEW route ("Resolved Risks").
3. Tradeoffs: Compare key metrics. If the new route is longer, explain why the resilience gain is worth it.
4. Recommendation: Strongly recommend the new route if it offers better resilience.
`, previous.AnalyzedAt.Format("2006-01-02"), previous.RouteName,
			previous.Sentiment.Score, riskJSON, positiveJSON, previous.ResilienceScore)
	}

	b.WriteString(`
---
Output strictly valid JSON in this format:
{
    "routes": {
        "Route 1": {
            "route_name": "Name",
            "short_summary": "Summary",
            "reasoning": "Reasoning",
            "intermediate_cities": [
                {"name": "CityName", "lat": 28.6139, "lon": 77.2090}
            ]
        }
    }`)
	if len(headlines) > 0 {
		b.WriteString(`,
    "news_sentiment": {
        "sentiment_score": 0.65,
        "risk_factors": ["road closure", "traffic congestion"],
        "positive_factors": ["new expressway opened"],
        "reasoning": "Brief 1-2 sentence explanation of overall sentiment",
        "article_sentiments": [
            {"title": "Article title...", "sentiment": "positive|negative|neutral", "impact": "Brief impact"}
        ]
    }`)
	}
	if previous != nil {
		b.WriteString(`,
    "comparison_report": {
        "summary": "Brief executive summary of what changed",
        "sentiment_change": {"direction": "improved|worsened|stable", "percentage_change": "+15%", "reason": "Why"},
        "risk_comparison": {"new_risks": [], "resolved_risks": [], "ongoing_risks": []},
        "tradeoffs": [
            {"factor": "Time", "old_value": "old", "new_value": "new", "change": "+10%", "assessment": "Brief assessment"}
        ],
        "recommendation": "Based on the analysis, the new route is recommended because..."
    }`)
	}
	b.WriteString("\n}\n")

	prompt := b.String()
	if len(prompt) > promptSizeLimit {
		return minimalPrompt(routes, origin, destination)
	}
	return prompt
}

// minimalPrompt drops the news and comparison tasks to keep the request
// within the size guard.
func minimalPrompt(routes []RouteSummary, origin, destination string) string {
	routesJSON, _ := json.Marshal(routes)
	return fmt.Sprintf(`You are a Logistics Analysis Expert. Analyze routes: %s to %s.
Routes Data: %s
Task: Provide a creative route_name, short_summary, reasoning, and 3 intermediate_cities with coordinates per route.
Output strictly valid JSON: {"routes": {"<route id>": {"route_name", "short_summary", "reasoning", "intermediate_cities"}}}
`, origin, destination, routesJSON)
}
