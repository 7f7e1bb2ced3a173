// Package detector scores messages for scam intent. Scoring is stateless:
// a message plus the prior conversation always produces the same verdict.
package detector

import (
	"github.com/stake-plus/agentic-honeypot/src/extractor"
	"github.com/stake-plus/agentic-honeypot/src/types"
)

// Default policy constants. The threshold trades recall for precision and is
// tunable per deployment, not derived.
const (
	DefaultThreshold        = 0.4
	DefaultEscalationMargin = 0.15
)

// Detector holds the scoring policy knobs.
type Detector struct {
	Threshold        float64
	EscalationMargin float64
}

// New returns a detector with the default operating point.
func New() *Detector {
	return &Detector{
		Threshold:        DefaultThreshold,
		EscalationMargin: DefaultEscalationMargin,
	}
}

// Detect scores one counterparty message against the conversation so far.
// history holds the prior messages only, not the one being scored. Detection
// is total: malformed or empty input yields a zero-confidence verdict, never
// an error.
func (d *Detector) Detect(text string, history []types.Message) types.DetectionResult {
	confidence, indicators, hits := d.score(text)

	res := types.DetectionResult{
		Confidence: confidence,
		IsScam:     confidence >= d.Threshold,
		ScamType:   classify(text, history),
		Indicators: indicators,
	}
	res.Escalated = d.escalated(res.Confidence, hits, history)
	return res
}

// score sums independent per-category weights, capped so that corroborating
// signals are rewarded and no single category can reach 1.0 on its own.
// Weights come from the tuned production ruleset.
func (d *Detector) score(text string) (float64, []string, map[extractor.Category][]string) {
	hits := extractor.CategoryHits(text)
	intel := extractor.Extract(text)

	var score float64
	var indicators []string

	add := func(cat extractor.Category, per, cap float64) {
		n := len(hits[cat])
		if n == 0 {
			return
		}
		indicators = append(indicators, string(cat))
		score += capped(float64(n)*per, cap)
	}

	add(extractor.CategoryUrgency, 0.15, 0.3)
	add(extractor.CategoryFinancial, 0.1, 0.2)
	add(extractor.CategoryVerification, 0.15, 0.3)
	add(extractor.CategoryThreat, 0.2, 0.4)
	add(extractor.CategoryReward, 0.15, 0.3)

	if n := len(intel.PhishingLinks); n > 0 {
		indicators = append(indicators, "link")
		score += capped(float64(n)*0.2, 0.4)
	}
	if len(intel.PhoneNumbers) > 0 && extractor.HasContactRequest(text) {
		indicators = append(indicators, "phone-contact")
		score += 0.2
	}
	if len(intel.UPIIDs) > 0 || len(intel.BankAccounts) > 0 || len(intel.IFSCCodes) > 0 {
		indicators = append(indicators, "payment-artifact")
		score += 0.2
	}

	// Combination patterns carry more signal than their parts.
	if len(hits[extractor.CategoryUrgency]) > 0 && len(hits[extractor.CategoryFinancial]) > 0 {
		indicators = append(indicators, "urgent+financial")
		score += 0.3
	}
	if len(hits[extractor.CategoryVerification]) > 0 && len(intel.PhishingLinks) > 0 {
		indicators = append(indicators, "verification+link")
		score += 0.4
	}
	if len(hits[extractor.CategoryThreat]) > 0 && len(hits[extractor.CategoryFinancial]) > 0 {
		indicators = append(indicators, "threat+financial")
		score += 0.4
	}

	if score > 1 {
		score = 1
	}
	return score, indicators, hits
}

// escalated is the advisory pressure signal: the current confidence clears
// every prior counterparty message's confidence by more than the margin, or
// the message introduces threat language for the first time in the session.
func (d *Detector) escalated(confidence float64, hits map[extractor.Category][]string, history []types.Message) bool {
	threatNow := len(hits[extractor.CategoryThreat]) > 0
	threatBefore := false
	priorMax := -1.0
	for _, m := range history {
		if m.Sender != types.SenderScammer {
			continue
		}
		prior, _, priorHits := d.score(m.Text)
		if prior > priorMax {
			priorMax = prior
		}
		if len(priorHits[extractor.CategoryThreat]) > 0 {
			threatBefore = true
		}
	}

	if threatNow && !threatBefore {
		return true
	}
	return priorMax >= 0 && confidence > priorMax+d.EscalationMargin
}

func capped(v, cap float64) float64 {
	if v > cap {
		return cap
	}
	return v
}
