// Package agent drives the staged engagement dialogue: it owns the stage
// machine, reply selection, and the decision to stop and report.
package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/stake-plus/agentic-honeypot/src/ai"
	"github.com/stake-plus/agentic-honeypot/src/types"
)

// Engagement thresholds. Counts are counterparty messages, not turns.
const (
	concernAt    = 4  // Confusion runs 1-3
	complianceAt = 8  // Concern runs 4-7
	extractionAt = 13 // Compliance runs 8-12
)

// Agent selects replies and decides when a session has produced enough.
type Agent struct {
	// MaxEngagement ends a conversation once this many counterparty
	// messages were processed. HardStop bounds resource use even when no
	// intelligence ever showed up.
	MaxEngagement int
	HardStop      int
	// MinIntelCategories is the sufficient-intelligence gate: distinct
	// artifact categories needed to end a productive conversation early.
	MinIntelCategories int

	// AI, when set, rephrases the selected template through an LLM
	// provider. Stage and termination logic never depend on it.
	AI        ai.Client
	AITimeout time.Duration
}

// New returns an agent with the default engagement policy.
func New() *Agent {
	return &Agent{
		MaxEngagement:      15,
		HardStop:           20,
		MinIntelCategories: 2,
		AITimeout:          10 * time.Second,
	}
}

// Advance moves the session forward for one counterparty message and picks
// the reply. It must run inside the store's per-session critical section:
// it mutates stage, reply bookkeeping, and the reported flag. The session is
// expected to already contain the appended message, updated engagement
// count, and merged intelligence.
func (a *Agent) Advance(sess *types.Session, det types.DetectionResult) (reply string, reportNow bool) {
	a.advanceStage(sess, det)

	if sess.ScamDetected {
		reply = a.selectReply(sess)
	} else {
		reply = offTopicReply
	}

	reportNow = a.shouldReport(sess)
	if reportNow {
		sess.Reported = true
	}
	return reply, reportNow
}

// advanceStage computes the stage from the engagement count, lets an
// escalation signal pull the next stage in one message early, and never
// moves backwards.
func (a *Agent) advanceStage(sess *types.Session, det types.DetectionResult) {
	next := stageForCount(sess.EngagementCount)
	if det.Escalated {
		if early := stageForCount(sess.EngagementCount + 1); next.Before(early) {
			next = early
		}
	}
	if sess.Stage.Before(next) {
		sess.Stage = next
	}
}

func stageForCount(count int) types.Stage {
	switch {
	case count < concernAt:
		return types.StageConfusion
	case count < complianceAt:
		return types.StageConcern
	case count < extractionAt:
		return types.StageCompliance
	default:
		return types.StageExtraction
	}
}

// selectReply picks from the (stage, scamType) pool, skipping templates
// already used in this session. When the pool is exhausted it falls back to
// the least-recently-used entry.
func (a *Agent) selectReply(sess *types.Session) string {
	pool := poolFor(sess.Stage, sess.ScamType)

	for _, candidate := range pool {
		if _, used := sess.UsedReplies[candidate]; !used {
			sess.UsedReplies[candidate] = sess.EngagementCount
			return candidate
		}
	}

	lru := pool[0]
	for _, candidate := range pool[1:] {
		if sess.UsedReplies[candidate] < sess.UsedReplies[lru] {
			lru = candidate
		}
	}
	sess.UsedReplies[lru] = sess.EngagementCount
	return lru
}

// shouldReport signals termination at most once per session: either the
// engagement budget ran out, or at least MinIntelCategories distinct
// artifact categories were harvested.
func (a *Agent) shouldReport(sess *types.Session) bool {
	if sess.Reported {
		return false
	}
	if sess.EngagementCount >= a.HardStop {
		return true
	}
	if sess.EngagementCount >= a.MaxEngagement {
		return true
	}
	if sess.ScamDetected && sess.Intelligence.CategoryCount() >= a.MinIntelCategories {
		return true
	}
	return false
}

// Rephrase optionally runs the template reply through the configured AI
// provider to vary the phrasing. Called after the session lock is released;
// any failure falls back to the template untouched.
func (a *Agent) Rephrase(ctx context.Context, stage types.Stage, lastMessage, template string) string {
	if a.AI == nil {
		return template
	}
	ctx, cancel := context.WithTimeout(ctx, a.AITimeout)
	defer cancel()

	out, err := a.AI.Respond(ctx, buildPersonaPrompt(stage, lastMessage, template))
	if err != nil {
		log.Printf("agent: ai rephrase failed, using template: %v", err)
		return template
	}
	out = strings.TrimSpace(strings.Trim(strings.TrimSpace(out), `"`))
	if out == "" {
		return template
	}
	return out
}

func buildPersonaPrompt(stage types.Stage, lastMessage, template string) string {
	personas := map[types.Stage]string{
		types.StageConfusion:  "confused and questioning; you don't understand what is happening",
		types.StageConcern:    "worried and seeking clarification; you are starting to believe them",
		types.StageCompliance: "willing to help but struggling with technology and delays",
		types.StageExtraction: "cautious; you want official details, IDs, and documentation before acting",
	}
	return fmt.Sprintf(
		"You are roleplaying an ordinary person answering an unsolicited message. You are %s.\n"+
			"Their latest message: %q\n"+
			"Rewrite this intended reply in your own words, one or two short sentences, "+
			"natural and imperfect, without ever hinting that you suspect anything: %q",
		personas[stage], lastMessage, template)
}
