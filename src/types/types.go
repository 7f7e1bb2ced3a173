package types

import (
	"sort"
	"time"
)

// Sender identifies who authored a message. Wire values follow the
// evaluation harness: "scammer" for the counterparty, "user" for the agent.
type Sender string

const (
	SenderScammer Sender = "scammer"
	SenderUser    Sender = "user"
)

// Message is a single turn in a conversation. Immutable once created.
type Message struct {
	Sender    Sender    `json:"sender" binding:"required"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Stage is the conversational posture the agent holds for a session.
// Stages only move forward.
type Stage string

const (
	StageConfusion  Stage = "confusion"
	StageConcern    Stage = "concern"
	StageCompliance Stage = "compliance"
	StageExtraction Stage = "extraction"
)

var stageOrder = map[Stage]int{
	StageConfusion:  0,
	StageConcern:    1,
	StageCompliance: 2,
	StageExtraction: 3,
}

// Before reports whether s comes earlier than other in the stage progression.
func (s Stage) Before(other Stage) bool {
	return stageOrder[s] < stageOrder[other]
}

// ScamType is the closed classification emitted by the detector.
type ScamType string

const (
	ScamTypeBankAccount ScamType = "Bank Account Scam"
	ScamTypeUPIPayment  ScamType = "UPI/Payment Scam"
	ScamTypeKYC         ScamType = "KYC/Verification Scam"
	ScamTypePrize       ScamType = "Prize/Lottery Scam"
	ScamTypeThreat      ScamType = "Threat/Legal Action Scam"
	ScamTypeUnknown     ScamType = "Unknown"
)

// DetectionResult is the detector's verdict for one message.
type DetectionResult struct {
	Confidence float64  `json:"confidence"`
	IsScam     bool     `json:"isScam"`
	ScamType   ScamType `json:"scamType"`
	Indicators []string `json:"matchedIndicators"`
	Escalated  bool     `json:"escalated"`
}

// Intelligence holds the artifacts harvested from a conversation. All
// collections are sets: union-accumulated, never shrinking.
type Intelligence struct {
	PhoneNumbers  map[string]struct{} `json:"phoneNumbers"`
	UPIIDs        map[string]struct{} `json:"upiIds"`
	BankAccounts  map[string]struct{} `json:"bankAccounts"`
	IFSCCodes     map[string]struct{} `json:"ifscCodes"`
	PhishingLinks map[string]float64  `json:"phishingLinks"` // url -> suspicion score
	Keywords      map[string]struct{} `json:"keywords"`
}

// NewIntelligence returns an empty, ready-to-merge set bundle.
func NewIntelligence() *Intelligence {
	return &Intelligence{
		PhoneNumbers:  make(map[string]struct{}),
		UPIIDs:        make(map[string]struct{}),
		BankAccounts:  make(map[string]struct{}),
		IFSCCodes:     make(map[string]struct{}),
		PhishingLinks: make(map[string]float64),
		Keywords:      make(map[string]struct{}),
	}
}

// Merge unions other into i. Suspicion scores keep the higher value when a
// link shows up twice.
func (i *Intelligence) Merge(other *Intelligence) {
	if other == nil {
		return
	}
	for p := range other.PhoneNumbers {
		i.PhoneNumbers[p] = struct{}{}
	}
	for u := range other.UPIIDs {
		i.UPIIDs[u] = struct{}{}
	}
	for b := range other.BankAccounts {
		i.BankAccounts[b] = struct{}{}
	}
	for c := range other.IFSCCodes {
		i.IFSCCodes[c] = struct{}{}
	}
	for l, score := range other.PhishingLinks {
		if prev, ok := i.PhishingLinks[l]; !ok || score > prev {
			i.PhishingLinks[l] = score
		}
	}
	for k := range other.Keywords {
		i.Keywords[k] = struct{}{}
	}
}

// CategoryCount reports how many artifact categories hold at least one entry.
// Keywords are excluded: nearly every scam message matches the lexicon, so
// they say nothing about how productive the conversation was.
func (i *Intelligence) CategoryCount() int {
	n := 0
	if len(i.PhoneNumbers) > 0 {
		n++
	}
	if len(i.UPIIDs) > 0 {
		n++
	}
	if len(i.BankAccounts) > 0 {
		n++
	}
	if len(i.IFSCCodes) > 0 {
		n++
	}
	if len(i.PhishingLinks) > 0 {
		n++
	}
	return n
}

// Total counts every artifact across all categories, keywords included.
func (i *Intelligence) Total() int {
	return len(i.PhoneNumbers) + len(i.UPIIDs) + len(i.BankAccounts) +
		len(i.IFSCCodes) + len(i.PhishingLinks) + len(i.Keywords)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Snapshot flattens the sets into the wire shape used by reports and the
// introspection API. Output order is deterministic.
func (i *Intelligence) Snapshot() IntelligenceSnapshot {
	links := make([]string, 0, len(i.PhishingLinks))
	for l := range i.PhishingLinks {
		links = append(links, l)
	}
	sort.Strings(links)
	return IntelligenceSnapshot{
		PhoneNumbers:       sortedKeys(i.PhoneNumbers),
		UPIIDs:             sortedKeys(i.UPIIDs),
		BankAccounts:       sortedKeys(i.BankAccounts),
		IFSCCodes:          sortedKeys(i.IFSCCodes),
		PhishingLinks:      links,
		SuspiciousKeywords: sortedKeys(i.Keywords),
	}
}

// IntelligenceSnapshot is the deduplicated, ordered form of Intelligence.
type IntelligenceSnapshot struct {
	PhoneNumbers       []string `json:"phoneNumbers"`
	UPIIDs             []string `json:"upiIds"`
	BankAccounts       []string `json:"bankAccounts"`
	IFSCCodes          []string `json:"ifscCodes"`
	PhishingLinks      []string `json:"phishingLinks"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// Session is the full state of one exchange with a counterparty.
type Session struct {
	ID              string
	History         []Message
	Stage           Stage
	EngagementCount int
	ScamDetected    bool
	ScamType        ScamType
	MaxConfidence   float64
	Intelligence    *Intelligence
	Reported        bool
	CreatedAt       time.Time
	LastActivity    time.Time
	// UsedReplies maps a reply template to the engagement turn it was last
	// used on, for no-repeat / least-recently-used selection.
	UsedReplies map[string]int
	Metadata    map[string]string
}

// NewSession creates a fresh session in the opening stage.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		Stage:        StageConfusion,
		Intelligence: NewIntelligence(),
		CreatedAt:    now,
		LastActivity: now,
		UsedReplies:  make(map[string]int),
	}
}

// Metadata carries opaque channel/locale context passed through for reporting.
type Metadata struct {
	Channel  string `json:"channel,omitempty"`
	Language string `json:"language,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

// IncomingRequest is the inbound unit of work.
type IncomingRequest struct {
	SessionID           string    `json:"sessionId" binding:"required"`
	Message             Message   `json:"message" binding:"required"`
	ConversationHistory []Message `json:"conversationHistory"`
	Metadata            *Metadata `json:"metadata"`
}

// AgentResponse is the single reply returned to the caller.
type AgentResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

// SessionSnapshot is the read-only introspection view of a session.
type SessionSnapshot struct {
	SessionID       string `json:"sessionId"`
	ScamDetected    bool   `json:"scamDetected"`
	MessageCount    int    `json:"messageCount"`
	EngagementCount int    `json:"engagementCount"`
	Stage           Stage  `json:"stage"`
	Reported        bool   `json:"reported"`
}

// FinalResult is the one-shot intelligence report shipped on termination.
type FinalResult struct {
	ReportID               string               `json:"reportId"`
	SessionID              string               `json:"sessionId"`
	ScamDetected           bool                 `json:"scamDetected"`
	ScamType               ScamType             `json:"scamType"`
	TotalMessagesExchanged int                  `json:"totalMessagesExchanged"`
	ExtractedIntelligence  IntelligenceSnapshot `json:"extractedIntelligence"`
	AgentNotes             string               `json:"agentNotes"`
	Metadata               map[string]string    `json:"metadata,omitempty"`
}
