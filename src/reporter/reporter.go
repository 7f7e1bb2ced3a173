// Package reporter assembles the final intelligence report for a session
// and ships it to the external collection endpoint. Delivery is best-effort:
// bounded timeout, a couple of retries, and failures only ever reach the log.
package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stake-plus/agentic-honeypot/src/types"
)

// Client posts final results to the collection endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	alerter    *Alerter
}

// New builds a reporter client. endpoint may be empty, in which case
// dispatches are logged and dropped.
func New(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		retries: 2,
		backoff: 2 * time.Second,
	}
}

// WithAlerter attaches an ops alert channel notified on every dispatch.
func (c *Client) WithAlerter(a *Alerter) *Client {
	c.alerter = a
	return c
}

// BuildResult assembles the report payload from session state. Call it
// inside the session's critical section; the returned value owns no
// references into the session.
func BuildResult(sess *types.Session) types.FinalResult {
	meta := make(map[string]string, len(sess.Metadata))
	for k, v := range sess.Metadata {
		meta[k] = v
	}
	return types.FinalResult{
		ReportID:               uuid.NewString(),
		SessionID:              sess.ID,
		ScamDetected:           sess.ScamDetected,
		ScamType:               sess.ScamType,
		TotalMessagesExchanged: len(sess.History),
		ExtractedIntelligence:  sess.Intelligence.Snapshot(),
		AgentNotes:             summarize(sess),
		Metadata:               meta,
	}
}

// summarize writes the short free-text report: dominant scam type plus which
// artifact categories and tactics showed up.
func summarize(sess *types.Session) string {
	snap := sess.Intelligence.Snapshot()
	var parts []string

	scamType := sess.ScamType
	if scamType == "" {
		scamType = types.ScamTypeUnknown
	}
	parts = append(parts, fmt.Sprintf("Classified as %s", scamType))

	if n := len(snap.PhoneNumbers); n > 0 {
		parts = append(parts, fmt.Sprintf("extracted %d phone number(s)", n))
	}
	if n := len(snap.UPIIDs); n > 0 {
		parts = append(parts, fmt.Sprintf("extracted %d UPI ID(s)", n))
	}
	if n := len(snap.PhishingLinks); n > 0 {
		parts = append(parts, fmt.Sprintf("identified %d suspicious link(s)", n))
	}
	if n := len(snap.BankAccounts); n > 0 {
		parts = append(parts, fmt.Sprintf("extracted %d bank account number(s)", n))
	}
	if n := len(snap.IFSCCodes); n > 0 {
		parts = append(parts, fmt.Sprintf("extracted %d IFSC code(s)", n))
	}
	if len(snap.SuspiciousKeywords) > 0 {
		top := snap.SuspiciousKeywords
		if len(top) > 5 {
			top = top[:5]
		}
		parts = append(parts, "key tactics: "+strings.Join(top, ", "))
	}
	if len(parts) == 1 {
		parts = append(parts, "limited intelligence extracted from conversation")
	}
	return strings.Join(parts, ". ") + "."
}

// Dispatch ships the report on its own goroutine so a slow collection
// endpoint never stalls message processing. Call only after the session
// lock is released.
func (c *Client) Dispatch(result types.FinalResult) {
	go func() {
		if err := c.Send(result); err != nil {
			log.Printf("reporter: giving up on session %s: %v", result.SessionID, err)
		}
		if c.alerter != nil {
			c.alerter.Notify(result)
		}
	}()
}

// Send posts the report, retrying transient failures with backoff.
func (c *Client) Send(result types.FinalResult) error {
	if c.endpoint == "" {
		log.Printf("reporter: no endpoint configured, dropping report for session %s", result.SessionID)
		return nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(c.backoff * time.Duration(attempt))
		}
		lastErr = c.post(payload)
		if lastErr == nil {
			log.Printf("reporter: delivered final result for session %s", result.SessionID)
			return nil
		}
		log.Printf("reporter: attempt %d for session %s failed: %v", attempt+1, result.SessionID, lastErr)
	}
	return lastErr
}

func (c *Client) post(payload []byte) error {
	req, err := http.NewRequest("POST", c.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collection endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
