// Package extractor pulls identifying artifacts out of raw message text.
// Every function here is pure: same text in, same artifacts out.
package extractor

import (
	"regexp"
	"strings"

	"github.com/stake-plus/agentic-honeypot/src/types"
)

var (
	urlRe        = regexp.MustCompile(`https?://[^\s]+|www\.[^\s]+`)
	phoneRe      = regexp.MustCompile(`\+?\d[\d\s().-]{7,17}\d`)
	digitRunRe   = regexp.MustCompile(`\b\d{9,18}\b`)
	upiRe        = regexp.MustCompile(`[a-zA-Z0-9][a-zA-Z0-9._-]*@[a-zA-Z]{2,}`)
	phoneSepRe   = regexp.MustCompile(`[\s().-]`)
	ifscRe       = regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`)
	accountCtx   = []string{"account", "a/c", "acct", "ifsc"}
	contactWords = []string{"call", "contact", "whatsapp"}
)

// upiHandles is the payment-provider suffix allow-list. It gates which
// local@handle tokens count as UPI ids; it is deliberately loose rather than
// a validation of real providers, and callers can extend it at startup.
var upiHandles = map[string]struct{}{
	"paytm": {}, "ybl": {}, "upi": {}, "apl": {}, "ibl": {}, "axl": {},
	"oksbi": {}, "okaxis": {}, "okicici": {}, "okhdfcbank": {},
	"sbi": {}, "hdfcbank": {}, "icici": {}, "axisbank": {},
	"gpay": {}, "phonepe": {}, "freecharge": {}, "airtel": {},
	"fbl": {}, "jio": {}, "yapl": {},
}

// RegisterUPIHandle adds a provider suffix to the allow-list. Call before
// serving traffic; the extractor itself takes no locks.
func RegisterUPIHandle(handle string) {
	upiHandles[strings.ToLower(handle)] = struct{}{}
}

// Extract scans one message and returns the artifacts found in it. The
// result is a single-message partial; callers union it into session state.
func Extract(text string) *types.Intelligence {
	intel := types.NewIntelligence()
	if text == "" {
		return intel
	}

	// Links first, then strip them so URL path digits and hosts do not
	// feed the phone/account scans.
	for _, raw := range urlRe.FindAllString(text, -1) {
		link := strings.TrimRight(raw, ".,;:!?)\"'")
		intel.PhishingLinks[link] = ScoreURL(link)
	}
	stripped := urlRe.ReplaceAllString(text, " ")

	for _, raw := range upiRe.FindAllString(stripped, -1) {
		at := strings.LastIndex(raw, "@")
		handle := strings.ToLower(raw[at+1:])
		if _, ok := upiHandles[handle]; ok {
			intel.UPIIDs[strings.ToLower(raw)] = struct{}{}
		}
	}

	hasAccountCtx := containsAny(strings.ToLower(stripped), accountCtx)

	// Bare digit runs: 14+ digits are account-length, never phones. Shorter
	// runs are phone-length and only count as accounts when the message
	// itself talks about accounts.
	accounts := make(map[string]struct{})
	for _, run := range digitRunRe.FindAllString(stripped, -1) {
		if len(run) >= 14 || hasAccountCtx {
			accounts[run] = struct{}{}
			intel.BankAccounts[run] = struct{}{}
		}
	}

	for _, raw := range phoneRe.FindAllString(stripped, -1) {
		normalized := normalizePhone(raw)
		if normalized == "" {
			continue
		}
		if _, claimed := accounts[strings.TrimPrefix(normalized, "+")]; claimed {
			continue
		}
		intel.PhoneNumbers[normalized] = struct{}{}
	}

	for _, code := range ifscRe.FindAllString(stripped, -1) {
		intel.IFSCCodes[code] = struct{}{}
	}

	for _, hits := range CategoryHits(text) {
		for _, kw := range hits {
			intel.Keywords[kw] = struct{}{}
		}
	}
	for _, p := range PhraseHits(text) {
		intel.Keywords[p] = struct{}{}
	}

	return intel
}

// normalizePhone strips separators and validates length. Returns the
// canonical digits-only form, prefixed with + when a country code marker was
// present, or "" if the candidate is not phone-shaped.
func normalizePhone(raw string) string {
	cleaned := phoneSepRe.ReplaceAllString(raw, "")
	plus := strings.HasPrefix(cleaned, "+")
	cleaned = strings.TrimPrefix(cleaned, "+")
	if len(cleaned) < 9 || len(cleaned) > 13 {
		return ""
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return ""
		}
	}
	if plus {
		return "+" + cleaned
	}
	return cleaned
}

// HasContactRequest reports whether text asks the target to call or message
// a number. Used by the detector to weight phone artifacts.
func HasContactRequest(text string) bool {
	return containsAny(strings.ToLower(text), contactWords)
}
