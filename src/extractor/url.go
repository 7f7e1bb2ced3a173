package extractor

import (
	"net/url"
	"regexp"
	"strings"
)

var ipHostRe = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+(:\d+)?$`)

// suspiciousTLDs are cheap/free TLDs heavily abused by phishing campaigns.
var suspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top"}

// brandWords are banking-brand terms that are suspicious inside a hostname.
var brandWords = []string{"verify", "secure", "account", "update", "confirm", "banking", "bank"}

// ScoreURL rates a URL-shaped string for phishing suspicion, purely
// syntactically. The result is in [0,1]; no network access ever happens.
func ScoreURL(raw string) float64 {
	host, scheme := hostAndScheme(raw)
	if host == "" {
		// Unparseable URL-shaped token: suspicious by itself.
		return 0.6
	}

	score := 0.0
	if scheme != "https" {
		score += 0.25
	}
	if ipHostRe.MatchString(host) {
		score += 0.25
	}
	for _, tld := range suspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			score += 0.25
			break
		}
	}
	if strings.Count(host, ".") >= 4 {
		score += 0.15
	}
	for _, w := range brandWords {
		if strings.Contains(host, w) {
			score += 0.25
			break
		}
	}
	if score > 1 {
		score = 1
	}
	return score
}

func hostAndScheme(raw string) (host, scheme string) {
	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "http://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return "", ""
	}
	host = strings.ToLower(u.Host)
	if strings.Contains(raw, "://") {
		scheme = strings.ToLower(u.Scheme)
	}
	return host, scheme
}
