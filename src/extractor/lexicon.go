package extractor

import "strings"

// Category names a class of linguistic signal the detector scores on.
type Category string

const (
	CategoryUrgency      Category = "urgency"
	CategoryFinancial    Category = "financial"
	CategoryVerification Category = "verification"
	CategoryThreat       Category = "threat"
	CategoryReward       Category = "reward"
)

// categoryLexicon groups single keywords by tactic. Matching is
// case-insensitive substring membership, same as the production rules these
// were tuned against.
var categoryLexicon = map[Category][]string{
	CategoryUrgency: {
		"urgent", "immediately", "right now", "asap", "today",
		"expire", "expires", "expired", "suspend", "suspended",
		"block", "blocked", "freeze", "frozen",
	},
	CategoryFinancial: {
		"bank", "account", "credit card", "debit card", "atm",
		"upi", "payment", "transaction", "transfer", "money",
		"refund", "cashback", "tax", "penalty", "fine", "charge",
	},
	CategoryVerification: {
		"verify", "confirm", "update", "validate", "authenticate",
		"click", "link", "website", "login", "password",
		"otp", "cvv", "pin", "security code", "kyc",
	},
	CategoryThreat: {
		"arrest", "legal action", "police", "court", "lawsuit",
		"fraud", "investigation", "suspicious activity", "unauthorized",
	},
	CategoryReward: {
		"won", "winner", "congratulations", "prize", "reward",
		"lottery", "free", "gift", "bonus", "claim",
	},
}

// kycTerms are the verification terms specific enough to call a KYC scam.
var kycTerms = []string{"kyc", "re-kyc", "pan card", "pan update", "aadhaar"}

// paymentTerms signal an active payment demand rather than generic
// financial vocabulary.
var paymentTerms = []string{"upi", "pay", "payment", "transfer", "send money"}

// bankTerms anchor the bank-account scam classification.
var bankTerms = []string{"bank", "account", "atm", "debit card", "credit card"}

// phraseLexicon is the curated multi-word phrase list. Every hit is recorded
// verbatim in the session intelligence for reporting.
var phraseLexicon = []string{
	"verify now", "urgent action", "account blocked", "suspended",
	"click here", "limited time", "act now", "confirm immediately",
	"prize", "winner", "congratulations", "reward",
	"refund pending", "cashback", "bonus",
	"legal action", "arrest warrant", "court notice",
	"suspicious activity", "unauthorized access",
	"update kyc", "re-kyc", "pan update", "aadhaar update",
}

// CategoryHits returns, per category, the lexicon entries present in text.
// Categories with no hits are omitted.
func CategoryHits(text string) map[Category][]string {
	lower := strings.ToLower(text)
	hits := make(map[Category][]string)
	for cat, words := range categoryLexicon {
		for _, w := range words {
			if strings.Contains(lower, w) {
				hits[cat] = append(hits[cat], w)
			}
		}
	}
	return hits
}

// PhraseHits returns the curated phrases present in text, verbatim.
func PhraseHits(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, p := range phraseLexicon {
		if strings.Contains(lower, p) {
			out = append(out, p)
		}
	}
	return out
}

func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// HasKYCTerms reports whether text carries KYC-specific vocabulary.
func HasKYCTerms(text string) bool {
	return containsAny(strings.ToLower(text), kycTerms)
}

// HasPaymentTerms reports whether text demands a payment or transfer.
func HasPaymentTerms(text string) bool {
	return containsAny(strings.ToLower(text), paymentTerms)
}

// HasBankTerms reports whether text references bank accounts or cards.
func HasBankTerms(text string) bool {
	return containsAny(strings.ToLower(text), bankTerms)
}
