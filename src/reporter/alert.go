package reporter

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/stake-plus/agentic-honeypot/src/types"
)

// Alerter mirrors final reports into a Discord ops channel so analysts see
// concluded sessions without polling the collection endpoint.
type Alerter struct {
	session   *discordgo.Session
	channelID string
}

// NewAlerter opens a Discord session for the given bot token. Returns an
// error instead of exiting: the alert channel is optional.
func NewAlerter(token, channelID string) (*Alerter, error) {
	if token == "" || channelID == "" {
		return nil, fmt.Errorf("discord alerter requires token and channel id")
	}
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	if err := dg.Open(); err != nil {
		return nil, err
	}
	return &Alerter{session: dg, channelID: channelID}, nil
}

// Notify posts a compact summary of the report. Failures are logged only.
func (a *Alerter) Notify(result types.FinalResult) {
	var b strings.Builder
	fmt.Fprintf(&b, "**Session concluded:** `%s`\n", result.SessionID)
	fmt.Fprintf(&b, "Type: %s | Messages: %d | Scam: %v\n",
		result.ScamType, result.TotalMessagesExchanged, result.ScamDetected)
	intel := result.ExtractedIntelligence
	fmt.Fprintf(&b, "Artifacts: %d phones, %d UPI ids, %d links, %d accounts, %d IFSC\n",
		len(intel.PhoneNumbers), len(intel.UPIIDs), len(intel.PhishingLinks),
		len(intel.BankAccounts), len(intel.IFSCCodes))
	b.WriteString(result.AgentNotes)

	if _, err := a.session.ChannelMessageSend(a.channelID, b.String()); err != nil {
		log.Printf("reporter: discord alert failed for session %s: %v", result.SessionID, err)
	}
}

// Close shuts the Discord session down.
func (a *Alerter) Close() error {
	return a.session.Close()
}
