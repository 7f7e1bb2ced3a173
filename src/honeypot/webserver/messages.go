package webserver

import (
	"html"
	"log"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/stake-plus/agentic-honeypot/src/agent"
	"github.com/stake-plus/agentic-honeypot/src/detector"
	"github.com/stake-plus/agentic-honeypot/src/extractor"
	"github.com/stake-plus/agentic-honeypot/src/reporter"
	"github.com/stake-plus/agentic-honeypot/src/session"
	"github.com/stake-plus/agentic-honeypot/src/types"
)

// Handler wires the transport to the engagement engine.
type Handler struct {
	store     session.Store
	detector  *detector.Detector
	agent     *agent.Agent
	reporter  *reporter.Client
	sanitizer *bluemonday.Policy
}

func NewHandler(store session.Store, det *detector.Detector, ag *agent.Agent, rep *reporter.Client) *Handler {
	return &Handler{
		store:     store,
		detector:  det,
		agent:     ag,
		reporter:  rep,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// ProcessMessage is the main inbound endpoint: one counterparty message in,
// one reply out. POST /api/message
func (h *Handler) ProcessMessage(c *gin.Context) {
	var req types.IncomingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if !utf8.ValidString(req.Message.Text) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid characters in input"})
		return
	}

	// Strip any markup before the text reaches the core. Unescape
	// afterwards so extracted artifacts keep their literal form.
	text := html.UnescapeString(h.sanitizer.Sanitize(req.Message.Text))
	msg := req.Message
	msg.Text = text
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	log.Printf("webserver: session %s message from %s", req.SessionID, msg.Sender)

	intel := extractor.Extract(text)

	var (
		reply     string
		stage     types.Stage
		reportNow bool
		result    types.FinalResult
	)
	err := h.store.Mutate(req.SessionID, func(sess *types.Session) {
		history := req.ConversationHistory
		if len(history) == 0 {
			history = sess.History
		}
		det := h.detector.Detect(text, history)

		sess.History = append(sess.History, msg)
		if msg.Sender == types.SenderScammer {
			sess.EngagementCount++
		}
		sess.Intelligence.Merge(intel)
		if det.Confidence > sess.MaxConfidence {
			sess.MaxConfidence = det.Confidence
		}
		if det.IsScam {
			sess.ScamDetected = true
			if sess.ScamType == "" || sess.ScamType == types.ScamTypeUnknown {
				sess.ScamType = det.ScamType
			}
		}
		if req.Metadata != nil {
			mergeMetadata(sess, req.Metadata)
		}

		reply, reportNow = h.agent.Advance(sess, det)
		stage = sess.Stage

		sess.History = append(sess.History, types.Message{
			Sender:    types.SenderUser,
			Text:      reply,
			Timestamp: time.Now().UTC(),
		})

		if reportNow {
			result = reporter.BuildResult(sess)
		}

		log.Printf("webserver: session %s confidence=%.2f scam=%v stage=%s engagement=%d",
			sess.ID, det.Confidence, det.IsScam, sess.Stage, sess.EngagementCount)
	})
	if err != nil {
		log.Printf("webserver: session %s store error: %v", req.SessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "internal server error"})
		return
	}

	// Outbound work happens strictly after the session lock is released.
	if reportNow {
		h.reporter.Dispatch(result)
	}
	reply = h.agent.Rephrase(c.Request.Context(), stage, text, reply)

	c.JSON(http.StatusOK, types.AgentResponse{Status: "success", Reply: reply})
}

func mergeMetadata(sess *types.Session, meta *types.Metadata) {
	if sess.Metadata == nil {
		sess.Metadata = make(map[string]string)
	}
	if meta.Channel != "" {
		sess.Metadata["channel"] = meta.Channel
	}
	if meta.Language != "" {
		sess.Metadata["language"] = meta.Language
	}
	if meta.Locale != "" {
		sess.Metadata["locale"] = meta.Locale
	}
}
