package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stake-plus/agentic-honeypot/src/types"
)

func scamSession(id string) *types.Session {
	sess := types.NewSession(id)
	sess.ScamDetected = true
	sess.ScamType = types.ScamTypeBankAccount
	return sess
}

func TestStageForCount(t *testing.T) {
	cases := []struct {
		count int
		want  types.Stage
	}{
		{1, types.StageConfusion},
		{3, types.StageConfusion},
		{4, types.StageConcern},
		{7, types.StageConcern},
		{8, types.StageCompliance},
		{12, types.StageCompliance},
		{13, types.StageExtraction},
		{25, types.StageExtraction},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, stageForCount(tc.count), "count %d", tc.count)
	}
}

func TestAdvanceFirstMessageConfusion(t *testing.T) {
	a := New()
	sess := scamSession("s1")
	sess.EngagementCount = 1

	reply, reportNow := a.Advance(sess, types.DetectionResult{IsScam: true})
	require.Equal(t, types.StageConfusion, sess.Stage)
	require.False(t, reportNow)
	require.Contains(t, poolFor(types.StageConfusion, types.ScamTypeBankAccount), reply)
}

func TestStageProgressionThroughConversation(t *testing.T) {
	a := New()
	sess := scamSession("s2")

	prev := types.StageConfusion
	for i := 1; i <= 14; i++ {
		sess.EngagementCount = i
		a.Advance(sess, types.DetectionResult{IsScam: true})
		require.False(t, sess.Stage.Before(prev), "stage regressed at message %d", i)
		prev = sess.Stage
	}
	require.Equal(t, types.StageExtraction, sess.Stage)
}

func TestComplianceToExtractionOnThirteenth(t *testing.T) {
	a := New()
	sess := scamSession("s3")
	sess.Stage = types.StageCompliance
	sess.EngagementCount = 13

	a.Advance(sess, types.DetectionResult{IsScam: true})
	require.Equal(t, types.StageExtraction, sess.Stage)
}

func TestEscalationPullsStageEarly(t *testing.T) {
	a := New()
	sess := scamSession("s4")
	sess.EngagementCount = 3 // last confusion message

	a.Advance(sess, types.DetectionResult{IsScam: true, Escalated: true})
	require.Equal(t, types.StageConcern, sess.Stage)
}

func TestStageNeverRegresses(t *testing.T) {
	a := New()
	sess := scamSession("s5")
	sess.Stage = types.StageExtraction
	sess.EngagementCount = 2

	a.Advance(sess, types.DetectionResult{IsScam: true})
	require.Equal(t, types.StageExtraction, sess.Stage)
}

func TestRepliesDoNotRepeat(t *testing.T) {
	a := New()
	sess := scamSession("s6")
	sess.EngagementCount = 1

	pool := poolFor(types.StageConfusion, types.ScamTypeBankAccount)
	seen := make(map[string]bool)
	for i := 0; i < len(pool); i++ {
		reply, _ := a.Advance(sess, types.DetectionResult{IsScam: true})
		require.False(t, seen[reply], "template repeated before pool exhausted: %q", reply)
		seen[reply] = true
	}
}

func TestExhaustedPoolFallsBackToLRU(t *testing.T) {
	a := New()
	sess := scamSession("s7")

	sess.EngagementCount = 1
	pool := poolFor(types.StageConfusion, types.ScamTypeBankAccount)
	for i := 0; i < len(pool); i++ {
		a.Advance(sess, types.DetectionResult{IsScam: true})
	}

	reply, _ := a.Advance(sess, types.DetectionResult{IsScam: true})
	require.Equal(t, pool[0], reply, "least-recently-used template expected")
}

func TestTerminationByEngagementBudget(t *testing.T) {
	a := New()
	sess := scamSession("s8")
	sess.EngagementCount = 15

	_, reportNow := a.Advance(sess, types.DetectionResult{IsScam: true})
	require.True(t, reportNow)
	require.True(t, sess.Reported)
}

func TestTerminationBySufficientIntelligence(t *testing.T) {
	a := New()
	sess := scamSession("s9")
	sess.EngagementCount = 6
	sess.Intelligence.PhoneNumbers["+919876543210"] = struct{}{}
	sess.Intelligence.PhishingLinks["http://fake-bank.com"] = 0.5

	_, reportNow := a.Advance(sess, types.DetectionResult{IsScam: true})
	require.True(t, reportNow, "two artifact categories should end the session early")
}

func TestSingleCategoryDoesNotTerminate(t *testing.T) {
	a := New()
	sess := scamSession("s10")
	sess.EngagementCount = 6
	sess.Intelligence.PhoneNumbers["+919876543210"] = struct{}{}

	_, reportNow := a.Advance(sess, types.DetectionResult{IsScam: true})
	require.False(t, reportNow)
}

func TestReportSignaledAtMostOnce(t *testing.T) {
	a := New()
	sess := scamSession("s11")
	sess.EngagementCount = 16

	_, first := a.Advance(sess, types.DetectionResult{IsScam: true})
	require.True(t, first)

	sess.EngagementCount = 17
	reply, second := a.Advance(sess, types.DetectionResult{IsScam: true})
	require.False(t, second, "reportNow must fire once per session")
	require.NotEmpty(t, reply, "conversation continues after reporting")
}

func TestKeywordsAloneDoNotTriggerIntelligenceGate(t *testing.T) {
	a := New()
	sess := scamSession("s12")
	sess.EngagementCount = 3
	sess.Intelligence.Keywords["verify now"] = struct{}{}
	sess.Intelligence.Keywords["account blocked"] = struct{}{}

	_, reportNow := a.Advance(sess, types.DetectionResult{IsScam: true})
	require.False(t, reportNow)
}

func TestNonScamSessionGetsNeutralReply(t *testing.T) {
	a := New()
	sess := types.NewSession("s13")
	sess.EngagementCount = 1

	reply, reportNow := a.Advance(sess, types.DetectionResult{})
	require.Equal(t, offTopicReply, reply)
	require.False(t, reportNow)
}

func TestRepliesNeverRevealDetection(t *testing.T) {
	// No template in any pool may admit suspicion.
	banned := []string{"scam", "fraudster", "police", "reported", "not comfortable", "hang up"}
	check := func(pool []string) {
		for _, reply := range pool {
			for _, word := range banned {
				require.NotContains(t, reply, word)
			}
		}
	}
	for _, pool := range genericPools {
		check(pool)
	}
	for _, pool := range typedPools {
		check(pool)
	}
}
