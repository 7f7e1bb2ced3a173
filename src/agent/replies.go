package agent

import "github.com/stake-plus/agentic-honeypot/src/types"

// Reply pools. Selection is a lookup by (stage, scamType) with a generic
// per-stage fallback; none of the variants ever acknowledges suspicion,
// refuses, or accuses.

type poolKey struct {
	stage    types.Stage
	scamType types.ScamType
}

var genericPools = map[types.Stage][]string{
	types.StageConfusion: {
		"I don't understand. What do you mean?",
		"Can you explain that again?",
		"I'm not sure what you're asking for.",
		"This is confusing. Can you clarify?",
		"Sorry, I didn't get that. Could you repeat?",
		"I didn't expect this message. What's it about?",
	},
	types.StageConcern: {
		"Oh no! Is this serious?",
		"This sounds urgent. What should I do?",
		"I'm worried now. Can you help me?",
		"Should I be concerned about this?",
		"Can you tell me more about this?",
		"What exactly happened?",
		"How did you get my number?",
	},
	types.StageCompliance: {
		"Okay, I want to help. Please tell me what to do.",
		"Let me check my account first.",
		"Give me a moment, I need to find my phone.",
		"I'm at work right now. Can I do this later?",
		"I need to talk to my son about this first.",
		"Can you call back in 10 minutes?",
		"My internet is slow. Can you wait?",
	},
	types.StageExtraction: {
		"What's the name of your company again?",
		"Can you give me your employee ID number?",
		"What department are you from?",
		"Do you have an office I can visit?",
		"Can I get a reference number for this case?",
		"Who is your supervisor? I'd like to speak with them.",
		"What's your callback number?",
		"Is there an email address I can contact?",
		"Can you send me this in writing?",
		"Do you have any official documentation?",
	},
}

var typedPools = map[poolKey][]string{
	{types.StageConfusion, types.ScamTypeBankAccount}: {
		"Who is this? Which bank are you calling from?",
		"Is this really my bank? How do I know?",
		"I didn't expect a call from my bank. What's this about?",
	},
	{types.StageConfusion, types.ScamTypeKYC}: {
		"Why do you need me to verify? I didn't request anything.",
		"How do I know this is legitimate?",
		"Can I do this through the official website instead?",
	},
	{types.StageConfusion, types.ScamTypePrize}: {
		"A prize? I don't remember entering anything.",
		"Who is giving out this prize? What is this?",
		"Is this real? I've never heard of this before.",
	},
	{types.StageConfusion, types.ScamTypeThreat}: {
		"Why is this so urgent? What happened?",
		"I don't understand. What am I being accused of?",
		"Can you explain why this can't wait?",
	},
	{types.StageConcern, types.ScamTypeThreat}: {
		"Oh no! What did I do wrong?",
		"This is scary. Can you tell me what's happening?",
		"I don't want any legal trouble. Please explain.",
	},
	{types.StageConcern, types.ScamTypePrize}: {
		"Really? I won something? What is it?",
		"How did I win? I don't remember entering anything.",
		"This sounds too good to be true. Is it real?",
	},
	{types.StageConcern, types.ScamTypeUPIPayment}: {
		"How much money are we talking about?",
		"Why do I need to pay? For what?",
		"Can you explain the charges to me?",
	},
	{types.StageConcern, types.ScamTypeBankAccount}: {
		"Is my account really in danger?",
		"What happens to my money if it's blocked?",
		"Which account is this about? I have more than one.",
	},
	{types.StageCompliance, types.ScamTypeKYC}: {
		"The link isn't working. Can you send another?",
		"The page won't load. What should I do?",
		"My phone says this site might not be secure. Should I continue?",
		"Can you send the official website link instead?",
	},
	{types.StageCompliance, types.ScamTypeUPIPayment}: {
		"Let me get my card. One moment.",
		"I need to find where I wrote that down.",
		"Is it safe to share this over the phone?",
		"My son told me never to share this. Are you sure it's okay?",
	},
	{types.StageCompliance, types.ScamTypeBankAccount}: {
		"I'm trying to log in but nothing is happening.",
		"The app keeps asking for permissions. What should I allow?",
		"I'm not very good with technology. Can you help me?",
	},
}

// poolFor returns the reply pool for a stage/type pair, falling back to the
// generic stage pool when no typed pool exists.
func poolFor(stage types.Stage, scamType types.ScamType) []string {
	if pool, ok := typedPools[poolKey{stage, scamType}]; ok {
		return pool
	}
	return genericPools[stage]
}

// offTopicReply is used when nothing scored as a scam yet; it keeps the
// exchange alive without committing to anything.
const offTopicReply = "I'm not sure I understand. Could you clarify?"
