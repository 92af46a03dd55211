package verification

// Canned payloads substituted whenever the upstream call or parse fails.
// The caller always receives a well-formed response object.

var roastFallbacks = []string{
	"You've been inside so long, your Wi-Fi router is your best friend now.",
	"You've been inside so long, your houseplants are getting more sun than you.",
	"Your vitamin D called. It filed a missing person report.",
	"Even your Wi-Fi router is judging you at this point.",
	"Your shadow filed for unemployment.",
	"The sun forgot what you look like.",
}

var activityFallbacks = []string{
	"Walk to your mailbox",
	"Stand in your yard for 5 minutes",
	"Touch some grass",
	"Stare at the sun (don't actually)",
	"Wave at a neighbor",
}

func fallbackVerdict() Verdict {
	return Verdict{
		Verified:   false,
		Confidence: "low",
		Message:    "verification failed",
		Reasons:    []string{},
	}
}
