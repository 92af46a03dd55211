package verification

// Heuristic scoring policy. The maximum deterministic score is 80, with up
// to modelBonusPoints more when the model agrees.
const (
	passThreshold    = 60
	modelBonusPoints = 20

	brightnessOutdoorMin   = 120
	brightnessIndoorMax    = 80
	brightnessStrongPoints = 30
	brightnessWeakPoints   = 15

	colorTempDaylightMin  = 5500
	colorTempIndoorMax    = 3500
	colorTempStrongPoints = 30
	colorTempWeakPoints   = 15

	daylightHourStart = 8
	daylightHourEnd   = 19
	daylightPoints    = 20
)

type heuristicScore struct {
	Points  int
	Reasons []string
}

// scoreMetadata applies each rule independently and sums the points.
// Pure function, no I/O; identical input yields identical output.
func scoreMetadata(meta PhotoMetadata) heuristicScore {
	var score heuristicScore

	switch {
	case meta.Brightness > brightnessOutdoorMin:
		score.Points += brightnessStrongPoints
		score.Reasons = append(score.Reasons, "Brightness looks outdoor-appropriate")
	case meta.Brightness < brightnessIndoorMax:
		score.Reasons = append(score.Reasons, "Too dark for outdoor photo")
	default:
		score.Points += brightnessWeakPoints
		score.Reasons = append(score.Reasons, "Brightness is borderline")
	}

	switch {
	case meta.ColorTemperatureKelvin > colorTempDaylightMin:
		score.Points += colorTempStrongPoints
		score.Reasons = append(score.Reasons, "Color temperature suggests daylight")
	case meta.ColorTemperatureKelvin < colorTempIndoorMax:
		score.Reasons = append(score.Reasons, "Color suggests indoor lighting")
	default:
		score.Points += colorTempWeakPoints
		score.Reasons = append(score.Reasons, "Color temperature is ambiguous")
	}

	hour := meta.CapturedAt.Hour()
	if hour >= daylightHourStart && hour <= daylightHourEnd {
		score.Points += daylightPoints
		score.Reasons = append(score.Reasons, "Taken during daylight hours")
	} else {
		score.Reasons = append(score.Reasons, "Taken outside daylight hours")
	}

	return score
}
