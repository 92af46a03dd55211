package verification

import (
	"fmt"
	"strings"
)

// Prompt templates. Pure string templating; optional fields substitute
// neutral defaults instead of branching.

func roastPrompt(userName string, hoursIndoor int) string {
	name := defaultIfEmpty(userName, "this person")
	return fmt.Sprintf("You're a hilarious wellness assistant roasting someone named %s who has been indoors for %d hours. Create ONE short, witty roast (2-3 sentences max) that's funny but encouraging. Add emojis. Keep it PG-13 and sarcastic.", name, hoursIndoor)
}

func activitiesPrompt(city string, count int) string {
	area := defaultIfEmpty(city, "their area")
	return fmt.Sprintf(`You're a sarcastic wellness coach. Suggest %d fun outdoor activities someone can do near %s.

Add emojis to make it fun! Be casual and slightly sarcastic but helpful. Format as a simple numbered list like:
1. Activity with emoji
2. Activity with emoji
etc.

Keep it short and punchy!`, count, area)
}

func imageVerifyPrompt(todayDate string) string {
	return fmt.Sprintf(`You're a hilarious wellness coach analyzing a photo. Check if this image shows someone ACTUALLY outdoors.

Look for:
- Real outdoor elements (sky, trees, grass, parks, streets, building exteriors)
- Natural daylight/sunlight
- Does it look like a REAL photo taken TODAY (%s)?
- Not a screenshot, not indoors, not fake

Be funny and sarcastic but honest. Return ONLY this JSON format (no extra text):
{
  "verified": true,
  "confidence": "high",
  "message": "Yo, you actually touched grass! Nice!",
  "reasons": ["Real outdoor lighting detected", "Grass visible in photo"],
  "aiAnalysis": "Your funny detailed roast here"
}`, todayDate)
}

func metadataVerifyPrompt(meta PhotoMetadata) string {
	return fmt.Sprintf(`Based on brightness %d/255, color temp %dK, time %s, is this outdoor? Answer "OUTDOOR" or "INDOOR" with brief reason.`,
		meta.Brightness, meta.ColorTemperatureKelvin, meta.CapturedAt.Format("3:04:05 PM"))
}

func defaultIfEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
