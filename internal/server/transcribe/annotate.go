package transcribe

import "github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"

// Annotate numbers repeated words within a single transcript so the client
// can highlight the right occurrence during playback. The first "go" gets 1,
// the second 2, and so on; counts are independent per word and per message.
func Annotate(words []Word) []models.TranscriptWord {
	if len(words) == 0 {
		return nil
	}

	seen := make(map[string]int, len(words))
	result := make([]models.TranscriptWord, 0, len(words))

	for _, w := range words {
		seen[w.Word]++
		result = append(result, models.TranscriptWord{
			Word:       w.Word,
			Start:      w.Start,
			End:        w.End,
			Occurrence: seen[w.Word],
		})
	}

	return result
}
