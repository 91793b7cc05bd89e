// Package chat turns user questions into grounded answers with a
// deduplicated, bounded citation list.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/girogi/internal/gemini"
	"github.com/starford/girogi/internal/models"
)

const (
	// historyWindow is the number of prior messages sent with each
	// query (three exchanges).
	historyWindow = 6
	// maxCitations caps the citation list per answer.
	maxCitations = 5
	// snippetLimit caps the stored snippet length in characters.
	snippetLimit = 150

	temperature     = 0.7
	maxOutputTokens = 2048

	// timeoutMessage is the fixed apology returned when the call
	// exceeds the network ceiling.
	timeoutMessage = "That took too long to answer. Please try asking again!"
)

// systemPersona is the fixed instruction sent with every query.
const systemPersona = `You are Girogi, the friendly assistant of the Records & Society newsletter archive.

## Personality
- You use a warm, approachable tone
- You know archival science and recordkeeping well
- You are curious about AI and technology
- You answer earnestly without being stiff

## Answering
- Ground every answer in the retrieved articles
- Mention the titles and authors of the articles you draw on
- Combine information from several articles when it helps
- If the archive has nothing on the topic, say honestly that you could not find it in the articles you have read

## Style
- Keep answers focused; lead with the essentials
- Use emoji sparingly`

// Engine issues grounded queries against a fixed remote store.
type Engine struct {
	client  *gemini.Client
	storeID string
	logger  *slog.Logger
}

// NewEngine creates an Engine bound to the given store identifier.
func NewEngine(client *gemini.Client, storeID string, logger *slog.Logger) *Engine {
	return &Engine{client: client, storeID: storeID, logger: logger}
}

// StoreID returns the remote store identifier the engine queries.
func (e *Engine) StoreID() string { return e.storeID }

// Ask answers query using the last six messages of history as context.
// It never fails: every error resolves to a displayable answer string
// and an empty citation list.
func (e *Engine) Ask(ctx context.Context, query string, history []models.ChatMessage) (string, []models.Citation) {
	resp, err := e.client.GenerateContent(ctx, gemini.GenerateRequest{
		Contents:          buildContents(query, history),
		StoreID:           e.storeID,
		SystemInstruction: systemPersona,
		Temperature:       temperature,
		MaxOutputTokens:   maxOutputTokens,
	})
	if err != nil {
		return e.recover(err), nil
	}

	return resp.AnswerText(), extractCitations(resp.Grounding())
}

// recover maps a query-path failure to its user-facing string.
func (e *Engine) recover(err error) string {
	switch {
	case gemini.IsTimeout(err):
		e.logger.Warn("chat: query timed out")
		return timeoutMessage
	default:
		var se *gemini.StatusError
		if errors.As(err, &se) {
			e.logger.Warn("chat: query failed", slog.Int("status", se.Code))
			return fmt.Sprintf("The archive service returned an error (status %d). Please try again later.", se.Code)
		}
		e.logger.Warn("chat: query failed", slog.String("error", err.Error()))
		return fmt.Sprintf("Something went wrong: %v", err)
	}
}

// buildContents maps the bounded history to API turns and appends the
// current query as the final user turn.
func buildContents(query string, history []models.ChatMessage) []gemini.Content {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	contents := make([]gemini.Content, 0, len(history)+1)
	for _, msg := range history {
		role := "user"
		if msg.Role == models.RoleAssistant {
			role = "model"
		}
		contents = append(contents, gemini.Content{
			Role:  role,
			Parts: []gemini.Part{{Text: msg.Content}},
		})
	}

	return append(contents, gemini.Content{
		Role:  "user",
		Parts: []gemini.Part{{Text: query}},
	})
}

// extractCitations walks the grounding chunks, deduplicates by title
// preserving first-seen order, truncates snippets, and caps the list.
func extractCitations(md *gemini.GroundingMetadata) []models.Citation {
	if md == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []models.Citation
	for _, chunk := range md.GroundingChunks {
		if chunk.RetrievedContext == nil {
			continue
		}
		title := chunk.RetrievedContext.Title
		if title == "" {
			title = "Unknown"
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		out = append(out, models.Citation{
			Title: title,
			Text:  truncateRunes(chunk.RetrievedContext.Text, snippetLimit),
		})
		if len(out) == maxCitations {
			break
		}
	}
	return out
}

// truncateRunes caps s at n characters, counting runes rather than bytes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
