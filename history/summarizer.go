package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/troupe-dev/troupe"
)

// Summarizer condenses a span of conversation into a short digest.
type Summarizer interface {
	Summarize(ctx context.Context, msgs []troupe.Message) (string, error)
}

// SummarizerFunc adapts a function to the Summarizer interface.
type SummarizerFunc func(ctx context.Context, msgs []troupe.Message) (string, error)

// Summarize calls the function.
func (f SummarizerFunc) Summarize(ctx context.Context, msgs []troupe.Message) (string, error) {
	return f(ctx, msgs)
}

// summaryPrompt constrains the model to a factual digest.
const summaryPrompt = "Summarize the following conversation in a few sentences. " +
	"Preserve concrete facts, names, numbers, decisions, and open questions. " +
	"Do not add commentary."

// ModelSummarizer produces digests with a chat model.
type ModelSummarizer struct {
	provider troupe.ChatProvider
	opts     []troupe.Option
}

// NewModelSummarizer creates a summarizer backed by the given provider.
// Chat options (model, max tokens) are applied to every summary call.
func NewModelSummarizer(provider troupe.ChatProvider, opts ...troupe.Option) *ModelSummarizer {
	return &ModelSummarizer{provider: provider, opts: opts}
}

// Summarize sends the span to the model and returns its digest.
func (s *ModelSummarizer) Summarize(ctx context.Context, msgs []troupe.Message) (string, error) {
	prompt := make([]troupe.Message, 0, len(msgs)+1)
	prompt = append(prompt, troupe.NewSystemMessage(summaryPrompt))
	prompt = append(prompt, msgs...)

	resp, err := s.provider.Chat(ctx, prompt, s.opts...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// Compact is the deterministic fallback digest: one line per message, each
// trimmed to fit, under a heading naming how many messages were folded in.
func Compact(msgs []troupe.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary of %d earlier messages:\n", len(msgs))
	for _, msg := range msgs {
		line := strings.TrimSpace(msg.Content)
		if len(line) > 120 {
			line = line[:117] + "..."
		}
		who := string(msg.Role)
		if msg.Agent != "" {
			who = msg.Agent
		}
		fmt.Fprintf(&b, "- %s: %s\n", who, line)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
