package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mgpai22/captionit/internal/caption"
)

// ErrReply marks a model reply that cannot be turned into captions.
var ErrReply = errors.New("translate: unusable model reply")

// one caption as sent to the model
type Request struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// one translated caption as returned by the model
type Reply struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Completer sends a single prompt to a language model and returns the text
// of its answer.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

const (
	DefaultBatchSize   = 50
	DefaultConcurrency = 3
)

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // captions per request (default 50)
	Concurrency    int // requests in flight (default 3)
}

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

func (o Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return DefaultConcurrency
}

// Translator rewrites caption text through a Completer, batch by batch.
type Translator struct {
	model Completer
	opts  Options
}

func New(model Completer, opts Options) *Translator {
	return &Translator{model: model, opts: opts}
}

// Factory builds a Translator backed by the given provider.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (*Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	var (
		model Completer
		err   error
	)
	switch provider {
	case ProviderGemini:
		model, err = newGemini(ctx, apiKey, opts.Model)
	case ProviderOpenAI:
		model = newOpenAI(apiKey, opts.Model)
	case ProviderAnthropic:
		model = newAnthropic(apiKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}
	return New(model, opts), nil
}

// name of the backing provider
func (t *Translator) Provider() string {
	return t.model.Name()
}

// Captions returns entries with translated text and unchanged timings, in
// the same order. Any batch failure fails the whole call.
func (t *Translator) Captions(ctx context.Context, entries []caption.Entry) ([]caption.Entry, error) {
	out := make([]caption.Entry, len(entries))
	copy(out, entries)
	if len(entries) == 0 {
		return out, nil
	}

	requests := make([]Request, len(entries))
	for i, e := range entries {
		requests[i] = Request{Index: i, Text: e.Text, Start: e.StartTime, End: e.EndTime}
	}

	texts, err := runBatches(ctx, chunk(requests, t.opts.batchSize()), t.opts.concurrency(), t.translateBatch)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Text = texts[i]
	}
	return out, nil
}

// returns one translated text per request, in request order
func (t *Translator) translateBatch(ctx context.Context, batch []Request) ([]string, error) {
	answer, err := t.model.Complete(ctx, BuildPrompt(t.opts, batch))
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", t.model.Name(), err)
	}
	return parseReply(answer, batch)
}

const (
	inputMarker  = "Input JSON:\n"
	outputMarker = "\n\nOutput the translated JSON array only:"
)

// BuildPrompt creates the translation prompt for one batch of captions.
func BuildPrompt(opts Options, batch []Request) string {
	var sb strings.Builder

	if opts.InputLanguage != "" {
		fmt.Fprintf(&sb, "Translate these %s video captions to %s.\n\n", opts.InputLanguage, opts.TargetLanguage)
	} else {
		fmt.Fprintf(&sb, "Translate these video captions to %s.\n\n", opts.TargetLanguage)
	}

	sb.WriteString("Each caption has an index, its text, and the start and end of the time it is\n")
	sb.WriteString("shown on screen, in seconds. Rules:\n")
	sb.WriteString("- Keep every translation short enough to be read between its start and end.\n")
	sb.WriteString("- Keep line breaks where the original has them.\n")
	sb.WriteString("- Never output an empty line inside a caption or the sequence \"-->\".\n")
	sb.WriteString("- Answer with a JSON array of {\"index\", \"text\"} objects, one per caption,\n")
	sb.WriteString("  using the input indices. No explanations, no markdown.\n\n")

	if opts.Prompt != "" {
		fmt.Fprintf(&sb, "Additional instructions: %s\n\n", opts.Prompt)
	}

	sb.WriteString(inputMarker)
	data, _ := json.MarshalIndent(batch, "", "  ")
	sb.Write(data)
	sb.WriteString(outputMarker)

	return sb.String()
}
