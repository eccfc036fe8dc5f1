package translate

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mgpai22/captionit/internal/caption"
	"github.com/mgpai22/captionit/internal/subtitle"
)

func TestFactoryProviders(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "Japanese"}

	for _, p := range []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
		translator, err := Factory(ctx, p, "fake-key", opts)
		if err != nil {
			t.Fatalf("Factory(%s) returned error: %v", p, err)
		}
		if translator.Provider() != string(p) {
			t.Errorf("Factory(%s) built a %s translator", p, translator.Provider())
		}
	}
}

func TestFactoryErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		apiKey   string
		opts     Options
	}{
		{"missing target language", ProviderGemini, "fake-key", Options{}},
		{"missing api key", ProviderOpenAI, "", Options{TargetLanguage: "German"}},
		{"unknown provider", Provider("deepl"), "fake-key", Options{TargetLanguage: "French"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Factory(context.Background(), tt.provider, tt.apiKey, tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// answers every prompt by upper-casing the captions it was given
type fakeModel struct {
	mu      sync.Mutex
	prompts []string
	// rewrites the decoded requests into replies, defaults to upper case
	answer func(reqs []Request) []Reply
	err    error
	delay  func(reqs []Request) time.Duration

	inFlight, peak atomic.Int32
}

func (m *fakeModel) Name() string { return "fake" }

func (m *fakeModel) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for p := m.peak.Load(); n > p && !m.peak.CompareAndSwap(p, n); p = m.peak.Load() {
	}

	reqs := promptRequests(prompt)
	if m.delay != nil {
		select {
		case <-time.After(m.delay(reqs)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.err != nil {
		return "", m.err
	}

	answer := m.answer
	if answer == nil {
		answer = func(reqs []Request) []Reply {
			out := make([]Reply, len(reqs))
			for i, r := range reqs {
				out[i] = Reply{Index: r.Index, Text: strings.ToUpper(r.Text)}
			}
			return out
		}
	}
	data, _ := json.Marshal(answer(reqs))
	return "```json\n" + string(data) + "\n```", nil
}

func promptRequests(prompt string) []Request {
	start := strings.Index(prompt, inputMarker) + len(inputMarker)
	end := strings.Index(prompt, outputMarker)
	var reqs []Request
	_ = json.Unmarshal([]byte(prompt[start:end]), &reqs)
	return reqs
}

func sampleEntries(n int) []caption.Entry {
	entries := make([]caption.Entry, n)
	for i := range entries {
		entries[i] = caption.Entry{
			Text:      "line " + string(rune('a'+i)),
			StartTime: float64(i * 2),
			EndTime:   float64(i*2) + 1.5,
		}
	}
	return entries
}

func TestCaptionsKeepsTimingsAndOrder(t *testing.T) {
	entries := []caption.Entry{
		{Text: "one", StartTime: 0, EndTime: 1},
		{Text: "two\nlines", StartTime: 1, EndTime: 2.5},
		{Text: "three", StartTime: 9, EndTime: 4},
	}
	model := &fakeModel{}

	got, err := New(model, Options{TargetLanguage: "French", BatchSize: 2}).Captions(context.Background(), entries)
	if err != nil {
		t.Fatalf("Captions failed: %v", err)
	}
	want := []caption.Entry{
		{Text: "ONE", StartTime: 0, EndTime: 1},
		{Text: "TWO\nLINES", StartTime: 1, EndTime: 2.5},
		{Text: "THREE", StartTime: 9, EndTime: 4},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if entries[0].Text != "one" {
		t.Error("input entries were modified")
	}
	if len(model.prompts) != 2 {
		t.Errorf("expected 2 requests, got %d", len(model.prompts))
	}
}

func TestCaptionsEmpty(t *testing.T) {
	model := &fakeModel{}
	got, err := New(model, Options{TargetLanguage: "French"}).Captions(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Errorf("expected empty result, got %v, %v", got, err)
	}
	if len(model.prompts) != 0 {
		t.Error("no request should be sent for no captions")
	}
}

func TestCaptionsSendsCueTiming(t *testing.T) {
	model := &fakeModel{}
	entries := []caption.Entry{{Text: "hi", StartTime: 1.5, EndTime: 3.25}}

	if _, err := New(model, Options{TargetLanguage: "German"}).Captions(context.Background(), entries); err != nil {
		t.Fatalf("Captions failed: %v", err)
	}

	reqs := promptRequests(model.prompts[0])
	if len(reqs) != 1 || reqs[0].Start != 1.5 || reqs[0].End != 3.25 {
		t.Errorf("prompt carries %+v, want start 1.5 and end 3.25", reqs)
	}
}

func TestCaptionsConcurrentBatchesStayOrdered(t *testing.T) {
	model := &fakeModel{
		// later batches finish first
		delay: func(reqs []Request) time.Duration {
			return time.Duration(20-reqs[0].Index) * time.Millisecond
		},
	}
	entries := sampleEntries(11)

	got, err := New(model, Options{TargetLanguage: "Korean", BatchSize: 2, Concurrency: 3}).
		Captions(context.Background(), entries)
	if err != nil {
		t.Fatalf("Captions failed: %v", err)
	}
	for i, e := range got {
		if e.Text != strings.ToUpper(entries[i].Text) || e.StartTime != entries[i].StartTime {
			t.Fatalf("entry %d out of order: %+v", i, e)
		}
	}
	if len(model.prompts) != 6 {
		t.Errorf("expected 6 requests, got %d", len(model.prompts))
	}
	if model.peak.Load() > 3 {
		t.Errorf("more than 3 requests in flight: %d", model.peak.Load())
	}
}

func TestCaptionsModelError(t *testing.T) {
	model := &fakeModel{err: errors.New("quota exceeded")}

	_, err := New(model, Options{TargetLanguage: "Hindi", BatchSize: 2}).
		Captions(context.Background(), sampleEntries(6))
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected model error, got %v", err)
	}
}

func TestCaptionsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&fakeModel{}, Options{TargetLanguage: "Hindi", BatchSize: 2}).
		Captions(ctx, sampleEntries(6))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCaptionsRejectsReplyThatBreaksCue(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"blank line", "first\n\nsecond"},
		{"timing arrow", "00:00:01.000 --> 00:00:02.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeModel{answer: func(reqs []Request) []Reply {
				return []Reply{{Index: reqs[0].Index, Text: tt.text}}
			}}

			_, err := New(model, Options{TargetLanguage: "Italian"}).
				Captions(context.Background(), sampleEntries(1))
			if !errors.Is(err, ErrReply) || !errors.Is(err, subtitle.ErrCompilation) {
				t.Errorf("expected ErrReply wrapping ErrCompilation, got %v", err)
			}
		})
	}
}

func TestCaptionsRejectsIncompleteReply(t *testing.T) {
	model := &fakeModel{answer: func(reqs []Request) []Reply {
		return []Reply{{Index: reqs[0].Index, Text: "solo"}}
	}}

	_, err := New(model, Options{TargetLanguage: "Italian"}).
		Captions(context.Background(), sampleEntries(2))
	if !errors.Is(err, ErrReply) || !strings.Contains(err.Error(), "caption 2 was not translated") {
		t.Errorf("expected missing caption error, got %v", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	opts := Options{
		InputLanguage:  "English",
		TargetLanguage: "Japanese",
		Prompt:         "Keep names untranslated.",
	}
	batch := []Request{
		{Index: 4, Text: "Hello world", Start: 10, End: 12.5},
		{Index: 5, Text: "Goodbye", Start: 13, End: 14},
	}

	prompt := BuildPrompt(opts, batch)

	for _, want := range []string{
		"Translate these English video captions to Japanese.",
		"read between its start and end",
		"\"-->\"",
		"Additional instructions: Keep names untranslated.",
		`"index": 4`,
		`"end": 12.5`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt should contain %q", want)
		}
	}
	if got := promptRequests(prompt); len(got) != 2 || got[1] != batch[1] {
		t.Errorf("prompt input = %+v, want %+v", got, batch)
	}
}

func TestBuildPromptWithoutInputLanguage(t *testing.T) {
	prompt := BuildPrompt(Options{TargetLanguage: "Spanish"}, []Request{{Index: 0, Text: "Hello", End: 1}})

	if !strings.Contains(prompt, "Translate these video captions to Spanish.") {
		t.Error("prompt should name only the target language")
	}
	if strings.Contains(prompt, "Additional instructions") {
		t.Error("prompt should not carry empty additional instructions")
	}
}

func TestChunk(t *testing.T) {
	reqs := make([]Request, 5)
	tests := []struct {
		size int
		want []int
	}{
		{2, []int{2, 2, 1}},
		{5, []int{5}},
		{50, []int{5}},
	}

	for _, tt := range tests {
		batches := chunk(reqs, tt.size)
		if len(batches) != len(tt.want) {
			t.Fatalf("chunk(5, %d) gave %d batches, want %d", tt.size, len(batches), len(tt.want))
		}
		for i, b := range batches {
			if len(b) != tt.want[i] {
				t.Errorf("chunk(5, %d) batch %d has %d requests, want %d", tt.size, i, len(b), tt.want[i])
			}
		}
	}
}

// Integration test: only runs if OPENAI_API_KEY is set
func TestOpenAITranslatorIntegration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set; skipping integration test")
	}

	ctx := context.Background()
	translator, err := Factory(ctx, ProviderOpenAI, apiKey, Options{TargetLanguage: "Spanish"})
	if err != nil {
		t.Fatalf("Factory error: %v", err)
	}

	got, err := translator.Captions(ctx, []caption.Entry{
		{Text: "Hello", StartTime: 0, EndTime: 1},
		{Text: "Goodbye", StartTime: 1, EndTime: 2},
	})
	if err != nil {
		t.Fatalf("Captions error: %v", err)
	}
	for i, e := range got {
		if e.Text == "" {
			t.Errorf("caption %d has empty text", i)
		}
	}
}
