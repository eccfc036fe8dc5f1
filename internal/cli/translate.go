package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgpai22/captionit/internal/caption"
	"github.com/mgpai22/captionit/internal/translate"
	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [captions_file]",
	Short: "Translate a caption document to another language using AI",
	Long: `Translate the text of every caption in a JSON caption document.

Timings and order are kept; the output is a caption document that can be
compiled, linted, or loaded into the preview server.

The --overlay flag creates bilingual captions with the translated text
first, followed by the original text on the next line.

Examples:
  captionit translate captions.json --target-language japanese
  captionit translate captions.json -t es --overlay
  captionit translate captions.json -l english -t spanish --provider anthropic -o es.json`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		Bool("overlay", false, "Overlay translated text with original (bilingual captions)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
	translateCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	translateCmd.Flags().
		String("provider", "gemini", "Translation provider (gemini, openai, anthropic)")
	translateCmd.Flags().
		String("prompt", "", "Additional instructions for the translation model")
	translateCmd.Flags().
		Int("concurrency", 3, "Number of parallel translation workers")
	translateCmd.Flags().
		Int("batch-size", translate.DefaultBatchSize, "Number of captions per API request")

	_ = translateCmd.MarkFlagRequired("target-language")
}

type translateRequest struct {
	InputPath     string
	OutputPath    string
	InputLang     string
	TargetLang    string
	Provider      translate.Provider
	Model         string
	ModelOverride bool
	Concurrency   int
	BatchSize     int
}

// checks flag combinations and fills the default output path
func (r *translateRequest) validate() error {
	if r.TargetLang == "" {
		return fmt.Errorf("target language is required")
	}

	if r.InputLang != "" &&
		strings.EqualFold(
			strings.TrimSpace(r.InputLang),
			strings.TrimSpace(r.TargetLang),
		) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			r.InputLang,
			r.TargetLang,
		)
	}

	models := modelsFor(r.Provider)
	if models == nil {
		return fmt.Errorf(
			"unsupported translation provider %q: use gemini, openai, or anthropic",
			r.Provider,
		)
	}

	if r.Model != "" && !r.ModelOverride && !isValidModel(r.Provider, r.Model) {
		return fmt.Errorf(
			"unsupported %s model %q: valid models are %s (use --model-override to bypass)",
			r.Provider,
			r.Model,
			strings.Join(models, ", "),
		)
	}

	if r.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", r.Concurrency)
	}
	if r.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", r.BatchSize)
	}

	if r.OutputPath == "" {
		r.OutputPath = translatedPath(r.InputPath, r.TargetLang)
	}
	return nil
}

// captions.json -> captions.<lang>.json
func translatedPath(inputPath, targetLang string) string {
	ext := filepath.Ext(inputPath)
	if ext == "" {
		ext = ".json"
	}
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	lang := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(targetLang), " ", "-"))
	return fmt.Sprintf("%s.%s%s", base, lang, ext)
}

// translated text on the first line, original below
func overlayCaptions(original, translated []caption.Entry) []caption.Entry {
	out := make([]caption.Entry, len(translated))
	for i, entry := range translated {
		out[i] = entry
		if i < len(original) && original[i].Text != "" {
			out[i].Text = entry.Text + "\n" + original[i].Text
		}
	}
	return out
}

func runTranslate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	providerStr, _ := cmd.Flags().GetString("provider")
	req := translateRequest{InputPath: args[0], Provider: translate.Provider(providerStr)}
	req.TargetLang, _ = cmd.Flags().GetString("target-language")
	req.InputLang, _ = cmd.Flags().GetString("language")
	req.OutputPath, _ = cmd.Flags().GetString("output")
	req.Model, _ = cmd.Flags().GetString("model")
	req.ModelOverride, _ = cmd.Flags().GetBool("model-override")
	req.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	req.BatchSize, _ = cmd.Flags().GetInt("batch-size")
	overlay, _ := cmd.Flags().GetBool("overlay")
	apiKey, _ := cmd.Flags().GetString("api-key")
	prompt, _ := cmd.Flags().GetString("prompt")

	if err := req.validate(); err != nil {
		return err
	}

	if apiKey == "" {
		var envVar string
		apiKey, envVar = cfg.APIKey(string(req.Provider))
		if apiKey == "" {
			return fmt.Errorf(
				"API key is required: use --api-key flag or set %s environment variable",
				envVar,
			)
		}
	}

	entries, err := readCaptions(req.InputPath)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("caption file contains no entries")
	}

	logger.Infow("Starting caption translation",
		"input", req.InputPath,
		"output", req.OutputPath,
		"entries", len(entries),
		"provider", req.Provider,
		"target_language", req.TargetLang,
		"input_language", req.InputLang,
		"overlay", overlay,
		"model", req.Model,
	)

	translator, err := translate.Factory(ctx, req.Provider, apiKey, translate.Options{
		InputLanguage:  req.InputLang,
		TargetLanguage: req.TargetLang,
		Model:          req.Model,
		Prompt:         prompt,
		BatchSize:      req.BatchSize,
		Concurrency:    req.Concurrency,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	translated, err := translator.Captions(ctx, entries)
	if err != nil {
		return err
	}
	logger.Infow("Translation complete", "entries", len(translated))

	if overlay {
		translated = overlayCaptions(entries, translated)
	}

	if err := writeCaptions(req.OutputPath, translated); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(req.OutputPath)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Captions translated successfully: %s\n", absOutput)
	fmt.Fprintf(out, "  Entries: %d\n", len(translated))
	fmt.Fprintf(out, "  Target language: %s\n", req.TargetLang)
	if overlay {
		fmt.Fprintf(out, "  Mode: bilingual overlay\n")
	}

	return nil
}
