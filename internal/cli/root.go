package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"llmq/internal/config"
	"llmq/internal/credentials"
	"llmq/internal/endpoint"
	"llmq/internal/providers"
	"llmq/internal/providers/registry"
	"llmq/internal/providers/transport"
)

// ErrInvalidArgument covers caller mistakes that are caught before any
// network I/O: missing flags, non-positive token counts, empty files.
var ErrInvalidArgument = errors.New("invalid argument")

type options struct {
	endpoint  string
	model     string
	tokens    int
	prompt    string
	input     string
	output    string
	reasoning bool
}

func New(cfg *config.Config) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "llmq",
		Short:         "Query a text-generation endpoint with a prompt and an input file",
		Long:          "Query an OpenAI-compatible endpoint with a prompt and input file, writing the response to an output file or stdout.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.endpoint, "endpoint", "e", "", "endpoint name (openai, google, hf) or a custom URL (required)")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "model identifier (required)")
	cmd.Flags().IntVarP(&opts.tokens, "tokens", "t", 0, "maximum number of tokens to generate (required)")
	cmd.Flags().StringVarP(&opts.prompt, "prompt", "p", "", "path to the system prompt file (required)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "path to the user input file (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "path to save the response (stdout if not set)")
	cmd.Flags().BoolVarP(&opts.reasoning, "reasoning", "r", false, "target a reasoning-class model")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	})

	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config, opts *options) error {
	start := time.Now()

	if err := opts.validate(); err != nil {
		return err
	}

	ep, err := endpoint.Resolve(opts.endpoint)
	if err != nil {
		return err
	}

	apiKey, err := credentials.Resolve(ep)
	if err != nil {
		return err
	}

	systemPrompt, err := readText(opts.prompt, "prompt")
	if err != nil {
		return err
	}
	userInput, err := readText(opts.input, "input")
	if err != nil {
		return err
	}

	provider, err := registry.Build(registry.BuildOptions{
		Endpoint: ep,
		APIKey:   apiKey,
		Invoker:  transport.New(&http.Client{Timeout: cfg.HTTP.ClientTimeout}),
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("model", opts.model).
		Str("dialect", string(ep.Dialect)).
		Str("url", ep.BaseURL).
		Bool("reasoning", opts.reasoning).
		Msg("querying model")

	resp, err := provider.Generate(cmd.Context(), providers.Request{
		Model:        opts.model,
		SystemPrompt: systemPrompt,
		UserInput:    userInput,
		MaxTokens:    opts.tokens,
		Reasoning:    opts.reasoning,
	})
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(resp.Text), 0o644); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
		log.Info().Str("path", opts.output).Msg("response saved to output file")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), resp.Text)
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("done")
	return nil
}

func (o *options) validate() error {
	for _, f := range []struct{ name, value string }{
		{"endpoint", o.endpoint},
		{"model", o.model},
		{"prompt", o.prompt},
		{"input", o.input},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: --%s is required", ErrInvalidArgument, f.name)
		}
	}
	if o.tokens <= 0 {
		return fmt.Errorf("%w: token count must be greater than 0", ErrInvalidArgument)
	}
	return nil
}

func readText(path, kind string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s file: %w", kind, err)
	}
	content := string(b)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: %s file %q is empty", ErrInvalidArgument, kind, path)
	}
	return content, nil
}
