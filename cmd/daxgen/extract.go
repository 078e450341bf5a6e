package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucasefe/daxgen"
	"github.com/lucasefe/daxgen/extract"
	"github.com/lucasefe/daxgen/internal/config"
)

func newExtractCmd(a *app) *cobra.Command {
	var flags analysisFlags
	var description string

	cmd := &cobra.Command{
		Use:   "extract <image|->",
		Short: "Extract a table from an image or a description and analyze it",
		Long: `Sends an image of a table, or a free-text description read from stdin
("-") or --description, to the configured vision model and analyzes the
columns it returns. Requires llm.api_key (DAXGEN_LLM_API_KEY).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.HasLLM() {
				return errors.New("no extraction model configured, set llm.api_key or DAXGEN_LLM_API_KEY")
			}
			if len(args) == 0 && description == "" {
				return errors.New("an image path, \"-\" or --description is required")
			}

			cfg, err := flags.config(a.cfg, "")
			if err != nil {
				return err
			}
			client := newExtractor(a.cfg.LLM)
			ctx := cmd.Context()

			var result *daxgen.Result
			switch {
			case description != "":
				result, err = daxgen.AnalyzeText(ctx, client, description, cfg)
			case args[0] == "-":
				text, readErr := io.ReadAll(cmd.InOrStdin())
				if readErr != nil {
					return fmt.Errorf("failed to read stdin: %w", readErr)
				}
				result, err = daxgen.AnalyzeText(ctx, client, strings.TrimSpace(string(text)), cfg)
			default:
				data, readErr := os.ReadFile(args[0])
				if readErr != nil {
					return fmt.Errorf("failed to read image: %w", readErr)
				}
				slog.Debug("extracting image", "path", args[0], "bytes", len(data))
				result, err = daxgen.AnalyzeImage(ctx, client, data, imageMimeType(args[0], data), cfg)
			}
			if err != nil {
				return err
			}
			return flags.emit(cmd.OutOrStdout(), result)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&description, "description", "d", "", "describe the table instead of sending an image")
	return cmd
}

func newExtractor(cfg config.LLMConfig) *extract.Client {
	return extract.NewClient(extract.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		MaxTokens:  cfg.MaxTokens,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}, slog.Default())
}

// imageMimeType uses the file extension and sniffs the content otherwise.
func imageMimeType(path string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); strings.HasPrefix(t, "image/") {
		return t
	}
	return http.DetectContentType(data)
}
