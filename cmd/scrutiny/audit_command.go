package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scrutiny/internal/pipeline"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	var transcriptOut string

	cmd := &cobra.Command{
		Use:   "audit <file>",
		Short: "Audit a call recording or chat log against the policy",
		Long: `Audit runs the full pipeline on a single artifact: audio files
(.mp3, .wav) are transcribed and diarized; chat logs (.txt, .json) are parsed
directly. The transcript is checked against the policy index and the verdict
is stored in history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// Fail fast on unusable inputs before building the index and
			// external clients.
			if _, err := pipeline.ClassifySource(args[0]); err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			p, store, err := buildPipeline(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			outcome, err := p.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if transcriptOut != "" {
				if err := writeTranscriptJSON(transcriptOut, outcome.Utterances); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Transcript written to %s\n", transcriptOut)
			}

			renderOutcome(cmd.OutOrStdout(), outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&transcriptOut, "transcript-out", "", "Write the speaker-attributed transcript as JSON to this path")
	return cmd
}

func writeTranscriptJSON(path string, utterances any) error {
	encoded, err := json.MarshalIndent(utterances, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
