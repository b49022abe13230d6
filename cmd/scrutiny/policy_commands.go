package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scrutiny/internal/policy"
)

func newPolicyCommand(ctx *commandContext) *cobra.Command {
	policyCmd := &cobra.Command{
		Use:   "policy",
		Short: "Manage the policy vector index",
	}

	policyCmd.AddCommand(newPolicyShowCommand(ctx))
	policyCmd.AddCommand(newPolicyRebuildCommand(ctx))
	policyCmd.AddCommand(newPolicyQueryCommand(ctx))

	return policyCmd
}

func newPolicyShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the policy document and its chunking configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(cfg.Policy.DocumentPath)
			if err != nil {
				return fmt.Errorf("read policy document: %w", err)
			}
			chunks := policy.Chunk(string(data), cfg.Policy.ChunkSize, cfg.Policy.ChunkOverlap)

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Document", cfg.Policy.DocumentPath},
				{"Index", cfg.Policy.IndexPath},
				{"Chunk size", fmt.Sprintf("%d", cfg.Policy.ChunkSize)},
				{"Chunk overlap", fmt.Sprintf("%d", cfg.Policy.ChunkOverlap)},
				{"Chunks", fmt.Sprintf("%d", len(chunks))},
				{"Embedding model", cfg.Embedding.Model},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows))
			fmt.Fprintln(out, strings.TrimRight(string(data), "\n"))
			return nil
		},
	}
}

func newPolicyRebuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Re-chunk and re-embed the policy document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			index, err := openPolicyIndex(cmd.Context(), cfg, ctx.ensureLogger())
			if err != nil {
				return err
			}
			if err := index.Build(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt index with %d chunks at %s\n", index.Len(), cfg.Policy.IndexPath)
			return nil
		},
	}
}

func newPolicyQueryCommand(ctx *commandContext) *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Retrieve the policy snippets nearest to a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if k <= 0 {
				k = cfg.Policy.TopK
			}
			index, err := openPolicyIndex(cmd.Context(), cfg, ctx.ensureLogger())
			if err != nil {
				return err
			}
			snippets, err := index.Retrieve(cmd.Context(), args[0], k)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, snippet := range snippets {
				fmt.Fprintf(out, "[%d] distance=%.4f\n%s\n\n", i+1, snippet.Distance, snippet.Text)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "top", "k", 0, "Number of snippets to retrieve (defaults to policy.top_k)")
	return cmd
}
