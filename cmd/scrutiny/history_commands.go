package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"scrutiny/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past audit verdicts",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func (c *commandContext) withStore(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audits, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *history.Store) error {
				entries, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No audits recorded")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						strconv.FormatInt(entry.ID, 10),
						entry.CreatedAt.Local().Format(time.DateTime),
						entry.SourceFile,
						entry.SourceType,
						formatScore(entry.Score),
						statusLabel(entry.Status),
						strconv.Itoa(len(entry.Violations)),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "When", "Source", "Type", "Score", "Status", "Violations"},
					rows, 1, 5, 7))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of audits to show (0 for all)")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one audit in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid audit id %q", args[0])
			}
			return ctx.withStore(func(store *history.Store) error {
				entry, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Audit %d: %s (%s)\n", entry.ID, entry.SourceFile, entry.SourceType)
				fmt.Fprintf(out, "Run: %s\n", entry.RunID)
				fmt.Fprintf(out, "When: %s\n", entry.CreatedAt.Local().Format(time.DateTime))
				fmt.Fprintf(out, "Score: %s\n", formatScore(entry.Score))
				fmt.Fprintf(out, "Status: %s\n", statusLabel(entry.Status))
				if entry.Summary != "" {
					fmt.Fprintf(out, "Summary: %s\n", entry.Summary)
				}
				if len(entry.Violations) > 0 {
					fmt.Fprintln(out, "Violations:")
					for _, v := range entry.Violations {
						fmt.Fprintf(out, "  - %s\n", v)
					}
				}
				if entry.ReportPath != "" {
					fmt.Fprintf(out, "Report: %s\n", entry.ReportPath)
				}
				return nil
			})
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all audit history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("history clear is destructive; re-run with --force")
			}
			return ctx.withStore(func(store *history.Store) error {
				deleted, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d audits\n", deleted)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm deletion")
	return cmd
}
