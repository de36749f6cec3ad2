package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"podforge/internal/library"
)

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	episodesCmd := &cobra.Command{
		Use:   "episodes",
		Short: "Inspect the episode library",
	}

	episodesCmd.AddCommand(newEpisodesListCommand(ctx))
	episodesCmd.AddCommand(newEpisodesShowCommand(ctx))
	episodesCmd.AddCommand(newEpisodesDeleteCommand(ctx))

	return episodesCmd
}

func newEpisodesListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored episodes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLibrary(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			episodes, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list episodes: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(episodes) == 0 {
				fmt.Fprintln(out, "No episodes yet. Run 'podforge generate' to create one.")
				return nil
			}

			rows := make([][]string, 0, len(episodes))
			for _, ep := range episodes {
				audio := "yes"
				if ep.AudioPath == "" {
					audio = "no"
				}
				rows = append(rows, []string{
					shortID(ep.ID),
					ep.Title,
					ep.Mode,
					strconv.Itoa(len(ep.SourceURLs)),
					audio,
					ep.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Mode", "Sources", "Audio", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of episodes to show (0 for all)")
	return cmd
}

func newEpisodesShowCommand(ctx *commandContext) *cobra.Command {
	var showTranscript bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one episode's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLibrary(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			ep, err := resolveEpisode(cmd, store, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:         %s\n", ep.ID)
			fmt.Fprintf(out, "Title:      %s\n", ep.Title)
			fmt.Fprintf(out, "Mode:       %s\n", ep.Mode)
			fmt.Fprintf(out, "Created:    %s\n", ep.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Transcript: %s\n", ep.TranscriptPath)
			if ep.AudioPath != "" {
				fmt.Fprintf(out, "Track:      %s\n", ep.AudioPath)
			}
			fmt.Fprintf(out, "Stats:      %d/%d fetched, %d analyzed, %d lines, %d segments\n",
				ep.Stats.Fetched, ep.Stats.TotalURLs, ep.Stats.Analyzed,
				ep.Stats.ScriptLines, ep.Stats.AudioChunks)
			for i, url := range ep.SourceURLs {
				fmt.Fprintf(out, "Source %d:   %s\n", i+1, url)
			}

			if showTranscript {
				content, err := os.ReadFile(ep.TranscriptPath)
				if err != nil {
					return fmt.Errorf("read transcript: %w", err)
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, string(content))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showTranscript, "transcript", "t", false, "Print the transcript contents")
	return cmd
}

func newEpisodesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an episode and its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLibrary(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			ep, err := resolveEpisode(cmd, store, args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), ep.ID); err != nil {
				return fmt.Errorf("delete episode: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%s)\n", shortID(ep.ID), ep.Title)
			return nil
		},
	}
}

func openLibrary(ctx *commandContext) (*library.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := library.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	return store, nil
}

// resolveEpisode accepts a full episode id or an unambiguous prefix.
func resolveEpisode(cmd *cobra.Command, store *library.Store, ref string) (*library.Episode, error) {
	ref = strings.TrimSpace(ref)
	if ep, err := store.Get(cmd.Context(), ref); err == nil {
		return ep, nil
	}

	episodes, err := store.List(cmd.Context(), 0)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	var match *library.Episode
	for _, ep := range episodes {
		if strings.HasPrefix(ep.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("episode id %q is ambiguous", ref)
			}
			match = ep
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no episode matching %q", ref)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
