package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	apiFlag   string
	tokenFlag string
	rootCmd   = &cobra.Command{
		Use:   "diaryctl",
		Short: "CLI client for the diary backend REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Diary service base URL")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", "tok_local_platelog_dev", "Bearer token")

	// entry subcommands
	entryCmd := &cobra.Command{
		Use:   "entry",
		Short: "Manage diary entries",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a diary entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, _ := cmd.Flags().GetString("content")
			date, _ := cmd.Flags().GetString("date")
			entryType, _ := cmd.Flags().GetString("type")
			feeling, _ := cmd.Flags().GetString("feeling")
			location, _ := cmd.Flags().GetString("location")
			company, _ := cmd.Flags().GetString("company")
			clock, _ := cmd.Flags().GetString("time")
			behaviors, _ := cmd.Flags().GetStringSlice("behavior")
			return runEntryAdd(apiFlag, tokenFlag, entryRequest{
				EntryType: entryType,
				Content:   content,
				Feeling:   feeling,
				Location:  location,
				Company:   company,
				Behaviors: behaviors,
				Date:      date,
				Time:      clock,
			}, os.Stdout)
		},
	}
	addCmd.Flags().StringP("content", "c", "", "What was eaten (required)")
	addCmd.Flags().StringP("date", "d", "", "Calendar date YYYY-MM-DD (required)")
	addCmd.Flags().String("type", "meal", "Entry type: meal, snack or drink")
	addCmd.Flags().String("feeling", "", "Feeling after eating")
	addCmd.Flags().String("location", "", "Where: home, work, restaurant, outside, other")
	addCmd.Flags().String("company", "", "With whom: alone, family, friends, colleagues, other")
	addCmd.Flags().String("time", "", "Time of day HH:MM")
	addCmd.Flags().StringSlice("behavior", nil, "Noted behavior (repeatable)")
	_ = addCmd.MarkFlagRequired("content")
	_ = addCmd.MarkFlagRequired("date")
	entryCmd.AddCommand(addCmd)

	entryCmd.AddCommand(&cobra.Command{
		Use:   "get <entryId>",
		Short: "Fetch a diary entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntryGet(apiFlag, tokenFlag, args[0], os.Stdout)
		},
	})

	entryCmd.AddCommand(&cobra.Command{
		Use:   "rm <entryId>",
		Short: "Delete a diary entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntryDelete(apiFlag, tokenFlag, args[0])
		},
	})

	bookmarkCmd := &cobra.Command{
		Use:   "bookmark <entryId>",
		Short: "Bookmark or unbookmark an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			off, _ := cmd.Flags().GetBool("off")
			return runEntryBookmark(apiFlag, tokenFlag, args[0], !off)
		},
	}
	bookmarkCmd.Flags().Bool("off", false, "Remove the bookmark instead of setting it")
	entryCmd.AddCommand(bookmarkCmd)
	rootCmd.AddCommand(entryCmd)

	// analyze subcommand
	rootCmd.AddCommand(&cobra.Command{
		Use:   "analyze <entryId>",
		Short: "Request an AI assessment of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(apiFlag, tokenFlag, args[0], os.Stdout)
		},
	})

	// quota subcommand
	rootCmd.AddCommand(&cobra.Command{
		Use:   "quota",
		Short: "Show today's remaining analysis quota",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuota(apiFlag, tokenFlag, os.Stdout)
		},
	})

	// merge subcommand
	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "Move guest entries to the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			guest, _ := cmd.Flags().GetString("guest")
			entries, _ := cmd.Flags().GetString("entries")
			if guest == "" {
				return fmt.Errorf("--guest required")
			}
			return runMerge(apiFlag, tokenFlag, guest, splitIDs(entries), os.Stdout)
		},
	}
	mergeCmd.Flags().StringP("guest", "g", "", "Guest user id whose entries to take over (required)")
	mergeCmd.Flags().StringP("entries", "e", "", "Comma-separated entry ids")
	rootCmd.AddCommand(mergeCmd)

	// wipe subcommand
	wipeCmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete the listed entries for the caller",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, _ := cmd.Flags().GetString("entries")
			return runWipe(apiFlag, tokenFlag, splitIDs(entries), os.Stdout)
		},
	}
	wipeCmd.Flags().StringP("entries", "e", "", "Comma-separated entry ids (required)")
	_ = wipeCmd.MarkFlagRequired("entries")
	rootCmd.AddCommand(wipeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
