package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/imadgeboyega/roommate-backend/internal/common/utils"
	"github.com/imadgeboyega/roommate-backend/internal/matching"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print the ranked feed for the acting user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		filter := e.engine.SavedFilters(ctx)
		if path, _ := cmd.Flags().GetString("filters"); path != "" {
			var req matching.FilterRequest
			if err := readJSON(path, &req); err != nil {
				return err
			}
			if err := utils.ValidateStruct(&req); err != nil {
				return fmt.Errorf("invalid filters: %w", err)
			}
			filter = req.ToSettings(e.cfg.User)
		}

		ranked, err := e.engine.GetRankedFeedDetailed(ctx, filter)
		if err != nil {
			return err
		}
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(ranked) > limit {
			ranked = ranked[:limit]
		}

		out := cmd.OutOrStdout()
		if e.cfg.JSON {
			return writeJSON(out, matching.FeedResponse{Candidates: ranked, Total: len(ranked)})
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "POS\tID\tNAME\tFILTER\tSMART")
		for _, rc := range ranked {
			pos := "-"
			if rc.Position > 0 {
				pos = fmt.Sprint(rc.Position)
			}
			fmt.Fprintf(w, "%s\t%s\t%s %s\t%d/%d\t%.1f\n",
				pos, rc.Profile.ID, rc.Profile.FirstName, rc.Profile.LastName,
				rc.FilterScore, matching.NumCriteria, rc.SmartScore)
		}
		return w.Flush()
	},
}

var compatCmd = &cobra.Command{
	Use:   "compat",
	Short: "Print the compatibility breakdown between the acting user and a candidate",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		candidate, _ := cmd.Flags().GetString("candidate")

		breakdown, err := e.engine.GetCompatibilityBreakdown(cmd.Context(), candidate)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if e.cfg.JSON {
			return writeJSON(out, breakdown)
		}

		names := make([]string, 0, len(breakdown.Categories))
		for name := range breakdown.Categories {
			names = append(names, name)
		}
		sort.Strings(names)

		weights := matching.CategoryWeights()
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tWEIGHT\tSCORE")
		for _, name := range names {
			fmt.Fprintf(w, "%s\t%.0f\t%.1f/10\n", name, weights[name], breakdown.Categories[name])
		}
		fmt.Fprintf(w, "overall\t%.0f\t%.1f\n", matching.TotalWeight, breakdown.Overall)
		return w.Flush()
	},
}

var swipeCmd = &cobra.Command{
	Use:   "swipe",
	Short: "Record a swipe for the acting user and report whether it matched",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		candidate, _ := cmd.Flags().GetString("candidate")
		liked, _ := cmd.Flags().GetBool("like")
		superLiked, _ := cmd.Flags().GetBool("super")

		outcome, err := e.engine.RecordSwipeDetailed(cmd.Context(), candidate, liked, superLiked)
		if err != nil {
			return err
		}

		// Persist the new swipe so the next invocation sees it
		if path, _ := cmd.Flags().GetString("save"); path != "" {
			if err := saveFixtures(path, e.store); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if e.cfg.JSON {
			return writeJSON(out, outcome)
		}
		if !outcome.Matched {
			fmt.Fprintf(out, "recorded %s -> %s (liked=%t), no match yet\n", outcome.Swipe.From, outcome.Swipe.To, outcome.Swipe.Liked)
			return nil
		}
		fmt.Fprintf(out, "it's a match! conversation %s (new=%t)\n", outcome.ConversationID, outcome.Created)
		return nil
	},
}

func init() {
	feedCmd.Flags().String("filters", "", "JSON file with filter settings overriding the saved ones")
	feedCmd.Flags().Int("limit", 0, "maximum number of candidates to print")

	compatCmd.Flags().StringP("candidate", "c", "", "candidate user id")
	_ = compatCmd.MarkFlagRequired("candidate")

	swipeCmd.Flags().StringP("candidate", "c", "", "candidate user id")
	swipeCmd.Flags().Bool("like", false, "like the candidate (default is a pass)")
	swipeCmd.Flags().Bool("super", false, "super like the candidate")
	swipeCmd.Flags().String("save", "", "write the updated fixtures to this file")
	_ = swipeCmd.MarkFlagRequired("candidate")
}

func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func saveFixtures(path string, store *matching.MemoryStore) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeJSON(f, store.Snapshot()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
