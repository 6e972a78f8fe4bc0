package main

import (
	"fmt"
	"strings"

	"bookshelf/internal/form"

	"github.com/spf13/cobra"
)

func (c *cli) recommendCmd() *cobra.Command {
	var f form.RecommendationForm
	var listID string
	cmd := &cobra.Command{
		Use:   "recommend <what you are in the mood for>",
		Short: "Get book suggestions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.currentUser(cmd); err != nil {
				return err
			}
			f.Query = strings.Join(args, " ")
			if listID != "" {
				v, err := c.app.lists.Get(cmd.Context(), listID)
				if err != nil {
					return err
				}
				f.BookIDs = append(f.BookIDs, v.List.BookIDs...)
			}

			recs, err := c.app.recs.Recommend(cmd.Context(), f)
			if err != nil {
				return err
			}
			if c.emit(cmd, recs) {
				return nil
			}
			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(out, muted("No suggestions this time. Try describing it differently."))
				return nil
			}
			heading(out, "Suggestions")
			for i, r := range recs {
				fmt.Fprintf(out, "%d. %s by %s %s\n", i+1, r.Title, r.Author, muted(fmt.Sprintf("(%.0f%%)", r.Confidence*100)))
				if r.Reason != "" {
					fmt.Fprintln(out, "   "+muted(r.Reason))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&f.Limit, "limit", "n", 0, "How many suggestions (1-20)")
	cmd.Flags().StringSliceVar(&f.BookIDs, "book", nil, "Book ids you liked")
	cmd.Flags().StringVar(&listID, "list", "", "Use the books of this reading list as context")
	return cmd
}
