package main

import (
	"fmt"
	"strings"

	"bookshelf/internal/entity"
	"bookshelf/internal/form"

	"github.com/spf13/cobra"
)

func (c *cli) reviewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reviews",
		Aliases: []string{"review"},
		Short:   "Read and write book reviews",
	}
	cmd.AddCommand(c.reviewsListCmd(), c.reviewsAddCmd(), c.reviewsDeleteCmd())
	return cmd
}

func (c *cli) reviewsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <book-id>",
		Short: "List reviews of a book, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews, err := c.app.reviews.ForBook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c.emit(cmd, reviews) {
				return nil
			}
			printReviews(cmd, reviews)
			return nil
		},
	}
}

func printReviews(cmd *cobra.Command, reviews []entity.Review) {
	out := cmd.OutOrStdout()
	if len(reviews) == 0 {
		fmt.Fprintln(out, muted("No reviews yet."))
		return
	}
	for _, r := range reviews {
		who := orDash(r.UserName)
		if t := r.CreatedTime(); !t.IsZero() {
			who += ", " + t.Local().Format("2006-01-02")
		}
		fmt.Fprintf(out, "%s  %s  %s\n", stars(r.Rating), muted(who), muted("#"+r.ID))
		fmt.Fprintln(out, "  "+strings.ReplaceAll(r.Comment, "\n", "\n  "))
	}
}

func (c *cli) reviewsAddCmd() *cobra.Command {
	var f form.ReviewForm
	cmd := &cobra.Command{
		Use:   "add <book-id>",
		Short: "Review a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.currentUser(cmd)
			if err != nil {
				return err
			}
			f.BookID = args[0]
			r, err := c.app.reviews.Submit(cmd.Context(), user, f)
			if err != nil {
				return err
			}
			if c.emit(cmd, r) {
				return nil
			}
			c.success(cmd, "Review posted", stars(r.Rating))
			return nil
		},
	}
	cmd.Flags().Float64VarP(&f.Rating, "rating", "r", 0, "Rating from 1 to 5")
	cmd.Flags().StringVarP(&f.Comment, "comment", "m", "", "What you thought")
	return cmd
}

func (c *cli) reviewsDeleteCmd() *cobra.Command {
	var bookID string
	cmd := &cobra.Command{
		Use:   "delete <review-id>",
		Short: "Delete one of your reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.currentUser(cmd)
			if err != nil {
				return err
			}
			if err := c.app.reviews.Delete(cmd.Context(), user, bookID, args[0]); err != nil {
				return err
			}
			c.success(cmd, "Review deleted", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&bookID, "book", "b", "", "Book the review belongs to")
	return cmd
}
