package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative tasks (admin role required)",
	}
	cmd.AddCommand(c.adminUsersCmd(), c.adminReviewsCmd(), c.adminDeleteReviewCmd())
	return cmd
}

func (c *cli) adminUsersCmd() *cobra.Command {
	var page, size int
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.admin.Users(cmd.Context(), page, size)
			if err != nil {
				return err
			}
			if c.emit(cmd, p) {
				return nil
			}
			out := cmd.OutOrStdout()
			rows := [][]string{{"id", "email", "name", "role"}}
			for _, u := range p.Items {
				rows = append(rows, []string{u.ID, u.Email, orDash(u.Name), u.Role})
			}
			table(out, rows)
			pageFooter(out, p.Meta)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&size, "page-size", 20, "Users per page")
	return cmd
}

func (c *cli) adminReviewsCmd() *cobra.Command {
	var page, size int
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "List all reviews, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.admin.Reviews(cmd.Context(), page, size)
			if err != nil {
				return err
			}
			if c.emit(cmd, p) {
				return nil
			}
			out := cmd.OutOrStdout()
			rows := [][]string{{"id", "book", "by", "rating", "comment"}}
			for _, r := range p.Items {
				rows = append(rows, []string{r.ID, r.BookID, orDash(r.UserName), fmt.Sprintf("%.0f", r.Rating), truncate(r.Comment, 48)})
			}
			table(out, rows)
			pageFooter(out, p.Meta)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&size, "page-size", 20, "Reviews per page")
	return cmd
}

func (c *cli) adminDeleteReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-review <review-id>",
		Short: "Delete any review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.admin.DeleteReview(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.success(cmd, "Review deleted", args[0])
			return nil
		},
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
