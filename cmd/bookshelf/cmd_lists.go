package main

import (
	"fmt"

	"bookshelf/internal/entity"
	"bookshelf/internal/form"
	"bookshelf/internal/readinglist"

	"github.com/spf13/cobra"
)

func (c *cli) listsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"reading-lists"},
		Short:   "Manage your reading lists",
	}
	cmd.AddCommand(
		c.listsListCmd(),
		c.listsShowCmd(),
		c.listsCreateCmd(),
		c.listsRenameCmd(),
		c.listsDeleteCmd(),
		c.listsAddCmd(),
		c.listsRemoveCmd(),
		c.listsToggleCmd(),
	)
	return cmd
}

func (c *cli) listsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your reading lists with progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := c.app.lists.List(cmd.Context())
			if err != nil {
				return err
			}
			if c.emit(cmd, lists) {
				return nil
			}
			out := cmd.OutOrStdout()
			if len(lists) == 0 {
				fmt.Fprintln(out, muted(`No reading lists yet. Create one with "bookshelf lists create <name>".`))
				return nil
			}
			rows := [][]string{{"id", "name", "progress"}}
			for _, l := range lists {
				rows = append(rows, []string{l.ID, l.Name, progressText(readinglist.ProgressOf(l))})
			}
			table(out, rows)
			return nil
		},
	}
}

func progressText(p readinglist.Progress) string {
	return fmt.Sprintf("%d/%d (%.0f%%)", p.Completed, p.Total, p.Percent)
}

func (c *cli) listsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <list-id>",
		Short: "Show a reading list and its books",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.app.lists.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c.emit(cmd, v) {
				return nil
			}
			printList(cmd, v.List, v.Books)
			return nil
		},
	}
}

func printList(cmd *cobra.Command, l entity.ReadingList, books []entity.Book) {
	out := cmd.OutOrStdout()
	heading(out, l.Name)
	if l.Description != "" {
		fmt.Fprintln(out, muted(l.Description))
	}
	fmt.Fprintln(out, progressText(readinglist.ProgressOf(l)))

	titles := make(map[string]entity.Book, len(books))
	for _, b := range books {
		titles[b.ID] = b
	}
	rows := [][]string{{"", "id", "title", "author"}}
	for _, id := range l.BookIDs {
		mark := "[ ]"
		if l.IsCompleted(id) {
			mark = doneStyle.Render("[x]")
		}
		b, ok := titles[id]
		if !ok {
			rows = append(rows, []string{mark, id, muted("(unavailable)"), ""})
			continue
		}
		rows = append(rows, []string{mark, id, b.Title, b.Author})
	}
	table(out, rows)
}

func (c *cli) listsCreateCmd() *cobra.Command {
	var f form.ReadingListForm
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a reading list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Name = args[0]
			l, err := c.app.lists.Create(cmd.Context(), f)
			if err != nil {
				return err
			}
			if c.emit(cmd, l) {
				return nil
			}
			c.success(cmd, "Reading list created", fmt.Sprintf("%s (%s)", l.Name, l.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Description, "description", "d", "", "What the list is for")
	return cmd
}

func (c *cli) listsRenameCmd() *cobra.Command {
	var f form.ReadingListForm
	cmd := &cobra.Command{
		Use:   "rename <list-id> <name>",
		Short: "Rename a reading list or change its description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Name = args[1]
			if !cmd.Flags().Changed("description") {
				v, err := c.app.lists.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				f.Description = v.List.Description
			}
			l, err := c.app.lists.Update(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			if c.emit(cmd, l) {
				return nil
			}
			c.success(cmd, "Reading list updated", l.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Description, "description", "d", "", "New description")
	return cmd
}

func (c *cli) listsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a reading list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.lists.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.success(cmd, "Reading list deleted", args[0])
			return nil
		},
	}
}

func (c *cli) listsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <list-id> <book-id>",
		Short: "Add a book to a reading list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.app.lists.AddBook(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if c.emit(cmd, l) {
				return nil
			}
			c.success(cmd, "Book added", fmt.Sprintf("%s now has %d books", l.Name, len(l.BookIDs)))
			return nil
		},
	}
}

func (c *cli) listsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <list-id> <book-id>",
		Short: "Remove a book from a reading list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.app.lists.RemoveBook(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if c.emit(cmd, l) {
				return nil
			}
			c.success(cmd, "Book removed", fmt.Sprintf("%s now has %d books", l.Name, len(l.BookIDs)))
			return nil
		},
	}
}

func (c *cli) listsToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <list-id> <book-id>",
		Short: "Mark a book in a reading list as read or unread",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.app.lists.ToggleCompleted(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if c.emit(cmd, l) {
				return nil
			}
			state := "unread"
			if l.IsCompleted(args[1]) {
				state = "read"
			}
			c.success(cmd, "Marked as "+state, progressText(readinglist.ProgressOf(l)))
			return nil
		},
	}
}
