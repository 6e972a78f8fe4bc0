package main

import (
	"fmt"
	"strconv"

	"bookshelf/internal/book"
	"bookshelf/internal/entity"
	"bookshelf/internal/form"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func (c *cli) booksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "books",
		Aliases: []string{"book"},
		Short:   "Browse and manage the catalog",
	}
	cmd.AddCommand(
		c.booksListCmd(),
		c.booksShowCmd(),
		c.booksGenresCmd(),
		c.booksAddCmd(),
		c.booksEditCmd(),
		c.booksDeleteCmd(),
	)
	return cmd
}

func (c *cli) booksListCmd() *cobra.Command {
	var f book.Filter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, optionally filtered by genre or search term",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := c.app.books.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			if c.emit(cmd, page) {
				return nil
			}
			out := cmd.OutOrStdout()
			if len(page.Items) == 0 {
				fmt.Fprintln(out, muted("No books match."))
				return nil
			}
			rows := [][]string{{"id", "title", "author", "genre", "rating"}}
			for _, b := range page.Items {
				rows = append(rows, []string{b.ID, b.Title, b.Author, orDash(b.Genre), stars(b.Rating)})
			}
			table(out, rows)
			pageFooter(out, page.Meta)
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Genre, "genre", "g", "", "Only this genre")
	cmd.Flags().StringVarP(&f.Search, "search", "s", "", "Match title, author or ISBN")
	cmd.Flags().IntVar(&f.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&f.PageSize, "page-size", 20, "Books per page")
	return cmd
}

func (c *cli) booksShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <book-id>",
		Short: "Show a book with its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.app.books.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c.emit(cmd, d) {
				return nil
			}
			printBook(cmd, d.Book)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			heading(out, fmt.Sprintf("Reviews (%d, average %.1f)", d.ReviewCount, d.AverageRating))
			printReviews(cmd, d.Reviews)
			return nil
		},
	}
}

func printBook(cmd *cobra.Command, b entity.Book) {
	out := cmd.OutOrStdout()
	heading(out, b.Title)
	fmt.Fprintln(out, "by "+b.Author)
	rows := [][]string{{"field", "value"}, {"id", b.ID}, {"genre", orDash(b.Genre)}, {"rating", stars(b.Rating)}}
	if b.PublishedYear > 0 {
		rows = append(rows, []string{"published", strconv.Itoa(b.PublishedYear)})
	}
	if b.ISBN != "" {
		rows = append(rows, []string{"isbn", b.ISBN})
	}
	table(out, rows)
	if b.Description != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, b.Description)
	}
}

func (c *cli) booksGenresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List the genres present in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			genres, err := c.app.books.Genres(cmd.Context())
			if err != nil {
				return err
			}
			if c.emit(cmd, genres) {
				return nil
			}
			for _, g := range genres {
				fmt.Fprintln(cmd.OutOrStdout(), g)
			}
			return nil
		},
	}
}

func bookFlags(fs *pflag.FlagSet, f *form.BookForm) {
	fs.StringVar(&f.Title, "title", "", "Title")
	fs.StringVar(&f.Author, "author", "", "Author")
	fs.StringVar(&f.Genre, "genre", "", "Genre")
	fs.StringVar(&f.Description, "description", "", "Description")
	fs.StringVar(&f.CoverImage, "cover", "", "Cover image URL")
	fs.IntVar(&f.PublishedYear, "year", 0, "Year of publication")
	fs.StringVar(&f.ISBN, "isbn", "", "ISBN-10 or ISBN-13")
	fs.Float64Var(&f.Rating, "rating", 0, "Rating from 0 to 5")
}

func (c *cli) booksAddCmd() *cobra.Command {
	var f form.BookForm
	var lookup bool
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if lookup {
				found, err := c.app.lookup.LookupISBN(cmd.Context(), f.ISBN)
				if err != nil {
					return err
				}
				prefill(&f, found)
			}
			b, err := c.app.books.Create(cmd.Context(), f)
			if err != nil {
				return err
			}
			if c.emit(cmd, b) {
				return nil
			}
			c.success(cmd, "Book added", fmt.Sprintf("%s (%s)", b.Title, b.ID))
			return nil
		},
	}
	bookFlags(cmd.Flags(), &f)
	cmd.Flags().BoolVar(&lookup, "lookup", false, "Fill missing fields from Open Library by --isbn")
	return cmd
}

// prefill copies fields of found into f where f has none.
func prefill(f *form.BookForm, found entity.Book) {
	if f.Title == "" {
		f.Title = found.Title
	}
	if f.Author == "" {
		f.Author = found.Author
	}
	if f.Genre == "" {
		f.Genre = found.Genre
	}
	if f.Description == "" {
		f.Description = found.Description
	}
	if f.CoverImage == "" {
		f.CoverImage = found.CoverImage
	}
	if f.PublishedYear == 0 {
		f.PublishedYear = found.PublishedYear
	}
}

func (c *cli) booksEditCmd() *cobra.Command {
	var changes form.BookForm
	cmd := &cobra.Command{
		Use:   "edit <book-id>",
		Short: "Change fields of a book (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := c.app.books.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f := form.BookFormFrom(current)
			fs := cmd.Flags()
			if fs.Changed("title") {
				f.Title = changes.Title
			}
			if fs.Changed("author") {
				f.Author = changes.Author
			}
			if fs.Changed("genre") {
				f.Genre = changes.Genre
			}
			if fs.Changed("description") {
				f.Description = changes.Description
			}
			if fs.Changed("cover") {
				f.CoverImage = changes.CoverImage
			}
			if fs.Changed("year") {
				f.PublishedYear = changes.PublishedYear
			}
			if fs.Changed("isbn") {
				f.ISBN = changes.ISBN
			}
			if fs.Changed("rating") {
				f.Rating = changes.Rating
			}

			b, err := c.app.books.Update(cmd.Context(), current.ID, f)
			if err != nil {
				return err
			}
			if c.emit(cmd, b) {
				return nil
			}
			c.success(cmd, "Book updated", b.Title)
			return nil
		},
	}
	bookFlags(cmd.Flags(), &changes)
	return cmd
}

func (c *cli) booksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <book-id>",
		Short: "Remove a book from the catalog (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.books.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.success(cmd, "Book deleted", args[0])
			return nil
		},
	}
}
