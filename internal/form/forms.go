package form

import (
	"strings"

	"bookshelf/internal/entity"
)

type SignInForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (f *SignInForm) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
}

type SignUpForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
	Name     string `json:"name" validate:"notblank,max=100"`
}

func (f *SignUpForm) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
	f.Name = strings.TrimSpace(f.Name)
}

type BookForm struct {
	Title         string  `json:"title" validate:"notblank,max=300"`
	Author        string  `json:"author" validate:"notblank,max=200"`
	Genre         string  `json:"genre" validate:"max=100"`
	Description   string  `json:"description" validate:"max=5000"`
	CoverImage    string  `json:"coverImage" validate:"omitempty,url"`
	PublishedYear int     `json:"publishedYear" validate:"omitempty,gte=1000,lte=2100"`
	ISBN          string  `json:"isbn" validate:"omitempty,isbn"`
	Rating        float64 `json:"rating" validate:"gte=0,lte=5"`
}

func (f *BookForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Author = strings.TrimSpace(f.Author)
	f.Genre = strings.TrimSpace(f.Genre)
	f.Description = strings.TrimSpace(f.Description)
	f.CoverImage = strings.TrimSpace(f.CoverImage)
	f.ISBN = strings.TrimSpace(f.ISBN)
}

// BookFormFrom prefills a form from an existing record, for partial edits.
func BookFormFrom(b entity.Book) BookForm {
	return BookForm{
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		Description:   b.Description,
		CoverImage:    b.CoverImage,
		PublishedYear: b.PublishedYear,
		ISBN:          b.ISBN,
		Rating:        b.Rating,
	}
}

// Book converts the form into a record carrying id.
func (f BookForm) Book(id string) entity.Book {
	return entity.Book{
		ID:            id,
		Title:         f.Title,
		Author:        f.Author,
		Genre:         f.Genre,
		Description:   f.Description,
		CoverImage:    f.CoverImage,
		Rating:        f.Rating,
		PublishedYear: f.PublishedYear,
		ISBN:          f.ISBN,
	}
}

type ReviewForm struct {
	BookID  string  `json:"bookId" validate:"notblank"`
	Rating  float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string  `json:"comment" validate:"notblank,max=2000"`
}

func (f *ReviewForm) Normalize() {
	f.BookID = strings.TrimSpace(f.BookID)
	f.Comment = strings.TrimSpace(f.Comment)
}

type ReadingListForm struct {
	Name        string `json:"name" validate:"notblank,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (f *ReadingListForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
}

type RecommendationForm struct {
	Query   string   `json:"query" validate:"notblank,min=3,max=500"`
	Limit   int      `json:"limit" validate:"omitempty,gte=1,lte=20"`
	BookIDs []string `json:"bookIds" validate:"max=50"`
}

func (f *RecommendationForm) Normalize() {
	f.Query = strings.TrimSpace(f.Query)
}

// Normalizer is implemented by forms that trim their fields.
type Normalizer interface {
	Normalize()
}

// Check normalizes f, when it can, then validates it.
func Check(f any) error {
	if n, ok := f.(Normalizer); ok {
		n.Normalize()
	}
	return Validate(f)
}
