package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(err error) []string {
	fe, ok := AsErrors(err)
	if !ok {
		return nil
	}
	out := make([]string, len(fe))
	for i, e := range fe {
		out[i] = e.Field
	}
	return out
}

func TestCheck_RejectsEmptyRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		form any
		want []string
	}{
		{"sign in", &SignInForm{}, []string{"email", "password"}},
		{"sign up", &SignUpForm{}, []string{"email", "password", "name"}},
		{"book", &BookForm{}, []string{"title", "author"}},
		{"review", &ReviewForm{}, []string{"bookId", "rating", "comment"}},
		{"reading list", &ReadingListForm{}, []string{"name"}},
		{"recommendation", &RecommendationForm{}, []string{"query"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.form)
			require.Error(t, err)
			assert.ElementsMatch(t, tt.want, fields(err))
		})
	}
}

func TestCheck_BlankIsEmpty(t *testing.T) {
	f := &ReadingListForm{Name: "   "}
	err := Check(f)
	require.Error(t, err)
	assert.Equal(t, []string{"name"}, fields(err))
	assert.Equal(t, "", f.Name)
}

func TestCheck_TrimsBeforeValidating(t *testing.T) {
	f := &ReviewForm{BookID: " b1 ", Rating: 4, Comment: "  Loved it  "}
	require.NoError(t, Check(f))
	assert.Equal(t, "b1", f.BookID)
	assert.Equal(t, "Loved it", f.Comment)
}

func TestBookForm(t *testing.T) {
	valid := BookForm{Title: "Dune", Author: "Frank Herbert"}

	tests := []struct {
		name   string
		mutate func(*BookForm)
		field  string
	}{
		{"minimal", func(*BookForm) {}, ""},
		{"isbn 13", func(f *BookForm) { f.ISBN = "978-0-441-17271-9" }, ""},
		{"isbn 10 with X", func(f *BookForm) { f.ISBN = "080442957X" }, ""},
		{"bad isbn", func(f *BookForm) { f.ISBN = "12345" }, "isbn"},
		{"cover url", func(f *BookForm) { f.CoverImage = "https://covers.example.com/dune.jpg" }, ""},
		{"bad cover", func(f *BookForm) { f.CoverImage = "not a url" }, "coverImage"},
		{"year too old", func(f *BookForm) { f.PublishedYear = 999 }, "publishedYear"},
		{"year in range", func(f *BookForm) { f.PublishedYear = 1965 }, ""},
		{"rating too high", func(f *BookForm) { f.Rating = 5.5 }, "rating"},
		{"negative rating", func(f *BookForm) { f.Rating = -1 }, "rating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := Check(&f)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, []string{tt.field}, fields(err))
		})
	}
}

func TestReviewForm_RatingBounds(t *testing.T) {
	for _, r := range []float64{0, 0.5, 6} {
		err := Check(&ReviewForm{BookID: "b1", Rating: r, Comment: "ok"})
		assert.Equal(t, []string{"rating"}, fields(err), "rating %v", r)
	}
	assert.NoError(t, Check(&ReviewForm{BookID: "b1", Rating: 5, Comment: "ok"}))

	long := &ReviewForm{BookID: "b1", Rating: 3, Comment: strings.Repeat("a", 2001)}
	assert.Equal(t, []string{"comment"}, fields(Check(long)))
}

func TestRecommendationForm(t *testing.T) {
	assert.Equal(t, []string{"query"}, fields(Check(&RecommendationForm{Query: "ab"})))
	assert.Equal(t, []string{"limit"}, fields(Check(&RecommendationForm{Query: "space opera", Limit: 21})))
	assert.NoError(t, Check(&RecommendationForm{Query: "space opera", Limit: 5}))
}

func TestSignUpForm_PasswordLength(t *testing.T) {
	err := Check(&SignUpForm{Email: "a@example.com", Password: "short", Name: "A"})
	fe, ok := AsErrors(err)
	require.True(t, ok)
	require.Len(t, fe, 1)
	assert.Equal(t, "password", fe[0].Field)
	assert.Contains(t, fe[0].Message, "at least 8 characters")
}

func TestSignUpForm_PasswordBytes(t *testing.T) {
	// 36 runes, 72 bytes
	assert.NoError(t, Check(&SignUpForm{Email: "a@example.com", Password: strings.Repeat("é", 36), Name: "A"}))

	err := Check(&SignUpForm{Email: "a@example.com", Password: strings.Repeat("é", 37), Name: "A"})
	fe, ok := AsErrors(err)
	require.True(t, ok)
	require.Len(t, fe, 1)
	assert.Equal(t, "password must be at most 72 bytes", fe[0].Message)
}

func TestErrors_Message(t *testing.T) {
	err := Check(&SignInForm{Email: "nope", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "invalid input: email must be a valid email address", err.Error())
}
