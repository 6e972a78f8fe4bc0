package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		page      int
		size      int
		wantPage  int
		wantPages int
		wantItems []int
		hasNext   bool
		hasPrev   bool
	}{
		{"first page", 45, 1, 20, 1, 3, seq(20), true, false},
		{"last partial page", 45, 3, 20, 3, 3, []int{41, 42, 43, 44, 45}, false, true},
		{"page past the end clamps", 45, 9, 20, 3, 3, []int{41, 42, 43, 44, 45}, false, true},
		{"zero page clamps", 5, 0, 2, 1, 3, []int{1, 2}, true, false},
		{"negative page clamps", 5, -3, 2, 1, 3, []int{1, 2}, true, false},
		{"empty collection", 0, 4, 10, 1, 1, []int{}, false, false},
		{"default size", 25, 2, 0, 2, 2, []int{21, 22, 23, 24, 25}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(seq(tt.total), tt.page, tt.size)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantPages, got.TotalPages)
			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, tt.wantItems, got.Items)
			assert.Equal(t, tt.hasNext, got.HasNext)
			assert.Equal(t, tt.hasPrev, got.HasPrev)
		})
	}
}

func TestPaginate_NeverOutOfRange(t *testing.T) {
	for total := 0; total <= 30; total++ {
		for size := -1; size <= 12; size++ {
			for page := -2; page <= 40; page++ {
				got := Paginate(seq(total), page, size)
				assert.GreaterOrEqual(t, got.Page, 1)
				assert.LessOrEqual(t, got.Page, got.TotalPages)
				assert.LessOrEqual(t, len(got.Items), got.PageSize)
			}
		}
	}
}

func TestPaginate_CapsSize(t *testing.T) {
	got := Paginate(seq(250), 1, 500)
	assert.Equal(t, MaxSize, got.PageSize)
	assert.Len(t, got.Items, MaxSize)
}

func TestPaginate_DoesNotAliasInput(t *testing.T) {
	in := seq(3)
	got := Paginate(in, 1, 10)
	got.Items[0] = 99
	assert.Equal(t, 1, in[0])
}

func TestFromQuery(t *testing.T) {
	page, size := FromQuery(url.Values{"page": {"3"}, "page_size": {"15"}})
	assert.Equal(t, 3, page)
	assert.Equal(t, 15, size)

	page, size = FromQuery(url.Values{"limit": {"7"}})
	assert.Equal(t, 0, page)
	assert.Equal(t, 7, size)

	page, size = FromQuery(url.Values{"page": {"x"}})
	assert.Equal(t, 0, page)
	assert.Equal(t, 0, size)
}
