package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID        string
	OwnerID   string
	SharedIDs []string
	Title     string
	Body      string
	Status    string
	Priority  string
	CreatedAt time.Time
}

func recordEngine() *Engine[record] {
	return NewEngine(Descriptor[record]{
		Owner:  func(r record) string { return r.OwnerID },
		Shared: func(r record) []string { return r.SharedIDs },
		Fields: map[string]func(record) string{
			"status":   func(r record) string { return r.Status },
			"priority": func(r record) string { return r.Priority },
			"title":    func(r record) string { return r.Title },
		},
		Times: map[string]func(record) time.Time{
			"created_at": func(r record) time.Time { return r.CreatedAt },
		},
		Search: []func(record) string{
			func(r record) string { return r.Title },
			func(r record) string { return r.Body },
		},
	})
}

// seedRecords builds n records owned by owner, created one minute apart so
// creation order is unambiguous.
func seedRecords(n int, owner, status string) []record {
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	items := make([]record, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, record{
			ID:        fmt.Sprintf("rec-%02d", i),
			OwnerID:   owner,
			Title:     fmt.Sprintf("record %02d", i),
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return items
}

func TestParams_Normalize(t *testing.T) {
	n := Params{}.Normalize()
	assert.Equal(t, 1, n.Page)
	assert.Equal(t, DefaultLimit, n.Limit)
	assert.Equal(t, DefaultSortField, n.SortBy)
	assert.Equal(t, "desc", n.SortDir)

	n = Params{Page: -3, Limit: 0, SortDir: "sideways"}.Normalize()
	assert.Equal(t, 1, n.Page)
	assert.Equal(t, "desc", n.SortDir)
}

func TestParams_IsDefault(t *testing.T) {
	assert.True(t, Params{}.IsDefault())
	assert.True(t, Params{Page: 1, Limit: DefaultLimit, SortBy: "created_at", SortDir: "desc"}.IsDefault())

	assert.False(t, Params{Status: "completed"}.IsDefault())
	assert.False(t, Params{Page: 2}.IsDefault())
	assert.False(t, Params{Limit: 5}.IsDefault())
	assert.False(t, Params{SortDir: "asc"}.IsDefault())
	assert.False(t, Params{Search: "report"}.IsDefault())
}

func TestEngine_FilterAndPaginate(t *testing.T) {
	items := seedRecords(12, "owner-1", "completed")
	items = append(items, seedRecords(4, "owner-1", "pending")...)

	engine := recordEngine()
	viewer := Viewer{SubjectID: "owner-1"}

	result := engine.Run(items, viewer, Params{Status: "completed", Page: 2, Limit: 5})

	require.Len(t, result.Items, 5)
	assert.Equal(t, Pagination{Page: 2, Limit: 5, Total: 12, Pages: 3}, result.Pagination)

	// Default sort is created_at desc, so page 2 holds the 6th-10th newest:
	// rec-06 down to rec-02.
	for i, item := range result.Items {
		assert.Equal(t, fmt.Sprintf("rec-%02d", 6-i), item.ID)
	}
}

func TestEngine_PagesConcatenateExactly(t *testing.T) {
	items := seedRecords(23, "owner-1", "pending")
	engine := recordEngine()
	viewer := Viewer{SubjectID: "owner-1"}

	seen := map[string]bool{}
	collected := 0
	for page := 1; page <= 5; page++ {
		result := engine.Run(items, viewer, Params{Page: page, Limit: 5})
		assert.Equal(t, 23, result.Pagination.Total)
		assert.Equal(t, 5, result.Pagination.Pages)
		for _, item := range result.Items {
			assert.False(t, seen[item.ID], "item %s appeared twice", item.ID)
			seen[item.ID] = true
		}
		collected += len(result.Items)
	}
	assert.Equal(t, 23, collected)

	// One page past the end is empty, not an error.
	beyond := engine.Run(items, viewer, Params{Page: 6, Limit: 5})
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 23, beyond.Pagination.Total)
}

func TestEngine_OwnershipScoping(t *testing.T) {
	items := []record{
		{ID: "mine", OwnerID: "owner-1", CreatedAt: time.Now()},
		{ID: "shared", OwnerID: "owner-2", SharedIDs: []string{"owner-1"}, CreatedAt: time.Now()},
		{ID: "theirs", OwnerID: "owner-2", CreatedAt: time.Now()},
	}
	engine := recordEngine()

	result := engine.Run(items, Viewer{SubjectID: "owner-1"}, Params{})
	ids := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		ids = append(ids, item.ID)
	}
	assert.ElementsMatch(t, []string{"mine", "shared"}, ids)

	all := engine.Run(items, Viewer{SubjectID: "owner-1", ViewAll: true}, Params{})
	assert.Len(t, all.Items, 3)
}

func TestEngine_SearchMatchesAnyField(t *testing.T) {
	items := []record{
		{ID: "a", OwnerID: "o", Title: "Quarterly Report", CreatedAt: time.Now()},
		{ID: "b", OwnerID: "o", Title: "notes", Body: "report draft attached", CreatedAt: time.Now()},
		{ID: "c", OwnerID: "o", Title: "unrelated", CreatedAt: time.Now()},
	}
	engine := recordEngine()

	result := engine.Run(items, Viewer{SubjectID: "o"}, Params{Search: "REPORT"})
	assert.Len(t, result.Items, 2)
}

func TestEngine_SortByStringFieldAscending(t *testing.T) {
	items := []record{
		{ID: "1", OwnerID: "o", Title: "banana", CreatedAt: time.Now()},
		{ID: "2", OwnerID: "o", Title: "Apple", CreatedAt: time.Now()},
		{ID: "3", OwnerID: "o", Title: "cherry", CreatedAt: time.Now()},
	}
	engine := recordEngine()

	result := engine.Run(items, Viewer{SubjectID: "o"}, Params{SortBy: "title", SortDir: "asc"})
	require.Len(t, result.Items, 3)
	assert.Equal(t, "Apple", result.Items[0].Title)
	assert.Equal(t, "banana", result.Items[1].Title)
	assert.Equal(t, "cherry", result.Items[2].Title)
}

func TestEngine_UnknownSortFieldFallsBackToCreatedAt(t *testing.T) {
	items := seedRecords(3, "o", "pending")
	engine := recordEngine()

	result := engine.Run(items, Viewer{SubjectID: "o"}, Params{SortBy: "nonsense"})
	require.Len(t, result.Items, 3)
	assert.Equal(t, "rec-02", result.Items[0].ID)
}

func TestEngine_ExactFiltersAreCaseInsensitive(t *testing.T) {
	items := []record{
		{ID: "a", OwnerID: "o", Status: "Completed", CreatedAt: time.Now()},
		{ID: "b", OwnerID: "o", Status: "pending", CreatedAt: time.Now()},
	}
	engine := recordEngine()

	result := engine.Run(items, Viewer{SubjectID: "o"}, Params{Status: "completed"})
	require.Len(t, result.Items, 1)
	assert.Equal(t, "a", result.Items[0].ID)
}
