package etl

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/disaster-response/internal/testutil"
)

func mustMessages(t *testing.T, lines ...string) *MessageSet {
	t.Helper()
	ms, err := ReadMessages(strings.NewReader(strings.Join(append([]string{testutil.MessagesHeader}, lines...), "\n")))
	require.NoError(t, err)
	return ms
}

func mustCategories(t *testing.T, lines ...string) []CategoryRow {
	t.Helper()
	cats, err := ReadCategories(strings.NewReader(strings.Join(append([]string{testutil.CategoriesHeader}, lines...), "\n")))
	require.NoError(t, err)
	return cats
}

func valid(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func TestReadMessages(t *testing.T) {
	ms := mustMessages(t,
		`2,"water, please",,direct`,
		`1,food needed,nourriture,news`,
	)

	assert.Equal(t, []string{"message", "original", "genre"}, ms.Columns)
	require.Len(t, ms.Rows, 2)
	assert.Equal(t, int64(2), ms.Rows[0].ID)
	assert.Equal(t, []string{"water, please", "", "direct"}, ms.Rows[0].Fields)
}

func TestReadMessages_Errors(t *testing.T) {
	_, err := ReadMessages(strings.NewReader("message,genre\nhello,direct\n"))
	assert.True(t, errors.Is(err, ErrMissingColumn))

	_, err = ReadMessages(strings.NewReader("id,message\nabc,hello\n"))
	assert.Error(t, err)

	_, err = ReadMessages(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadCategories_Errors(t *testing.T) {
	_, err := ReadCategories(strings.NewReader("id,labels\n1,related-1\n"))
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestReadMessages_BOMHeader(t *testing.T) {
	ms, err := ReadMessages(strings.NewReader("\ufeffid,message,genre\n7,hi,direct\n"))
	require.NoError(t, err)
	require.Len(t, ms.Rows, 1)
	assert.Equal(t, int64(7), ms.Rows[0].ID)
}

func TestMerge_OuterJoin(t *testing.T) {
	ms := mustMessages(t,
		`3,only message,,direct`,
		`1,food needed,,direct`,
	)
	cats := mustCategories(t,
		"1,related-1;request-0",
		"2,related-0;request-0",
	)

	m := Merge(ms, cats)
	require.Len(t, m.Records, 3)

	ids := []int64{m.Records[0].ID, m.Records[1].ID, m.Records[2].ID}
	assert.Equal(t, []int64{1, 2, 3}, ids)

	// id 2 only exists in categories
	assert.False(t, m.Records[1].Fields[0].Valid)
	assert.True(t, m.Records[1].Categories.Valid)

	// id 3 only exists in messages
	assert.Equal(t, valid("only message"), m.Records[2].Fields[0])
	assert.False(t, m.Records[2].Categories.Valid)
}

func TestMerge_DuplicateIDsCrossProduct(t *testing.T) {
	ms := mustMessages(t,
		`1,a,,direct`,
		`1,b,,direct`,
	)
	cats := mustCategories(t,
		"1,related-1",
		"1,related-0",
	)

	m := Merge(ms, cats)
	assert.Len(t, m.Records, 4)
}

func TestClean_SingleRowExample(t *testing.T) {
	ms := mustMessages(t, `1,food needed,,direct`)
	cats := mustCategories(t, "1,related-1;request-0;offer-0")

	ds, stats, err := Clean(Merge(ms, cats))
	require.NoError(t, err)

	want := &Dataset{
		MessageColumns: []string{"message", "original", "genre"},
		Categories:     []string{"related", "request", "offer"},
		Rows: []CleanRow{{
			ID:     1,
			Fields: []sql.NullString{valid("food needed"), {}, valid("direct")},
			Labels: []int{1, 0, 0},
		}},
	}
	if diff := cmp.Diff(want, ds); diff != "" {
		t.Errorf("Clean() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, CleanStats{Input: 1, Output: 1}, stats)
}

func TestClean_DropsRelatedTwo(t *testing.T) {
	ms := mustMessages(t,
		`1,food needed,,direct`,
		`2,unclear,,social`,
	)
	cats := mustCategories(t,
		"1,related-1;request-0;offer-0",
		"2,related-2;request-0;offer-0",
	)

	ds, stats, err := Clean(Merge(ms, cats))
	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, int64(1), ds.Rows[0].ID)
	assert.Equal(t, 1, stats.DroppedRelated)
}

func TestClean_RemovesDuplicates(t *testing.T) {
	ms := mustMessages(t,
		`1,food needed,,direct`,
		`1,food needed,,direct`,
		`2,water,,direct`,
	)
	cats := mustCategories(t,
		"1,related-1;request-1",
		"2,related-1;request-0",
	)

	merged := Merge(ms, cats)
	ds, stats, err := Clean(merged)
	require.NoError(t, err)

	assert.Len(t, merged.Records, 3)
	assert.Len(t, ds.Rows, 2)
	assert.Equal(t, 1, stats.Duplicates)
	assert.LessOrEqual(t, stats.Output, stats.Input)
}

func TestClean_NoDuplicatesKeepsCount(t *testing.T) {
	ms := mustMessages(t,
		`1,a,,direct`,
		`2,b,,direct`,
		`3,c,,news`,
	)
	cats := mustCategories(t,
		"1,related-1;request-1",
		"2,related-0;request-0",
		"3,related-1;request-0",
	)

	merged := Merge(ms, cats)
	ds, _, err := Clean(merged)
	require.NoError(t, err)
	assert.Equal(t, len(merged.Records), len(ds.Rows))
}

func TestClean_LabelsAreBinary(t *testing.T) {
	ms := mustMessages(t,
		`1,a,,direct`,
		`2,b,,direct`,
		`3,c,,direct`,
		`4,d,,direct`,
	)
	cats := mustCategories(t,
		"1,related-1;request-1;offer-0",
		"2,related-2;request-1;offer-1",
		"3,related-0;request-0;offer-0",
		"4,related-1;request-0;offer-1",
	)

	ds, _, err := Clean(Merge(ms, cats))
	require.NoError(t, err)
	for _, r := range ds.Rows {
		for j, v := range r.Labels {
			assert.Containsf(t, []int{0, 1}, v, "row %d category %s", r.ID, ds.Categories[j])
		}
		assert.NotEqual(t, 2, r.Labels[0])
	}
}

func TestClean_MissingCategoriesDropped(t *testing.T) {
	ms := mustMessages(t,
		`1,a,,direct`,
		`2,b,,direct`,
	)
	cats := mustCategories(t, "1,related-1;request-0")

	ds, stats, err := Clean(Merge(ms, cats))
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 1)
	assert.Equal(t, 1, stats.MissingCategories)
}

func TestClean_BadCategories(t *testing.T) {
	testCases := []struct {
		name string
		cats []string
	}{
		{"no_separator", []string{"1,related1;request-0"}},
		{"non_digit_value", []string{"1,related-x;request-0"}},
		{"mismatched_names", []string{"1,related-1;request-0", "2,related-1;offer-0"}},
		{"mismatched_count", []string{"1,related-1;request-0", "2,related-1"}},
		{"out_of_range_value", []string{"1,related-1;request-2"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ms := mustMessages(t, `1,a,,direct`, `2,b,,direct`)
			_, _, err := Clean(Merge(ms, mustCategories(t, tc.cats...)))
			assert.True(t, errors.Is(err, ErrBadCategory), "got %v", err)
		})
	}
}

func TestLoadFiles(t *testing.T) {
	messages := testutil.WriteMessagesCSV(t, `1,food needed,,direct`)
	categories := testutil.WriteCategoriesCSV(t, "1,related-1;request-0;offer-0")

	m, err := LoadFiles(messages, categories)
	require.NoError(t, err)
	require.Len(t, m.Records, 1)

	_, err = LoadFiles(messages, categories+".missing")
	assert.Error(t, err)
}

func TestDataset_TextsAndLabels(t *testing.T) {
	ms := mustMessages(t, `1,food needed,,direct`, `2,water,,news`)
	cats := mustCategories(t, "1,related-1;request-1", "2,related-1;request-0")

	ds, _, err := Clean(Merge(ms, cats))
	require.NoError(t, err)

	texts, err := ds.Texts(MessageColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"food needed", "water"}, texts)

	_, err = ds.Texts("nope")
	assert.True(t, errors.Is(err, ErrMissingColumn))

	y := ds.LabelMatrix()
	r, c := y.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 1.0, y.At(0, 1))
	assert.Equal(t, 0.0, y.At(1, 1))

	assert.Nil(t, (&Dataset{}).LabelMatrix())
}
