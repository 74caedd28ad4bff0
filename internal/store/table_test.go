package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/blocks"
	"portfolio/internal/models"
)

var knowledgeCols = []string{"id", "title", "content", "tags", "date"}

func knowledgeTable(t *testing.T) (*Table[models.KnowledgeEntry, models.KnowledgeEntryInput, models.KnowledgeEntryPatch], sqlmock.Sqlmock) {
	db, mock := mockDB(t)
	return NewTable[models.KnowledgeEntry, models.KnowledgeEntryInput, models.KnowledgeEntryPatch](db, knowledgeSchema), mock
}

func TestTable_List(t *testing.T) {
	tbl, mock := knowledgeTable(t)
	date := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, content, tags, date FROM knowledge_entries ORDER BY date DESC, id DESC`)).
		WillReturnRows(sqlmock.NewRows(knowledgeCols).
			AddRow(int64(2), "Second", []byte(`[{"type":"text","value":"b"}]`), []byte(`["x"]`), date).
			AddRow(int64(1), "First", []byte(`[]`), []byte(`[]`), date))

	list, err := tbl.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Title)
	assert.Equal(t, blocks.Sequence{blocks.Text{Value: "b"}}, list[0].Content)
	assert.Equal(t, []string{"x"}, list[0].Tags)
}

func TestTable_ListEmpty(t *testing.T) {
	tbl, mock := knowledgeTable(t)
	mock.ExpectQuery(`SELECT .* FROM knowledge_entries`).WillReturnRows(sqlmock.NewRows(knowledgeCols))

	list, err := tbl.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestTable_GetNotFound(t *testing.T) {
	tbl, mock := knowledgeTable(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM knowledge_entries WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(knowledgeCols))

	got, err := tbl.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTable_Create(t *testing.T) {
	tbl, mock := knowledgeTable(t)
	now := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	tbl.now = func() time.Time { return now }

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO knowledge_entries (title, content, tags, date) VALUES ($1, $2, $3, $4) RETURNING id, title, content, tags, date`)).
		WithArgs("Notes", `[{"type":"code","value":"x","language":"go"}]`, `["go"]`, now).
		WillReturnRows(sqlmock.NewRows(knowledgeCols).
			AddRow(int64(11), "Notes", []byte(`[{"type":"code","value":"x","language":"go"}]`), []byte(`["go"]`), now))

	got, err := tbl.Create(context.Background(), models.KnowledgeEntryInput{
		Title:   "Notes",
		Content: blocks.Sequence{blocks.Code{Value: "x", Language: "go"}},
		Tags:    []string{"go"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	assert.True(t, got.Date.Equal(now))
}

func TestTable_UpdateWritesMergedRecord(t *testing.T) {
	tbl, mock := knowledgeTable(t)
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	content := `[{"type":"text","value":"keep"}]`

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM knowledge_entries WHERE id = $1 FOR UPDATE`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(knowledgeCols).AddRow(int64(3), "Title", []byte(content), []byte(`["old"]`), date))
	mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE knowledge_entries SET title = $1, content = $2, tags = $3, date = $4 WHERE id = $5 RETURNING id, title, content, tags, date`)).
		WithArgs("Title", content, `["a","b"]`, date, int64(3)).
		WillReturnRows(sqlmock.NewRows(knowledgeCols).AddRow(int64(3), "Title", []byte(content), []byte(`["a","b"]`), date))
	mock.ExpectCommit()

	tags := []string{"a", "b"}
	got, err := tbl.Update(context.Background(), 3, models.KnowledgeEntryPatch{Tags: &tags})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tags, got.Tags)
	assert.Equal(t, "Title", got.Title)
}

func TestTable_UpdateNotFoundRollsBack(t *testing.T) {
	tbl, mock := knowledgeTable(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows(knowledgeCols))
	mock.ExpectRollback()

	got, err := tbl.Update(context.Background(), 5, models.KnowledgeEntryPatch{})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTable_Delete(t *testing.T) {
	tbl, mock := knowledgeTable(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM knowledge_entries WHERE id = $1`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM knowledge_entries WHERE id = $1`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := tbl.Delete(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tbl.Delete(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTable_StorageFailureIsDistinct(t *testing.T) {
	tbl, mock := knowledgeTable(t)
	boom := errors.New("connection refused")

	mock.ExpectQuery(`SELECT`).WillReturnError(boom)
	mock.ExpectExec(`DELETE`).WillReturnError(boom)

	_, err := tbl.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, boom)

	_, err = tbl.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestTable_SearchFiltersJSONKeys(t *testing.T) {
	tbl, mock := knowledgeTable(t)
	date := time.Now().UTC()

	// "type" appears in every content column; only the title really matches.
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE title ILIKE $1 OR EXISTS`)).
		WithArgs("%type%").
		WillReturnRows(sqlmock.NewRows(knowledgeCols).
			AddRow(int64(1), "Type systems", []byte(`[]`), []byte(`[]`), date).
			AddRow(int64(2), "Other", []byte(`[{"type":"text","value":"x"}]`), []byte(`[]`), date))

	found, err := tbl.Search(context.Background(), "type")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Type systems", found[0].Title)
}

func TestTable_SearchMatchesDecodedBlockText(t *testing.T) {
	tbl, mock := knowledgeTable(t)
	date := time.Now().UTC()

	// The pattern carries the raw query, not its JSON encoding, and content
	// is searched through the decoded block fields.
	mock.ExpectQuery(regexp.QuoteMeta(
		`WHERE title ILIKE $1 OR EXISTS (SELECT 1 FROM jsonb_array_elements(content) AS b(block) ` +
			`WHERE block->>'value' ILIKE $1 OR block->>'caption' ILIKE $1) ` +
			`OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS t(tag) WHERE tag ILIKE $1) ` +
			`ORDER BY date DESC, id DESC`)).
		WithArgs("%say \"hi\"%").
		WillReturnRows(sqlmock.NewRows(knowledgeCols).
			AddRow(int64(3), "Quotes", []byte(`[{"type":"text","value":"they say \"hi\" twice"}]`), []byte(`[]`), date))

	found, err := tbl.Search(context.Background(), `say "hi"`)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(3), found[0].ID)
}

func TestTable_SearchEscapesWildcards(t *testing.T) {
	tbl, mock := knowledgeTable(t)
	mock.ExpectQuery(`ILIKE`).WithArgs(`%100\%%`).WillReturnRows(sqlmock.NewRows(knowledgeCols))

	_, err := tbl.Search(context.Background(), "100%")
	require.NoError(t, err)
}

func TestUserStore_CreateRejectsMissingCredential(t *testing.T) {
	db, _ := mockDB(t)
	_, err := NewUserStore(db).Create(context.Background(), models.NewUser{Username: "x"})
	assert.ErrorIs(t, err, models.ErrNoCredential)
}
