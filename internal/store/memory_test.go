package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/blocks"
	"portfolio/internal/models"
)

func TestMemory_CreateGetRoundTrip(t *testing.T) {
	set := NewMemorySet()
	ctx := context.Background()

	in := models.EducationInput{Institution: "ETH", Degree: "MSc", Date: "2021"}
	created, err := set.Education.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := set.Education.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *created, *got)

	missing, err := set.Education.Get(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemory_ListEmptyIsNotNil(t *testing.T) {
	list, err := NewMemorySet().Projects.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestMemory_UpdateAppliesOnlySuppliedFields(t *testing.T) {
	set := NewMemorySet()
	ctx := context.Background()

	created, err := set.Knowledge.Create(ctx, models.KnowledgeEntryInput{
		Title:   "Go",
		Content: blocks.Sequence{blocks.Text{Value: "body"}},
		Tags:    []string{"old"},
	})
	require.NoError(t, err)

	tags := []string{"a", "b"}
	updated, err := set.Knowledge.Update(ctx, created.ID, models.KnowledgeEntryPatch{Tags: &tags})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, []string{"a", "b"}, updated.Tags)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Content, updated.Content)
	assert.True(t, created.Date.Equal(updated.Date))

	same, err := set.Knowledge.Update(ctx, created.ID, models.KnowledgeEntryPatch{})
	require.NoError(t, err)
	assert.Equal(t, *updated, *same)

	absent, err := set.Knowledge.Update(ctx, 42, models.KnowledgeEntryPatch{Tags: &tags})
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestMemory_DeleteIsIdempotent(t *testing.T) {
	set := NewMemorySet()
	ctx := context.Background()

	created, err := set.Certifications.Create(ctx, models.CertificationInput{Name: "CKA", Issuer: "CNCF", Date: "2024"})
	require.NoError(t, err)

	ok, err := set.Certifications.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := set.Certifications.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err = set.Certifications.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = set.Certifications.Delete(ctx, 12345)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_IDsAreNeverReused(t *testing.T) {
	set := NewMemorySet()
	ctx := context.Background()

	first, _ := set.Skills.Create(ctx, models.SkillInput{Category: "Backend"})
	_, _ = set.Skills.Delete(ctx, first.ID)
	second, _ := set.Skills.Create(ctx, models.SkillInput{Category: "Frontend"})

	assert.NotEqual(t, first.ID, second.ID)
}

func TestMemory_DefaultOrders(t *testing.T) {
	set := NewMemorySet()
	ctx := context.Background()

	for _, c := range []string{"A", "B", "C"} {
		_, err := set.Skills.Create(ctx, models.SkillInput{Category: c})
		require.NoError(t, err)
		_, err = set.Certifications.Create(ctx, models.CertificationInput{Name: c, Issuer: "I", Date: "2024"})
		require.NoError(t, err)
	}

	skills, _ := set.Skills.List(ctx)
	assert.Equal(t, []string{"A", "B", "C"}, []string{skills[0].Category, skills[1].Category, skills[2].Category})

	certs, _ := set.Certifications.List(ctx)
	assert.Equal(t, []string{"C", "B", "A"}, []string{certs[0].Name, certs[1].Name, certs[2].Name})

	older := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, _ = set.Blog.Create(ctx, models.BlogPostInput{Title: "new", Excerpt: "e", Content: blocks.Sequence{}, ReadTime: "1", Date: &newer})
	_, _ = set.Blog.Create(ctx, models.BlogPostInput{Title: "old", Excerpt: "e", Content: blocks.Sequence{}, ReadTime: "1", Date: &older})

	posts, _ := set.Blog.List(ctx)
	require.Len(t, posts, 2)
	assert.Equal(t, "new", posts[0].Title)
}

func TestMemory_Search(t *testing.T) {
	set := NewMemorySet()
	ctx := context.Background()

	_, _ = set.Knowledge.Create(ctx, models.KnowledgeEntryInput{
		Title:   "Postgres tuning",
		Content: blocks.Sequence{blocks.Text{Value: "shared_buffers"}},
	})
	_, _ = set.Knowledge.Create(ctx, models.KnowledgeEntryInput{
		Title:   "Goroutines",
		Content: blocks.Sequence{},
		Tags:    []string{"concurrency"},
	})

	found, err := set.Knowledge.Search(ctx, "SHARED")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Postgres tuning", found[0].Title)

	found, _ = set.Knowledge.Search(ctx, "concurrency")
	require.Len(t, found, 1)
	assert.Equal(t, "Goroutines", found[0].Title)

	found, _ = set.Knowledge.Search(ctx, "nothing matches")
	assert.Empty(t, found)
}

func TestMemory_SearchQuotedText(t *testing.T) {
	set := NewMemorySet()
	ctx := context.Background()

	_, _ = set.Knowledge.Create(ctx, models.KnowledgeEntryInput{
		Title:   "Quotes",
		Content: blocks.Sequence{blocks.Text{Value: "they say \"hi\"\nthen leave"}},
	})

	found, err := set.Knowledge.Search(ctx, `say "hi"`)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, _ = set.Knowledge.Search(ctx, "\nthen")
	assert.Len(t, found, 1)
}

func TestMemory_ConcurrentCreatesGetUniqueIDs(t *testing.T) {
	set := NewMemorySet()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = set.Messages.Create(ctx, models.MessageInput{Name: "n", Email: "a@b.c", Message: "m"})
		}()
	}
	wg.Wait()

	list, err := set.Messages.List(ctx)
	require.NoError(t, err)
	seen := make(map[int64]bool)
	for _, m := range list {
		assert.False(t, seen[m.ID], "duplicate id %d", m.ID)
		seen[m.ID] = true
	}
	assert.Len(t, list, 50)
}

func TestMemoryUsers(t *testing.T) {
	users := NewMemoryUsers()
	ctx := context.Background()

	u, err := users.Create(ctx, models.NewUser{Username: "me@example.com", GoogleID: "g-1", Email: "me@example.com"})
	require.NoError(t, err)

	byGoogle, err := users.FindByGoogleID(ctx, "g-1")
	require.NoError(t, err)
	require.NotNil(t, byGoogle)
	assert.Equal(t, u.ID, byGoogle.ID)

	_, err = users.Create(ctx, models.NewUser{Username: "me@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrStorage)

	require.NoError(t, users.SetTOTPSecret(ctx, u.ID, "SECRET"))
	require.NoError(t, users.EnableTOTP(ctx, u.ID))
	got, _ := users.FindByID(ctx, u.ID)
	assert.True(t, got.TOTPEnabled)
	assert.Equal(t, "SECRET", *got.TOTPSecret)

	n, _ := users.Count(ctx)
	assert.Equal(t, 1, n)

	none, err := users.FindByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, none)
}
