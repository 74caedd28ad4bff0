// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"portfolio/internal/blocks"
)

// Creator is a create payload for records of type R. Validate runs before
// the store is touched; Record builds the record with defaults applied.
type Creator[R any] interface {
	Validate() error
	Record(id int64, now time.Time) R
}

// Patcher is a partial update for records of type R. Apply copies only the
// supplied fields onto r.
type Patcher[R any] interface {
	Validate() error
	Apply(r *R)
}

// Contentful is implemented by the kinds whose body is a block sequence.
type Contentful interface {
	Key() int64
	Heading() string
	Blocks() blocks.Sequence
	Matches(q string) bool
}

// BlogPost is a published article.
type BlogPost struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Excerpt  string          `json:"excerpt"`
	Content  blocks.Sequence `json:"content"`
	Tags     []string        `json:"tags"`
	ReadTime string          `json:"readTime"`
	Date     time.Time       `json:"date"`
}

func (p BlogPost) Key() int64              { return p.ID }
func (p BlogPost) Heading() string         { return p.Title }
func (p BlogPost) Blocks() blocks.Sequence { return p.Content }

// Matches reports whether q occurs, case-insensitively, in the title,
// excerpt, tags or the text of any block.
func (p BlogPost) Matches(q string) bool {
	return matchAny(q, p.Content, p.Tags, p.Title, p.Excerpt)
}

// BlogPostInput is the create payload for blog posts.
type BlogPostInput struct {
	Title    string          `json:"title"`
	Excerpt  string          `json:"excerpt"`
	Content  blocks.Sequence `json:"content"`
	Tags     []string        `json:"tags"`
	ReadTime string          `json:"readTime"`
	Date     *time.Time      `json:"date"`
}

func (in BlogPostInput) Validate() error {
	var c checker
	c.required("title", in.Title, maxTitleLen)
	c.required("excerpt", in.Excerpt, maxShortLen)
	c.content("content", in.Content)
	c.tags("tags", in.Tags)
	c.required("readTime", in.ReadTime, 50)
	return c.err()
}

func (in BlogPostInput) Record(id int64, now time.Time) BlogPost {
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	return BlogPost{
		ID:       id,
		Title:    in.Title,
		Excerpt:  in.Excerpt,
		Content:  in.Content.Clone(),
		Tags:     orEmpty(in.Tags),
		ReadTime: in.ReadTime,
		Date:     date,
	}
}

// BlogPostPatch is a partial blog post update.
type BlogPostPatch struct {
	Title    *string          `json:"title"`
	Excerpt  *string          `json:"excerpt"`
	Content  *blocks.Sequence `json:"content"`
	Tags     *[]string        `json:"tags"`
	ReadTime *string          `json:"readTime"`
	Date     *time.Time       `json:"date"`
}

func (p BlogPostPatch) Validate() error {
	var c checker
	c.present("title", p.Title, maxTitleLen)
	c.present("excerpt", p.Excerpt, maxShortLen)
	if p.Tags != nil {
		c.tags("tags", *p.Tags)
	}
	c.present("readTime", p.ReadTime, 50)
	return c.err()
}

func (p BlogPostPatch) Apply(r *BlogPost) {
	setIf(&r.Title, p.Title)
	setIf(&r.Excerpt, p.Excerpt)
	if p.Content != nil {
		r.Content = orEmpty(p.Content.Clone())
	}
	if p.Tags != nil {
		r.Tags = orEmpty(*p.Tags)
	}
	setIf(&r.ReadTime, p.ReadTime)
	setIf(&r.Date, p.Date)
}

// KnowledgeEntry is a knowledge base note.
type KnowledgeEntry struct {
	ID      int64           `json:"id"`
	Title   string          `json:"title"`
	Content blocks.Sequence `json:"content"`
	Tags    []string        `json:"tags"`
	Date    time.Time       `json:"date"`
}

func (k KnowledgeEntry) Key() int64              { return k.ID }
func (k KnowledgeEntry) Heading() string         { return k.Title }
func (k KnowledgeEntry) Blocks() blocks.Sequence { return k.Content }

func (k KnowledgeEntry) Matches(q string) bool {
	return matchAny(q, k.Content, k.Tags, k.Title)
}

// KnowledgeEntryInput is the create payload for knowledge entries.
type KnowledgeEntryInput struct {
	Title   string          `json:"title"`
	Content blocks.Sequence `json:"content"`
	Tags    []string        `json:"tags"`
	Date    *time.Time      `json:"date"`
}

func (in KnowledgeEntryInput) Validate() error {
	var c checker
	c.required("title", in.Title, maxTitleLen)
	c.content("content", in.Content)
	c.tags("tags", in.Tags)
	return c.err()
}

func (in KnowledgeEntryInput) Record(id int64, now time.Time) KnowledgeEntry {
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	return KnowledgeEntry{
		ID:      id,
		Title:   in.Title,
		Content: in.Content.Clone(),
		Tags:    orEmpty(in.Tags),
		Date:    date,
	}
}

// KnowledgeEntryPatch is a partial knowledge entry update.
type KnowledgeEntryPatch struct {
	Title   *string          `json:"title"`
	Content *blocks.Sequence `json:"content"`
	Tags    *[]string        `json:"tags"`
	Date    *time.Time       `json:"date"`
}

func (p KnowledgeEntryPatch) Validate() error {
	var c checker
	c.present("title", p.Title, maxTitleLen)
	if p.Tags != nil {
		c.tags("tags", *p.Tags)
	}
	return c.err()
}

func (p KnowledgeEntryPatch) Apply(r *KnowledgeEntry) {
	setIf(&r.Title, p.Title)
	if p.Content != nil {
		r.Content = orEmpty(p.Content.Clone())
	}
	if p.Tags != nil {
		r.Tags = orEmpty(*p.Tags)
	}
	setIf(&r.Date, p.Date)
}

// matchAny is the naive substring search used by the contentful kinds.
func matchAny(q string, content blocks.Sequence, tags []string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), q) }

	for _, f := range fields {
		if contains(f) {
			return true
		}
	}
	for _, tag := range tags {
		if contains(tag) {
			return true
		}
	}
	for _, b := range content {
		switch v := b.(type) {
		case blocks.Text:
			if contains(v.Value) {
				return true
			}
		case blocks.Code:
			if contains(v.Value) {
				return true
			}
		case blocks.Image:
			if contains(v.Caption) {
				return true
			}
		case blocks.Video:
			if contains(v.Caption) {
				return true
			}
		}
	}
	return false
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
