package store

import (
	"cmp"
	"database/sql"

	"portfolio/internal/models"
)

// Column layouts of every kind. The order of Columns, Scan and Values must
// agree.

var educationSchema = Schema[models.Education]{
	Table:   "education",
	Columns: []string{"institution", "degree", "date", "score", "location"},
	OrderBy: "id DESC",
	Scan: func(row rowScanner) (models.Education, error) {
		var e models.Education
		err := row.Scan(&e.ID, &e.Institution, &e.Degree, &e.Date, &e.Score, &e.Location)
		return e, err
	},
	Values: func(e models.Education) []any {
		return []any{e.Institution, e.Degree, e.Date, e.Score, e.Location}
	},
}

var experienceSchema = Schema[models.Experience]{
	Table:   "experience",
	Columns: []string{"company", "role", "period", "location", "projects"},
	OrderBy: "id DESC",
	Scan: func(row rowScanner) (models.Experience, error) {
		var e models.Experience
		err := row.Scan(&e.ID, &e.Company, &e.Role, &e.Period, &e.Location, asJSON(&e.Projects))
		return e, err
	},
	Values: func(e models.Experience) []any {
		return []any{e.Company, e.Role, e.Period, e.Location, asJSON(&e.Projects)}
	},
}

var projectSchema = Schema[models.Project]{
	Table:   "projects",
	Columns: []string{"title", "category", "status", "date", "description", "tags"},
	OrderBy: "id DESC",
	Scan: func(row rowScanner) (models.Project, error) {
		var p models.Project
		err := row.Scan(&p.ID, &p.Title, &p.Category, &p.Status, &p.Date, &p.Description, asJSON(&p.Tags))
		return p, err
	},
	Values: func(p models.Project) []any {
		return []any{p.Title, p.Category, p.Status, p.Date, p.Description, asJSON(&p.Tags)}
	},
}

var skillSchema = Schema[models.Skill]{
	Table:   "skills",
	Columns: []string{"category", "icon", "skills"},
	OrderBy: "id ASC",
	Scan: func(row rowScanner) (models.Skill, error) {
		var s models.Skill
		err := row.Scan(&s.ID, &s.Category, &s.Icon, asJSON(&s.Skills))
		return s, err
	},
	Values: func(s models.Skill) []any {
		return []any{s.Category, s.Icon, asJSON(&s.Skills)}
	},
}

var certificationSchema = Schema[models.Certification]{
	Table:   "certifications",
	Columns: []string{"name", "issuer", "date", "link"},
	OrderBy: "id DESC",
	Scan: func(row rowScanner) (models.Certification, error) {
		var c models.Certification
		err := row.Scan(&c.ID, &c.Name, &c.Issuer, &c.Date, &c.Link)
		return c, err
	},
	Values: func(c models.Certification) []any {
		return []any{c.Name, c.Issuer, c.Date, c.Link}
	},
}

var resumeSchema = Schema[models.Resume]{
	Table:   "resumes",
	Columns: []string{"url", "filename", "uploaded_at"},
	OrderBy: "uploaded_at DESC, id DESC",
	Scan: func(row rowScanner) (models.Resume, error) {
		var r models.Resume
		err := row.Scan(&r.ID, &r.URL, &r.Filename, &r.UploadedAt)
		return r, err
	},
	Values: func(r models.Resume) []any {
		return []any{r.URL, r.Filename, r.UploadedAt}
	},
}

var blogSchema = Schema[models.BlogPost]{
	Table:   "blog_posts",
	Columns: []string{"title", "excerpt", "content", "tags", "read_time", "date"},
	OrderBy: "date DESC, id DESC",
	Scan: func(row rowScanner) (models.BlogPost, error) {
		var p models.BlogPost
		err := row.Scan(&p.ID, &p.Title, &p.Excerpt, &p.Content, asJSON(&p.Tags), &p.ReadTime, &p.Date)
		return p, err
	},
	Values: func(p models.BlogPost) []any {
		return []any{p.Title, p.Excerpt, p.Content, asJSON(&p.Tags), p.ReadTime, p.Date}
	},
	Search: []string{textMatch("title"), textMatch("excerpt"), blocksMatch("content"), tagsMatch("tags")},
	Match:  models.BlogPost.Matches,
}

var knowledgeSchema = Schema[models.KnowledgeEntry]{
	Table:   "knowledge_entries",
	Columns: []string{"title", "content", "tags", "date"},
	OrderBy: "date DESC, id DESC",
	Scan: func(row rowScanner) (models.KnowledgeEntry, error) {
		var k models.KnowledgeEntry
		err := row.Scan(&k.ID, &k.Title, &k.Content, asJSON(&k.Tags), &k.Date)
		return k, err
	},
	Values: func(k models.KnowledgeEntry) []any {
		return []any{k.Title, k.Content, asJSON(&k.Tags), k.Date}
	},
	Search: []string{textMatch("title"), blocksMatch("content"), tagsMatch("tags")},
	Match:  models.KnowledgeEntry.Matches,
}

var messageSchema = Schema[models.Message]{
	Table:   "messages",
	Columns: []string{"name", "email", "message", "created_at"},
	OrderBy: "created_at DESC, id DESC",
	Scan: func(row rowScanner) (models.Message, error) {
		var m models.Message
		err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt)
		return m, err
	},
	Values: func(m models.Message) []any {
		return []any{m.Name, m.Email, m.Message, m.CreatedAt}
	},
}

// NewPostgresSet wires every kind to its table in db.
func NewPostgresSet(db *sql.DB) *Set {
	return &Set{
		Education:      NewTable[models.Education, models.EducationInput, models.EducationPatch](db, educationSchema),
		Experience:     NewTable[models.Experience, models.ExperienceInput, models.ExperiencePatch](db, experienceSchema),
		Projects:       NewTable[models.Project, models.ProjectInput, models.ProjectPatch](db, projectSchema),
		Skills:         NewTable[models.Skill, models.SkillInput, models.SkillPatch](db, skillSchema),
		Certifications: NewTable[models.Certification, models.CertificationInput, models.CertificationPatch](db, certificationSchema),
		Resumes:        NewTable[models.Resume, models.ResumeInput, models.ResumePatch](db, resumeSchema),
		Blog:           NewTable[models.BlogPost, models.BlogPostInput, models.BlogPostPatch](db, blogSchema),
		Knowledge:      NewTable[models.KnowledgeEntry, models.KnowledgeEntryInput, models.KnowledgeEntryPatch](db, knowledgeSchema),
		Messages:       NewTable[models.Message, models.MessageInput, models.MessagePatch](db, messageSchema),
		Users:          NewUserStore(db),
	}
}

// NewMemorySet returns a Set held entirely in process memory, with the same
// default orders as the Postgres tables.
func NewMemorySet() *Set {
	byIDDesc := func(a, b int64) int { return cmp.Compare(b, a) }
	return &Set{
		Education: NewMemoryStore[models.Education, models.EducationInput, models.EducationPatch](
			func(a, b models.Education) int { return byIDDesc(a.ID, b.ID) }, nil),
		Experience: NewMemoryStore[models.Experience, models.ExperienceInput, models.ExperiencePatch](
			func(a, b models.Experience) int { return byIDDesc(a.ID, b.ID) }, nil),
		Projects: NewMemoryStore[models.Project, models.ProjectInput, models.ProjectPatch](
			func(a, b models.Project) int { return byIDDesc(a.ID, b.ID) }, nil),
		Skills: NewMemoryStore[models.Skill, models.SkillInput, models.SkillPatch](
			func(a, b models.Skill) int { return cmp.Compare(a.ID, b.ID) }, nil),
		Certifications: NewMemoryStore[models.Certification, models.CertificationInput, models.CertificationPatch](
			func(a, b models.Certification) int { return byIDDesc(a.ID, b.ID) }, nil),
		Resumes: NewMemoryStore[models.Resume, models.ResumeInput, models.ResumePatch](
			func(a, b models.Resume) int {
				return cmp.Or(b.UploadedAt.Compare(a.UploadedAt), byIDDesc(a.ID, b.ID))
			}, nil),
		Blog: NewMemoryStore[models.BlogPost, models.BlogPostInput, models.BlogPostPatch](
			func(a, b models.BlogPost) int {
				return cmp.Or(b.Date.Compare(a.Date), byIDDesc(a.ID, b.ID))
			}, models.BlogPost.Matches),
		Knowledge: NewMemoryStore[models.KnowledgeEntry, models.KnowledgeEntryInput, models.KnowledgeEntryPatch](
			func(a, b models.KnowledgeEntry) int {
				return cmp.Or(b.Date.Compare(a.Date), byIDDesc(a.ID, b.ID))
			}, models.KnowledgeEntry.Matches),
		Messages: NewMemoryStore[models.Message, models.MessageInput, models.MessagePatch](
			func(a, b models.Message) int {
				return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), byIDDesc(a.ID, b.ID))
			}, nil),
		Users: NewMemoryUsers(),
	}
}
