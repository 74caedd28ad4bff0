// Package store provides persistence for every portfolio entity kind behind
// one generic contract, with a Postgres backend and an in-memory backend.
package store

import (
	"context"
	"errors"

	"portfolio/internal/models"
)

// ErrStorage marks failures of the persistence layer (connectivity,
// constraint violations, corrupt rows). A missing record is never an
// ErrStorage; it is reported as a nil record or a false result.
var ErrStorage = errors.New("storage failure")

// Store is the uniform set of operations for one entity kind with record
// type R, create payload C and partial update U.
type Store[R any, C models.Creator[R], U models.Patcher[R]] interface {
	// List returns every record in the kind's default order. An empty
	// kind yields an empty slice.
	List(ctx context.Context) ([]R, error)
	// Get returns nil, nil when no record has the given id.
	Get(ctx context.Context, id int64) (*R, error)
	// Create assigns the id and any defaulted fields.
	Create(ctx context.Context, in C) (*R, error)
	// Update applies only the supplied fields of the patch. It returns
	// nil, nil when the id is unknown.
	Update(ctx context.Context, id int64, patch U) (*R, error)
	// Delete reports whether a record existed and was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// Searcher filters a kind by a naive case-insensitive substring match.
type Searcher[R any] interface {
	Search(ctx context.Context, q string) ([]R, error)
}

// ContentStore is a Store that also supports search.
type ContentStore[R any, C models.Creator[R], U models.Patcher[R]] interface {
	Store[R, C, U]
	Searcher[R]
}

// Users persists admin accounts.
type Users interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, u models.NewUser) (*models.User, error)
	SetTOTPSecret(ctx context.Context, id int64, secret string) error
	EnableTOTP(ctx context.Context, id int64) error
	SetPasswordHash(ctx context.Context, id int64, hash string) error
	Count(ctx context.Context) (int, error)
}

// Set bundles one store per entity kind. It is constructed once at startup
// and passed to the handlers.
type Set struct {
	Education      Store[models.Education, models.EducationInput, models.EducationPatch]
	Experience     Store[models.Experience, models.ExperienceInput, models.ExperiencePatch]
	Projects       Store[models.Project, models.ProjectInput, models.ProjectPatch]
	Skills         Store[models.Skill, models.SkillInput, models.SkillPatch]
	Certifications Store[models.Certification, models.CertificationInput, models.CertificationPatch]
	Resumes        Store[models.Resume, models.ResumeInput, models.ResumePatch]
	Blog           ContentStore[models.BlogPost, models.BlogPostInput, models.BlogPostPatch]
	Knowledge      ContentStore[models.KnowledgeEntry, models.KnowledgeEntryInput, models.KnowledgeEntryPatch]
	Messages       Store[models.Message, models.MessageInput, models.MessagePatch]
	Users          Users
}
