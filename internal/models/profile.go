// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"
)

// Education is one entry of the education timeline.
type Education struct {
	ID          int64   `json:"id"`
	Institution string  `json:"institution"`
	Degree      string  `json:"degree"`
	Date        string  `json:"date"`
	Score       *string `json:"score"`
	Location    *string `json:"location"`
}

type EducationInput struct {
	Institution string  `json:"institution"`
	Degree      string  `json:"degree"`
	Date        string  `json:"date"`
	Score       *string `json:"score"`
	Location    *string `json:"location"`
}

func (in EducationInput) Validate() error {
	var c checker
	c.required("institution", in.Institution, maxTitleLen)
	c.required("degree", in.Degree, maxTitleLen)
	c.required("date", in.Date, 100)
	c.optional("score", in.Score, 100)
	c.optional("location", in.Location, maxTitleLen)
	return c.err()
}

func (in EducationInput) Record(id int64, _ time.Time) Education {
	return Education{
		ID:          id,
		Institution: in.Institution,
		Degree:      in.Degree,
		Date:        in.Date,
		Score:       copyPtr(in.Score),
		Location:    copyPtr(in.Location),
	}
}

type EducationPatch struct {
	Institution *string `json:"institution"`
	Degree      *string `json:"degree"`
	Date        *string `json:"date"`
	Score       *string `json:"score"`
	Location    *string `json:"location"`
}

func (p EducationPatch) Validate() error {
	var c checker
	c.present("institution", p.Institution, maxTitleLen)
	c.present("degree", p.Degree, maxTitleLen)
	c.present("date", p.Date, 100)
	c.optional("score", p.Score, 100)
	c.optional("location", p.Location, maxTitleLen)
	return c.err()
}

func (p EducationPatch) Apply(r *Education) {
	setIf(&r.Institution, p.Institution)
	setIf(&r.Degree, p.Degree)
	setIf(&r.Date, p.Date)
	if p.Score != nil {
		r.Score = copyPtr(p.Score)
	}
	if p.Location != nil {
		r.Location = copyPtr(p.Location)
	}
}

// ExperienceProject is a project delivered within one position. It has no
// identity of its own; order is position.
type ExperienceProject struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Experience is one position of the work history.
type Experience struct {
	ID       int64               `json:"id"`
	Company  string              `json:"company"`
	Role     string              `json:"role"`
	Period   string              `json:"period"`
	Location *string             `json:"location"`
	Projects []ExperienceProject `json:"projects"`
}

type ExperienceInput struct {
	Company  string              `json:"company"`
	Role     string              `json:"role"`
	Period   string              `json:"period"`
	Location *string             `json:"location"`
	Projects []ExperienceProject `json:"projects"`
}

func (in ExperienceInput) Validate() error {
	var c checker
	c.required("company", in.Company, maxTitleLen)
	c.required("role", in.Role, maxTitleLen)
	c.required("period", in.Period, 100)
	c.optional("location", in.Location, maxTitleLen)
	c.projects("projects", in.Projects)
	return c.err()
}

func (in ExperienceInput) Record(id int64, _ time.Time) Experience {
	return Experience{
		ID:       id,
		Company:  in.Company,
		Role:     in.Role,
		Period:   in.Period,
		Location: copyPtr(in.Location),
		Projects: normalizeProjects(in.Projects),
	}
}

type ExperiencePatch struct {
	Company  *string              `json:"company"`
	Role     *string              `json:"role"`
	Period   *string              `json:"period"`
	Location *string              `json:"location"`
	Projects *[]ExperienceProject `json:"projects"`
}

// Validate checks every supplied field; a replacement projects list is
// validated element by element like on create.
func (p ExperiencePatch) Validate() error {
	var c checker
	c.present("company", p.Company, maxTitleLen)
	c.present("role", p.Role, maxTitleLen)
	c.present("period", p.Period, 100)
	c.optional("location", p.Location, maxTitleLen)
	if p.Projects != nil {
		c.projects("projects", *p.Projects)
	}
	return c.err()
}

func (p ExperiencePatch) Apply(r *Experience) {
	setIf(&r.Company, p.Company)
	setIf(&r.Role, p.Role)
	setIf(&r.Period, p.Period)
	if p.Location != nil {
		r.Location = copyPtr(p.Location)
	}
	if p.Projects != nil {
		r.Projects = normalizeProjects(*p.Projects)
	}
}

func (c *checker) projects(field string, projects []ExperienceProject) {
	for i, pr := range projects {
		prefix := fmt.Sprintf("%s[%d]", field, i)
		c.required(prefix+".title", pr.Title, maxTitleLen)
		c.required(prefix+".description", pr.Description, maxShortLen*5)
		c.tags(prefix+".tags", pr.Tags)
	}
}

func normalizeProjects(in []ExperienceProject) []ExperienceProject {
	out := make([]ExperienceProject, len(in))
	for i, p := range in {
		out[i] = ExperienceProject{
			Title:       p.Title,
			Description: p.Description,
			Tags:        append([]string{}, p.Tags...),
		}
	}
	return out
}

// Project is a portfolio showcase item.
type Project struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Status      string   `json:"status"`
	Date        *string  `json:"date"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type ProjectInput struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Status      string   `json:"status"`
	Date        *string  `json:"date"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (in ProjectInput) Validate() error {
	var c checker
	c.required("title", in.Title, maxTitleLen)
	c.required("category", in.Category, 100)
	c.required("status", in.Status, 100)
	c.optional("date", in.Date, 100)
	c.required("description", in.Description, maxShortLen*5)
	c.tags("tags", in.Tags)
	return c.err()
}

func (in ProjectInput) Record(id int64, _ time.Time) Project {
	return Project{
		ID:          id,
		Title:       in.Title,
		Category:    in.Category,
		Status:      in.Status,
		Date:        copyPtr(in.Date),
		Description: in.Description,
		Tags:        orEmpty(in.Tags),
	}
}

type ProjectPatch struct {
	Title       *string   `json:"title"`
	Category    *string   `json:"category"`
	Status      *string   `json:"status"`
	Date        *string   `json:"date"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
}

func (p ProjectPatch) Validate() error {
	var c checker
	c.present("title", p.Title, maxTitleLen)
	c.present("category", p.Category, 100)
	c.present("status", p.Status, 100)
	c.optional("date", p.Date, 100)
	c.present("description", p.Description, maxShortLen*5)
	if p.Tags != nil {
		c.tags("tags", *p.Tags)
	}
	return c.err()
}

func (p ProjectPatch) Apply(r *Project) {
	setIf(&r.Title, p.Title)
	setIf(&r.Category, p.Category)
	setIf(&r.Status, p.Status)
	if p.Date != nil {
		r.Date = copyPtr(p.Date)
	}
	setIf(&r.Description, p.Description)
	if p.Tags != nil {
		r.Tags = orEmpty(*p.Tags)
	}
}

// Skill is a category of related skills shown with an icon.
type Skill struct {
	ID       int64    `json:"id"`
	Category string   `json:"category"`
	Icon     *string  `json:"icon"`
	Skills   []string `json:"skills"`
}

type SkillInput struct {
	Category string   `json:"category"`
	Icon     *string  `json:"icon"`
	Skills   []string `json:"skills"`
}

func (in SkillInput) Validate() error {
	var c checker
	c.required("category", in.Category, maxTitleLen)
	c.optional("icon", in.Icon, 100)
	c.tags("skills", in.Skills)
	return c.err()
}

func (in SkillInput) Record(id int64, _ time.Time) Skill {
	return Skill{
		ID:       id,
		Category: in.Category,
		Icon:     copyPtr(in.Icon),
		Skills:   orEmpty(in.Skills),
	}
}

type SkillPatch struct {
	Category *string   `json:"category"`
	Icon     *string   `json:"icon"`
	Skills   *[]string `json:"skills"`
}

func (p SkillPatch) Validate() error {
	var c checker
	c.present("category", p.Category, maxTitleLen)
	c.optional("icon", p.Icon, 100)
	if p.Skills != nil {
		c.tags("skills", *p.Skills)
	}
	return c.err()
}

func (p SkillPatch) Apply(r *Skill) {
	setIf(&r.Category, p.Category)
	if p.Icon != nil {
		r.Icon = copyPtr(p.Icon)
	}
	if p.Skills != nil {
		r.Skills = orEmpty(*p.Skills)
	}
}

// Certification is a credential with an optional verification link.
type Certification struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Issuer string  `json:"issuer"`
	Date   string  `json:"date"`
	Link   *string `json:"link"`
}

type CertificationInput struct {
	Name   string  `json:"name"`
	Issuer string  `json:"issuer"`
	Date   string  `json:"date"`
	Link   *string `json:"link"`
}

func (in CertificationInput) Validate() error {
	var c checker
	c.required("name", in.Name, maxTitleLen)
	c.required("issuer", in.Issuer, maxTitleLen)
	c.required("date", in.Date, 100)
	c.optional("link", in.Link, 2_000)
	return c.err()
}

func (in CertificationInput) Record(id int64, _ time.Time) Certification {
	return Certification{
		ID:     id,
		Name:   in.Name,
		Issuer: in.Issuer,
		Date:   in.Date,
		Link:   copyPtr(in.Link),
	}
}

type CertificationPatch struct {
	Name   *string `json:"name"`
	Issuer *string `json:"issuer"`
	Date   *string `json:"date"`
	Link   *string `json:"link"`
}

func (p CertificationPatch) Validate() error {
	var c checker
	c.present("name", p.Name, maxTitleLen)
	c.present("issuer", p.Issuer, maxTitleLen)
	c.present("date", p.Date, 100)
	c.optional("link", p.Link, 2_000)
	return c.err()
}

func (p CertificationPatch) Apply(r *Certification) {
	setIf(&r.Name, p.Name)
	setIf(&r.Issuer, p.Issuer)
	setIf(&r.Date, p.Date)
	if p.Link != nil {
		r.Link = copyPtr(p.Link)
	}
}
