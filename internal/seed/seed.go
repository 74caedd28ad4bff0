// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seed populates an empty store with sample development content.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"portfolio/internal/auth"
	"portfolio/internal/blocks"
	"portfolio/internal/models"
	"portfolio/internal/store"
)

// Options controls the optional password admin created alongside the
// sample content.
type Options struct {
	AdminUsername string
	AdminPassword string
}

// Run seeds sample content if the blog is empty and an admin user if no
// user exists and a password was given. Running it again is a no-op.
func Run(ctx context.Context, set *store.Set, opts Options) error {
	if err := seedAdmin(ctx, set.Users, opts); err != nil {
		return err
	}

	posts, err := set.Blog.List(ctx)
	if err != nil {
		return fmt.Errorf("seed check content: %w", err)
	}
	if len(posts) > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	steps := []struct {
		name string
		fn   func(context.Context, *store.Set) error
	}{
		{"blog", seedBlog},
		{"knowledge", seedKnowledge},
		{"education", seedEducation},
		{"experience", seedExperience},
		{"projects", seedProjects},
		{"skills", seedSkills},
		{"certifications", seedCertifications},
	}
	for _, s := range steps {
		if err := s.fn(ctx, set); err != nil {
			return fmt.Errorf("seed %s: %w", s.name, err)
		}
	}

	slog.Info("database seeded with sample content")
	return nil
}

func seedAdmin(ctx context.Context, users store.Users, opts Options) error {
	if opts.AdminPassword == "" {
		return nil
	}
	n, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed hash password: %w", err)
	}
	username := opts.AdminUsername
	if username == "" {
		username = "admin"
	}
	if _, err := users.Create(ctx, models.NewUser{Username: username, PasswordHash: hash}); err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with admin user", "username", username)
	return nil
}

func daysAgo(n int) *time.Time {
	t := time.Now().UTC().AddDate(0, 0, -n)
	return &t
}

func str(s string) *string { return &s }

func seedBlog(ctx context.Context, set *store.Set) error {
	posts := []models.BlogPostInput{
		{
			Title:   "The Future of Generative AI in Healthcare",
			Excerpt: "How LLMs and diffusion models are changing medical imaging and drug discovery.",
			Content: blocks.Sequence{
				blocks.Text{Value: "Generative AI is reshaping how we approach diagnosis and treatment."},
				blocks.Image{URL: "https://images.unsplash.com/photo-1576086213369-97a306d36557?w=800", Caption: "AI analyzing medical scans"},
				blocks.Text{Value: "**Medical imaging**\nModels can flag anomalies that are easy to miss by eye."},
			},
			Tags:     []string{"AI", "Healthcare", "Generative Models"},
			ReadTime: "5 min read",
			Date:     daysAgo(0),
		},
		{
			Title:   "Optimizing Transformer Models for Edge Devices",
			Excerpt: "Quantization and pruning techniques for running BERT-like models on phones.",
			Content: blocks.Sequence{
				blocks.Text{Value: "Edge devices have little compute and memory to spare."},
				blocks.Code{Value: "model = quantize_dynamic(model, {Linear}, dtype=qint8)", Language: "python"},
				blocks.Text{Value: "**Quantization**\nLower precision weights mean faster inference and lower power draw."},
			},
			Tags:     []string{"Edge AI", "Optimization", "Transformers"},
			ReadTime: "8 min read",
			Date:     daysAgo(5),
		},
	}
	for _, p := range posts {
		if _, err := set.Blog.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func seedKnowledge(ctx context.Context, set *store.Set) error {
	entries := []models.KnowledgeEntryInput{
		{
			Title: "LoRA (Low-Rank Adaptation)",
			Content: blocks.Sequence{
				blocks.Text{Value: "LoRA freezes the pre-trained weights and trains low-rank update matrices in each layer."},
			},
			Tags: []string{"Fine-tuning", "LLMs"},
			Date: daysAgo(0),
		},
		{
			Title: "Vector Databases",
			Content: blocks.Sequence{
				blocks.Text{Value: "Vector databases index high-dimensional embeddings for similarity search."},
				blocks.Video{URL: "https://www.youtube.com/embed/klTvE99TEr8", Caption: "Intro to Vector Databases"},
			},
			Tags: []string{"Database", "RAG"},
			Date: daysAgo(2),
		},
		{
			Title: "Transformer Self-Attention",
			Content: blocks.Sequence{
				blocks.Text{Value: "$$ Attention(Q, K, V) = \\text{softmax}\\left(\\frac{QK^T}{\\sqrt{d_k}}\\right)V $$"},
			},
			Tags: []string{"Deep Learning", "Transformers", "Math"},
			Date: daysAgo(1),
		},
	}
	for _, e := range entries {
		if _, err := set.Knowledge.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func seedEducation(ctx context.Context, set *store.Set) error {
	_, err := set.Education.Create(ctx, models.EducationInput{
		Institution: "Harcourt Butler Technical University",
		Degree:      "B.Tech in Computer Science & Engineering",
		Date:        "May 2025",
		Score:       str("CGPA: 8.3/10.0"),
		Location:    str("Kanpur, India"),
	})
	return err
}

func seedExperience(ctx context.Context, set *store.Set) error {
	_, err := set.Experience.Create(ctx, models.ExperienceInput{
		Company:  "Xelpmoc Design and Tech Ltd.",
		Role:     "Machine Learning Scientist",
		Period:   "January 2025 - Present",
		Location: str("Hyderabad, India"),
		Projects: []models.ExperienceProject{
			{
				Title:       "Intelligent Document Understanding",
				Description: "Fine-tuned DONUT for key-value extraction from insurance claims.",
				Tags:        []string{"DONUT", "VLM", "Document AI"},
			},
			{
				Title:       "Web Visit Scoring",
				Description: "End-to-end scoring pipeline over 8M+ sessions with XGBoost.",
				Tags:        []string{"XGBoost", "ML Pipeline"},
			},
		},
	})
	return err
}

func seedProjects(ctx context.Context, set *store.Set) error {
	_, err := set.Projects.Create(ctx, models.ProjectInput{
		Title:       "Portfolio CMS",
		Category:    "Web",
		Status:      "Completed",
		Date:        str("2025"),
		Description: "Block based content management for a personal site.",
		Tags:        []string{"Go", "PostgreSQL"},
	})
	return err
}

func seedSkills(ctx context.Context, set *store.Set) error {
	for _, s := range []models.SkillInput{
		{Category: "Languages", Icon: str("code"), Skills: []string{"Python", "Go", "SQL"}},
		{Category: "Machine Learning", Icon: str("brain"), Skills: []string{"PyTorch", "XGBoost"}},
	} {
		if _, err := set.Skills.Create(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func seedCertifications(ctx context.Context, set *store.Set) error {
	_, err := set.Certifications.Create(ctx, models.CertificationInput{
		Name:   "Deep Learning Specialization",
		Issuer: "DeepLearning.AI",
		Date:   "2023",
		Link:   str("https://www.coursera.org/specializations/deep-learning"),
	})
	return err
}
