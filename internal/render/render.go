// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render turns a block sequence into an HTML fragment: Markdown text,
// highlighted code, framed images and embedded videos.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"portfolio/internal/blocks"
	"portfolio/internal/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

var tmpl = template.Must(template.New("blocks").ParseFS(templateFS, "templates/*.html"))

type codeView struct {
	Language string
	HTML     template.HTML
}

type videoView struct {
	Src     string
	Caption string
}

// Blocks renders seq in order. Media blocks without a URL are skipped so a
// half-edited post still renders.
func Blocks(seq blocks.Sequence) (template.HTML, error) {
	var buf bytes.Buffer
	for i, b := range seq {
		if err := block(&buf, b); err != nil {
			return "", fmt.Errorf("render block %d: %w", i, err)
		}
		buf.WriteByte('\n')
	}
	return template.HTML(buf.String()), nil
}

func block(buf *bytes.Buffer, b blocks.Block) error {
	switch b := b.(type) {
	case blocks.Text:
		out, err := markdown.ToHTML(b.Value)
		if err != nil {
			return err
		}
		return tmpl.ExecuteTemplate(buf, "text", template.HTML(out))
	case blocks.Code:
		out, err := markdown.Highlight(b.Value, b.Language)
		if err != nil {
			return err
		}
		return tmpl.ExecuteTemplate(buf, "code", codeView{Language: b.Language, HTML: template.HTML(out)})
	case blocks.Image:
		if b.URL == "" {
			return nil
		}
		return tmpl.ExecuteTemplate(buf, "image", b)
	case blocks.Video:
		if b.URL == "" {
			return nil
		}
		return tmpl.ExecuteTemplate(buf, "video", videoView{Src: blocks.EmbedURL(b.URL), Caption: b.Caption})
	default:
		return fmt.Errorf("unknown block %T", b)
	}
}
