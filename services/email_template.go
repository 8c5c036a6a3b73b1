package services

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

// Template files under EMAIL_TEMPLATE_DIR.
const (
	EmailLayoutTemplate = "layout.html"
)

// TemplateReader loads email template sources by name.
type TemplateReader interface {
	ReadFile(name string) (string, error)
}

// FSTemplateReader reads templates from a file system (os.DirFS or an embed.FS).
type FSTemplateReader struct {
	FS fs.FS
}

func (r FSTemplateReader) ReadFile(name string) (string, error) {
	data, err := fs.ReadFile(r.FS, name)
	if err != nil {
		return "", fmt.Errorf("read email template %s: %w", name, err)
	}
	return string(data), nil
}

// EmailMetaItem is one label/value row of the details table.
type EmailMetaItem struct {
	Label string
	Value string
}

// EmailContent is the data given to the layout template.
type EmailContent struct {
	Subject    string
	Paragraphs []string
	Meta       []EmailMetaItem
	ButtonText string
	ButtonURL  string
}

// LayoutData is what the layout template executes with.
type LayoutData struct {
	Subject string
	Body    template.HTML
}

var basicHTMLReplacer = strings.NewReplacer(
	"&lt;strong&gt;", "<strong>",
	"&lt;/strong&gt;", "</strong>",
)

// RenderEmail executes the layout text with content.
func RenderEmail(layout string, content EmailContent) (string, error) {
	tmpl, err := template.New("email").Parse(layout)
	if err != nil {
		return "", fmt.Errorf("parse email layout: %w", err)
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, LayoutData{
		Subject: content.Subject,
		Body:    template.HTML(buildEmailBody(content)),
	})
	if err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

func buildEmailBody(content EmailContent) string {
	var b strings.Builder
	for _, paragraph := range content.Paragraphs {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" {
			continue
		}
		escaped := template.HTMLEscapeString(trimmed)
		escaped = strings.ReplaceAll(strings.ReplaceAll(escaped, "\r\n", "\n"), "\r", "\n")
		escaped = strings.ReplaceAll(escaped, "\n", "<br />")
		escaped = basicHTMLReplacer.Replace(escaped)
		b.WriteString(`<p style="margin:0 0 18px 0;line-height:1.7;word-break:break-word;">`)
		b.WriteString(escaped)
		b.WriteString(`</p>`)
	}

	rows := make([]EmailMetaItem, 0, len(content.Meta))
	for _, item := range content.Meta {
		label := strings.TrimSpace(item.Label)
		value := strings.TrimSpace(item.Value)
		if label == "" || value == "" {
			continue
		}
		rows = append(rows, EmailMetaItem{Label: label, Value: value})
	}
	if len(rows) > 0 {
		b.WriteString(`<table role="presentation" cellpadding="0" cellspacing="0" width="100%" style="border:1px solid #e5e7eb;border-radius:12px;background-color:#f9fafb;margin:0 0 24px 0;"><tbody>`)
		for i, row := range rows {
			border := "border-bottom:1px solid #e5e7eb;"
			if i == len(rows)-1 {
				border = ""
			}
			fmt.Fprintf(&b, `<tr><td style="padding:12px 16px;font-size:13px;color:#6b7280;width:38%%;%s">%s</td><td style="padding:12px 16px;font-size:15px;color:#111827;font-weight:600;white-space:pre-wrap;%s">%s</td></tr>`,
				border, template.HTMLEscapeString(row.Label), border, template.HTMLEscapeString(row.Value))
		}
		b.WriteString(`</tbody></table>`)
	}

	if strings.TrimSpace(content.ButtonText) != "" && strings.TrimSpace(content.ButtonURL) != "" {
		fmt.Fprintf(&b, `<div style="text-align:center;margin:12px 0 24px 0;"><a href="%s" style="display:inline-block;padding:12px 28px;background-color:#1d4ed8;color:#ffffff;text-decoration:none;border-radius:999px;font-weight:600;">%s</a></div>`,
			template.HTMLEscapeString(content.ButtonURL), template.HTMLEscapeString(content.ButtonText))
	}
	return b.String()
}
