// Package qrcode builds image URLs for check-in tokens. Rendering is delegated
// to an external image service; the token is never altered.
package qrcode

import (
	"errors"
	"net/url"
	"strings"
)

// DefaultTemplate renders a 200x200 PNG through api.qrserver.com.
const DefaultTemplate = "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data={data}"

const placeholder = "{data}"

// Renderer expands a URL template around a token.
type Renderer struct {
	template string
}

// NewRenderer validates template. An empty template selects DefaultTemplate.
func NewRenderer(template string) (*Renderer, error) {
	if template == "" {
		template = DefaultTemplate
	}
	if !strings.Contains(template, placeholder) {
		return nil, errors.New("qr template must contain {data}")
	}
	if _, err := url.Parse(strings.ReplaceAll(template, placeholder, "x")); err != nil {
		return nil, err
	}
	return &Renderer{template: template}, nil
}

// URL returns the image URL for token, or "" when there is no token.
func (r *Renderer) URL(token string) string {
	if token == "" {
		return ""
	}
	return strings.ReplaceAll(r.template, placeholder, url.QueryEscape(token))
}
