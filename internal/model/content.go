package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
)

// ValidateGeneratedWebsite checks a website generation result. It must be a content
// document with a non-empty string title, at least one page and a styling object.
// Only those members are read; every other key is left as generated.
func ValidateGeneratedWebsite(raw []byte) error {
	if err := ValidateDocument("website", raw); err != nil {
		return err
	}

	var site struct {
		Title   *string           `json:"title"`
		Pages   []json.RawMessage `json:"pages"`
		Styling json.RawMessage   `json:"styling"`
	}
	if err := json.Unmarshal(raw, &site); err != nil {
		return fmt.Errorf("generated website: %w", err)
	}
	if site.Title == nil || strings.TrimSpace(*site.Title) == "" {
		return errors.New("generated website has no title")
	}
	if len(site.Pages) == 0 {
		return errors.New("generated website has no pages")
	}
	if site.Styling == nil {
		return errors.New("generated website has no styling")
	}
	return nil
}

// ValidateDocument checks the top-level shape of a content document: a JSON object whose
// optional pages member is an array of objects with unique slugs and whose optional styling
// member is an object. Anything else is passed through untouched.
func ValidateDocument(field string, raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return apperror.Validation("Validation error", apperror.FieldError{Field: field, Message: "is required"})
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return apperror.Validation("Validation error", apperror.FieldError{Field: field, Message: "must be a JSON object"})
	}

	if pagesRaw, ok := top["pages"]; ok {
		var pages []map[string]json.RawMessage
		if err := json.Unmarshal(pagesRaw, &pages); err != nil {
			return apperror.Validation("Validation error", apperror.FieldError{Field: field + ".pages", Message: "must be an array of objects"})
		}
		seen := make(map[string]struct{}, len(pages))
		for i, page := range pages {
			var slug string
			if rawSlug, ok := page["slug"]; ok {
				if err := json.Unmarshal(rawSlug, &slug); err != nil {
					return apperror.Validation("Validation error", apperror.FieldError{
						Field:   fmt.Sprintf("%s.pages[%d].slug", field, i),
						Message: "must be a string",
					})
				}
			}
			if slug == "" {
				continue
			}
			if _, dup := seen[slug]; dup {
				return apperror.Validation("Validation error", apperror.FieldError{
					Field:   fmt.Sprintf("%s.pages[%d].slug", field, i),
					Message: fmt.Sprintf("duplicate slug %q", slug),
				})
			}
			seen[slug] = struct{}{}
		}
	}

	if stylingRaw, ok := top["styling"]; ok {
		var styling map[string]json.RawMessage
		if err := json.Unmarshal(stylingRaw, &styling); err != nil || styling == nil {
			return apperror.Validation("Validation error", apperror.FieldError{Field: field + ".styling", Message: "must be an object"})
		}
	}

	return nil
}

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// NormalizeSubdomain returns the canonical form of a subdomain: trimmed, lower-cased,
// without leading or trailing hyphens, and a valid DNS label.
func NormalizeSubdomain(s string) (string, error) {
	canonical := strings.Trim(strings.ToLower(strings.TrimSpace(s)), "-")
	if canonical == "" {
		return "", apperror.Validation("Validation error", apperror.FieldError{Field: "subdomain", Message: "is required"})
	}
	if !subdomainPattern.MatchString(canonical) {
		return "", apperror.Validation("Validation error", apperror.FieldError{
			Field:   "subdomain",
			Message: "must be 1-63 characters of a-z, 0-9 and hyphens",
		})
	}
	return canonical, nil
}
