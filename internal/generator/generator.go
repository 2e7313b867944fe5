// Package generator turns business descriptions and edit instructions into website content
// using a chat-completion LLM.
package generator

import (
	"context"

	"gorm.io/datatypes"
)

// Generator produces website content. Every failure is an apperror.KindGeneration error.
type Generator interface {
	// GenerateWebsite builds a complete multi-page site from a description. The result
	// carries title, pages and styling plus whatever else the model produced.
	GenerateWebsite(ctx context.Context, req WebsiteRequest) (datatypes.JSON, error)
	// ModifyWebsite applies a natural language instruction to existing content
	ModifyWebsite(ctx context.Context, current datatypes.JSON, instruction string) (datatypes.JSON, error)
	// GenerateContent writes section copy (hero, about, services, testimonials, contact)
	GenerateContent(ctx context.Context, businessType, prompt string) (datatypes.JSON, error)
}

// WebsiteRequest describes the business a site is generated for
type WebsiteRequest struct {
	Prompt       string `json:"prompt" validate:"required,min=10,max=4000"`
	BusinessType string `json:"businessType" validate:"required,max=255"`
	Style        string `json:"style" validate:"required,max=255"`
}

const websiteSystemPrompt = `You are an expert website builder AI. Generate a complete website structure based on the user's business description. Return a JSON object with the following structure:
{
  "title": "Business Name",
  "pages": [
    {
      "name": "Homepage",
      "slug": "home",
      "content": {
        "hero": {
          "title": "Main headline",
          "subtitle": "Supporting text",
          "cta": "Call to action text"
        },
        "sections": [
          {
            "type": "about",
            "title": "Section title",
            "content": "Section content"
          }
        ]
      }
    }
  ],
  "styling": {
    "primaryColor": "#3B82F6",
    "secondaryColor": "#6366F1",
    "fontFamily": "Inter"
  }
}

Create 3-5 relevant pages (always include Homepage, About, Contact, and relevant service/product pages). Every page slug must be unique. Make content specific to their business, not generic.`

const websiteUserPrompt = `Business Description: %s
Business Type: %s
Preferred Style: %s

Generate a complete website with specific, relevant content for this business.`

const modifySystemPrompt = `You are an expert website editor AI. Modify the provided website content based on the user's instruction. Return the updated content as a JSON object, maintaining the same structure but applying the requested changes. Be specific and make meaningful modifications.`

const modifyUserPrompt = `Current website content: %s

Instruction: %s

Apply this change and return the updated content as JSON.`

const contentSystemPrompt = `Generate professional website content for a %s business. Return JSON with sections like hero, about, services/products, testimonials, and contact. Make it specific and professional.`

const contentDefaultUserPrompt = `Generate content for a %s business website.`
