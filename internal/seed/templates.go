// Package seed installs the built-in template gallery into an empty database.
package seed

import (
	"context"
	"fmt"

	"github.com/oduppinsjr/rapid-web-ai/internal/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// TemplateStore is the part of repository.Store the seeder needs
type TemplateStore interface {
	CountTemplates(ctx context.Context) (int64, error)
	CreateTemplate(ctx context.Context, template *model.Template) error
}

// Templates inserts the built-in templates when the table is empty. It reports how many
// templates were created.
func Templates(ctx context.Context, store TemplateStore, log *zap.Logger) (int, error) {
	count, err := store.CountTemplates(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count templates: %w", err)
	}
	if count > 0 {
		log.Info("Templates already present, skipping seed", zap.Int64("count", count))
		return 0, nil
	}

	created := 0
	for _, t := range builtinTemplates() {
		template := t
		if err := model.ValidateDocument("content", template.Content); err != nil {
			return created, fmt.Errorf("built-in template %q is invalid: %w", template.Name, err)
		}
		if err := store.CreateTemplate(ctx, &template); err != nil {
			return created, fmt.Errorf("failed to create template %q: %w", template.Name, err)
		}
		created++
	}

	log.Info("Seeded built-in templates", zap.Int("count", created))
	return created, nil
}

func builtinTemplates() []model.Template {
	return []model.Template{
		{
			Name:        "Bistro",
			Description: "Warm single-location restaurant with menu, hours and reservations.",
			Category:    model.CategoryRestaurant,
			IsActive:    true,
			Content: datatypes.JSON(`{
				"pages": [
					{"name": "Homepage", "slug": "home", "content": {"hero": {"title": "Seasonal food, made with care", "subtitle": "Lunch and dinner, Tuesday to Sunday", "cta": "Book a table"}}},
					{"name": "Menu", "slug": "menu", "content": {"sections": [{"type": "menu", "title": "Starters", "content": "Soup of the day, house salad, bread and butter"}]}},
					{"name": "Contact", "slug": "contact", "content": {"sections": [{"type": "contact", "title": "Find us", "content": "Address, phone and opening hours"}]}}
				],
				"styling": {"primaryColor": "#B91C1C", "secondaryColor": "#F59E0B", "fontFamily": "Playfair Display"}
			}`),
		},
		{
			Name:        "Personal Profile",
			Description: "A one-page introduction with links and a short bio.",
			Category:    model.CategoryPersonal,
			IsActive:    true,
			Content: datatypes.JSON(`{
				"pages": [
					{"name": "Homepage", "slug": "home", "content": {"hero": {"title": "Hi, I'm Alex", "subtitle": "Writer, runner, coffee enthusiast", "cta": "Say hello"}}},
					{"name": "About", "slug": "about", "content": {"sections": [{"type": "about", "title": "About me", "content": "A few words about who you are and what you do"}]}}
				],
				"styling": {"primaryColor": "#0F172A", "secondaryColor": "#38BDF8", "fontFamily": "Inter"}
			}`),
		},
		{
			Name:        "Local Services",
			Description: "Service business with offerings, testimonials and a quote request.",
			Category:    model.CategoryService,
			IsActive:    true,
			Content: datatypes.JSON(`{
				"pages": [
					{"name": "Homepage", "slug": "home", "content": {"hero": {"title": "Reliable help when you need it", "subtitle": "Licensed, insured and local", "cta": "Get a quote"}}},
					{"name": "Services", "slug": "services", "content": {"sections": [{"type": "services", "title": "What we do", "content": "Installation, repair and maintenance"}]}},
					{"name": "Contact", "slug": "contact", "content": {"sections": [{"type": "contact", "title": "Request a quote", "content": "Tell us about the job"}]}}
				],
				"styling": {"primaryColor": "#1D4ED8", "secondaryColor": "#22C55E", "fontFamily": "Inter"}
			}`),
		},
		{
			Name:        "Studio Portfolio",
			Description: "Grid-first portfolio for designers and studios.",
			Category:    model.CategoryPortfolio,
			IsActive:    true,
			Content: datatypes.JSON(`{
				"pages": [
					{"name": "Homepage", "slug": "home", "content": {"hero": {"title": "Selected work", "subtitle": "Brand, product and editorial design", "cta": "View projects"}}},
					{"name": "Work", "slug": "work", "content": {"sections": [{"type": "gallery", "title": "Projects", "content": "A curated set of recent projects"}]}},
					{"name": "Contact", "slug": "contact", "content": {"sections": [{"type": "contact", "title": "Start a project", "content": "Email and availability"}]}}
				],
				"styling": {"primaryColor": "#111827", "secondaryColor": "#F472B6", "fontFamily": "Space Grotesk"}
			}`),
		},
		{
			Name:        "Wellness Clinic",
			Description: "Health practice with practitioners, treatments and booking.",
			Category:    model.CategoryHealth,
			IsActive:    true,
			Content: datatypes.JSON(`{
				"pages": [
					{"name": "Homepage", "slug": "home", "content": {"hero": {"title": "Care that fits your life", "subtitle": "Physiotherapy, massage and nutrition", "cta": "Book an appointment"}}},
					{"name": "Treatments", "slug": "treatments", "content": {"sections": [{"type": "services", "title": "Treatments", "content": "What we offer and how long it takes"}]}},
					{"name": "Contact", "slug": "contact", "content": {"sections": [{"type": "contact", "title": "Visit us", "content": "Location and opening hours"}]}}
				],
				"styling": {"primaryColor": "#0D9488", "secondaryColor": "#A7F3D0", "fontFamily": "Nunito"}
			}`),
		},
		{
			Name:        "Auto Repair",
			Description: "Garage site with services, pricing guide and directions.",
			Category:    model.CategoryAutomotive,
			IsActive:    true,
			Content: datatypes.JSON(`{
				"pages": [
					{"name": "Homepage", "slug": "home", "content": {"hero": {"title": "Honest repairs, fair prices", "subtitle": "All makes and models", "cta": "Book a service"}}},
					{"name": "Services", "slug": "services", "content": {"sections": [{"type": "services", "title": "Services", "content": "Brakes, tyres, diagnostics and MOT"}]}},
					{"name": "Contact", "slug": "contact", "content": {"sections": [{"type": "contact", "title": "Directions", "content": "Address and parking"}]}}
				],
				"styling": {"primaryColor": "#DC2626", "secondaryColor": "#1F2937", "fontFamily": "Roboto"}
			}`),
		},
		{
			Name:        "Photographer",
			Description: "Full-bleed galleries with packages and enquiries.",
			Category:    model.CategoryPhotography,
			IsActive:    true,
			Content: datatypes.JSON(`{
				"pages": [
					{"name": "Homepage", "slug": "home", "content": {"hero": {"title": "Moments worth keeping", "subtitle": "Weddings, portraits and events", "cta": "Check availability"}}},
					{"name": "Galleries", "slug": "galleries", "content": {"sections": [{"type": "gallery", "title": "Galleries", "content": "Recent sessions"}]}},
					{"name": "Packages", "slug": "packages", "content": {"sections": [{"type": "pricing", "title": "Packages", "content": "Half day, full day and custom"}]}}
				],
				"styling": {"primaryColor": "#18181B", "secondaryColor": "#D4D4D8", "fontFamily": "Cormorant Garamond"}
			}`),
		},
		{
			Name:        "Creative Agency",
			Description: "Bold agency landing page with case studies.",
			Category:    model.CategoryCreative,
			IsActive:    true,
			Content: datatypes.JSON(`{
				"pages": [
					{"name": "Homepage", "slug": "home", "content": {"hero": {"title": "Ideas that move people", "subtitle": "Strategy, identity and campaigns", "cta": "See our work"}}},
					{"name": "Case Studies", "slug": "case-studies", "content": {"sections": [{"type": "case-study", "title": "Recent work", "content": "Three projects and their results"}]}},
					{"name": "Contact", "slug": "contact", "content": {"sections": [{"type": "contact", "title": "Work with us", "content": "New business enquiries"}]}}
				],
				"styling": {"primaryColor": "#7C3AED", "secondaryColor": "#FACC15", "fontFamily": "Poppins"}
			}`),
		},
	}
}
