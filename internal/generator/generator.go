// Package generator resolves follow-up template keys into personalized
// message text. Text production is intentionally simple; which template to use
// and when is decided upstream.
package generator

import (
	"context"
	"strings"

	"github.com/salesloop/reengage/internal/analyzer"
	"github.com/salesloop/reengage/internal/models"
)

// Generator resolves a template key into the text to send to a lead.
type Generator interface {
	Resolve(ctx context.Context, key analyzer.TemplateKey, lead *models.Lead) (string, error)
}

// templateGenerator renders static templates with lead-name substitution.
type templateGenerator struct {
	templates map[analyzer.TemplateKey]string
	fallback  string
}

var defaultTemplates = map[analyzer.TemplateKey]string{
	analyzer.TemplateObjectionPrice: "Oi {name}! Entendo sua preocupação com o investimento. " +
		"Que tal conversarmos sobre as condições? Temos opções que podem caber no seu orçamento.",
	analyzer.TemplateTechnicalQuestions: "Oi {name}! Vi que você ficou com algumas dúvidas técnicas. " +
		"Posso te explicar em detalhes como tudo funciona. Qual seria o melhor horário?",
	analyzer.TemplateHighEngagement: "Oi {name}! Percebi seu interesse na nossa solução. " +
		"Que tal agendarmos uma conversa rápida para avançarmos?",
	analyzer.TemplateGenericReengagement: "Oi {name}! Notei que nossa conversa ficou pela metade. " +
		"Ainda posso te ajudar com alguma coisa?",
}

// NewTemplateGenerator creates a generator with the built-in template set.
// Overrides replace individual templates, keeping the rest.
func NewTemplateGenerator(overrides map[analyzer.TemplateKey]string) Generator {
	templates := make(map[analyzer.TemplateKey]string, len(defaultTemplates))
	for key, text := range defaultTemplates {
		templates[key] = text
	}
	for key, text := range overrides {
		templates[key] = text
	}

	return &templateGenerator{
		templates: templates,
		fallback:  templates[analyzer.TemplateGenericReengagement],
	}
}

// Resolve renders the template for the key, substituting the lead's name.
// Unknown keys fall back to the generic re-engagement template.
func (g *templateGenerator) Resolve(_ context.Context, key analyzer.TemplateKey, lead *models.Lead) (string, error) {
	text, ok := g.templates[key]
	if !ok {
		text = g.fallback
	}

	name := "tudo bem"
	if lead != nil && lead.Name != "" {
		name = firstName(lead.Name)
	}

	return strings.ReplaceAll(text, "{name}", name), nil
}

func firstName(full string) string {
	if idx := strings.IndexByte(full, ' '); idx > 0 {
		return full[:idx]
	}
	return full
}
