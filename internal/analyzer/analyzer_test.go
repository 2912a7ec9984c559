package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salesloop/reengage/internal/analyzer"
	"github.com/salesloop/reengage/internal/models"
)

func userMsg(content string) models.Message {
	return models.Message{Role: models.MessageRoleUser, Content: content}
}

func assistantMsg(content string) models.Message {
	return models.Message{Role: models.MessageRoleAssistant, Content: content}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name     string
		messages []models.Message
		check    func(t *testing.T, s analyzer.Signals)
	}{
		{
			name:     "empty conversation",
			messages: nil,
			check: func(t *testing.T, s analyzer.Signals) {
				assert.Equal(t, 5, s.InterestLevel)
				assert.Equal(t, analyzer.EngagementLow, s.Engagement)
				assert.Empty(t, s.Objections)
			},
		},
		{
			name: "price objection detected",
			messages: []models.Message{
				assistantMsg("Nosso plano custa R$ 500 por mês"),
				userMsg("Achei muito caro"),
			},
			check: func(t *testing.T, s analyzer.Signals) {
				assert.True(t, s.HasObjection(analyzer.ObjectionPrice))
				assert.Equal(t, 3, s.InterestLevel)
			},
		},
		{
			name: "positive keywords raise interest",
			messages: []models.Message{
				userMsg("Gostei muito da proposta"),
				userMsg("Quero saber como contrato"),
				userMsg("Pode ser amanhã?"),
			},
			check: func(t *testing.T, s analyzer.Signals) {
				assert.GreaterOrEqual(t, s.InterestLevel, 7)
				assert.Equal(t, analyzer.EngagementMedium, s.Engagement)
			},
		},
		{
			name: "technical questions become a topic",
			messages: []models.Message{
				userMsg("Como funciona a integração com meu sistema?"),
			},
			check: func(t *testing.T, s analyzer.Signals) {
				assert.Contains(t, s.Topics, "technical")
				assert.Len(t, s.Questions, 1)
			},
		},
		{
			name: "multiple topics come back sorted",
			messages: []models.Message{
				userMsg("Queria agendar uma demonstração"),
				userMsg("Qual o valor do plano?"),
				userMsg("Integra com meu sistema via api?"),
			},
			check: func(t *testing.T, s analyzer.Signals) {
				assert.Equal(t, []string{"pricing", "schedule", "technical"}, s.Topics)
			},
		},
		{
			name: "assistant messages are ignored",
			messages: []models.Message{
				assistantMsg("Está muito caro para você?"),
				assistantMsg("Quero te ajudar"),
			},
			check: func(t *testing.T, s analyzer.Signals) {
				assert.Empty(t, s.Objections)
				assert.Empty(t, s.Questions)
				assert.Equal(t, 5, s.InterestLevel)
			},
		},
		{
			name: "interest is clamped to zero",
			messages: []models.Message{
				userMsg("muito caro"),
				userMsg("não tenho dinheiro"),
				userMsg("sem tempo"),
				userMsg("não confio"),
			},
			check: func(t *testing.T, s analyzer.Signals) {
				assert.Equal(t, 0, s.InterestLevel)
			},
		},
		{
			name: "six user messages is high engagement",
			messages: []models.Message{
				userMsg("oi"), userMsg("tudo bem"), userMsg("sim"),
				userMsg("legal"), userMsg("entendi"), userMsg("certo"),
			},
			check: func(t *testing.T, s analyzer.Signals) {
				assert.Equal(t, analyzer.EngagementHigh, s.Engagement)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, analyzer.Analyze(tt.messages))
		})
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	messages := []models.Message{
		userMsg("Como funciona a integração?"),
		userMsg("Achei o preço alto"),
		userMsg("Mas gostei do produto"),
	}

	first := analyzer.Analyze(messages)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, analyzer.Analyze(messages))
	}
}

func TestSelectTemplateKey_PriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		signals  analyzer.Signals
		expected analyzer.TemplateKey
	}{
		{
			name: "price objection wins over everything",
			signals: analyzer.Signals{
				Objections:    []analyzer.Match{{Category: analyzer.ObjectionPrice, Keyword: "caro"}},
				Questions:     []string{"como funciona?"},
				Topics:        []string{"technical"},
				InterestLevel: 9,
			},
			expected: analyzer.TemplateObjectionPrice,
		},
		{
			name: "technical question beats high interest",
			signals: analyzer.Signals{
				Questions:     []string{"tem api?"},
				Topics:        []string{"technical"},
				InterestLevel: 9,
			},
			expected: analyzer.TemplateTechnicalQuestions,
		},
		{
			name:     "high interest without pending signals",
			signals:  analyzer.Signals{InterestLevel: 7},
			expected: analyzer.TemplateHighEngagement,
		},
		{
			name:     "interest below threshold falls back to generic",
			signals:  analyzer.Signals{InterestLevel: 6},
			expected: analyzer.TemplateGenericReengagement,
		},
		{
			name: "questions without technical topic are not technical",
			signals: analyzer.Signals{
				Questions:     []string{"qual o horário?"},
				InterestLevel: 3,
			},
			expected: analyzer.TemplateGenericReengagement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, analyzer.SelectTemplateKey(tt.signals))
		})
	}
}

func TestSelectTemplateKey_FromConversation(t *testing.T) {
	// "muito caro" with no other signal must resolve to the price objection
	// template end to end.
	signals := analyzer.Analyze([]models.Message{userMsg("muito caro")})
	assert.Equal(t, analyzer.TemplateObjectionPrice, analyzer.SelectTemplateKey(signals))
}
