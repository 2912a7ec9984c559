// Package analyzer extracts light conversational signals from recent messages
// to steer follow-up template selection and timing. It is deterministic,
// keyword-driven and needs no external model.
package analyzer

import (
	"sort"
	"strings"

	"github.com/salesloop/reengage/internal/models"
)

// Engagement levels derived from conversation volume.
const (
	EngagementLow    = "low"
	EngagementMedium = "medium"
	EngagementHigh   = "high"
)

// ObjectionCategory classifies a detected objection.
type ObjectionCategory string

const (
	ObjectionPrice  ObjectionCategory = "price"
	ObjectionTiming ObjectionCategory = "timing"
	ObjectionTrust  ObjectionCategory = "trust"
)

// Match records a single objection hit.
type Match struct {
	Category ObjectionCategory `json:"category"`
	Keyword  string            `json:"keyword"`
}

// Signals is the analyzer output for one conversation snapshot.
type Signals struct {
	Topics        []string `json:"topics"`
	Objections    []Match  `json:"objections"`
	Questions     []string `json:"questions"`
	InterestLevel int      `json:"interest_level"`
	Engagement    string   `json:"engagement"`
}

// HasObjection reports whether an objection of the given category was found.
func (s Signals) HasObjection(cat ObjectionCategory) bool {
	for _, m := range s.Objections {
		if m.Category == cat {
			return true
		}
	}
	return false
}

var positiveKeywords = []string{
	"quero", "interessado", "interessada", "gostei", "perfeito",
	"pode ser", "vamos", "me conta mais", "quanto custa", "como contrato",
}

var objectionKeywords = []struct {
	category ObjectionCategory
	keyword  string
}{
	{ObjectionPrice, "muito caro"},
	{ObjectionPrice, "caro"},
	{ObjectionPrice, "preço alto"},
	{ObjectionPrice, "sem orçamento"},
	{ObjectionPrice, "não tenho dinheiro"},
	{ObjectionTiming, "sem tempo"},
	{ObjectionTiming, "mais tarde"},
	{ObjectionTiming, "depois eu vejo"},
	{ObjectionTiming, "ocupado"},
	{ObjectionTrust, "não conheço"},
	{ObjectionTrust, "golpe"},
	{ObjectionTrust, "não confio"},
}

var technicalKeywords = []string{
	"como funciona", "integração", "integra com", "api",
	"suporte", "funciona com", "instalação", "configurar",
}

var topicKeywords = map[string][]string{
	"pricing":   {"preço", "valor", "custo", "plano", "mensalidade"},
	"technical": {"como funciona", "integração", "api", "suporte"},
	"schedule":  {"reunião", "agendar", "horário", "demonstração"},
}

// Analyze derives signals from the given messages, ordered oldest first.
// Identical input always produces identical output.
func Analyze(messages []models.Message) Signals {
	signals := Signals{
		Topics:     []string{},
		Objections: []Match{},
		Questions:  []string{},
	}

	var userMessages int
	var positiveHits, technicalHits int

	for _, msg := range messages {
		if msg.Role != models.MessageRoleUser {
			continue
		}
		userMessages++
		content := strings.ToLower(msg.Content)

		for _, kw := range positiveKeywords {
			if strings.Contains(content, kw) {
				positiveHits++
			}
		}

		for _, obj := range objectionKeywords {
			if strings.Contains(content, obj.keyword) {
				signals.Objections = append(signals.Objections, Match{
					Category: obj.category,
					Keyword:  obj.keyword,
				})
				break // one objection per message, most specific keyword first
			}
		}

		for _, kw := range technicalKeywords {
			if strings.Contains(content, kw) {
				technicalHits++
				break
			}
		}

		if strings.Contains(content, "?") {
			signals.Questions = append(signals.Questions, msg.Content)
		}

		for topic, keywords := range topicKeywords {
			for _, kw := range keywords {
				if strings.Contains(content, kw) && !containsString(signals.Topics, topic) {
					signals.Topics = append(signals.Topics, topic)
					break
				}
			}
		}
	}

	if technicalHits > 0 && !containsString(signals.Topics, "technical") {
		signals.Topics = append(signals.Topics, "technical")
	}

	switch {
	case userMessages >= 6:
		signals.Engagement = EngagementHigh
	case userMessages >= 3:
		signals.Engagement = EngagementMedium
	default:
		signals.Engagement = EngagementLow
	}

	signals.InterestLevel = interestScore(positiveHits, len(signals.Objections), len(signals.Questions), signals.Engagement)

	// Stable topic order regardless of map iteration order.
	sort.Strings(signals.Topics)
	return signals
}

// interestScore is a bounded weighted sum: positive hits add, objections
// subtract, engagement adds, clamped to [0,10].
func interestScore(positive, objections, questions int, engagement string) int {
	score := 5 + positive - 2*objections
	if questions >= 2 {
		score++
	}
	if engagement == EngagementHigh {
		score++
	}
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
