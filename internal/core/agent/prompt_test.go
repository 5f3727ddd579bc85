package agent

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
)

func promptFixture(priceVisible bool) (*models.Avatar, *models.PromptVersion) {
	avatar := &models.Avatar{
		ID:                 uuid.New(),
		Name:               "Aina",
		CompanyName:        "Gadget Hub",
		PrimaryLanguage:    "English",
		SupportedLanguages: []string{"Malay", "Chinese"},
		PriceVisible:       priceVisible,
		WhatsAppDelimiter:  "||",
	}
	version := &models.PromptVersion{
		AvatarID:           avatar.ID,
		VersionNumber:      2,
		SystemPrompt:       "You help customers choose gadgets.",
		PersonalityTraits:  []string{"friendly", " ", "concise"},
		BehaviorRules:      []string{"Ask clarifying questions"},
		ComplianceRules:    []string{"Never promise delivery dates", "No medical advice"},
		ResponseGuidelines: []string{"Use short sentences"},
		IsActive:           true,
	}
	return avatar, version
}

func TestBuildSystemPromptIsDeterministic(t *testing.T) {
	avatar, version := promptFixture(true)
	passages := []models.KnowledgePassage{{ChunkText: "We ship nationwide.", Similarity: 0.9}}
	memories := []models.Memory{{MemoryType: "preference", Content: "Customer likes blue"}}

	first := BuildSystemPrompt(avatar, version, passages, memories)
	for i := 0; i < 5; i++ {
		if got := BuildSystemPrompt(avatar, version, passages, memories); got != first {
			t.Fatalf("prompt changed between calls:\n%s\n---\n%s", first, got)
		}
	}
}

func TestBuildSystemPromptSectionOrder(t *testing.T) {
	avatar, version := promptFixture(false)
	prompt := BuildSystemPrompt(avatar, version,
		[]models.KnowledgePassage{{ChunkText: "Warranty is 12 months."}},
		[]models.Memory{{Content: "Asked about tablets"}},
	)

	order := []string{
		"You are Aina, the virtual assistant for Gadget Hub.",
		"Primary language: English.",
		"You help customers choose gadgets.",
		"PERSONALITY TRAITS:\n- friendly\n- concise\n",
		"BEHAVIOR RULES:",
		"COMPLIANCE RULES (MUST FOLLOW):\n1. Never promise delivery dates\n2. No medical advice\n",
		"RESPONSE GUIDELINES:\n1. Use short sentences\n",
		knowledgeSectionStart,
		"[1] Warranty is 12 months.",
		memorySectionStart,
		"=== PRICE POLICY (STRICT) ===",
		"=== TOOL USAGE (MANDATORY) ===",
	}

	last := -1
	for _, part := range order {
		idx := strings.Index(prompt, part)
		if idx < 0 {
			t.Fatalf("missing %q in prompt:\n%s", part, prompt)
		}
		if idx <= last {
			t.Fatalf("%q is out of order", part)
		}
		last = idx
	}
	if strings.Contains(prompt, "BUSINESS CONTEXT") {
		t.Errorf("business context is only a fallback for an empty system prompt")
	}
}

func TestBuildSystemPromptFallbacks(t *testing.T) {
	avatar, _ := promptFixture(true)
	avatar.Industry = "Retail"
	avatar.BusinessContext = "Family-run electronics store."

	prompt := BuildSystemPrompt(avatar, nil, nil, nil)

	if !strings.Contains(prompt, "BUSINESS CONTEXT:\nIndustry: Retail\nFamily-run electronics store.") {
		t.Errorf("expected business context fallback:\n%s", prompt)
	}
	for _, absent := range []string{knowledgeSectionStart, memorySectionStart, "PRICE POLICY", "PERSONALITY TRAITS"} {
		if strings.Contains(prompt, absent) {
			t.Errorf("unexpected section %q", absent)
		}
	}
	if !strings.Contains(prompt, "Separate distinct messages with ||.") {
		t.Errorf("delimiter directive missing")
	}
	if !strings.Contains(prompt, "[IMAGE_REF:<image_ref>]") {
		t.Errorf("image ref directive missing")
	}
}
