package agent

import (
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
)

const (
	knowledgeSectionStart = "=== RELEVANT KNOWLEDGE BASE CONTENT ==="
	knowledgeSectionEnd   = "=== END RELEVANT CONTENT ==="
	memorySectionStart    = "=== RELEVANT MEMORIES ==="
	memorySectionEnd      = "=== END MEMORIES ==="
)

const pricePolicyBlock = `=== PRICE POLICY (STRICT) ===
Prices are confidential for this business.
- NEVER state, estimate, compare or hint at any price, discount amount or currency value.
- Tool results will not contain prices. Do not invent them.
- If the customer asks about price, cost, discounts in money terms or payment amounts, politely say a team member will share pricing details and offer to help with anything else.
=== END PRICE POLICY ===`

// BuildSystemPrompt assembles the system instruction in a fixed section order.
// The output is a pure function of its inputs.
func BuildSystemPrompt(avatar *models.Avatar, version *models.PromptVersion, passages []models.KnowledgePassage, memories []models.Memory) string {
	var sb strings.Builder

	writeIdentity(&sb, avatar)

	if version != nil && strings.TrimSpace(version.SystemPrompt) != "" {
		sb.WriteString(strings.TrimSpace(version.SystemPrompt))
		sb.WriteString("\n\n")
	} else {
		writeBusinessContext(&sb, avatar)
	}

	if version != nil {
		writeBulletList(&sb, "PERSONALITY TRAITS", version.PersonalityTraits)
		writeBulletList(&sb, "BEHAVIOR RULES", version.BehaviorRules)
		writeNumberedList(&sb, "COMPLIANCE RULES (MUST FOLLOW)", version.ComplianceRules)
		writeNumberedList(&sb, "RESPONSE GUIDELINES", version.ResponseGuidelines)
	}

	if len(passages) > 0 {
		sb.WriteString(knowledgeSectionStart + "\n")
		for i, p := range passages {
			fmt.Fprintf(&sb, "[%d] %s\n", i+1, strings.TrimSpace(p.ChunkText))
		}
		sb.WriteString(knowledgeSectionEnd + "\n\n")
	}

	if len(memories) > 0 {
		sb.WriteString(memorySectionStart + "\n")
		for _, m := range memories {
			if m.MemoryType != "" {
				fmt.Fprintf(&sb, "- [%s] %s\n", m.MemoryType, strings.TrimSpace(m.Content))
			} else {
				fmt.Fprintf(&sb, "- %s\n", strings.TrimSpace(m.Content))
			}
		}
		sb.WriteString(memorySectionEnd + "\n\n")
	}

	if !avatar.PriceVisible {
		sb.WriteString(pricePolicyBlock)
		sb.WriteString("\n\n")
	}

	writeToolDirectives(&sb, avatar)

	return sb.String()
}

func writeIdentity(sb *strings.Builder, avatar *models.Avatar) {
	if avatar.CompanyName != "" {
		fmt.Fprintf(sb, "You are %s, the virtual assistant for %s.\n", avatar.Name, avatar.CompanyName)
	} else {
		fmt.Fprintf(sb, "You are %s, a virtual assistant.\n", avatar.Name)
	}
	if avatar.PrimaryLanguage != "" {
		fmt.Fprintf(sb, "Primary language: %s.", avatar.PrimaryLanguage)
		if len(avatar.SupportedLanguages) > 0 {
			fmt.Fprintf(sb, " You may also reply in: %s.", strings.Join(avatar.SupportedLanguages, ", "))
		}
		sb.WriteString(" Reply in the language the customer uses when it is supported.\n")
	}
	sb.WriteString("\n")
}

func writeBusinessContext(sb *strings.Builder, avatar *models.Avatar) {
	sb.WriteString("BUSINESS CONTEXT:\n")
	if avatar.Industry != "" {
		fmt.Fprintf(sb, "Industry: %s\n", avatar.Industry)
	}
	if avatar.BusinessContext != "" {
		sb.WriteString(strings.TrimSpace(avatar.BusinessContext))
		sb.WriteString("\n")
	} else {
		sb.WriteString("Help customers with questions about our products and services.\n")
	}
	sb.WriteString("\n")
}

func writeBulletList(sb *strings.Builder, title string, items []string) {
	items = nonEmpty(items)
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}

func writeNumberedList(sb *strings.Builder, title string, items []string) {
	items = nonEmpty(items)
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	for i, item := range items {
		fmt.Fprintf(sb, "%d. %s\n", i+1, item)
	}
	sb.WriteString("\n")
}

func writeToolDirectives(sb *strings.Builder, avatar *models.Avatar) {
	sb.WriteString("=== TOOL USAGE (MANDATORY) ===\n")
	sb.WriteString("- Before recommending or describing any product, call browse_full_catalog to see what is actually available. Use search_products only for exact lookups by name or SKU.\n")
	sb.WriteString("- Use get_products_by_category only with a category returned by list_product_categories.\n")
	sb.WriteString("- Only mention promotions returned by get_active_promotions or validate_promo_code. Never invent promotions, codes or discounts.\n")
	sb.WriteString("- Never claim a product exists unless a tool returned it.\n")
	sb.WriteString("- Tool results may carry an image_ref. To show that item's picture, write [IMAGE_REF:<image_ref>] on its own line. Never write image URLs yourself.\n")
	if avatar.PriceVisible {
		sb.WriteString("- Quote prices exactly as current_price from tool results and mention the applied promotion when there is one.\n")
	} else {
		sb.WriteString("- Products are marked price_hidden. Do not mention any price or amount.\n")
	}
	fmt.Fprintf(sb, "- Keep replies short and chat-like. Separate distinct messages with %s.\n", avatar.Delimiter())
	sb.WriteString("=== END TOOL USAGE ===\n")
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
