package analysis

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/hirejourne/prep-agent/internal/types"
)

// UnknownCompany is the placeholder used when no company name can be
// extracted from a job description.
const UnknownCompany = "Unknown Company"

// Ordered by specificity: explicit labels first, positional phrasing last.
var companyNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^\s*company(?:\s+name)?\s*[:\-]\s*(.+)$`),
	regexp.MustCompile(`(?i:\babout\s+)([A-Z][A-Za-z0-9&'-]*(?:\s+[A-Z][A-Za-z0-9&'-]+)*)\s*[:\n]`),
	regexp.MustCompile(`(?i:\bjoin\s+(?:us\s+at\s+|the\s+team\s+at\s+)?)([A-Z][A-Za-z0-9&'-]*(?:\s+[A-Z][A-Za-z0-9&'-]+)*)`),
	regexp.MustCompile(`\bat\s+([A-Z][A-Za-z0-9&'-]*(?:\s+[A-Z][A-Za-z0-9&'-]+)*)`),
}

// ExtractCompanyName pulls the hiring company's name out of free-form
// job-description text. Returns UnknownCompany when nothing matches.
func ExtractCompanyName(jobDescription string) string {
	for _, pattern := range companyNamePatterns {
		m := pattern.FindStringSubmatch(jobDescription)
		if m == nil {
			continue
		}
		name := cleanCompanyName(m[1])
		if name != "" {
			return name
		}
	}
	return UnknownCompany
}

func cleanCompanyName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.Trim(name, ".,;:!?\"'")
	// A "name" longer than a few words is a sentence fragment, not a company.
	if name == "" || len(strings.Fields(name)) > 5 || len(name) > 60 {
		return ""
	}
	return name
}

// CompanySummary writes a research briefing on the company via the LLM.
func (a *Analyzer) CompanySummary(ctx context.Context, company string) (string, error) {
	if company == "" || company == UnknownCompany {
		return "", fmt.Errorf("company name is required")
	}
	summary, err := a.generateText(ctx, "company.json", "summary", map[string]string{"Company": company})
	if err != nil {
		return "", fmt.Errorf("failed to generate company summary: %w", err)
	}
	return summary, nil
}

// TechStack returns the company's likely technology stack. Results are
// cached by website domain when a cache and a domain are available.
func (a *Analyzer) TechStack(ctx context.Context, company, domain string) ([]types.Technology, error) {
	if a.cache != nil && domain != "" {
		cached, err := a.cache.GetCachedTechStack(ctx, domain)
		if err != nil {
			log.Printf("Tech stack cache lookup for %s failed: %v", domain, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	var stack []types.Technology
	err := a.generate(ctx, "company.json", "tech_stack",
		map[string]string{"Company": company, "Domain": domain},
		"tech_stack.json", &stack)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tech stack: %w", err)
	}

	if a.cache != nil && domain != "" && len(stack) > 0 {
		if err := a.cache.CacheTechStack(ctx, domain, stack); err != nil {
			log.Printf("Failed to cache tech stack for %s: %v", domain, err)
		}
	}
	return stack, nil
}

// Competitors lists the company's main competitors via the LLM. Used as
// the fallback when Crunchbase has no organization data.
func (a *Analyzer) Competitors(ctx context.Context, company string) ([]types.Competitor, error) {
	var competitors []types.Competitor
	err := a.generate(ctx, "company.json", "competitors",
		map[string]string{"Company": company},
		"competitors.json", &competitors)
	if err != nil {
		return nil, fmt.Errorf("failed to generate competitors: %w", err)
	}
	return competitors, nil
}
