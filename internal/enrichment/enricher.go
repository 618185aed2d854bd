// Package enrichment assembles company research for a submission from
// Crunchbase and the LLM. Every lookup degrades independently; callers
// always get a usable record, never an error that blocks the pipeline.
package enrichment

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hirejourne/prep-agent/internal/analysis"
	"github.com/hirejourne/prep-agent/internal/research"
	"github.com/hirejourne/prep-agent/internal/types"
)

// FallbackSummary is used when no detailed company data can be fetched.
const FallbackSummary = "Unable to fetch detailed information"

// OrganizationSource is the company-database lookup the enricher draws on.
type OrganizationSource interface {
	OrganizationByName(ctx context.Context, companyName string) (*research.Organization, error)
	FundingRounds(ctx context.Context, companyName string) ([]types.FundingRound, error)
	Competitors(ctx context.Context, companyName string) ([]types.Competitor, error)
	Configured() bool
}

// Enricher builds company records for submissions.
type Enricher struct {
	orgs     OrganizationSource
	analyzer *analysis.Analyzer
}

// New builds an Enricher.
func New(orgs OrganizationSource, analyzer *analysis.Analyzer) *Enricher {
	return &Enricher{orgs: orgs, analyzer: analyzer}
}

// Enrich gathers everything known about the company. Individual lookup
// failures are logged and leave their field empty or at a fallback
// value; the returned record is always valid for persistence.
func (e *Enricher) Enrich(ctx context.Context, companyName string) *types.CompanyRecord {
	record := &types.CompanyRecord{Name: companyName}

	if companyName == "" || companyName == analysis.UnknownCompany {
		record.Name = analysis.UnknownCompany
		record.CompanySummary = fmt.Sprintf("%s about this company.", FallbackSummary)
		return record
	}

	org := e.lookupOrganization(ctx, companyName)
	domain := ""
	if org != nil {
		domain = domainFromURL(org.WebsiteURL)
	}

	// Lookups are independent; run them together and let each degrade
	// on its own.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		record.CompanySummary = e.summarize(gctx, companyName, org)
		return nil
	})
	g.Go(func() error {
		stack, err := e.analyzer.TechStack(gctx, companyName, domain)
		if err != nil {
			log.Printf("Tech stack lookup for %s failed: %v", companyName, err)
			return nil
		}
		record.TechStack = stack
		return nil
	})
	g.Go(func() error {
		record.MarketMap = e.competitors(gctx, companyName)
		return nil
	})
	g.Go(func() error {
		if !e.orgs.Configured() {
			return nil
		}
		rounds, err := e.orgs.FundingRounds(gctx, companyName)
		if err != nil {
			log.Printf("Funding rounds lookup for %s failed: %v", companyName, err)
			return nil
		}
		record.FundingRounds = rounds
		return nil
	})
	_ = g.Wait()

	if org != nil {
		record.DueDiligenceNotes = dueDiligenceNotes(org)
	}
	return record
}

func (e *Enricher) lookupOrganization(ctx context.Context, companyName string) *research.Organization {
	if !e.orgs.Configured() {
		return nil
	}
	org, err := e.orgs.OrganizationByName(ctx, companyName)
	if err != nil {
		log.Printf("Organization lookup for %s failed: %v", companyName, err)
		return nil
	}
	return org
}

func (e *Enricher) summarize(ctx context.Context, companyName string, org *research.Organization) string {
	if org != nil && org.Description != "" {
		return org.Description
	}
	summary, err := e.analyzer.CompanySummary(ctx, companyName)
	if err != nil {
		log.Printf("Company summary for %s failed: %v", companyName, err)
		return fmt.Sprintf("%s about %s.", FallbackSummary, companyName)
	}
	return summary
}

// competitors prefers the company database and falls back to the LLM.
func (e *Enricher) competitors(ctx context.Context, companyName string) []types.Competitor {
	if e.orgs.Configured() {
		competitors, err := e.orgs.Competitors(ctx, companyName)
		if err != nil {
			log.Printf("Competitor lookup for %s failed: %v", companyName, err)
		} else if len(competitors) > 0 {
			return competitors
		}
	}

	competitors, err := e.analyzer.Competitors(ctx, companyName)
	if err != nil {
		log.Printf("Competitor generation for %s failed: %v", companyName, err)
		return nil
	}
	return competitors
}

func dueDiligenceNotes(org *research.Organization) string {
	var parts []string
	if org.FoundedOn != "" {
		parts = append(parts, "Founded: "+org.FoundedOn)
	}
	if org.NumEmployeesEnum != "" {
		parts = append(parts, "Headcount: "+strings.ReplaceAll(strings.TrimPrefix(org.NumEmployeesEnum, "c_"), "_", "-"))
	}
	if org.FundingTotal > 0 {
		parts = append(parts, fmt.Sprintf("Total funding: %.0f %s", org.FundingTotal, org.FundingCurrency))
	}
	if org.WebsiteURL != "" {
		parts = append(parts, "Website: "+org.WebsiteURL)
	}
	return strings.Join(parts, "\n")
}

func domainFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
