package research

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hirejourne/prep-agent/internal/types"
)

const defaultCrunchbaseBaseURL = "https://api.crunchbase.com/api/v4"

// Organization is the subset of a Crunchbase organization entity the service uses.
type Organization struct {
	Name             string
	Description      string
	WebsiteURL       string
	LinkedInURL      string
	FoundedOn        string
	NumEmployeesEnum string
	FundingTotal     float64
	FundingCurrency  string
}

// CrunchbaseClient fetches company data from the Crunchbase API.
type CrunchbaseClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewCrunchbaseClient builds a client. An empty apiKey yields a client whose
// calls fail with ErrNotConfigured; enrichment treats that as a fetch failure
// and falls back.
func NewCrunchbaseClient(apiKey string, timeout time.Duration) *CrunchbaseClient {
	return &CrunchbaseClient{
		baseURL: defaultCrunchbaseBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Configured reports whether the client holds an API key.
func (c *CrunchbaseClient) Configured() bool {
	return c.apiKey != ""
}

// OrganizationByName looks up a company by name. Returns nil (no error) when
// the company is unknown to Crunchbase.
func (c *CrunchbaseClient) OrganizationByName(ctx context.Context, companyName string) (*Organization, error) {
	var raw struct {
		Properties struct {
			Name             string `json:"name"`
			Description      string `json:"description"`
			WebsiteURL       string `json:"website_url"`
			LinkedInURL      string `json:"linkedin_url"`
			FoundedOn        string `json:"founded_on"`
			NumEmployeesEnum string `json:"num_employees_enum"`
			FundingTotal     *struct {
				Value    float64 `json:"value"`
				Currency string  `json:"currency"`
			} `json:"funding_total"`
		} `json:"properties"`
	}

	body, status, err := c.do(ctx, c.entityURL(companyName, "fields"))
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("Crunchbase API error: %d %s", status, strings.TrimSpace(string(body)))
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	payload := body
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		payload = envelope.Data
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode crunchbase response: %w", err)
	}
	if raw.Properties.Name == "" {
		return nil, nil
	}

	org := &Organization{
		Name:             raw.Properties.Name,
		Description:      raw.Properties.Description,
		WebsiteURL:       raw.Properties.WebsiteURL,
		LinkedInURL:      raw.Properties.LinkedInURL,
		FoundedOn:        raw.Properties.FoundedOn,
		NumEmployeesEnum: raw.Properties.NumEmployeesEnum,
	}
	if raw.Properties.FundingTotal != nil {
		org.FundingTotal = raw.Properties.FundingTotal.Value
		org.FundingCurrency = raw.Properties.FundingTotal.Currency
	}
	return org, nil
}

// FundingRounds lists a company's raised funding rounds. Errors degrade to an
// empty list; funding data is decorative, not load-bearing.
func (c *CrunchbaseClient) FundingRounds(ctx context.Context, companyName string) ([]types.FundingRound, error) {
	body, status, err := c.do(ctx, c.entityURL(companyName, "raised_funding_rounds"))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("Crunchbase API error: %d %s", status, strings.TrimSpace(string(body)))
	}

	var raw struct {
		Data struct {
			Cards struct {
				RaisedFundingRounds struct {
					Edges []struct {
						Node struct {
							AnnouncedOn    string `json:"announced_on"`
							InvestmentType string `json:"investment_type"`
							MoneyRaised    *struct {
								Value float64 `json:"value"`
							} `json:"money_raised"`
							Investors []struct {
								Name string `json:"name"`
							} `json:"investors"`
						} `json:"node"`
					} `json:"edges"`
				} `json:"raised_funding_rounds"`
			} `json:"cards"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode funding rounds: %w", err)
	}

	rounds := make([]types.FundingRound, 0, len(raw.Data.Cards.RaisedFundingRounds.Edges))
	for _, edge := range raw.Data.Cards.RaisedFundingRounds.Edges {
		round := types.FundingRound{
			Date:  edge.Node.AnnouncedOn,
			Round: edge.Node.InvestmentType,
		}
		if edge.Node.MoneyRaised != nil {
			round.Amount = edge.Node.MoneyRaised.Value
		}
		for _, inv := range edge.Node.Investors {
			round.Investors = append(round.Investors, inv.Name)
		}
		rounds = append(rounds, round)
	}
	return rounds, nil
}

// Competitors lists a company's competitors. Errors degrade to an empty list.
func (c *CrunchbaseClient) Competitors(ctx context.Context, companyName string) ([]types.Competitor, error) {
	body, status, err := c.do(ctx, c.entityURL(companyName, "competitors"))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("Crunchbase API error: %d %s", status, strings.TrimSpace(string(body)))
	}

	var raw struct {
		Data struct {
			Cards struct {
				Competitors struct {
					Edges []struct {
						Node struct {
							Name             string `json:"name"`
							WebsiteURL       string `json:"website_url"`
							ShortDescription string `json:"short_description"`
						} `json:"node"`
					} `json:"edges"`
				} `json:"competitors"`
			} `json:"cards"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode competitors: %w", err)
	}

	competitors := make([]types.Competitor, 0, len(raw.Data.Cards.Competitors.Edges))
	for _, edge := range raw.Data.Cards.Competitors.Edges {
		competitors = append(competitors, types.Competitor{
			Name:        edge.Node.Name,
			URL:         edge.Node.WebsiteURL,
			Description: edge.Node.ShortDescription,
		})
	}
	return competitors, nil
}

func (c *CrunchbaseClient) entityURL(companyName, cardIDs string) string {
	return fmt.Sprintf("%s/entities/organizations/%s?card_ids=%s",
		c.baseURL, url.PathEscape(Permalink(companyName)), cardIDs)
}

func (c *CrunchbaseClient) do(ctx context.Context, endpoint string) ([]byte, int, error) {
	if c.apiKey == "" {
		return nil, 0, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build crunchbase request: %w", err)
	}
	req.Header.Set("X-cb-user-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("crunchbase request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read crunchbase response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// Permalink converts a display name into the Crunchbase entity permalink form.
func Permalink(companyName string) string {
	s := strings.ToLower(strings.TrimSpace(companyName))
	s = strings.ReplaceAll(s, "&", "and")
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
