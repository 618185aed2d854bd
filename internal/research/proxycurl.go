// Package research provides clients for the external people/company research
// APIs. Clients are explicit objects constructed with configuration and passed
// by reference, never module-level singletons.
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
)

const defaultProxycurlBaseURL = "https://nubela.co/proxycurl/api"

// PersonProfile is the subset of a Proxycurl person lookup the service uses.
type PersonProfile struct {
	FullName          string   `json:"full_name"`
	Occupation        string   `json:"occupation"`
	Headline          string   `json:"headline"`
	Summary           string   `json:"summary"`
	ExperienceSummary string   `json:"experience_summary"`
	EducationSummary  string   `json:"education_summary"`
	Skills            []string `json:"skills"`
	CurrentTitle      string   `json:"current_title"`
	CurrentCompany    string   `json:"current_company"`
}

// ProxycurlClient looks up LinkedIn profiles through the Proxycurl API.
type ProxycurlClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewProxycurlClient builds a client. An empty apiKey yields a client whose
// calls fail with ErrNotConfigured; callers treat that as a degraded lookup.
func NewProxycurlClient(apiKey string, timeout time.Duration) *ProxycurlClient {
	return &ProxycurlClient{
		baseURL: defaultProxycurlBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ErrNotConfigured indicates the adapter has no API key and cannot be used.
var ErrNotConfigured = fmt.Errorf("research adapter not configured")

// Configured reports whether the client holds an API key.
func (c *ProxycurlClient) Configured() bool {
	return c.apiKey != ""
}

// PersonByURL fetches the LinkedIn profile behind a profile URL.
func (c *ProxycurlClient) PersonByURL(ctx context.Context, linkedinURL string) (*PersonProfile, error) {
	endpoint := fmt.Sprintf("%s/v2/linkedin?url=%s", c.baseURL, url.QueryEscape(linkedinURL))
	return c.fetchProfile(ctx, endpoint)
}

// PersonSearch finds a profile by name, optionally narrowed by company.
func (c *ProxycurlClient) PersonSearch(ctx context.Context, name, company string) (*PersonProfile, error) {
	endpoint := fmt.Sprintf("%s/search/person?name=%s", c.baseURL, url.QueryEscape(name))
	if company != "" {
		endpoint += "&company=" + url.QueryEscape(company)
	}
	return c.fetchProfile(ctx, endpoint)
}

func (c *ProxycurlClient) fetchProfile(ctx context.Context, endpoint string) (*PersonProfile, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build proxycurl request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxycurl request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("Proxycurl API error: %d %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var raw struct {
		FullName   string `json:"full_name"`
		Occupation string `json:"occupation"`
		Headline   string `json:"headline"`
		Summary    string `json:"summary"`
		Experiences []struct {
			Title   string `json:"title"`
			Company string `json:"company"`
			Starts  *struct {
				Year int `json:"year"`
			} `json:"starts_at"`
		} `json:"experiences"`
		Education []struct {
			School      string `json:"school"`
			DegreeName  string `json:"degree_name"`
			FieldOfStud string `json:"field_of_study"`
		} `json:"education"`
		Skills []string `json:"skills"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode proxycurl response: %w", err)
	}
	if raw.FullName == "" {
		return nil, fmt.Errorf("no profile data found")
	}

	profile := &PersonProfile{
		FullName:   raw.FullName,
		Occupation: raw.Occupation,
		Headline:   raw.Headline,
		Summary:    raw.Summary,
		Skills:     raw.Skills,
	}

	var workHistory []string
	for i, exp := range raw.Experiences {
		if i == 0 {
			profile.CurrentTitle = exp.Title
			profile.CurrentCompany = exp.Company
		}
		workHistory = append(workHistory, fmt.Sprintf("%s at %s", exp.Title, exp.Company))
	}
	profile.ExperienceSummary = strings.Join(workHistory, "; ")

	var schools []string
	for _, edu := range raw.Education {
		entry := edu.School
		if edu.DegreeName != "" {
			entry = fmt.Sprintf("%s (%s)", edu.School, edu.DegreeName)
		}
		schools = append(schools, entry)
	}
	profile.EducationSummary = strings.Join(schools, "; ")

	return profile, nil
}
