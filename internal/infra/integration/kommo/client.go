// Package kommo mirrors won deals into the Kommo CRM.
package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

const DefaultBaseURL = "https://api-c.kommo.com/api/v4"

var ErrNotConfigured = errors.New("kommo: api token not configured")

type Client struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiToken, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiToken:   apiToken,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// PushWonLead creates a closed-won lead linked to the contact (found by
// email, or created) and returns the Kommo lead id.
func (c *Client) PushWonLead(ctx context.Context, event queue.LeadEvent) (int, error) {
	if c.apiToken == "" {
		return 0, ErrNotConfigured
	}

	contact, err := c.findOrCreateContact(ctx, event)
	if err != nil {
		return 0, fmt.Errorf("failed to find or create contact: %w", err)
	}

	payload := []leadPayload{{
		Name:     fmt.Sprintf("%s - %s", event.Company, event.Name),
		StatusID: StatusWon,
		Price:    int(math.Round(event.Value)),
		Embedded: leadEmbedded{
			Tags:     []tag{{Name: "crm_won"}},
			Contacts: []contactID{{ID: contact}},
		},
	}}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/leads", payload, &result); err != nil {
		return 0, fmt.Errorf("failed to create lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return 0, errors.New("lead not created")
	}
	return result.Embedded.Leads[0].ID, nil
}

func (c *Client) findOrCreateContact(ctx context.Context, event queue.LeadEvent) (int, error) {
	id, err := c.findContact(ctx, event.Email)
	if err == nil && id > 0 {
		return id, nil
	}
	return c.createContact(ctx, event)
}

func (c *Client) findContact(ctx context.Context, term string) (int, error) {
	var result embeddedIDs
	// Kommo answers 204 with an empty body when nothing matches
	if err := c.do(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(term), nil, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("contact not found")
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) createContact(ctx context.Context, event queue.LeadEvent) (int, error) {
	fields := []customField{{
		FieldCode: "EMAIL",
		Values:    []fieldValue{{Value: event.Email, EnumCode: "WORK"}},
	}}
	if event.Phone != "" {
		fields = append(fields, customField{
			FieldCode: "PHONE",
			Values:    []fieldValue{{Value: event.Phone, EnumCode: "WORK"}},
		})
	}

	var result embeddedIDs
	err := c.do(ctx, http.MethodPost, "/contacts", []contactPayload{{Name: event.Name, CustomFieldsValues: fields}}, &result)
	if err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("created contact id missing from response")
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("kommo %s %s: %d - %s", method, path, resp.StatusCode, string(raw))
	}
	if len(raw) == 0 || out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
