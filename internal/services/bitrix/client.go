package bitrix

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ordersync/internal/logger"
)

// Client talks to the Bitrix24 REST API through an inbound webhook URL of the
// form https://<portal>.bitrix24.com/rest/<user>/<token>
type Client struct {
	webhookBase string
	httpClient  *http.Client
	logger      *logger.Logger
}

func NewClient(webhookBase string, logger *logger.Logger) *Client {
	return &Client{
		webhookBase: webhookBase,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// apiResponse is the common Bitrix REST envelope. Result shape depends on the
// method, so it stays raw until the caller decodes it.
type apiResponse struct {
	Result           json.RawMessage `json:"result"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

// call issues a REST method and decodes the result envelope into out. A nil
// out discards the result.
func (c *Client) call(method string, payload interface{}, out interface{}) error {
	url := fmt.Sprintf("%s/%s.json", c.webhookBase, method)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Error != "" {
		return fmt.Errorf("%s returned %s: %s", method, apiResp.Error, apiResp.ErrorDescription)
	}

	if out != nil {
		if err := json.Unmarshal(apiResp.Result, out); err != nil {
			return fmt.Errorf("failed to decode result: %w", err)
		}
	}

	return nil
}

// DealAdd creates a deal and returns its new ID
func (c *Client) DealAdd(fields DealFields) (int64, error) {
	var dealID int64
	err := c.call("crm.deal.add", map[string]interface{}{
		"fields": fields,
	}, &dealID)
	if err != nil {
		return 0, err
	}
	return dealID, nil
}

// DealUpdate applies a partial field set to an existing deal
func (c *Client) DealUpdate(dealID string, fields DealFields) error {
	return c.call("crm.deal.update", map[string]interface{}{
		"id":     dealID,
		"fields": fields,
	}, nil)
}

// DealList returns deals matching the filter, with only the selected fields
func (c *Client) DealList(filter map[string]string, selectFields []string) ([]Deal, error) {
	var deals []Deal
	err := c.call("crm.deal.list", map[string]interface{}{
		"filter": filter,
		"select": selectFields,
	}, &deals)
	if err != nil {
		return nil, err
	}
	return deals, nil
}

// DealProductRowsSet replaces all product rows on a deal. An empty rows slice
// clears the rows.
func (c *Client) DealProductRowsSet(dealID string, rows []ProductRow) error {
	if rows == nil {
		rows = []ProductRow{}
	}
	return c.call("crm.deal.productrows.set", map[string]interface{}{
		"id":   dealID,
		"rows": rows,
	}, nil)
}

// ContactList returns contacts matching the filter
func (c *Client) ContactList(filter map[string]string, selectFields []string) ([]Contact, error) {
	var contacts []Contact
	err := c.call("crm.contact.list", map[string]interface{}{
		"filter": filter,
		"select": selectFields,
	}, &contacts)
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// ContactAdd creates a contact and returns its new ID
func (c *Client) ContactAdd(fields map[string]interface{}) (int64, error) {
	var contactID int64
	err := c.call("crm.contact.add", map[string]interface{}{
		"fields": fields,
	}, &contactID)
	if err != nil {
		return 0, err
	}
	return contactID, nil
}
