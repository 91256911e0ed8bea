package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/username/comprasync/backend/src/logger"
)

// DefaultAPIEndpoint is the public Monday.com GraphQL endpoint.
const DefaultAPIEndpoint = "https://api.monday.com/v2"

// defaultTimeout bounds every API call; an expired deadline surfaces as a
// transport failure.
const defaultTimeout = 30 * time.Second

// Client talks GraphQL to Monday.com. Construct it once with NewClient and
// hand it to whoever needs it; it holds no mutable state and is safe for
// reuse across requests.
type Client struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:   apiKey,
		Endpoint: DefaultAPIEndpoint,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// WithEndpoint returns a copy of the client pointed at a different endpoint.
// Used for self-hosted instances and test servers.
func (c *Client) WithEndpoint(endpoint string) *Client {
	clone := *c
	clone.Endpoint = endpoint
	return &clone
}

// WithHTTPClient returns a copy of the client using the given http.Client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	clone := *c
	clone.HTTPClient = httpClient
	return &clone
}

// Group is a board sub-container. Purchases are bucketed into one group per
// month, titled like "AGO-2024".
type Group struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Board describes a Monday.com board.
type Board struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	State       string `json:"state"`
}

// Column describes one board column.
type Column struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	SettingsStr string `json:"settings_str"`
}

// ColumnValue is a single cell of a board item.
type ColumnValue struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Item is one row on a board.
type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	State        string        `json:"state"`
	CreatedAt    string        `json:"created_at"`
	UpdatedAt    string        `json:"updated_at"`
	ColumnValues []ColumnValue `json:"column_values"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// execute posts a GraphQL document and unmarshals the data payload into out.
// A top-level errors array is an application error even on HTTP 200.
func (c *Client) execute(ctx context.Context, op, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return &RequestError{Op: op, Err: err, Detail: "encoding request"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return &RequestError{Op: op, Err: err, Detail: "building request"}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.APIKey)

	logger.L.Debug("Monday API call", "op", op)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return newTransportError(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return newTransportError(op, err)
	}

	if resp.StatusCode != http.StatusOK {
		return newHTTPStatusError(op, resp.StatusCode, truncate(string(respBody), 512))
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return &RequestError{Op: op, Err: err, Detail: "decoding response"}
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		logger.L.Error("Monday API returned GraphQL errors", "op", op, "errors", messages)
		return newApplicationError(op, messages)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &RequestError{Op: op, Err: err, Detail: "decoding data payload"}
		}
	}
	return nil
}

// CreateItem creates one item on the board and returns its id. Column values
// travel as a JSON-encoded string, as the API requires. A structurally valid
// response without an id is not an error here; the caller treats the empty
// id as a creation failure.
func (c *Client) CreateItem(ctx context.Context, boardID, itemName string, columnValues map[string]any, groupID string) (string, error) {
	const op = "CreateItem"

	columnValuesJSON, err := json.Marshal(columnValues)
	if err != nil {
		return "", &RequestError{Op: op, Err: err, Detail: "encoding column values"}
	}

	query := `
	mutation ($board_id: ID!, $item_name: String!, $column_values: JSON!, $group_id: String) {
		create_item (board_id: $board_id, item_name: $item_name, column_values: $column_values, group_id: $group_id) {
			id
		}
	}`
	variables := map[string]any{
		"board_id":      boardID,
		"item_name":     itemName,
		"column_values": string(columnValuesJSON),
	}
	if groupID != "" {
		variables["group_id"] = groupID
	}

	var data struct {
		CreateItem struct {
			ID string `json:"id"`
		} `json:"create_item"`
	}
	if err := c.execute(ctx, op, query, variables, &data); err != nil {
		return "", err
	}
	return data.CreateItem.ID, nil
}

// GetBoardGroups returns the groups of a board. A board that does not exist
// yields ErrBoardNotFound.
func (c *Client) GetBoardGroups(ctx context.Context, boardID string) ([]Group, error) {
	const op = "GetBoardGroups"

	query := `
	query ($board_id: [ID!]) {
		boards (ids: $board_id) {
			groups {
				id
				title
			}
		}
	}`

	var data struct {
		Boards []struct {
			Groups []Group `json:"groups"`
		} `json:"boards"`
	}
	if err := c.execute(ctx, op, query, map[string]any{"board_id": []string{boardID}}, &data); err != nil {
		return nil, err
	}
	if len(data.Boards) == 0 {
		return nil, &RequestError{Op: op, Err: ErrBoardNotFound, Detail: boardID}
	}
	return data.Boards[0].Groups, nil
}

// CreateGroup creates a named group on the board and returns its id.
func (c *Client) CreateGroup(ctx context.Context, boardID, groupName string) (string, error) {
	const op = "CreateGroup"

	query := `
	mutation ($board_id: ID!, $group_name: String!) {
		create_group (board_id: $board_id, group_name: $group_name) {
			id
		}
	}`

	var data struct {
		CreateGroup struct {
			ID string `json:"id"`
		} `json:"create_group"`
	}
	variables := map[string]any{"board_id": boardID, "group_name": groupName}
	if err := c.execute(ctx, op, query, variables, &data); err != nil {
		return "", err
	}
	logger.L.Info("Created board group", "group", groupName, "groupID", data.CreateGroup.ID)
	return data.CreateGroup.ID, nil
}

// GetOrCreateGroupByDate resolves the month group for a document date,
// creating it on first use. Lookup runs before create so the board never
// ends up with two groups for the same month.
func (c *Client) GetOrCreateGroupByDate(ctx context.Context, boardID string, docDate time.Time) (string, error) {
	label := GroupLabelFor(docDate)

	groups, err := c.GetBoardGroups(ctx, boardID)
	if err != nil {
		return "", err
	}
	for _, g := range groups {
		if g.Title == label {
			return g.ID, nil
		}
	}
	return c.CreateGroup(ctx, boardID, label)
}

// ListBoards returns all boards visible to the API token.
func (c *Client) ListBoards(ctx context.Context) ([]Board, error) {
	const op = "ListBoards"

	query := `
	query {
		boards {
			id
			name
			description
			state
		}
	}`

	var data struct {
		Boards []Board `json:"boards"`
	}
	if err := c.execute(ctx, op, query, nil, &data); err != nil {
		return nil, err
	}
	return data.Boards, nil
}

// GetBoardColumns returns the column definitions of a board.
func (c *Client) GetBoardColumns(ctx context.Context, boardID string) ([]Column, error) {
	const op = "GetBoardColumns"

	query := `
	query ($board_id: [ID!]) {
		boards (ids: $board_id) {
			columns {
				id
				title
				type
				settings_str
			}
		}
	}`

	var data struct {
		Boards []struct {
			Columns []Column `json:"columns"`
		} `json:"boards"`
	}
	if err := c.execute(ctx, op, query, map[string]any{"board_id": []string{boardID}}, &data); err != nil {
		return nil, err
	}
	if len(data.Boards) == 0 {
		return nil, &RequestError{Op: op, Err: ErrBoardNotFound, Detail: boardID}
	}
	return data.Boards[0].Columns, nil
}

// GetBoardItems returns up to limit items of a board with their cell values.
func (c *Client) GetBoardItems(ctx context.Context, boardID string, limit int) ([]Item, error) {
	const op = "GetBoardItems"

	query := `
	query ($board_id: [ID!], $limit: Int) {
		boards (ids: $board_id) {
			items_page (limit: $limit) {
				items {
					id
					name
					state
					created_at
					updated_at
					column_values {
						id
						type
						text
						value
					}
				}
			}
		}
	}`

	var data struct {
		Boards []struct {
			ItemsPage struct {
				Items []Item `json:"items"`
			} `json:"items_page"`
		} `json:"boards"`
	}
	variables := map[string]any{"board_id": []string{boardID}, "limit": limit}
	if err := c.execute(ctx, op, query, variables, &data); err != nil {
		return nil, err
	}
	if len(data.Boards) == 0 {
		return nil, &RequestError{Op: op, Err: ErrBoardNotFound, Detail: boardID}
	}
	return data.Boards[0].ItemsPage.Items, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:max], len(s))
}
