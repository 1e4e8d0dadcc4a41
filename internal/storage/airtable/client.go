package airtable

import (
	"context"
	"fmt"

	airtableapi "github.com/mehanizm/airtable"
)

// Client wraps one Airtable table behind the RecordCreator interface.
type Client struct {
	table *airtableapi.Table
}

// NewClient targets a single table in a single base.
func NewClient(apiKey, baseID, tableName string) *Client {
	api := airtableapi.NewClient(apiKey)
	return &Client{table: api.GetTable(baseID, tableName)}
}

func (c *Client) CreateRecord(ctx context.Context, fields map[string]any) error {
	records := &airtableapi.Records{
		Records: []*airtableapi.Record{{Fields: fields}},
	}
	if _, err := c.table.AddRecordsContext(ctx, records); err != nil {
		return fmt.Errorf("airtable add record: %w", err)
	}
	return nil
}
