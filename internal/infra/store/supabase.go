package store

import (
	"context"
	"encoding/json"
	"fmt"

	"herald/internal/domain/notification"

	supa "github.com/supabase-community/supabase-go"
)

const tableName = "members"

var _ notification.RecipientDirectory = (*SupabaseDirectory)(nil)

// SupabaseDirectory reads member records from Supabase via PostgREST.
// It is the external user directory: the dispatcher only ever reads
// recipients from it and hands them to the core by value.
type SupabaseDirectory struct {
	client *supa.Client
}

// NewSupabaseDirectory creates a new Supabase-backed member directory.
func NewSupabaseDirectory(supabaseURL, serviceKey string) (*SupabaseDirectory, error) {
	client, err := supa.NewClient(supabaseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return &SupabaseDirectory{client: client}, nil
}

// memberRow is the internal representation of a members table row.
type memberRow struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        *string         `json:"phone,omitempty"`
	DeviceTokens []string        `json:"device_tokens,omitempty"`
	Preferences  map[string]bool `json:"preferences,omitempty"`
	Active       bool            `json:"active"`
}

// ListActive retrieves every active member.
func (d *SupabaseDirectory) ListActive(ctx context.Context) ([]notification.Recipient, error) {
	data, _, err := d.client.From(tableName).
		Select("*", "exact", false).
		Eq("active", "true").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing active members: %w", err)
	}

	return parseRows(data)
}

// GetByIDs retrieves the members with the given IDs. Unknown IDs are
// silently absent from the result.
func (d *SupabaseDirectory) GetByIDs(ctx context.Context, ids []string) ([]notification.Recipient, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	data, _, err := d.client.From(tableName).
		Select("*", "exact", false).
		In("id", ids).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching members by id: %w", err)
	}

	return parseRows(data)
}

func parseRows(data []byte) ([]notification.Recipient, error) {
	var rows []memberRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing member rows: %w", err)
	}

	recipients := make([]notification.Recipient, 0, len(rows))
	for _, row := range rows {
		recipients = append(recipients, rowToRecipient(&row))
	}
	return recipients, nil
}

func rowToRecipient(row *memberRow) notification.Recipient {
	rcpt := notification.Recipient{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		DeviceTokens: row.DeviceTokens,
		Active:       row.Active,
	}

	if row.Phone != nil {
		rcpt.Phone = *row.Phone
	}

	if len(row.Preferences) > 0 {
		prefs := make(map[notification.Channel]bool, len(row.Preferences))
		for name, enabled := range row.Preferences {
			prefs[notification.Channel(name)] = enabled
		}
		rcpt.Preferences = prefs
	}

	return rcpt
}
