package statuscheck

import (
	"fmt"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/docstore"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/models"
)

const (
	statusChecksCollection = "status_checks"
)

// StatusCheckRow is the stored form of a status check. Timestamp is written as an
// ISO-8601 string; older documents may hold a BSON datetime instead.
type StatusCheckRow struct {
	ID         string `bson:"id"`
	ClientName string `bson:"client_name"`
	Timestamp  any    `bson:"timestamp"`
}

// FromStatusCheck converts a domain model to a stored document
func FromStatusCheck(s models.StatusCheck) StatusCheckRow {
	return StatusCheckRow{
		ID:         s.ID,
		ClientName: s.ClientName,
		Timestamp:  docstore.FormatTimestamp(s.Timestamp),
	}
}

// ToStatusCheck converts a stored document to a domain model
func ToStatusCheck(row StatusCheckRow) (models.StatusCheck, error) {
	ts, err := docstore.ParseTimestamp(row.Timestamp)
	if err != nil {
		return models.StatusCheck{}, fmt.Errorf("status check %s: %w", row.ID, err)
	}

	return models.StatusCheck{
		ID:         row.ID,
		ClientName: row.ClientName,
		Timestamp:  ts,
	}, nil
}
