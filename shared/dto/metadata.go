package dto

import (
	"time"

	"washbay/shared/constant"
	"washbay/shared/model"
	"washbay/shared/timezone"
)

// Metadata is the audit trail rendered on every entity response.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at,omitempty"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(source model.Metadata) {
	*m = Metadata{
		CreatedAt:  formatTime(source.CreatedAt),
		ModifiedAt: formatTime(source.ModifiedAt),
		CreatedBy:  source.CreatedBy,
		ModifiedBy: source.ModifiedBy,
	}
}

// formatTime renders t in the app timezone. Unset times render empty.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return constant.Empty
	}

	return timezone.Format(t, constant.DateFormat)
}
