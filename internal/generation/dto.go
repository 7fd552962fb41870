package generation

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopquill/shopquill-backend/pkg/db/models"
	"github.com/shopquill/shopquill-backend/pkg/enums"
)

// GenerateInput captures one description generation request.
type GenerateInput struct {
	ProductID         string
	AccessToken       string
	Tone              enums.Tone
	TargetLength      enums.ContentLength
	Keywords          []string
	AdditionalContext string
	IncludeFeatures   bool
	IncludeBenefits   bool
	ApplyToStore      bool
}

// GenerateResult is the outcome of a successful pipeline run. WriteBackError
// is populated when the generation succeeded but pushing it to the
// storefront did not; the caller still gets the content and the record.
type GenerateResult struct {
	ContentID      uuid.UUID           `json:"contentId"`
	Content        string              `json:"content"`
	TokensUsed     int                 `json:"tokensUsed"`
	Tone           enums.Tone          `json:"tone"`
	TargetLength   enums.ContentLength `json:"targetLength"`
	UsageRemaining *int                `json:"usageRemaining"`
	Applied        bool                `json:"applied"`
	WriteBackError string              `json:"writeBackError,omitempty"`
}

// ContentDTO is the API-facing view of a stored generation record.
type ContentDTO struct {
	ID           uuid.UUID           `json:"id"`
	ProductID    string              `json:"productId"`
	ProductTitle string              `json:"productTitle"`
	Content      string              `json:"content"`
	ContentType  enums.ContentType   `json:"contentType"`
	Tone         enums.Tone          `json:"tone"`
	TargetLength enums.ContentLength `json:"targetLength"`
	Keywords     []string            `json:"keywords"`
	TokensUsed   int                 `json:"tokensUsed"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// ContentPage is one page of generation history plus the cursor for the next.
type ContentPage struct {
	Items      []ContentDTO `json:"items"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

// FromModel maps a generation record to its DTO.
func FromModel(record *models.GeneratedContent) *ContentDTO {
	if record == nil {
		return nil
	}
	return &ContentDTO{
		ID:           record.ID,
		ProductID:    record.ProductID,
		ProductTitle: record.ProductTitle,
		Content:      record.GeneratedText,
		ContentType:  record.ContentType,
		Tone:         record.Tone,
		TargetLength: record.TargetLength,
		Keywords:     record.Keywords,
		TokensUsed:   record.TokensUsed,
		CreatedAt:    record.CreatedAt,
	}
}
