package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shopquill/shopquill-backend/internal/catalog"
	"github.com/shopquill/shopquill-backend/internal/prompt"
	"github.com/shopquill/shopquill-backend/internal/shops"
	"github.com/shopquill/shopquill-backend/pkg/db"
	"github.com/shopquill/shopquill-backend/pkg/db/models"
	"github.com/shopquill/shopquill-backend/pkg/enums"
	pkgerrors "github.com/shopquill/shopquill-backend/pkg/errors"
	"github.com/shopquill/shopquill-backend/pkg/metrics"
	"github.com/shopquill/shopquill-backend/pkg/openai"
	"github.com/shopquill/shopquill-backend/pkg/pagination"
	"github.com/shopquill/shopquill-backend/pkg/shopify"
)

type storeConnector interface {
	GetProduct(ctx context.Context, creds shopify.Credentials, productID string) (*shopify.Product, error)
	UpdateProductDescription(ctx context.Context, creds shopify.Credentials, productID string, html string) (*shopify.Product, error)
}

type completionProvider interface {
	Complete(ctx context.Context, req openai.CompletionRequest) (*openai.CompletionResult, error)
}

type contentRepository interface {
	Create(ctx context.Context, record *models.GeneratedContent) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.GeneratedContent, error)
	ListByShop(ctx context.Context, shopID uuid.UUID, params pagination.Params) ([]models.GeneratedContent, string, error)
}

// Service runs the description generation pipeline and serves the
// resulting history.
type Service interface {
	Generate(ctx context.Context, shopDomain string, input GenerateInput) (*GenerateResult, error)
	Apply(ctx context.Context, shopDomain string, contentID uuid.UUID) (*ContentDTO, error)
	List(ctx context.Context, shopDomain string, params pagination.Params) (*ContentPage, error)
}

type service struct {
	shops    shops.Service
	contents contentRepository
	store    storeConnector
	provider completionProvider
	metrics  *metrics.GenerationMetrics
}

// NewService builds a generation service with the provided collaborators.
// The metrics handle may be nil, in which case observations are dropped.
func NewService(shopsSvc shops.Service, contents contentRepository, store storeConnector, provider completionProvider, gm *metrics.GenerationMetrics) (Service, error) {
	if shopsSvc == nil {
		return nil, fmt.Errorf("shops service required")
	}
	if contents == nil {
		return nil, fmt.Errorf("content repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("store connector required")
	}
	if provider == nil {
		return nil, fmt.Errorf("completion provider required")
	}
	return &service{
		shops:    shopsSvc,
		contents: contents,
		store:    store,
		provider: provider,
		metrics:  gm,
	}, nil
}

// Generate runs the full pipeline for one product. Usage is committed and
// the record written only after the provider returns content; a provider
// failure leaves the ledger and the history untouched. A write-back
// failure after that point is reported but never fails the run.
func (s *service) Generate(ctx context.Context, shopDomain string, input GenerateInput) (*GenerateResult, error) {
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	tone := enums.NormalizeTone(input.Tone)

	shop, err := s.shops.Ensure(ctx, shopDomain, input.AccessToken)
	if err != nil {
		return nil, err
	}
	if err := s.shops.CheckQuota(shop); err != nil {
		s.observe(tone, err, 0)
		return nil, err
	}

	creds := shopify.Credentials{ShopDomain: shop.ShopDomain, AccessToken: shop.AccessToken}
	product, err := s.store.GetProduct(ctx, creds, input.ProductID)
	if err != nil {
		s.observe(tone, err, 0)
		return nil, err
	}

	snapshot := catalog.Normalize(product)
	userPrompt, tone, length := prompt.Build(snapshot, prompt.Options{
		Tone:              input.Tone,
		TargetLength:      input.TargetLength,
		Keywords:          input.Keywords,
		AdditionalContext: input.AdditionalContext,
		IncludeFeatures:   input.IncludeFeatures,
		IncludeBenefits:   input.IncludeBenefits,
	})

	completion, err := s.provider.Complete(ctx, openai.CompletionRequest{
		System: prompt.SystemPrompt(),
		User:   userPrompt,
		Length: length,
	})
	if err != nil {
		s.observe(tone, err, 0)
		return nil, err
	}

	// The increment is conditional on the ceiling, so two requests racing
	// for the last unit cannot both land here successfully.
	if err := s.shops.CommitUsage(ctx, shop.ID); err != nil {
		s.observe(tone, err, 0)
		return nil, err
	}
	shop.UsageCount++

	record := &models.GeneratedContent{
		ID:                  uuid.New(),
		ShopID:              shop.ID,
		ProductID:           input.ProductID,
		ProductTitle:        snapshot.Title,
		OriginalDescription: originalDescription(snapshot),
		GeneratedText:       completion.Text,
		ContentType:         enums.ContentTypeDescription,
		Tone:                tone,
		TargetLength:        length,
		Keywords:            pq.StringArray(input.Keywords),
		TokensUsed:          completion.TokensUsed,
	}
	if err := s.contents.Create(ctx, record); err != nil {
		// Usage stays committed; the tokens were spent either way.
		s.observe(tone, err, completion.TokensUsed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record generation")
	}

	s.observe(tone, nil, completion.TokensUsed)

	result := &GenerateResult{
		ContentID:      record.ID,
		Content:        completion.Text,
		TokensUsed:     completion.TokensUsed,
		Tone:           tone,
		TargetLength:   length,
		UsageRemaining: shop.UsageRemaining(),
	}

	if input.ApplyToStore {
		if _, err := s.store.UpdateProductDescription(ctx, creds, input.ProductID, completion.Text); err != nil {
			s.metrics.ObserveWriteBack("error")
			result.WriteBackError = writeBackMessage(err)
		} else {
			s.metrics.ObserveWriteBack("success")
			result.Applied = true
		}
	}
	return result, nil
}

// Apply pushes a previously generated description to the storefront.
func (s *service) Apply(ctx context.Context, shopDomain string, contentID uuid.UUID) (*ContentDTO, error) {
	shop, err := s.shops.GetByDomain(ctx, shopDomain)
	if err != nil {
		return nil, err
	}

	record, err := s.contents.FindByID(ctx, contentID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "generation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load generation")
	}
	if record.ShopID != shop.ID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "generation not found")
	}

	creds := shopify.Credentials{ShopDomain: shop.ShopDomain, AccessToken: shop.AccessToken}
	if _, err := s.store.UpdateProductDescription(ctx, creds, record.ProductID, record.GeneratedText); err != nil {
		s.metrics.ObserveWriteBack("error")
		return nil, err
	}
	s.metrics.ObserveWriteBack("success")
	return FromModel(record), nil
}

// List returns one page of the shop's generation history, newest first.
func (s *service) List(ctx context.Context, shopDomain string, params pagination.Params) (*ContentPage, error) {
	shop, err := s.shops.GetByDomain(ctx, shopDomain)
	if err != nil {
		return nil, err
	}

	records, nextCursor, err := s.contents.ListByShop(ctx, shop.ID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list generations")
	}

	items := make([]ContentDTO, 0, len(records))
	for i := range records {
		items = append(items, *FromModel(&records[i]))
	}
	return &ContentPage{Items: items, NextCursor: nextCursor}, nil
}

func (s *service) observe(tone enums.Tone, err error, tokens int) {
	outcome := "success"
	if err != nil {
		outcome = string(pkgerrors.CodeOf(err))
	}
	s.metrics.ObserveGeneration(tone.String(), outcome, tokens)
}

func originalDescription(snapshot catalog.Snapshot) *string {
	if snapshot.Description == "" || snapshot.Description == "No current description" {
		return nil
	}
	desc := snapshot.Description
	return &desc
}

func writeBackMessage(err error) string {
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr.Message()
	}
	return err.Error()
}
