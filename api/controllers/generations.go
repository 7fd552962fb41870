package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopquill/shopquill-backend/api/middleware"
	"github.com/shopquill/shopquill-backend/api/responses"
	"github.com/shopquill/shopquill-backend/api/validators"
	"github.com/shopquill/shopquill-backend/internal/generation"
	"github.com/shopquill/shopquill-backend/pkg/enums"
	pkgerrors "github.com/shopquill/shopquill-backend/pkg/errors"
	"github.com/shopquill/shopquill-backend/pkg/logger"
	"github.com/shopquill/shopquill-backend/pkg/pagination"
)

type createGenerationRequest struct {
	ProductID         string   `json:"productId" validate:"required"`
	Tone              string   `json:"tone"`
	TargetLength      string   `json:"targetLength"`
	Keywords          []string `json:"keywords" validate:"omitempty,max=10,dive,required"`
	AdditionalContext string   `json:"additionalContext" validate:"omitempty,max=500"`
	IncludeFeatures   *bool    `json:"includeFeatures"`
	IncludeBenefits   *bool    `json:"includeBenefits"`
	ApplyToStore      bool     `json:"applyToStore"`
	AccessToken       string   `json:"accessToken"`
}

func (req createGenerationRequest) toInput() generation.GenerateInput {
	input := generation.GenerateInput{
		ProductID:         req.ProductID,
		AccessToken:       req.AccessToken,
		Tone:              enums.Tone(req.Tone),
		TargetLength:      enums.ContentLength(req.TargetLength),
		Keywords:          req.Keywords,
		AdditionalContext: req.AdditionalContext,
		IncludeFeatures:   true,
		IncludeBenefits:   true,
		ApplyToStore:      req.ApplyToStore,
	}
	if req.IncludeFeatures != nil {
		input.IncludeFeatures = *req.IncludeFeatures
	}
	if req.IncludeBenefits != nil {
		input.IncludeBenefits = *req.IncludeBenefits
	}
	return input
}

// CreateGeneration runs the generation pipeline for the authenticated shop.
func CreateGeneration(svc generation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "generation service unavailable"))
			return
		}

		domain := middleware.ShopDomainFromContext(r.Context())
		if domain == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		var payload createGenerationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Generate(r.Context(), domain, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ApplyGeneration pushes a stored generation to the storefront.
func ApplyGeneration(svc generation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "generation service unavailable"))
			return
		}

		domain := middleware.ShopDomainFromContext(r.Context())
		if domain == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		contentID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid generation id"))
			return
		}

		dto, err := svc.Apply(r.Context(), domain, contentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ListGenerations returns the authenticated shop's generation history.
func ListGenerations(svc generation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "generation service unavailable"))
			return
		}

		domain := middleware.ShopDomainFromContext(r.Context())
		if domain == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), domain, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}
