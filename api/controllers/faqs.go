package controllers

import (
	"net/http"

	"github.com/totalawareness/backend/api/responses"
	"github.com/totalawareness/backend/api/validators"
	"github.com/totalawareness/backend/internal/faqs"
	pkgerrors "github.com/totalawareness/backend/pkg/errors"
	"github.com/totalawareness/backend/pkg/logger"
)

// FAQList serves the marketing-site FAQ entries, answered first.
func FAQList(svc faqs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "faq service unavailable"))
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// FAQCreate submits a new question.
func FAQCreate(svc faqs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "faq service unavailable"))
			return
		}

		var payload faqs.CreateFAQRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		faq, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, faq)
	}
}

// FAQUpdate edits a question or records its answer.
func FAQUpdate(svc faqs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "faq service unavailable"))
			return
		}

		faqID, err := uuidParam(r, "faqId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload faqs.UpdateFAQRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		faq, err := svc.Update(r.Context(), faqID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, faq)
	}
}
