package controllers

import (
	"net/http"

	"github.com/totalawareness/backend/api/responses"
	"github.com/totalawareness/backend/api/validators"
	"github.com/totalawareness/backend/internal/contact"
	pkgerrors "github.com/totalawareness/backend/pkg/errors"
	"github.com/totalawareness/backend/pkg/logger"
)

// ContactSubmit stores a contact-form submission.
func ContactSubmit(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		var payload contact.SubmitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msg, err := svc.Submit(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, msg)
	}
}
