package controllers

import (
	"net/http"

	"github.com/totalawareness/backend/api/responses"
	"github.com/totalawareness/backend/internal/roles"
	pkgerrors "github.com/totalawareness/backend/pkg/errors"
	"github.com/totalawareness/backend/pkg/logger"
)

// RoleList returns the fixed role catalog, most authoritative first.
func RoleList(svc roles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "role service unavailable"))
			return
		}

		catalog, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, catalog)
	}
}
