package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hakimzulkifli/pegawai-backend/api/middleware"
	"github.com/hakimzulkifli/pegawai-backend/api/responses"
	"github.com/hakimzulkifli/pegawai-backend/api/validators"
	"github.com/hakimzulkifli/pegawai-backend/internal/personnel"
	"github.com/hakimzulkifli/pegawai-backend/internal/search"
	pkgerrors "github.com/hakimzulkifli/pegawai-backend/pkg/errors"
	"github.com/hakimzulkifli/pegawai-backend/pkg/logger"
)

type personnelDirectory interface {
	Add(ctx context.Context, fields personnel.Fields, actorNokp string) (*personnel.Record, error)
	Update(ctx context.Context, id string, fields personnel.Fields, actorNokp string) (*personnel.Record, error)
	Remove(ctx context.Context, id string) error
	All() []personnel.Record
}

// PegawaiList returns the directory, filtered by the optional q parameter.
func PegawaiList(directory personnelDirectory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if directory == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory unavailable"))
			return
		}

		records := search.Filter(directory.All(), r.URL.Query().Get("q"))
		responses.WriteSuccess(w, map[string]any{
			"pegawai": records,
			"total":   len(records),
		})
	}
}

// PegawaiCreate adds a directory entry stamped with the acting account.
func PegawaiCreate(directory personnelDirectory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if directory == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory unavailable"))
			return
		}

		var body personnel.Fields
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.NokpFromContext(r.Context())
		record, err := directory.Add(r.Context(), body, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithField(r.Context(), "pegawai_id", record.ID)
			logg.Info(ctx, "pegawai.created")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// PegawaiUpdate replaces the editable fields of one entry.
func PegawaiUpdate(directory personnelDirectory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if directory == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory unavailable"))
			return
		}

		id := chi.URLParam(r, "pegawaiId")
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pegawai id is required"))
			return
		}

		var body personnel.Fields
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.NokpFromContext(r.Context())
		record, err := directory.Update(r.Context(), id, body, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// PegawaiDelete removes one entry.
func PegawaiDelete(directory personnelDirectory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if directory == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory unavailable"))
			return
		}

		id := chi.URLParam(r, "pegawaiId")
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pegawai id is required"))
			return
		}

		if err := directory.Remove(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithField(r.Context(), "pegawai_id", id)
			logg.Info(ctx, "pegawai.deleted")
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
