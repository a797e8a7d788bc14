package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/apperr"
	"vidtube/internal/model"
	"vidtube/internal/transport/http/middleware"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

var errNotMultipart = apperr.Invalid("Content-Type must be multipart/form-data")

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("invalid " + name)
	}
	return id, nil
}

// listParams collects raw page/sort values from the query string.
func listParams(r *http.Request) model.ListParams {
	q := r.URL.Query()
	return model.ListParams{
		Page:     q.Get("page"),
		Limit:    q.Get("limit"),
		SortBy:   q.Get("sortBy"),
		SortType: q.Get("sortType"),
	}
}

// viewer is the authenticated user, nil on anonymous requests.
func viewer(r *http.Request) *model.User {
	return middleware.UserFromContext(r.Context())
}

// parseMultipart bounds the body to limit bytes and parses the form.
func parseMultipart(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrNotMultipart):
			return errNotMultipart
		case errors.As(err, &tooLarge):
			return model.ErrFileTooLarge
		default:
			return apperr.Invalid("invalid form data")
		}
	}
	return nil
}

// formFile returns the first present file among fields, or nil when none was
// sent. The returned func closes the file and is always safe to call.
func formFile(r *http.Request, fields ...string) (*model.MediaFile, func(), error) {
	for _, field := range fields {
		file, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, func() {}, apperr.Invalid("invalid " + field + " upload")
		}
		return mediaFile(file, header), func() { file.Close() }, nil
	}
	return nil, func() {}, nil
}

func mediaFile(file multipart.File, header *multipart.FileHeader) *model.MediaFile {
	return &model.MediaFile{
		Reader:      file,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func message(text string) map[string]string {
	return map[string]string{"message": text}
}
