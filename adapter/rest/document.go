package rest

import (
	"fmt"
	"net/http"

	"github.com/reqsift/reqsift"
)

type apiDocument struct {
	Location string `json:"location"`
}

// Upload a PDF document to file storage; the returned location is used as a
// run source.
// (POST /v1/documents)
func (a *Adapter) UploadDocument(w http.ResponseWriter, r *http.Request) {
	// Limit the size of the request body to prevent large uploads. This will
	// return io.MaxBytesError if the request body exceeds the limit while
	// being read. Must be installed before the multipart parse consumes the
	// body.
	r.Body = http.MaxBytesReader(w, r.Body, reqsift.MaxFileSize)

	// Anything over this limit is spooled to a temporary file.
	r.ParseMultipartForm(reqsift.MaxFileSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		renderJSONError(w, http.StatusBadRequest, fmt.Errorf("error reading file from request: %w", err))
		return
	}
	defer file.Close()

	location, err := a.reqSift.StoreDocument(file, header.Filename)
	if err != nil {
		renderJSONError(w, http.StatusBadRequest, fmt.Errorf("error storing document: %w", err))
		return
	}

	renderJSON(w, http.StatusCreated, apiDocument{Location: location})
}
