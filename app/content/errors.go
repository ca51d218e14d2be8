// Package content contains the endpoints for creating, editing, listing and
// deleting geo-tagged points of interest
package content

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"discoverlx/poi-api/internal/content"
	"discoverlx/poi-api/pkg/validators"

	"github.com/gin-gonic/gin"
)

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, content.ErrInvalidInput),
		errors.Is(err, content.ErrMediaRequired),
		errors.Is(err, validators.ErrMediaTypeNotAllowed):
		return http.StatusBadRequest, "error"

	case errors.Is(err, content.ErrNotFound):
		return http.StatusNotFound, "error"

	case errors.Is(err, content.ErrNotOwner):
		return http.StatusForbidden, "error"

	default:
		return http.StatusInternalServerError, "error"
	}
}

// formInput reads the user-editable content fields out of a multipart form.
func formInput(c *gin.Context) content.Input {
	in := content.Input{
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		Category:     c.PostForm("category"),
		LocationName: c.PostForm("location_name"),
	}

	if v, err := strconv.ParseFloat(c.PostForm("latitude"), 64); err == nil {
		in.Latitude = &v
	}

	if v, err := strconv.ParseFloat(c.PostForm("longitude"), 64); err == nil {
		in.Longitude = &v
	}

	return in
}

// formMedia opens the optional media_file form file. A missing file is not
// an error here, Create decides whether one is required.
func formMedia(c *gin.Context) (*content.Media, io.Closer, error) {
	fh, err := c.FormFile("media_file")
	if err != nil {
		return nil, nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}

	return &content.Media{
		Filename: fh.Filename,
		Reader:   f,
		Size:     fh.Size,
	}, f, nil
}
