package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	strictnethttp "github.com/oapi-codegen/runtime/strictmiddleware/nethttp"
)

// The types below follow the strict server layout of oapi-codegen for the
// operations in openapi.yaml: one request object, one response interface and
// one Visit method per response per operation.

type StrictHandlerFunc = strictnethttp.StrictHTTPHandlerFunc
type StrictMiddlewareFunc = strictnethttp.StrictHTTPMiddlewareFunc

// StrictServerInterface represents all server handlers.
type StrictServerInterface interface {
	// Outputs a corrected epg response in xml format
	// (GET /guide.xml)
	GetCorrectedGuide(ctx context.Context, request GetCorrectedGuideRequestObject) (GetCorrectedGuideResponseObject, error)
	// Outputs the epg response as the source serves it
	// (GET /original/guide.xml)
	GetOriginalGuide(ctx context.Context, request GetOriginalGuideRequestObject) (GetOriginalGuideResponseObject, error)
	// Outputs the merged playlist filtered and corrected by the channel table
	// (GET /iptv/read)
	GetFilteredPlaylist(ctx context.Context, request GetFilteredPlaylistRequestObject) (GetFilteredPlaylistResponseObject, error)
	// Outputs the merged playlist of every source
	// (GET /iptv/unfiltered)
	GetUnfilteredPlaylist(ctx context.Context, request GetUnfilteredPlaylistRequestObject) (GetUnfilteredPlaylistResponseObject, error)
	// Reports whether both correction tables load
	// (GET /health)
	GetHealth(ctx context.Context, request GetHealthRequestObject) (GetHealthResponseObject, error)
}

// ServerInterface is the plain net/http side of StrictServerInterface.
type ServerInterface interface {
	GetCorrectedGuide(w http.ResponseWriter, r *http.Request)
	GetOriginalGuide(w http.ResponseWriter, r *http.Request)
	GetFilteredPlaylist(w http.ResponseWriter, r *http.Request)
	GetUnfilteredPlaylist(w http.ResponseWriter, r *http.Request)
	GetHealth(w http.ResponseWriter, r *http.Request)
}

// Health defines model for Health.
type Health struct {
	Status       string   `json:"status"`
	ChannelTable string   `json:"channel_table"`
	GuideTable   string   `json:"guide_table"`
	Errors       []string `json:"errors,omitempty"`
}

type GetCorrectedGuideRequestObject struct{}

type GetCorrectedGuideResponseObject interface {
	VisitGetCorrectedGuideResponse(w http.ResponseWriter) error
}

type GetCorrectedGuide200ApplicationxmlResponse struct {
	Body          io.Reader
	ContentLength int64
}

func (response GetCorrectedGuide200ApplicationxmlResponse) VisitGetCorrectedGuideResponse(w http.ResponseWriter) error {
	return writeStream(w, ContentTypeXML, response.Body, response.ContentLength)
}

type GetOriginalGuideRequestObject struct{}

type GetOriginalGuideResponseObject interface {
	VisitGetOriginalGuideResponse(w http.ResponseWriter) error
}

type GetOriginalGuide200ApplicationxmlResponse struct {
	Body          io.Reader
	ContentLength int64
}

func (response GetOriginalGuide200ApplicationxmlResponse) VisitGetOriginalGuideResponse(w http.ResponseWriter) error {
	return writeStream(w, ContentTypeXML, response.Body, response.ContentLength)
}

type GetFilteredPlaylistRequestObject struct{}

type GetFilteredPlaylistResponseObject interface {
	VisitGetFilteredPlaylistResponse(w http.ResponseWriter) error
}

type GetFilteredPlaylist200AudioxMpegurlResponse struct {
	Body          io.Reader
	ContentLength int64
}

func (response GetFilteredPlaylist200AudioxMpegurlResponse) VisitGetFilteredPlaylistResponse(w http.ResponseWriter) error {
	return writeStream(w, ContentTypeM3U, response.Body, response.ContentLength)
}

type GetUnfilteredPlaylistRequestObject struct{}

type GetUnfilteredPlaylistResponseObject interface {
	VisitGetUnfilteredPlaylistResponse(w http.ResponseWriter) error
}

type GetUnfilteredPlaylist200AudioxMpegurlResponse struct {
	Body          io.Reader
	ContentLength int64
}

func (response GetUnfilteredPlaylist200AudioxMpegurlResponse) VisitGetUnfilteredPlaylistResponse(w http.ResponseWriter) error {
	return writeStream(w, ContentTypeM3U, response.Body, response.ContentLength)
}

type GetHealthRequestObject struct{}

type GetHealthResponseObject interface {
	VisitGetHealthResponse(w http.ResponseWriter) error
}

type GetHealth200JSONResponse Health

func (response GetHealth200JSONResponse) VisitGetHealthResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(response)
}

type GetHealth503JSONResponse Health

func (response GetHealth503JSONResponse) VisitGetHealthResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	return json.NewEncoder(w).Encode(response)
}

func writeStream(w http.ResponseWriter, contentType string, body io.Reader, length int64) error {
	w.Header().Set("Content-Type", contentType)
	if length != 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(length, 10))
	}
	w.WriteHeader(http.StatusOK)

	if closer, ok := body.(io.ReadCloser); ok {
		defer closer.Close()
	}
	_, err := io.Copy(w, body)
	return err
}

type StrictHTTPServerOptions struct {
	ResponseErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// NewStrictHandler adapts ssi to ServerInterface. Every operation runs through
// middlewares, the last one outermost. An operation error goes to
// options.ResponseErrorHandlerFunc.
func NewStrictHandler(ssi StrictServerInterface, middlewares []StrictMiddlewareFunc, options StrictHTTPServerOptions) ServerInterface {
	return &strictHandler{ssi: ssi, middlewares: middlewares, options: options}
}

type strictHandler struct {
	ssi         StrictServerInterface
	middlewares []StrictMiddlewareFunc
	options     StrictHTTPServerOptions
}

// GetCorrectedGuide operation middleware
func (sh *strictHandler) GetCorrectedGuide(w http.ResponseWriter, r *http.Request) {
	var request GetCorrectedGuideRequestObject

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GetCorrectedGuide(ctx, request.(GetCorrectedGuideRequestObject))
	}
	response, err := sh.run(handler, "GetCorrectedGuide", w, r, request)
	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GetCorrectedGuideResponseObject); ok {
		if err := validResponse.VisitGetCorrectedGuideResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// GetOriginalGuide operation middleware
func (sh *strictHandler) GetOriginalGuide(w http.ResponseWriter, r *http.Request) {
	var request GetOriginalGuideRequestObject

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GetOriginalGuide(ctx, request.(GetOriginalGuideRequestObject))
	}
	response, err := sh.run(handler, "GetOriginalGuide", w, r, request)
	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GetOriginalGuideResponseObject); ok {
		if err := validResponse.VisitGetOriginalGuideResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// GetFilteredPlaylist operation middleware
func (sh *strictHandler) GetFilteredPlaylist(w http.ResponseWriter, r *http.Request) {
	var request GetFilteredPlaylistRequestObject

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GetFilteredPlaylist(ctx, request.(GetFilteredPlaylistRequestObject))
	}
	response, err := sh.run(handler, "GetFilteredPlaylist", w, r, request)
	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GetFilteredPlaylistResponseObject); ok {
		if err := validResponse.VisitGetFilteredPlaylistResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// GetUnfilteredPlaylist operation middleware
func (sh *strictHandler) GetUnfilteredPlaylist(w http.ResponseWriter, r *http.Request) {
	var request GetUnfilteredPlaylistRequestObject

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GetUnfilteredPlaylist(ctx, request.(GetUnfilteredPlaylistRequestObject))
	}
	response, err := sh.run(handler, "GetUnfilteredPlaylist", w, r, request)
	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GetUnfilteredPlaylistResponseObject); ok {
		if err := validResponse.VisitGetUnfilteredPlaylistResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// GetHealth operation middleware
func (sh *strictHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	var request GetHealthRequestObject

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GetHealth(ctx, request.(GetHealthRequestObject))
	}
	response, err := sh.run(handler, "GetHealth", w, r, request)
	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GetHealthResponseObject); ok {
		if err := validResponse.VisitGetHealthResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

func (sh *strictHandler) run(handler StrictHandlerFunc, operationID string, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, operationID)
	}
	return handler(r.Context(), w, r, request)
}
