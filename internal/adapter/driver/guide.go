package driver

import (
	"bytes"
	"context"

	"github.com/alorle/iptv-relay/internal/xmltv"
	"github.com/alorle/iptv-relay/metrics"
)

// ContentTypeXML is the media type of served guides.
const ContentTypeXML = "application/xml"

// GetCorrectedGuide serves the guide with display names rewritten by the
// guide table.
func (s *Server) GetCorrectedGuide(ctx context.Context, _ GetCorrectedGuideRequestObject) (GetCorrectedGuideResponseObject, error) {
	doc, replaced, err := s.guide.Corrected(ctx)
	if err != nil {
		return nil, err
	}
	metrics.AddGuideNamesRewritten(replaced)

	body, err := encodeGuide(doc)
	if err != nil {
		return nil, err
	}
	return GetCorrectedGuide200ApplicationxmlResponse{Body: body, ContentLength: int64(body.Len())}, nil
}

// GetOriginalGuide serves the guide unchanged.
func (s *Server) GetOriginalGuide(ctx context.Context, _ GetOriginalGuideRequestObject) (GetOriginalGuideResponseObject, error) {
	doc, err := s.guide.Original(ctx)
	if err != nil {
		return nil, err
	}
	body, err := encodeGuide(doc)
	if err != nil {
		return nil, err
	}
	return GetOriginalGuide200ApplicationxmlResponse{Body: body, ContentLength: int64(body.Len())}, nil
}

func encodeGuide(doc *xmltv.Document) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
