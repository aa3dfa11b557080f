package content

import (
	"encoding/base64"
	"fmt"
)

// Per-kind limits mirroring what the Bedrock runtime accepts for inline
// attachments. Sizes are decoded bytes, not base64 length.
const (
	MaxImages    = 20
	MaxDocuments = 5

	MaxImageBytes    = 3932160 // 3.75 MiB
	MaxDocumentBytes = 4718592 // 4.5 MiB
)

// imageMediaTypes and documentMediaTypes are the fixed allow-lists keyed by
// declared media type. Value true means accepted; absence means rejected.
var imageMediaTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

var documentMediaTypes = map[string]bool{
	"application/pdf":    true,
	"text/csv":           true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/html":     true,
	"text/plain":    true,
	"text/markdown": true,
}

// ValidationError reports why an attachment was rejected. Reason is stable
// for programmatic checks; Error() carries the human-readable detail the
// adapter returns to the caller.
type ValidationError struct {
	Reason string // "invalid_base64" | "unsupported_media_type" | "payload_too_large" | "unknown_kind" | "too_many_attachments"
	Name   string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("file %q: %s", e.Name, e.Detail)
	}
	return e.Detail
}

// kindLimits resolves the allow-list and size ceiling for a kind.
func kindLimits(kind Kind) (allowed map[string]bool, maxBytes int, ok bool) {
	switch kind {
	case KindImage:
		return imageMediaTypes, MaxImageBytes, true
	case KindDocument:
		return documentMediaTypes, MaxDocumentBytes, true
	default:
		return nil, 0, false
	}
}

// Validate checks a single attachment against the per-kind allow-list and
// size ceiling. Pure function of its input; the decoded bytes are discarded.
func Validate(a Attachment) error {
	decoded, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return &ValidationError{
			Reason: "invalid_base64",
			Name:   a.Name,
			Detail: fmt.Sprintf("invalid base64 data: %v", err),
		}
	}

	allowed, maxBytes, ok := kindLimits(a.Kind)
	if !ok {
		return &ValidationError{
			Reason: "unknown_kind",
			Name:   a.Name,
			Detail: fmt.Sprintf("unknown file type %q (expected %q or %q)", a.Kind, KindImage, KindDocument),
		}
	}

	if !allowed[a.MediaType] {
		return &ValidationError{
			Reason: "unsupported_media_type",
			Name:   a.Name,
			Detail: fmt.Sprintf("unsupported media type %q for %s attachments", a.MediaType, a.Kind),
		}
	}

	if len(decoded) > maxBytes {
		return &ValidationError{
			Reason: "payload_too_large",
			Name:   a.Name,
			Detail: fmt.Sprintf("%s payload is %d bytes, limit is %d", a.Kind, len(decoded), maxBytes),
		}
	}

	return nil
}
