package content

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64(n int) string {
	return base64.StdEncoding.EncodeToString(make([]byte, n))
}

func TestValidate_AcceptsAllowedMediaTypes(t *testing.T) {
	tests := []struct {
		kind      Kind
		mediaType string
	}{
		{KindImage, "image/png"},
		{KindImage, "image/jpeg"},
		{KindImage, "image/gif"},
		{KindImage, "image/webp"},
		{KindDocument, "application/pdf"},
		{KindDocument, "text/csv"},
		{KindDocument, "application/msword"},
		{KindDocument, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{KindDocument, "application/vnd.ms-excel"},
		{KindDocument, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{KindDocument, "text/html"},
		{KindDocument, "text/plain"},
		{KindDocument, "text/markdown"},
	}

	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			err := Validate(Attachment{Kind: tt.kind, MediaType: tt.mediaType, Data: b64(16)})
			assert.NoError(t, err)
		})
	}
}

func TestValidate_InvalidBase64(t *testing.T) {
	err := Validate(Attachment{Kind: KindImage, MediaType: "image/png", Data: "!!not-base64!!", Name: "x.png"})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "invalid_base64", ve.Reason)
	assert.Contains(t, err.Error(), "invalid base64")
}

func TestValidate_UnsupportedMediaType(t *testing.T) {
	tests := []struct {
		name string
		att  Attachment
	}{
		{"tiff image", Attachment{Kind: KindImage, MediaType: "image/tiff", Data: b64(16)}},
		{"document media type on image", Attachment{Kind: KindImage, MediaType: "application/pdf", Data: b64(16)}},
		{"zip document", Attachment{Kind: KindDocument, MediaType: "application/zip", Data: b64(16)}},
		{"empty media type", Attachment{Kind: KindDocument, MediaType: "", Data: b64(16)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ve *ValidationError
			require.ErrorAs(t, Validate(tt.att), &ve)
			assert.Equal(t, "unsupported_media_type", ve.Reason)
		})
	}
}

func TestValidate_UnknownKind(t *testing.T) {
	err := Validate(Attachment{Kind: "video", MediaType: "video/mp4", Data: b64(16)})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "unknown_kind", ve.Reason)
}

func TestValidate_SizeBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		att     Attachment
		wantErr bool
	}{
		{"image at ceiling", Attachment{Kind: KindImage, MediaType: "image/png", Data: b64(MaxImageBytes)}, false},
		{"image one byte over", Attachment{Kind: KindImage, MediaType: "image/png", Data: b64(MaxImageBytes + 1)}, true},
		{"document at ceiling", Attachment{Kind: KindDocument, MediaType: "application/pdf", Data: b64(MaxDocumentBytes)}, false},
		{"document one byte over", Attachment{Kind: KindDocument, MediaType: "application/pdf", Data: b64(MaxDocumentBytes + 1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.att)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "payload_too_large", ve.Reason)
		})
	}
}

func TestValidate_SizeIsDecodedBytes(t *testing.T) {
	// Base64 inflates by 4/3; an encoded string longer than the ceiling is
	// fine as long as the decoded payload is within it.
	att := Attachment{Kind: KindImage, MediaType: "image/png", Data: b64(MaxImageBytes)}
	require.Greater(t, len(att.Data), MaxImageBytes)
	assert.NoError(t, Validate(att))
}
