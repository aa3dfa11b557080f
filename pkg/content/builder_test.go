package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngAttachment(name string) Attachment {
	return Attachment{Kind: KindImage, MediaType: "image/png", Data: b64(16), Name: name}
}

func pdfAttachment(name string) Attachment {
	return Attachment{Kind: KindDocument, MediaType: "application/pdf", Data: b64(16), Name: name}
}

func TestBuild_PromptOnly(t *testing.T) {
	blocks, err := Build("hello", nil)

	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, TextBlock("hello"), blocks[0])
}

func TestBuild_PromptWithAttachments(t *testing.T) {
	blocks, err := Build("describe these", []Attachment{pngAttachment("a.png"), pdfAttachment("b.pdf")})

	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "text", blocks[0].Type)
	assert.Equal(t, "image", blocks[1].Type)
	assert.Equal(t, "document", blocks[2].Type)
}

func TestBuild_AttachmentOnlyGetsDefaultInstruction(t *testing.T) {
	att := pngAttachment("a.png")
	blocks, err := Build("", []Attachment{att})

	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, TextBlock(DefaultInstruction), blocks[0])
	assert.Equal(t, "image", blocks[1].Type)
}

func TestBuild_DataCarriedVerbatim(t *testing.T) {
	att := pngAttachment("a.png")
	blocks, err := Build("x", []Attachment{att})

	require.NoError(t, err)
	require.NotNil(t, blocks[1].Source)
	assert.Equal(t, "base64", blocks[1].Source.Type)
	assert.Equal(t, att.MediaType, blocks[1].Source.MediaType)
	assert.Equal(t, att.Data, blocks[1].Source.Data)
}

func TestBuild_ImageCountCeiling(t *testing.T) {
	files := make([]Attachment, 0, MaxImages+1)
	for i := 0; i < MaxImages; i++ {
		files = append(files, pngAttachment("img"))
	}

	blocks, err := Build("p", files)
	require.NoError(t, err)
	assert.Len(t, blocks, MaxImages+1)

	files = append(files, pngAttachment("over"))
	blocks, err = Build("p", files)
	assert.Nil(t, blocks)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "too_many_attachments", ve.Reason)
	assert.Contains(t, err.Error(), "too many images")
}

func TestBuild_DocumentCountCeiling(t *testing.T) {
	files := make([]Attachment, 0, MaxDocuments+1)
	for i := 0; i < MaxDocuments; i++ {
		files = append(files, pdfAttachment("doc"))
	}

	_, err := Build("p", files)
	require.NoError(t, err)

	// The limit applies regardless of where in the list the overflow sits.
	files = append([]Attachment{pdfAttachment("first")}, files...)
	_, err = Build("p", files[:MaxDocuments+1])
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "too_many_attachments", ve.Reason)
	assert.Contains(t, err.Error(), "too many documents")
}

func TestBuild_MixedKindsCountedSeparately(t *testing.T) {
	var files []Attachment
	for i := 0; i < MaxImages; i++ {
		files = append(files, pngAttachment("img"))
	}
	for i := 0; i < MaxDocuments; i++ {
		files = append(files, pdfAttachment("doc"))
	}

	blocks, err := Build("", files)
	require.NoError(t, err)
	assert.Len(t, blocks, MaxImages+MaxDocuments+1) // + default instruction
}

func TestBuild_StopsOnFirstInvalidAttachment(t *testing.T) {
	files := []Attachment{
		pngAttachment("ok.png"),
		{Kind: KindImage, MediaType: "image/png", Data: "%%%", Name: "broken.png"},
		{Kind: KindImage, MediaType: "image/bmp", Data: b64(16), Name: "never-reached.bmp"},
	}

	blocks, err := Build("p", files)
	assert.Nil(t, blocks)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "invalid_base64", ve.Reason)
	assert.Contains(t, err.Error(), "broken.png")
}

func TestBuild_Deterministic(t *testing.T) {
	files := []Attachment{pngAttachment("a.png"), pdfAttachment("b.pdf")}

	first, err := Build("prompt", files)
	require.NoError(t, err)
	second, err := Build("prompt", files)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
