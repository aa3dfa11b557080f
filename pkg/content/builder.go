package content

import "fmt"

// DefaultInstruction is prepended when a request carries attachments but no
// prompt. The Messages API requires at least one text element per multimodal
// message; injecting a neutral instruction keeps attachment-only analysis
// requests valid instead of rejecting them.
const DefaultInstruction = "以下のファイルを分析してください："

// Build assembles the ordered content sequence for a single user message:
// the prompt first (when non-empty), then one block per attachment in input
// order. The first limit or validation failure aborts the whole build; no
// partial sequence is ever returned. Deterministic for identical inputs.
func Build(prompt string, files []Attachment) ([]Block, error) {
	blocks := make([]Block, 0, len(files)+1)

	if prompt != "" {
		blocks = append(blocks, TextBlock(prompt))
	}

	var images, documents int
	for _, f := range files {
		switch f.Kind {
		case KindImage:
			images++
			if images > MaxImages {
				return nil, &ValidationError{
					Reason: "too_many_attachments",
					Name:   f.Name,
					Detail: fmt.Sprintf("too many images: limit is %d per request", MaxImages),
				}
			}
		case KindDocument:
			documents++
			if documents > MaxDocuments {
				return nil, &ValidationError{
					Reason: "too_many_attachments",
					Name:   f.Name,
					Detail: fmt.Sprintf("too many documents: limit is %d per request", MaxDocuments),
				}
			}
		}

		if err := Validate(f); err != nil {
			return nil, err
		}

		switch f.Kind {
		case KindImage:
			blocks = append(blocks, ImageBlock(f.MediaType, f.Data))
		case KindDocument:
			blocks = append(blocks, DocumentBlock(f.MediaType, f.Data))
		}
	}

	if !hasText(blocks) {
		blocks = append([]Block{TextBlock(DefaultInstruction)}, blocks...)
	}

	return blocks, nil
}

func hasText(blocks []Block) bool {
	for _, b := range blocks {
		if b.Type == "text" {
			return true
		}
	}
	return false
}
