// Package normalize extracts the assistant's textual answer from the several
// response shapes the Bedrock runtime is known to return. The provider
// contract varies across model families and protocol versions, so extraction
// is an ordered list of shape matchers tried in priority order; the first
// matcher that recognizes the document wins. Adding a new shape is one entry
// in the matcher table.
package normalize

import (
	"strings"

	"github.com/tidwall/gjson"
)

// matcher probes one known response shape. It returns the extracted text and
// whether the shape was recognized. A recognized shape with no usable text
// still terminates the probe chain.
type matcher struct {
	name    string
	extract func(doc gjson.Result) (string, bool)
}

// Matchers are ordered by priority; legacy shapes first, the current
// Messages API content-array shape last.
var matchers = []matcher{
	{"messages", fromMessages},
	{"completions", fromCompletions},
	{"completion", fromCompletion},
	{"modelOutputs", fromModelOutputs},
	{"content", fromContent},
}

// ExtractText probes raw against the known response shapes. shape names the
// matcher that recognized the document ("" when none did); ok is false when
// no shape matched or the matched shape resolved to no text. A false result
// is not an error: the remote call succeeded, the gateway just has nothing
// to hand back.
func ExtractText(raw []byte) (text string, shape string, ok bool) {
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return "", "", false
	}

	for _, m := range matchers {
		if t, matched := m.extract(doc); matched {
			return t, m.name, t != ""
		}
	}
	return "", "", false
}

// fromMessages handles chat-shaped responses: the answer is the content of
// the last message. Content may be a plain string or a content-block array.
func fromMessages(doc gjson.Result) (string, bool) {
	msgs := doc.Get("messages")
	if !msgs.Exists() || len(msgs.Array()) == 0 {
		return "", false
	}
	arr := msgs.Array()
	return contentText(arr[len(arr)-1].Get("content")), true
}

// fromCompletions handles the completions array shape, preferring
// message.content and falling back to data.content.
func fromCompletions(doc gjson.Result) (string, bool) {
	comps := doc.Get("completions")
	if !comps.Exists() || len(comps.Array()) == 0 {
		return "", false
	}
	first := comps.Array()[0]
	if t := first.Get("message.content"); t.Exists() && t.String() != "" {
		return t.String(), true
	}
	return first.Get("data.content").String(), true
}

// fromCompletion handles the bare completion-string shape.
func fromCompletion(doc gjson.Result) (string, bool) {
	c := doc.Get("completion")
	if !c.Exists() {
		return "", false
	}
	return c.String(), true
}

// fromModelOutputs handles the modelOutputs array shape.
func fromModelOutputs(doc gjson.Result) (string, bool) {
	outs := doc.Get("modelOutputs")
	if !outs.Exists() || len(outs.Array()) == 0 {
		return "", false
	}
	return outs.Array()[0].Get("content").String(), true
}

// fromContent handles the Messages API shape: a top-level content array of
// typed blocks.
func fromContent(doc gjson.Result) (string, bool) {
	c := doc.Get("content")
	if !c.Exists() {
		return "", false
	}
	return joinTextItems(c), true
}

// contentText resolves a message content value that may be either a plain
// string or a block array.
func contentText(v gjson.Result) string {
	if v.IsArray() {
		return joinTextItems(v)
	}
	return v.String()
}

// joinTextItems concatenates the text of every item tagged type=="text",
// joined with single spaces. When no item carries the tag, any item exposing
// a non-empty text field is taken instead.
func joinTextItems(items gjson.Result) string {
	var tagged, untagged []string
	items.ForEach(func(_, item gjson.Result) bool {
		text := item.Get("text").String()
		if text == "" {
			return true
		}
		if item.Get("type").String() == "text" {
			tagged = append(tagged, text)
		} else {
			untagged = append(untagged, text)
		}
		return true
	})
	if len(tagged) > 0 {
		return strings.Join(tagged, " ")
	}
	return strings.Join(untagged, " ")
}
