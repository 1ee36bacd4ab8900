package toc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// keyedValue is a top-level object member in document order. Go maps do not
// preserve key order, so the raw token stream is walked instead.
type keyedValue struct {
	key   string
	value json.RawMessage
}

// DetectSource probes a TOC payload for its source shape. Malformed JSON is
// reported as a parse error; a well-formed payload of an unrecognized shape
// returns SourceUnknown with ErrUnsupportedFormat.
func DetectSource(data []byte) (SourceKind, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return SourceUnknown, ErrUnsupportedFormat
	}

	if trimmed[0] == '[' {
		if !json.Valid(trimmed) {
			return SourceUnknown, fmt.Errorf("invalid TOC JSON")
		}
		return SourceList, nil
	}
	if trimmed[0] != '{' {
		return SourceUnknown, ErrUnsupportedFormat
	}

	members, err := topLevelMembers(trimmed)
	if err != nil {
		return SourceUnknown, fmt.Errorf("invalid TOC JSON: %w", err)
	}

	for _, member := range members {
		if member.key == "toc" && isArray(member.value) {
			return SourceStructured, nil
		}
	}

	if pagesHaveText(members) {
		return SourcePages, nil
	}
	return SourceUnknown, ErrUnsupportedFormat
}

// pagesHaveText reports whether the object carries page text. When a "pages"
// array is present only its elements are probed; otherwise every top-level
// value is checked for a text-bearing object or array of objects.
func pagesHaveText(members []keyedValue) bool {
	for _, member := range members {
		if member.key == "pages" && isArray(member.value) {
			return arrayHasTextObject(member.value)
		}
	}

	for _, member := range members {
		if objectHasText(member.value) {
			return true
		}
		if isArray(member.value) && arrayHasTextObject(member.value) {
			return true
		}
	}
	return false
}

// topLevelMembers decodes the members of a JSON object in document order.
func topLevelMembers(data []byte) ([]keyedValue, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object")
	}

	var members []keyedValue
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key")
		}

		var value json.RawMessage
		if err := decoder.Decode(&value); err != nil {
			return nil, err
		}
		members = append(members, keyedValue{key: key, value: value})
	}
	return members, nil
}

// isArray reports whether a raw value is a JSON array.
func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// objectHasText reports whether a raw value is an object with a "text" field.
func objectHasText(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var object map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &object); err != nil {
		return false
	}
	_, ok := object["text"]
	return ok
}

// arrayHasTextObject reports whether any element of a raw array is an object
// with a "text" field.
func arrayHasTextObject(raw json.RawMessage) bool {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return false
	}
	for _, element := range elements {
		if objectHasText(element) {
			return true
		}
	}
	return false
}

// ExtractText collects page text from an extracted-PDF TOC payload: every
// top-level value that is a text-bearing object, or an array of text-bearing
// objects, contributes its text in document order, each chunk followed by a
// newline.
func ExtractText(data []byte) (string, error) {
	members, err := topLevelMembers(bytes.TrimSpace(data))
	if err != nil {
		return "", fmt.Errorf("invalid TOC JSON: %w", err)
	}

	var buffer bytes.Buffer
	for _, member := range members {
		if text, ok := textField(member.value); ok {
			buffer.WriteString(text)
			buffer.WriteByte('\n')
			continue
		}
		if !isArray(member.value) {
			continue
		}
		var elements []json.RawMessage
		if err := json.Unmarshal(member.value, &elements); err != nil {
			continue
		}
		for _, element := range elements {
			if text, ok := textField(element); ok {
				buffer.WriteString(text)
				buffer.WriteByte('\n')
			}
		}
	}
	return buffer.String(), nil
}

// textField returns the string "text" field of an object value.
func textField(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", false
	}
	var object struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(trimmed, &object); err != nil || object.Text == nil {
		return "", false
	}
	return *object.Text, true
}
