package source

import (
	"bytes"
	"encoding/json"
)

// Shape classifies a raw upstream payload. Upstream responses vary across
// endpoints and historical API versions; the classifier runs once per payload
// and every extraction branches on its result instead of scattering ad hoc
// presence checks.
type Shape int

const (
	// ShapeUnrecognized covers null, scalars, and objects with no known
	// item field. Extraction yields an empty sequence, never an error.
	ShapeUnrecognized Shape = iota

	// ShapeBare is a top-level array of items.
	ShapeBare

	// ShapeEnveloped is an object wrapping the payload under "data".
	ShapeEnveloped

	// ShapeGrouped is an array of group objects each holding a nested item
	// array under a source-specific field, requiring a flatten.
	ShapeGrouped
)

// Classify determines the shape of body. groupField names the source-specific
// nested item field ("" for sources without grouped payloads). An object
// exposing groupField directly classifies as Grouped as well.
func Classify(body []byte, groupField string) Shape {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ShapeUnrecognized
	}

	switch body[0] {
	case '[':
		var groups []map[string]json.RawMessage
		if groupField != "" && json.Unmarshal(body, &groups) == nil {
			for _, g := range groups {
				if raw, ok := g[groupField]; ok && isArray(raw) {
					return ShapeGrouped
				}
			}
		}

		var items []json.RawMessage
		if json.Unmarshal(body, &items) != nil {
			return ShapeUnrecognized
		}

		return ShapeBare
	case '{':
		var obj map[string]json.RawMessage
		if json.Unmarshal(body, &obj) != nil {
			return ShapeUnrecognized
		}
		if groupField != "" && isArray(obj[groupField]) {
			return ShapeGrouped
		}
		if raw, ok := obj["data"]; ok && len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
			return ShapeEnveloped
		}

		return ShapeUnrecognized
	default:
		return ShapeUnrecognized
	}
}

// ExtractItems pulls the flat item list out of body, whatever its shape.
// Grouped payloads flatten outer groups × inner groupField arrays in order.
// Unrecognized or malformed payloads yield nil — shape problems are never
// errors.
func ExtractItems(body []byte, groupField string) []json.RawMessage {
	switch Classify(body, groupField) {
	case ShapeBare:
		var items []json.RawMessage
		if json.Unmarshal(body, &items) != nil {
			return nil
		}

		return items
	case ShapeEnveloped:
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if json.Unmarshal(body, &envelope) != nil {
			return nil
		}

		// One unwrap level only; the inner payload re-classifies.
		return ExtractItems(envelope.Data, groupField)
	case ShapeGrouped:
		return flattenGroups(body, groupField)
	default:
		return nil
	}
}

// UnwrapEnvelope strips a single {"data": ...} wrapper when present,
// returning the payload unchanged otherwise.
func UnwrapEnvelope(body []byte) []byte {
	if Classify(body, "") != ShapeEnveloped {
		return body
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if json.Unmarshal(body, &envelope) != nil || len(envelope.Data) == 0 {
		return body
	}

	return envelope.Data
}

func flattenGroups(body []byte, groupField string) []json.RawMessage {
	body = bytes.TrimSpace(body)

	// Object directly exposing the item array.
	if len(body) > 0 && body[0] == '{' {
		var obj map[string]json.RawMessage
		if json.Unmarshal(body, &obj) != nil {
			return nil
		}
		var items []json.RawMessage
		if json.Unmarshal(obj[groupField], &items) != nil {
			return nil
		}

		return items
	}

	var groups []map[string]json.RawMessage
	if json.Unmarshal(body, &groups) != nil {
		return nil
	}

	var items []json.RawMessage
	for _, g := range groups {
		var inner []json.RawMessage
		if json.Unmarshal(g[groupField], &inner) != nil {
			continue
		}
		items = append(items, inner...)
	}

	return items
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)

	return len(raw) > 0 && raw[0] == '['
}
