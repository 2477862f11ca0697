package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// jsonField is one member of a decoded JSON object
type jsonField struct {
	Key   string
	Value json.RawMessage
}

// jsonObject keeps object members in document order.
// A repeated key keeps its first position and takes the last value.
type jsonObject []jsonField

func (o jsonObject) get(key string) (json.RawMessage, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func (o jsonObject) set(key string, value json.RawMessage) jsonObject {
	for i := range o {
		if o[i].Key == key {
			o[i].Value = value
			return o
		}
	}
	return append(o, jsonField{Key: key, Value: value})
}

// decodeObject decodes raw into its members.
// isContainer is false for scalars. Arrays are containers without named members.
func decodeObject(raw json.RawMessage) (fields jsonObject, isContainer bool, err error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, false, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, false, nil
	}
	if delim == '[' {
		return jsonObject{}, true, nil
	}

	fields = jsonObject{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, true, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, true, fmt.Errorf("unexpected object key %v", keyTok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, true, err
		}
		fields = fields.set(key, value)
	}

	return fields, true, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func jsonBool(raw json.RawMessage) (value bool, ok bool) {
	switch string(bytes.TrimSpace(raw)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
