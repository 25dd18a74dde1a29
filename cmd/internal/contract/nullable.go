package contract

import (
	"bytes"
	"encoding/json"
)

// NullableID tells apart a missing key, an explicit null and a value in PATCH bodies.
// Set is only true when the key was present in the payload.
type NullableID struct {
	Set   bool
	Value *int64
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}

	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

// Of returns a NullableID explicitly set to id (nil meaning null).
func Of(id *int64) NullableID {
	return NullableID{Set: true, Value: id}
}
