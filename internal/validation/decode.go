package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
)

// ErrTrailingData is returned when a body holds more than one JSON value.
var ErrTrailingData = errors.New("unexpected data after JSON value")

// DecodeStrict unmarshals exactly one JSON value from body into out.
// Object keys bind only when they equal a field's json name byte for byte;
// other keys are ignored, so "RETAILER" leaves retailer unset.
func DecodeStrict(body []byte, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		if err != nil {
			return err
		}
		return ErrTrailingData
	}

	exact, err := exactKeys(raw, reflect.TypeOf(out))
	if err != nil {
		return err
	}
	return json.Unmarshal(exact, out)
}

// exactKeys rewrites raw keeping only object keys that match t's json names exactly.
// Values of the wrong JSON kind are left untouched for json.Unmarshal to report.
func exactKeys(raw json.RawMessage, t reflect.Type) (json.RawMessage, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			return raw, nil
		}
		kept := make(map[string]json.RawMessage, len(obj))
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue
			}
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				continue
			}
			if name == "" {
				name = f.Name
			}
			v, ok := obj[name]
			if !ok {
				continue
			}
			fixed, err := exactKeys(v, f.Type)
			if err != nil {
				return nil, err
			}
			kept[name] = fixed
		}
		return json.Marshal(kept)

	case reflect.Slice, reflect.Array:
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil || arr == nil {
			return raw, nil
		}
		for i := range arr {
			fixed, err := exactKeys(arr[i], t.Elem())
			if err != nil {
				return nil, err
			}
			arr[i] = fixed
		}
		return json.Marshal(arr)
	}
	return raw, nil
}
