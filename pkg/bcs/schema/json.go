package schema

import (
	"encoding"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"

	"github.com/holiman/uint256"
	json "github.com/nspcc-dev/go-ordered-json"
)

// KindKey is the JSON member naming the selected enum variant.
const KindKey = "$kind"

// ToJSON renders a decoded value as JSON. Struct fields keep declaration
// order, enums become {"$kind": name, name: payload} (true for unit
// variants), integers wider than 32 bits are strings and byte vectors are
// 0x-prefixed hex. Other values are rendered via encoding.TextMarshaler.
func ToJSON(v Value) ([]byte, error) {
	j, err := toJSONValue(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

// ToJSONIndent is like ToJSON, but indents the output.
func ToJSONIndent(v Value, indent string) ([]byte, error) {
	j, err := toJSONValue(v)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(j, "", indent)
}

func toJSONValue(v Value) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case bool, string:
		return val, nil
	case OptionValue:
		if !val.Set {
			return nil, nil
		}
		return toJSONValue(val.Value)
	case uint8, uint16, uint32:
		return val, nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case *big.Int:
		return val.String(), nil
	case *uint256.Int:
		return val.ToBig().String(), nil
	case []byte:
		return "0x" + hex.EncodeToString(val), nil
	case []Value:
		res := make([]any, len(val))
		for i := range val {
			var err error
			if res[i], err = toJSONValue(val[i]); err != nil {
				return nil, err
			}
		}
		return res, nil
	case *StructValue:
		res := make(json.OrderedObject, 0, len(val.Fields))
		for _, f := range val.Fields {
			fv, err := toJSONValue(f.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Name, err)
			}
			res = append(res, json.Member{Key: f.Name, Value: fv})
		}
		return res, nil
	case *EnumValue:
		var payload any = true
		if val.Payload != nil {
			var err error
			if payload, err = toJSONValue(val.Payload); err != nil {
				return nil, fmt.Errorf("%s: %w", val.Variant, err)
			}
		}
		return json.OrderedObject{
			{Key: KindKey, Value: val.Variant},
			{Key: val.Variant, Value: payload},
		}, nil
	}
	if tm, ok := v.(encoding.TextMarshaler); ok {
		text, err := tm.MarshalText()
		if err != nil {
			return nil, err
		}
		return string(text), nil
	}
	return nil, fmt.Errorf("can't render %T as JSON", v)
}
