package character

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type envelope struct {
	Variant    Variant         `json:"variant"`
	Version    int             `json:"version"`
	Attributes json.RawMessage `json:"attributes"`
}

// Decode reads a stored character. Records written before the variant field
// existed are recognised by their shape: version 2 is the domain layout and a
// bare attributes block is the flat layout. Empty input and JSON null decode
// to a nil Character.
func Decode(raw []byte) (Character, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode character envelope: %w", err)
	}

	variant := env.Variant
	if variant == "" {
		switch {
		case env.Version == 2:
			variant = VariantDomain
		case len(env.Attributes) > 0:
			variant = VariantFlat
		}
	}

	switch variant {
	case VariantFlat:
		var c FlatCharacter
		if err := json.Unmarshal(trimmed, &c); err != nil {
			return nil, fmt.Errorf("decode flat character: %w", err)
		}
		return &c, nil
	case VariantDomain:
		var c DomainCharacter
		if err := json.Unmarshal(trimmed, &c); err != nil {
			return nil, fmt.Errorf("decode domain character: %w", err)
		}
		return &c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharacterVariant, variant)
	}
}

func Encode(c Character) ([]byte, error) {
	switch ch := c.(type) {
	case nil:
		return []byte("null"), nil
	case *FlatCharacter:
		return json.Marshal(struct {
			Variant Variant `json:"variant"`
			*FlatCharacter
		}{VariantFlat, ch})
	case *DomainCharacter:
		return json.Marshal(struct {
			Variant Variant `json:"variant"`
			*DomainCharacter
		}{VariantDomain, ch})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCharacterVariant, c)
	}
}
