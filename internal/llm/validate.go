package llm

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled schemas keyed by name and definition digest, so two contracts
// that share a name never share a validator.
var compiledSchemas sync.Map

// validateResponse checks raw against schema. A nil schema accepts
// anything. Failures are *ErrInvalidResponse carrying raw.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	invalid := func(format string, args ...any) error {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf(format, args...)}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid("response is not JSON: %w", err)
	}
	sch, err := compileSchema(schema)
	if err != nil {
		return invalid("schema %s: %w", schema.Name, err)
	}
	if err := sch.Validate(doc); err != nil {
		return invalid("response does not match %s: %w", schema.Name, err)
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	sum := sha256.Sum256(def)
	key := schema.Name + "@" + hex.EncodeToString(sum[:8])
	if cached, ok := compiledSchemas.Load(key); ok {
		return cached.(*jsonschema.Schema), nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, err
	}
	url := "mem://schemas/" + key + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiledSchemas.Store(key, sch)
	return sch, nil
}
