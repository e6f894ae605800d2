package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed data/catalog.json
var seedJSON []byte

//go:embed data/catalog.schema.json
var schemaJSON []byte

const schemaURL = "schema://catalog.json"

// def is the package-level catalog singleton, set by init().
var def *Catalog

func init() {
	c, err := Parse(seedJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	def = c
}

// Default returns the embedded catalog.
func Default() *Catalog {
	return def
}

// document is the on-disk catalog layout.
type document struct {
	Modules []Module `json:"modules"`
	Facts   []Fact   `json:"facts"`
	Funds   []Fund   `json:"funds"`
}

// Parse validates raw catalog JSON against the schema and builds a catalog.
func Parse(raw []byte) (*Catalog, error) {
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var doc document
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Modules, doc.Facts, doc.Funds)
}

// Load reads and parses a catalog file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	var parsed any
	if err := json.Unmarshal(schemaJSON, &parsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, parsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(schemaURL)
})

func validateSchema(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
