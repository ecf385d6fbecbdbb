package github

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// releaseSchemaURL is the resource name the schema is registered under.
const releaseSchemaURL = "release-latest.json"

// releaseSchema covers the fields the download page relies on.
const releaseSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["tag_name", "assets"],
  "properties": {
    "tag_name": {"type": "string", "minLength": 1},
    "name": {"type": ["string", "null"]},
    "html_url": {"type": "string"},
    "published_at": {"type": ["string", "null"]},
    "assets": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "browser_download_url"],
        "properties": {
          "name": {"type": "string"},
          "browser_download_url": {"type": "string"},
          "size": {"type": "integer"}
        }
      }
    }
  }
}`

// compileReleaseSchema builds the validator used by every Client.
func compileReleaseSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(releaseSchema))
	if err != nil {
		return nil, fmt.Errorf("decode release schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource(releaseSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add release schema: %w", err)
	}

	schema, err := compiler.Compile(releaseSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile release schema: %w", err)
	}

	return schema, nil
}

// validateDocument checks that body is JSON shaped like a release.
func validateDocument(schema *jsonschema.Schema, body []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}

	if err = schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}

	return nil
}
