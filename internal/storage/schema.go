package storage

import (
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const tasksSchemaURL = "https://taskdeck.local/schema/tasks.json"

const tasksSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id"],
		"properties": {
			"id": {"type": "integer"},
			"title": {"type": ["string", "null"]},
			"dueDate": {
				"type": ["string", "null"],
				"pattern": "^([0-9]{4}-[0-9]{2}-[0-9]{2})?$"
			},
			"category": {"type": ["string", "null"]},
			"priority": {"type": ["integer", "null"]},
			"completed": {"type": "boolean"}
		}
	}
}`

const categoriesSchemaURL = "https://taskdeck.local/schema/categories.json"

const categoriesSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["name", "color"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"color": {"type": "string"}
		}
	}
}`

func compileSchemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	tasks, err := compile(tasksSchemaURL, tasksSchema)
	if err != nil {
		return nil, nil, err
	}
	categories, err := compile(categoriesSchemaURL, categoriesSchema)
	if err != nil {
		return nil, nil, err
	}
	return tasks, categories, nil
}

func compile(url, schema string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", url, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}
	return compiled, nil
}
