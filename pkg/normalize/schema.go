package normalize

import (
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

func intPtr(v int) *int {
	return &v
}

func str(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func nonEmptyStr(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc, MinLength: intPtr(1)}
}

func enumStr(desc string, values ...string) *jsonschema.Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return &jsonschema.Schema{Type: "string", Description: desc, Enum: enum}
}

func strArray(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Description: desc, Items: str("")}
}

func explanationSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"explanation": nonEmptyStr("Detailed educational explanation in clear, simple language"),
			"resources": {
				Type:        "array",
				Description: "Real learning resources from reputable sources",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"type": enumStr("Resource kind",
							string(model.ResourceTypeVideo),
							string(model.ResourceTypeArticle),
							string(model.ResourceTypeInteractive)),
						"title":       str("Resource title"),
						"url":         str("Resource URL"),
						"description": str("Short description of the resource"),
					},
					Required: []string{"type", "title", "url"},
				},
			},
			"difficulty": enumStr("Topic difficulty level",
				string(model.DifficultyBeginner),
				string(model.DifficultyIntermediate),
				string(model.DifficultyAdvanced)),
			"estimatedTime": str("Estimated learning time"),
		},
		Required: []string{"explanation", "resources", "difficulty", "estimatedTime"},
	}
}

func flashCardsSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "array",
		Description: "Flashcards for the topic",
		Items: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"front": nonEmptyStr("A clear question or term"),
				"back":  nonEmptyStr("A concise answer or definition"),
				"difficulty": enumStr("Card difficulty",
					string(model.CardDifficultyEasy),
					string(model.CardDifficultyMedium),
					string(model.CardDifficultyHard)),
			},
			Required: []string{"front", "back", "difficulty"},
		},
	}
}

func questionsSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "array",
		Description: "Generated questions",
		Items: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"question":      nonEmptyStr("Question text"),
				"type":          str("Question type"),
				"options":       strArray("Answer options for multiple choice questions"),
				"correctAnswer": str("Correct answer or expected key points"),
				"explanation":   str("Why the answer is correct"),
			},
			Required: []string{"question", "type", "correctAnswer", "explanation"},
		},
	}
}

func conceptMapSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"mainTopic": nonEmptyStr("Main topic of the map"),
			"subtopics": {
				Type:        "array",
				Description: "Subtopics of the main topic",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"name":        nonEmptyStr("Subtopic name"),
						"connections": strArray("Names of related subtopics"),
						"description": str("Short description"),
					},
					Required: []string{"name", "description"},
				},
			},
		},
		Required: []string{"mainTopic", "subtopics"},
	}
}

// Schema returns the JSON Schema expected for a response variant
func Schema(kind model.ResponseKind) (*jsonschema.Schema, error) {
	switch kind {
	case model.ResponseKindExplanation:
		return explanationSchema(), nil
	case model.ResponseKindFlashCards:
		return flashCardsSchema(), nil
	case model.ResponseKindQuestions:
		return questionsSchema(), nil
	case model.ResponseKindConceptMap:
		return conceptMapSchema(), nil
	default:
		return nil, goerr.New("unknown response kind", goerr.V("kind", kind))
	}
}

var (
	resolvedMu sync.Mutex
	resolved   = map[model.ResponseKind]*jsonschema.Resolved{}
)

func resolvedSchema(kind model.ResponseKind) (*jsonschema.Resolved, error) {
	resolvedMu.Lock()
	defer resolvedMu.Unlock()

	if rs, ok := resolved[kind]; ok {
		return rs, nil
	}

	schema, err := Schema(kind)
	if err != nil {
		return nil, err
	}
	rs, err := schema.Resolve(nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve schema", goerr.V("kind", kind))
	}
	resolved[kind] = rs
	return rs, nil
}

// GenaiSchema converts the variant schema for Gemini structured output
func GenaiSchema(kind model.ResponseKind) (*genai.Schema, error) {
	schema, err := Schema(kind)
	if err != nil {
		return nil, err
	}
	return convertJSONSchemaToGenai(schema)
}

func convertJSONSchemaToGenai(schema *jsonschema.Schema) (*genai.Schema, error) {
	if schema == nil {
		return nil, nil
	}

	genaiSchema := &genai.Schema{}

	typ := schema.Type
	if typ == "" {
		for _, t := range schema.Types {
			if t != "null" {
				typ = t
				break
			}
		}
	}

	switch typ {
	case "object":
		genaiSchema.Type = genai.TypeObject
	case "string":
		genaiSchema.Type = genai.TypeString
	case "number":
		genaiSchema.Type = genai.TypeNumber
	case "integer":
		genaiSchema.Type = genai.TypeInteger
	case "boolean":
		genaiSchema.Type = genai.TypeBoolean
	case "array":
		genaiSchema.Type = genai.TypeArray
	case "":
	default:
		return nil, goerr.New("unsupported schema type", goerr.V("type", typ))
	}

	genaiSchema.Description = schema.Description

	if len(schema.Enum) > 0 {
		genaiSchema.Enum = make([]string, 0, len(schema.Enum))
		for _, v := range schema.Enum {
			if s, ok := v.(string); ok {
				genaiSchema.Enum = append(genaiSchema.Enum, s)
			}
		}
	}

	if len(schema.Properties) > 0 {
		genaiSchema.Properties = make(map[string]*genai.Schema, len(schema.Properties))
		for name, propSchema := range schema.Properties {
			converted, err := convertJSONSchemaToGenai(propSchema)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to convert property schema", goerr.V("property", name))
			}
			genaiSchema.Properties[name] = converted
		}
	}

	if len(schema.Required) > 0 {
		genaiSchema.Required = schema.Required
	}

	if schema.Items != nil {
		converted, err := convertJSONSchemaToGenai(schema.Items)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to convert items schema")
		}
		genaiSchema.Items = converted
	}

	return genaiSchema, nil
}
