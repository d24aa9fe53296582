package loader

import (
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// scenarioSchema describes the shape of a scenario document. Semantic checks
// that span fields (unique ids, pool viability, quiz answers) live in validate.
const scenarioSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["initialState", "winCondition", "events", "actions"],
  "properties": {
    "initialState": {
      "type": "object",
      "required": ["safety", "infrastructure", "morale", "resourcePoints"],
      "properties": {
        "safety": {"$ref": "#/$defs/meter"},
        "infrastructure": {"$ref": "#/$defs/meter"},
        "morale": {"$ref": "#/$defs/meter"},
        "resourcePoints": {"type": "integer", "minimum": 0},
        "totalRounds": {"type": "integer", "minimum": 1},
        "totalDays": {"type": "integer", "minimum": 1}
      },
      "anyOf": [{"required": ["totalRounds"]}, {"required": ["totalDays"]}]
    },
    "winCondition": {
      "type": "object",
      "required": ["minSafety", "minInfrastructure"],
      "properties": {
        "minSafety": {"$ref": "#/$defs/meter"},
        "minInfrastructure": {"$ref": "#/$defs/meter"}
      }
    },
    "events": {"type": "array", "minItems": 1, "items": {"$ref": "#/$defs/event"}},
    "actions": {"type": "array", "minItems": 4, "items": {"$ref": "#/$defs/action"}},
    "i18n": {
      "type": "object",
      "additionalProperties": {"type": "object", "additionalProperties": {"type": "string"}}
    },
    "helpText": {"type": "object", "additionalProperties": {"type": "string"}},
    "relevance": {
      "type": "object",
      "additionalProperties": {"type": "array", "items": {"$ref": "#/$defs/category"}}
    }
  },
  "$defs": {
    "meter": {"type": "integer", "minimum": 0, "maximum": 100},
    "id": {"type": "string", "minLength": 1},
    "localized": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {"type": "string"}
    },
    "effects": {"type": "object", "additionalProperties": {"type": "integer"}},
    "category": {"enum": ["prepare", "defend", "recover", "risk"]},
    "quiz": {
      "type": "object",
      "required": ["question", "options", "correctAnswer"],
      "properties": {
        "question": {"$ref": "#/$defs/localized"},
        "options": {"type": "array", "minItems": 2, "items": {"$ref": "#/$defs/localized"}},
        "correctAnswer": {"type": "integer", "minimum": 0}
      }
    },
    "event": {
      "type": "object",
      "required": ["id", "title", "description", "tip"],
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "icon": {"type": "string"},
        "title": {"$ref": "#/$defs/localized"},
        "description": {"$ref": "#/$defs/localized"},
        "tip": {"$ref": "#/$defs/localized"},
        "effects": {"$ref": "#/$defs/effects"},
        "quiz": {"$ref": "#/$defs/quiz"}
      }
    },
    "action": {
      "type": "object",
      "required": ["id", "title", "category"],
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "title": {"$ref": "#/$defs/localized"},
        "description": {"$ref": "#/$defs/localized"},
        "category": {"$ref": "#/$defs/category"},
        "effects": {"$ref": "#/$defs/effects"},
        "cost": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("scenario.schema.json", scenarioSchema)
})
