package registry

// JSON Schemas for the three registry documents. Validation happens before
// decoding so that shape problems surface as one clear message instead of a
// zero-valued struct.

const entityRegistrySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["data"],
  "properties": {
    "data": {
      "type": "object",
      "required": ["entities"],
      "properties": {
        "entities": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["entity_id"],
            "properties": {
              "entity_id": {"type": "string"},
              "id": {"type": "string"},
              "platform": {"type": "string"},
              "disabled_by": {"type": ["string", "null"]},
              "area_id": {"type": ["string", "null"]}
            }
          }
        }
      }
    }
  }
}`

const deviceRegistrySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["data"],
  "properties": {
    "data": {
      "type": "object",
      "required": ["devices"],
      "properties": {
        "devices": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id"],
            "properties": {
              "id": {"type": "string"},
              "name": {"type": ["string", "null"]},
              "area_id": {"type": ["string", "null"]}
            }
          }
        }
      }
    }
  }
}`

const areaRegistrySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["data"],
  "properties": {
    "data": {
      "type": "object",
      "required": ["areas"],
      "properties": {
        "areas": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id"],
            "properties": {
              "id": {"type": "string"},
              "name": {"type": ["string", "null"]}
            }
          }
        }
      }
    }
  }
}`
