package intent

import jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

// intentSchema constrains what the language model may return: one of the
// known function names plus an object of parameters. Anything outside it is
// treated as a parse failure rather than dispatched blindly.
const intentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["function"],
  "properties": {
    "function": {
      "type": "string",
      "enum": [
        "add_task",
        "mark_complete",
        "update_task",
        "delete_task",
        "add_deadline",
        "set_priority",
        "list_tasks",
        "search_tasks",
        "error"
      ]
    },
    "params": {
      "type": "object",
      "properties": {
        "task": {"type": "string"},
        "taskQuery": {"type": "string"},
        "newText": {"type": "string"},
        "deadline": {"type": "string"},
        "priority": {"type": "string", "enum": ["urgent", "normal", "low"]},
        "filter": {"type": "string", "enum": ["all", "urgent", "today"]},
        "query": {"type": "string"},
        "message": {"type": "string"}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

var compiledSchema = jsonschema.MustCompileString("intent.json", intentSchema)
