package tools

import "github.com/linonon/aibookmarks/internal/domain"

// JSON schema builders for tool parameters.

func object(props map[string]any, required ...string) map[string]any {
	props["workspace"] = str("Workspace root. Defaults to the server workspace.")
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func nonEmpty(desc string) map[string]any {
	return map[string]any{"type": "string", "minLength": 1, "description": desc}
}

func integer(desc string, minimum int) map[string]any {
	return map[string]any{"type": "integer", "minimum": minimum, "description": desc}
}

func signedInteger(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc}
}

func boolean(desc string) map[string]any {
	return map[string]any{"type": "boolean", "description": desc}
}

func stringArray(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

func category() map[string]any {
	return map[string]any{
		"type":        "string",
		"enum":        domain.CategoryNames(),
		"description": "Bookmark category.",
	}
}

func creator() map[string]any {
	return map[string]any{
		"type":        "string",
		"enum":        []string{string(domain.CreatorAI), string(domain.CreatorUser)},
		"description": "Who created the group.",
	}
}

func lineEdits() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"startLine": integer("1-indexed line where the edit starts.", 1),
				"lineDelta": signedInteger("New minus old line count of the edited region."),
			},
			"required": []string{"startLine", "lineDelta"},
		},
	}
}

func location() map[string]any {
	return map[string]any{
		"type":        "string",
		"pattern":     "^.+:[0-9]+(-[0-9]+)?$",
		"description": `File position, "path:line" or "path:start-end".`,
	}
}
