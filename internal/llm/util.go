package llm

import "strings"

// CleanJSONResponse strips markdown fencing and surrounding prose that models
// sometimes wrap around JSON output.
func CleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around the document. Keep the
	// outermost object or array.
	objStart := strings.Index(content, "{")
	arrStart := strings.Index(content, "[")
	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		if end := strings.LastIndex(content, "]"); end > arrStart {
			return content[arrStart : end+1]
		}
	}
	if objStart >= 0 {
		if end := strings.LastIndex(content, "}"); end > objStart {
			return content[objStart : end+1]
		}
	}
	return content
}
