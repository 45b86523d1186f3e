package executor

import (
	"regexp"
	"strings"
)

// Code extraction from model output. The ladder goes from the most explicit
// marker (a ```python fence) down to a last-resort arithmetic fallback:
//  1. fenced ```python block
//  2. anonymous ``` block
//  3. line-level scan for Python cues
//  4. a bare arithmetic expression, wrapped in print(...)
//
// An empty return means no executable code was found and the model's text
// should be returned to the user as-is.

var (
	pythonFenceRe = regexp.MustCompile("(?s)```python\\s*\\n(.*?)```")
	anyFenceRe    = regexp.MustCompile("(?s)```\\s*\\n(.*?)```")
	arithmeticRe  = regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:\*\*|[-+*/%])\s*\d+(?:\.\d+)?`)
)

// linePrefixCues mark a line as Python when it starts with one of them.
var linePrefixCues = []string{
	"print(", "import ", "from ", "def ", "class ",
	"if ", "for ", "while ", "#",
	"result =", "answer =",
}

// ExtractCode pulls an executable Python snippet out of model output.
func ExtractCode(text string) string {
	if m := pythonFenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	if m := anyFenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	if code := scanPythonLines(text); code != "" {
		return code
	}

	if expr := arithmeticRe.FindString(text); expr != "" {
		return "result = " + expr + "\nprint(result)"
	}

	return ""
}

// scanPythonLines collects lines that look like Python statements. The
// whole response sometimes is code without fences.
func scanPythonLines(text string) string {
	var pythonLines []string

	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "---") {
			continue
		}
		if looksLikePython(stripped) {
			pythonLines = append(pythonLines, line)
		}
	}

	if len(pythonLines) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.Join(pythonLines, "\n"))
}

func looksLikePython(line string) bool {
	for _, cue := range linePrefixCues {
		if strings.HasPrefix(line, cue) {
			return true
		}
	}
	if strings.Contains(line, "print(") {
		return true
	}
	// Assignments outside comments.
	if strings.Contains(line, " = ") && !strings.HasPrefix(line, "#") {
		return true
	}
	return false
}
