package executor

import (
	"strings"
	"testing"
)

func TestExtractPythonFence(t *testing.T) {
	text := "Here is the code:\n```python\nresult = 25 * 847\nprint(result)\n```\nThat computes it."

	got := ExtractCode(text)
	want := "result = 25 * 847\nprint(result)"
	if got != want {
		t.Errorf("ExtractCode = %q, want %q", got, want)
	}
}

func TestExtractAnonymousFence(t *testing.T) {
	text := "Sure:\n```\nprint(2 + 2)\n```"

	got := ExtractCode(text)
	if got != "print(2 + 2)" {
		t.Errorf("ExtractCode = %q", got)
	}
}

func TestExtractPythonFencePreferredOverAnonymous(t *testing.T) {
	text := "```\nnot python\n```\n```python\nprint(1)\n```"

	got := ExtractCode(text)
	if got != "print(1)" {
		t.Errorf("ExtractCode = %q, want python fence contents", got)
	}
}

func TestExtractUnfencedCodeLines(t *testing.T) {
	text := "import math\nresult = math.sqrt(144)\nprint(result)"

	got := ExtractCode(text)
	if !strings.Contains(got, "import math") || !strings.Contains(got, "print(result)") {
		t.Errorf("ExtractCode = %q, want unfenced lines collected", got)
	}
}

func TestExtractArithmeticFallback(t *testing.T) {
	text := "The expression 25 * 847 gives the answer."

	got := ExtractCode(text)
	want := "result = 25 * 847\nprint(result)"
	if got != want {
		t.Errorf("ExtractCode = %q, want %q", got, want)
	}
}

func TestExtractNothing(t *testing.T) {
	texts := []string{
		"I'm doing well, thanks for asking!",
		"The weather in Berlin is usually mild.",
		"",
	}

	for _, text := range texts {
		if got := ExtractCode(text); got != "" {
			t.Errorf("ExtractCode(%q) = %q, want empty", text, got)
		}
	}
}

func TestExtractSkipsSeparators(t *testing.T) {
	text := "---\nprint('hello')\n---"

	got := ExtractCode(text)
	if got != "print('hello')" {
		t.Errorf("ExtractCode = %q", got)
	}
}
