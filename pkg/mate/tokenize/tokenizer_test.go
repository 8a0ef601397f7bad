package tokenize

import (
	"strings"
	"testing"

	"github.com/loike/mate-tools/pkg/mate/sentence"
)

func TestTokenizerBasic(t *testing.T) {
	tok := New(nil)

	tokens, err := tok.Tokenize("The dog runs.")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	expected := []string{sentence.RootForm, "The", "dog", "runs", "."}
	if strings.Join(tokens, " ") != strings.Join(expected, " ") {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestTokenizerCases(t *testing.T) {
	tok := New([]string{"Dr.", "etc"}).WithoutRoot()

	cases := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"spaces only", "   \t\n", nil},
		{"hyphen inside word", "a well-known fact", []string{"a", "well-known", "fact"}},
		{"dangling hyphen", "pre- and post-war", []string{"pre", "-", "and", "post-war"}},
		{"apostrophe", "don't stop", []string{"don't", "stop"}},
		{"decimal number", "pi is 3.14", []string{"pi", "is", "3.14"}},
		{"thousands", "1,000 dogs", []string{"1,000", "dogs"}},
		{"comma between words", "dogs,cats", []string{"dogs", ",", "cats"}},
		{"punctuation", "Hello, world!", []string{"Hello", ",", "world", "!"}},
		{"quotes", `"yes"`, []string{`"`, "yes", `"`}},
		{"abbreviation", "Dr. Who arrived.", []string{"Dr.", "Who", "arrived", "."}},
		{"abbreviation case", "apples etc. too", []string{"apples", "etc.", "too"}},
		{"unicode", "naïve café", []string{"naïve", "café"}},
		{"cjk", "我们", []string{"我们"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tok.Tokenize(tc.text)
			if err != nil {
				t.Fatalf("Tokenize: %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tc.want, "|") {
				t.Errorf("Tokenize(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestTokenizerEmptyKeepsRoot(t *testing.T) {
	tokens, err := New(nil).Tokenize("")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) != 1 || tokens[0] != sentence.RootForm {
		t.Errorf("Expected only the root, got %v", tokens)
	}
}

func TestWhitespace(t *testing.T) {
	tokens, err := Whitespace{}.Tokenize("  我们  是 学生 ")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	expected := []string{sentence.RootForm, "我们", "是", "学生"}
	if strings.Join(tokens, " ") != strings.Join(expected, " ") {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}
