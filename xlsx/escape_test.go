package xlsx

import "testing"

func TestEscapeXML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"a < b", "a &lt; b"},
		{"Smith & Sons", "Smith &amp; Sons"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"it's", "it&#39;s"},
		{`<&"'>`, "&lt;&amp;&quot;&#39;&gt;"},
		// literal entity text is escaped once, not left alone
		{"&amp;", "&amp;amp;"},
		{"&#39;", "&amp;#39;"},
		{"", ""},
		// characters XML 1.0 forbids and broken UTF-8 become U+FFFD
		{"bell\x07here", "bell\uFFFDhere"},
		{"nul\x00", "nul\uFFFD"},
		{"bad\xffutf8", "bad\uFFFDutf8"},
		{"\x0b\x0c\x1f<", "\uFFFD\uFFFD\uFFFD&lt;"},
		{"\uFFFE\uFFFF", "\uFFFD\uFFFD"},
		{"tab\tline\nret\r", "tab\tline\nret\r"},
		{"日本 \U0001F600", "日本 \U0001F600"},
		{"already \uFFFD", "already \uFFFD"},
	}
	for _, tt := range tests {
		if got := EscapeXML(tt.input); got != tt.want {
			t.Errorf("EscapeXML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsValidUTF8(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  bool
	}{
		{"ascii", []byte("hello"), true},
		{"multibyte", []byte("grüße 日本"), true},
		{"empty", nil, true},
		{"lone continuation byte", []byte{0x80}, false},
		{"truncated sequence", []byte{0xe6, 0x97}, false},
		{"invalid byte", []byte{'a', 0xff, 'b'}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidUTF8(tt.input); got != tt.want {
				t.Errorf("IsValidUTF8(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNeedsSpacePreserve(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"word", false},
		{"two words", false},
		{" leading", true},
		{"trailing ", true},
		{"line\n", true},
	}
	for _, tt := range tests {
		if got := needsSpacePreserve(tt.input); got != tt.want {
			t.Errorf("needsSpacePreserve(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
