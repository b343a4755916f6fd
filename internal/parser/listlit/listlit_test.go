package listlit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty list", in: "[]", want: []string{}},
		{name: "empty list with spaces", in: "  [ ]  ", want: []string{}},
		{name: "single quoted", in: "['Dir A', 'Dir B']", want: []string{"Dir A", "Dir B"}},
		{name: "double quoted with apostrophe", in: `["Conan O'Brien", 'x']`, want: []string{"Conan O'Brien", "x"}},
		{
			name: "dataset shape",
			in:   "['Christopher Nolan', '| ', '    Stars:', 'Cillian Murphy, ', 'Emily Blunt']",
			want: []string{"Christopher Nolan", "| ", "    Stars:", "Cillian Murphy, ", "Emily Blunt"},
		},
		{name: "trailing comma", in: "['a',]", want: []string{"a"}},
		{name: "escapes", in: `['a\'b', "c\"d", 'e\\f', 'g\nh', '\xe9è']`, want: []string{"a'b", `c"d`, `e\f`, "g\nh", "éè"}},
		{name: "adjacent strings concatenate", in: "['ab' 'cd']", want: []string{"abcd"}},
		{name: "numbers and keywords", in: "[1, -2.5, None, True]", want: []string{"1", "-2.5", "None", "True"}},
		{name: "utf8 passthrough", in: "['Penélope Cruz']", want: []string{"Penélope Cruz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	bad := []string{
		"",
		"Dir A, Dir B",
		"['unterminated]",
		"['a' 'b'",
		"['a'] trailing",
		"[['nested']]",
		"[foo]",
		"['a' ; 'b']",
		`['dangling\`,
		"[u'prefixed']",
		"[-]",
	}
	for _, in := range bad {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[]", Encode(nil))
	assert.Equal(t, "['Action', 'Drama']", Encode([]string{"Action", "Drama"}))
	assert.Equal(t, `["Conan O'Brien"]`, Encode([]string{"Conan O'Brien"}))
	assert.Equal(t, `['It\'s "quoted"']`, Encode([]string{`It's "quoted"`}))
	assert.Equal(t, `['a\\b', 'c\nd']`, Encode([]string{`a\b`, "c\nd"}))
	assert.Equal(t, `['\xa0']`, Encode([]string{" "}))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := [][]string{
		{},
		{"Dir A", "Dir B"},
		{"O'Neil", `say "hi"`, `both ' and "`},
		{"tab\there", "nl\nhere", `back\slash`, "Zoë", " nbsp"},
	}
	for _, in := range inputs {
		got, err := Decode(Encode(in))
		require.NoError(t, err)
		assert.Equal(t, in, got)
	}
}
