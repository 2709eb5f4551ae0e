package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/sonarr-nudger/internal/sonarr"
)

func record(title string, languages ...string) sonarr.QueueRecord {
	rec := sonarr.QueueRecord{ID: 1, Title: title, Status: sonarr.StatusDelay}
	for i, name := range languages {
		rec.Languages = append(rec.Languages, sonarr.Language{ID: i + 1, Name: name})
	}
	return rec
}

func TestCompile(t *testing.T) {
	r, err := Compile("S01E01", []string{"French", "English"})
	require.NoError(t, err)
	assert.False(t, r.Literal())
	assert.Equal(t, "S01E01 [French, English]", r.String())

	_, err = Compile("   ", nil)
	assert.Error(t, err)

	_, err = Compile("S01E01", []string{"French", " "})
	assert.Error(t, err)
}

func TestMatches_UnscopedIgnoresLanguages(t *testing.T) {
	r := MustCompile("1080p")

	assert.True(t, r.Matches(record("Show.S01E01.1080p")))
	assert.True(t, r.Matches(record("Show.S01E01.1080p", "German")))
	assert.True(t, r.Matches(record("Show.S01E01.1080p", "Japanese", "English")))
	assert.False(t, r.Matches(record("Show.S01E01.720p", "English")))
}

func TestMatches_ScopedRequiresLanguages(t *testing.T) {
	r := MustCompile("S01E01", "French")

	rec := record("Show.S01E01.French.1080p")
	assert.False(t, r.Matches(rec), "record without languages")

	rec.Languages = []sonarr.Language{}
	assert.False(t, r.Matches(rec), "record with empty languages")

	assert.False(t, r.Matches(record("Show.S01E01.French.1080p", "German")))
	assert.True(t, r.Matches(record("Show.S01E01.French.1080p", "German", "French")))
}

func TestMatches_LanguageCaseInsensitive(t *testing.T) {
	r := MustCompile("S01E01", "FRENCH", "english")

	assert.True(t, r.Matches(record("Show.S01E01", "french")))
	assert.True(t, r.Matches(record("Show.S01E01", "English")))
	assert.False(t, r.Matches(record("Show.S01E01", "Spanish")))
}

func TestMatches_CaseInsensitivePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		title   string
		want    bool
	}{
		{name: "upper pattern lower title", pattern: "ABC", title: "xx abc yy", want: true},
		{name: "exact substring", pattern: "S01E01", title: "Show.S01E01.1080p", want: true},
		{name: "regex anywhere", pattern: `S\d{2}E0[1-3]`, title: "show.s02e03.web", want: true},
		{name: "regex alternation", pattern: "(2160p|UHD)", title: "Show.S01E01.uhd.HDR", want: true},
		{name: "no match", pattern: "S01E02", title: "Show.S01E01", want: false},
		{name: "anchored regex", pattern: "^Show", title: "Other.Show.S01E01", want: false},
		{name: "literal substring where regex misses", pattern: "a+b", title: "xa+by", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MustCompile(tt.pattern).Matches(record(tt.title)))
		})
	}
}

func TestMatches_LiteralSubstringBeatsValidRegex(t *testing.T) {
	r := MustCompile("a+b")
	require.False(t, r.Literal())

	assert.True(t, r.Matches(record("xa+by")))
	assert.True(t, r.Matches(record("xaaby")))
	assert.False(t, r.Matches(record("x+by")))
}

func TestMatches_InvalidRegexFallsBackToLiteral(t *testing.T) {
	r := MustCompile("[720p")
	assert.True(t, r.Literal())

	assert.True(t, r.Matches(record("Show [720p WEB")))
	assert.True(t, r.Matches(record("show [720P web")))
	assert.False(t, r.Matches(record("Show 720p WEB")))

	plus := MustCompile("C++")
	assert.True(t, plus.Literal())
	assert.True(t, plus.Matches(record("Learning c++ S01E01")))
}

func TestFirstMatch_Order(t *testing.T) {
	a := MustCompile("S01")
	b := MustCompile("1080p")
	rules := Rules{a, b}

	got, ok := rules.FirstMatch(record("Show.S01E01.1080p"))
	require.True(t, ok)
	assert.Equal(t, "S01", got.Pattern)

	got, ok = rules.FirstMatch(record("Show.S02E01.1080p"))
	require.True(t, ok)
	assert.Equal(t, "1080p", got.Pattern)

	_, ok = rules.FirstMatch(record("Show.S02E01.720p"))
	assert.False(t, ok)
}

func TestFirstMatch_SkipsLanguageMismatch(t *testing.T) {
	rules := Rules{
		MustCompile("S01E01", "German"),
		MustCompile("S01E01", "French"),
	}

	got, ok := rules.FirstMatch(record("Show.S01E01", "French"))
	require.True(t, ok)
	assert.Equal(t, []string{"French"}, got.Languages)
}

func TestFirstMatch_Empty(t *testing.T) {
	_, ok := Rules{}.FirstMatch(record("anything"))
	assert.False(t, ok)
}
