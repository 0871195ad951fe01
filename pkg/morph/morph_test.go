package morph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer()
	require.NoError(t, err)
	return a
}

func TestAnalyzeBaseForms(t *testing.T) {
	a := newTestAnalyzer(t)
	tokens := a.Analyze("行った")
	require.NotEmpty(t, tokens)
	assert.Equal(t, "行く", tokens[0].BaseForm)
	assert.Equal(t, "動詞", tokens[0].PrimaryPOS)
}

func TestReading(t *testing.T) {
	a := newTestAnalyzer(t)
	assert.Equal(t, "ねこ", a.Reading("猫"))
}

func TestPrimaryPOS(t *testing.T) {
	a := newTestAnalyzer(t)
	assert.Equal(t, "名詞", a.PrimaryPOS("猫"))
	assert.Equal(t, "", a.PrimaryPOS(""))
}

func TestToHiragana(t *testing.T) {
	assert.Equal(t, "ねこ", ToHiragana("ネコ"))
	// Non-katakana passes through untouched.
	assert.Equal(t, "abcひら", ToHiragana("abcひら"))
}

func TestSanitizeRuby(t *testing.T) {
	in := []byte(`<ruby>漢字<rp>(</rp><rt>かんじ</rt><rp>)</rp></ruby>`)
	out := string(SanitizeRuby(in))
	assert.Equal(t, `<ruby>漢字</ruby>`, out)
}
