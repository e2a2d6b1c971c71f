package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/catvocab/internal/drill"
	"github.com/verte-zerg/catvocab/internal/model"
)

func frameFor(word, typed string) drill.Frame {
	return drill.Frame{Word: model.WordRecord{Word: word}, Typed: typed, Total: 1}
}

func TestBuildStyledRunesStates(t *testing.T) {
	runes := buildStyledRunes(frameFor("cat", "c"), false, false)
	assert.Len(t, runes, 3)
	assert.Equal(t, correctStyle.Render("c"), runes[0].s)
	assert.Equal(t, cursorStyle.Render("a"), runes[1].s)
	assert.Equal(t, pendingStyle.Render("t"), runes[2].s)
}

func TestBuildStyledRunesShowsTypedCase(t *testing.T) {
	runes := buildStyledRunes(frameFor("Cat", "c"), false, false)
	assert.Equal(t, correctStyle.Render("c"), runes[0].s)
}

func TestBuildStyledRunesFlash(t *testing.T) {
	f := frameFor("cat", "c")
	f.Error = true
	f.Mistyped = 'x'

	runes := buildStyledRunes(f, true, false)
	assert.Equal(t, incorrectStyle.Render("a"), runes[1].s)

	runes = buildStyledRunes(f, true, true)
	assert.Equal(t, incorrectStyle.Render("x"), runes[1].s)

	runes = buildStyledRunes(f, false, true)
	assert.Equal(t, cursorStyle.Render("a"), runes[1].s)
}

func TestBuildStyledRunesCompletedWord(t *testing.T) {
	runes := buildStyledRunes(frameFor("ox", "ox"), false, false)
	for i, r := range "ox" {
		assert.Equal(t, correctStyle.Render(string(r)), runes[i].s)
	}
}

func TestWrapStyledRunesBreaksAtSpace(t *testing.T) {
	runes := buildStyledRunes(frameFor("give up on", ""), false, false)
	out := wrapStyledRunes(runes, 7)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
}

func TestWrapStyledRunesHardBreak(t *testing.T) {
	runes := buildStyledRunes(frameFor("abcdef", ""), false, false)
	out := wrapStyledRunes(runes, 4)
	assert.Len(t, strings.Split(out, "\n"), 2)
}

func TestWrapStyledRunesZeroWidth(t *testing.T) {
	runes := buildStyledRunes(frameFor("ab", ""), false, false)
	assert.Equal(t, renderStyledRunes(runes), wrapStyledRunes(runes, 0))
}
