package morse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextToMorse(t *testing.T) {
	t.Run("single_word", func(t *testing.T) {
		assert.Equal(t, ".... . .-.. .-.. ---", TextToMorse("HELLO"))
	})

	t.Run("lowercase_input", func(t *testing.T) {
		assert.Equal(t, TextToMorse("HELLO"), TextToMorse("hello"))
	})

	t.Run("space_becomes_word_separator", func(t *testing.T) {
		assert.Equal(t, "... --- ... / ... --- ...", TextToMorse("SOS SOS"))
	})

	t.Run("slash_is_a_real_character", func(t *testing.T) {
		// '/' 有自己的电码，与词间隔符号不同
		assert.Equal(t, "-..-.", TextToMorse("/"))
	})

	t.Run("digits_and_punctuation", func(t *testing.T) {
		assert.Equal(t, ".---- ..--- ...--", TextToMorse("123"))
		assert.Equal(t, "..--..", TextToMorse("?"))
	})

	t.Run("unmapped_characters_pass_through", func(t *testing.T) {
		assert.Equal(t, ".- @ -...", TextToMorse("a@b"))
	})

	t.Run("empty_input", func(t *testing.T) {
		assert.Equal(t, "", TextToMorse(""))
	})
}

func TestMorseToText(t *testing.T) {
	t.Run("single_word", func(t *testing.T) {
		assert.Equal(t, "HELLO", MorseToText(".... . .-.. .-.. ---"))
	})

	t.Run("word_separator_becomes_space", func(t *testing.T) {
		assert.Equal(t, "SOS SOS", MorseToText("... --- ... / ... --- ..."))
	})

	t.Run("unknown_tokens_dropped", func(t *testing.T) {
		assert.Equal(t, "AB", MorseToText(".- ...---... -..."))
	})

	t.Run("empty_input", func(t *testing.T) {
		assert.Equal(t, "", MorseToText(""))
	})

	t.Run("extra_spaces_ignored", func(t *testing.T) {
		assert.Equal(t, "AB", MorseToText(".-  -..."))
	})
}

func TestRoundTrip(t *testing.T) {
	t.Run("mapped_text_survives", func(t *testing.T) {
		for _, text := range []string{"HELLO WORLD", "SOS", "MORSE CODE 123", "WHAT?"} {
			assert.Equal(t, text, MorseToText(TextToMorse(text)), text)
		}
	})

	t.Run("unmapped_characters_are_lossy", func(t *testing.T) {
		// '@' 编码时透传，解码时不是合法token被丢弃
		assert.Equal(t, "AB", MorseToText(TextToMorse("A@B")))
	})
}
