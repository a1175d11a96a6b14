package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDictionary struct {
	lookupFn func(ctx context.Context, word string) (string, error)
}

var _ Dictionary = (*fakeDictionary)(nil)

func (f *fakeDictionary) Lookup(ctx context.Context, word string) (string, error) {
	if f.lookupFn == nil {
		return "", errors.New("dictionary unavailable")
	}
	return f.lookupFn(ctx, word)
}

func newTestBot(dict Dictionary) *Bot {
	return New(dict,
		WithClock(func() time.Time {
			return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
		}),
		WithRand(func(n int) int { return 0 }),
	)
}

func TestReplyMath(t *testing.T) {
	b := newTestBot(&fakeDictionary{})

	t.Run("explicit_calculate", func(t *testing.T) {
		assert.Equal(t, "The answer is 50", b.Reply(context.Background(), "calculate 5 * 10"))
	})

	t.Run("explicit_solve", func(t *testing.T) {
		assert.Equal(t, "The answer is 42", b.Reply(context.Background(), "solve 40 + 2"))
	})

	t.Run("implicit_what_is", func(t *testing.T) {
		assert.Equal(t, "The answer is 4", b.Reply(context.Background(), "what is 2+2?"))
	})

	t.Run("power_operator", func(t *testing.T) {
		assert.Equal(t, "The answer is 1024", b.Reply(context.Background(), "calculate 2^10"))
	})

	t.Run("sqrt_function", func(t *testing.T) {
		assert.Equal(t, "The answer is 4", b.Reply(context.Background(), "calculate sqrt(16)"))
	})

	t.Run("division_keeps_fraction", func(t *testing.T) {
		assert.Equal(t, "The answer is 2.5", b.Reply(context.Background(), "calculate 5 / 2"))
	})

	t.Run("broken_expression_falls_through", func(t *testing.T) {
		reply := b.Reply(context.Background(), "calculate banana")
		assert.NotContains(t, reply, "The answer is")
	})
}

func TestReplyDefinition(t *testing.T) {
	t.Run("dictionary_hit", func(t *testing.T) {
		b := newTestBot(&fakeDictionary{
			lookupFn: func(_ context.Context, word string) (string, error) {
				require.Equal(t, "serendipity", word)
				return "finding something good without looking for it", nil
			},
		})
		assert.Equal(t,
			"Definition of serendipity: finding something good without looking for it",
			b.Reply(context.Background(), "what is serendipity?"))
	})

	t.Run("leading_article_stripped", func(t *testing.T) {
		b := newTestBot(&fakeDictionary{
			lookupFn: func(_ context.Context, word string) (string, error) {
				require.Equal(t, "lighthouse", word)
				return "a tower with a light", nil
			},
		})
		b.Reply(context.Background(), "what is a lighthouse?")
	})

	t.Run("dictionary_failure_falls_to_science_facts", func(t *testing.T) {
		b := newTestBot(&fakeDictionary{})
		reply := b.Reply(context.Background(), "what is gravity?")
		assert.Contains(t, reply, "Gravity is the force")
	})
}

func TestReplyScienceFacts(t *testing.T) {
	b := newTestBot(&fakeDictionary{})

	t.Run("topic_mention", func(t *testing.T) {
		assert.Equal(t, "The Moon is Earth's only natural satellite.",
			b.Reply(context.Background(), "tell me about the moon"))
	})

	t.Run("first_topic_wins", func(t *testing.T) {
		// gravity 在词条表里排在 moon 之前
		reply := b.Reply(context.Background(), "moon gravity")
		assert.Contains(t, reply, "Gravity is the force")
	})
}

func TestReplyUtility(t *testing.T) {
	b := newTestBot(&fakeDictionary{})

	t.Run("time", func(t *testing.T) {
		assert.Equal(t, "It is currently 3:09:26 PM", b.Reply(context.Background(), "do you know the time"))
	})

	t.Run("date", func(t *testing.T) {
		assert.Equal(t, "Today is 3/14/2026", b.Reply(context.Background(), "and the date please"))
	})
}

func TestReplyConversationRules(t *testing.T) {
	b := newTestBot(&fakeDictionary{})

	t.Run("greeting", func(t *testing.T) {
		reply := b.Reply(context.Background(), "hello!")
		assert.Contains(t, []string{
			"Hello friend! How is your day going?",
			"Hi there! Ready to tap some Morse code?",
			"Greetings! It's typical wonderful weather in the digital world today.",
		}, reply)
	})

	t.Run("phrase_bonus_beats_single_keywords", func(t *testing.T) {
		// "how are you" 同时命中关键词规则和整句短语加分
		reply := b.Reply(context.Background(), "how are you")
		assert.Contains(t, []string{
			"I'm engaging in some deep thought processing. How about you?",
			"I'm feeling connected! .. - ... / --. --- --- -..",
			"Functioning perfectly and happy to chat with you!",
		}, reply)
	})

	t.Run("mood_keywords", func(t *testing.T) {
		reply := b.Reply(context.Background(), "i feel so bored and lonely")
		assert.Contains(t, []string{
			"I'm sorry to hear that. Coding (and Morse) always cheers me up!",
			" sending virtual hugs... ",
			"Why do you feel that way? You can tell me.",
			"Maybe take a break and listen to some music? Or some soothing 800Hz sine waves?",
		}, reply)
	})
}

func TestReplyFallback(t *testing.T) {
	b := newTestBot(&fakeDictionary{})

	reply := b.Reply(context.Background(), "qwerty zxcvb")
	assert.Contains(t, fallbacks, reply)
}
