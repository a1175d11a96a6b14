// Package bot 实现 MorseBot 自动回复
// 回复按阶段依次尝试：算术、词典释义、科普知识、时间日期、模糊对话规则，最后随机兜底
package bot

import (
	"context"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"morse-mastery/pkg/logger"

	"github.com/expr-lang/expr"
	"go.uber.org/zap"
)

var (
	// 算术表达式特征：二元运算或常见函数调用
	mathRegex = regexp.MustCompile(`(\d+[+\-*/^%]\d+)|(sqrt|sin|cos|tan|log)\(.*\)|(\d+\s*[+\-*/^%]\s*\d+)`)
	// 从句子里抠出疑似表达式的片段
	exprExtractRegex = regexp.MustCompile(`[\d.+\-*/()^% e\s]{3,}`)
	mathVerbRegex    = regexp.MustCompile(`calculate|calc|solve`)
	mathFuncRegex    = regexp.MustCompile(`sqrt|sin|cos|tan|log`)
	digitRegex       = regexp.MustCompile(`\d`)
	punctRegex       = regexp.MustCompile(`[?.,!]`)
	articleRegex     = regexp.MustCompile(`^(a|an|the)\s+`)
	// 纯数字算式不值得查词典
	numericOnlyRegex = regexp.MustCompile(`^[\d\s+\-*/]+$`)
	tokenSplitRegex  = regexp.MustCompile(`[^a-z0-9']+`)
)

// exprEnv 表达式求值环境，对齐常用数学函数
var exprEnv = map[string]interface{}{
	"sqrt": math.Sqrt,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"log":  math.Log,
}

// conversationRule 关键词规则与候选回复
type conversationRule struct {
	pattern   []string
	responses []string
}

var conversationRules = []conversationRule{
	{
		pattern: []string{"hello", "hi", "hey", "greetings"},
		responses: []string{
			"Hello friend! How is your day going?",
			"Hi there! Ready to tap some Morse code?",
			"Greetings! It's typical wonderful weather in the digital world today.",
		},
	},
	{
		pattern: []string{"how", "are", "you"},
		responses: []string{
			"I'm engaging in some deep thought processing. How about you?",
			"I'm feeling connected! .. - ... / --. --- --- -..",
			"Functioning perfectly and happy to chat with you!",
		},
	},
	{
		pattern: []string{"name", "who"},
		responses: []string{
			"I am MorseBot, your friendly neighborhood coding companion.",
			"Call me MorseBot. I live in the server.",
			"I'm just a bot standing in front of a user, asking them to learn Morse code.",
		},
	},
	{
		pattern: []string{"sad", "bored", "tired", "unhappy", "lonely"},
		responses: []string{
			"I'm sorry to hear that. Coding (and Morse) always cheers me up!",
			" sending virtual hugs... ",
			"Why do you feel that way? You can tell me.",
			"Maybe take a break and listen to some music? Or some soothing 800Hz sine waves?",
		},
	},
	{
		pattern: []string{"happy", "excited", "good", "great", "awesome"},
		responses: []string{
			"That is wonderful news! Keep that energy up!",
			"Fantastic! Happiness is contagious, even over sockets.",
			"Yay! Let's celebrate with some high-speed Morse practice.",
		},
	},
}

// scienceFact 科普词条，顺序即匹配优先级
type scienceFact struct {
	topic string
	fact  string
}

var scienceFacts = []scienceFact{
	{"gravity", "Gravity is the force by which a planet or other body draws objects toward its center. On Earth, it's 9.8 m/s²."},
	{"speed of light", "The speed of light in vacuum is approximately 299,792,458 meters per second."},
	{"dna", "DNA (Deoxyribonucleic acid) is the molecule that carries genetic information for the development and functioning of an organism."},
	{"photosynthesis", "Photosynthesis is the process used by plants to convert light energy into chemical energy."},
	{"atom", "An atom is the smallest unit of ordinary matter that forms a chemical element."},
	{"water", "Water (H2O) is a clear, colorless, odorless, and tasteless liquid essential for most plant and animal life."},
	{"earth", "Earth is the third planet from the Sun and the only astronomical object known to harbor life."},
	{"sun", "The Sun is the star at the center of the Solar System. It converts hydrogen into helium via nuclear fusion."},
	{"moon", "The Moon is Earth's only natural satellite."},
	{"pi", "Pi is the ratio of a circle's circumference to its diameter, approx 3.14159."},
}

var fallbacks = []string{
	"That's interesting! Tell me more.",
	"I see. How does that make you feel?",
	"Really? I never thought of it that way.",
	"I'm listening. Go on.",
	"I can do math too! Try 'calculate 5 * 10' or ask me about 'gravity'.",
}

// Bot 自动回复引擎
type Bot struct {
	dict Dictionary
	now  func() time.Time
	intn func(n int) int
}

// Option 可注入时钟与随机源，测试用
type Option func(*Bot)

// WithClock 替换时间源
func WithClock(now func() time.Time) Option {
	return func(b *Bot) { b.now = now }
}

// WithRand 替换随机源
func WithRand(intn func(n int) int) Option {
	return func(b *Bot) { b.intn = intn }
}

// New 创建回复引擎
func New(dict Dictionary, opts ...Option) *Bot {
	b := &Bot{
		dict: dict,
		now:  time.Now,
		intn: rand.Intn,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Reply 生成对用户消息的回复，永不返回空串
func (b *Bot) Reply(ctx context.Context, text string) string {
	lower := strings.ToLower(text)

	if reply, ok := b.tryMath(lower); ok {
		return reply
	}
	if reply, ok := b.tryDefinition(ctx, lower); ok {
		return reply
	}
	for _, entry := range scienceFacts {
		if strings.Contains(lower, entry.topic) {
			return entry.fact
		}
	}
	if strings.Contains(lower, "time") {
		return "It is currently " + b.now().Format("3:04:05 PM")
	}
	if strings.Contains(lower, "date") {
		return "Today is " + b.now().Format("1/2/2006")
	}
	if reply, ok := b.tryConversationRules(lower); ok {
		return reply
	}
	return fallbacks[b.intn(len(fallbacks))]
}

// tryMath 识别并求值算术问题
func (b *Bot) tryMath(lower string) (string, bool) {
	// 显式指令：calculate / calc / solve 开头
	if strings.HasPrefix(lower, "calculate") || strings.HasPrefix(lower, "calc") || strings.HasPrefix(lower, "solve") {
		expression := strings.TrimSpace(mathVerbRegex.ReplaceAllString(lower, ""))
		if reply, ok := evaluate(expression); ok {
			return reply, true
		}
	}

	// 隐式提问："what is 2+2" 或 "answer of ..."
	implicitMatch := mathRegex.FindString(lower)
	if strings.Contains(lower, "answer of") || (implicitMatch != "" && strings.Contains(lower, "what is")) {
		potential := implicitMatch
		if potential == "" {
			potential = exprExtractRegex.FindString(lower)
		}
		potential = strings.TrimSpace(potential)
		if potential != "" && (digitRegex.MatchString(potential) || mathFuncRegex.MatchString(potential)) {
			if reply, ok := evaluate(potential); ok {
				return reply, true
			}
		}
	}
	return "", false
}

func evaluate(expression string) (string, bool) {
	if expression == "" {
		return "", false
	}
	result, err := expr.Eval(expression, exprEnv)
	if err != nil {
		return "", false
	}
	formatted, ok := formatNumber(result)
	if !ok {
		return "", false
	}
	return "The answer is " + formatted, true
}

func formatNumber(v interface{}) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	default:
		return "", false
	}
}

// tryDefinition 提取被问及的单词并查询词典
func (b *Bot) tryDefinition(ctx context.Context, lower string) (string, bool) {
	var word string
	switch {
	case strings.HasPrefix(lower, "define"):
		word = strings.Replace(lower, "define", "", 1)
	case strings.Contains(lower, "what is"):
		word = strings.Replace(lower, "what is", "", 1)
	case strings.Contains(lower, "meaning of"):
		word = strings.Replace(lower, "meaning of", "", 1)
	case strings.Contains(lower, "definition of"):
		word = strings.Replace(lower, "definition of", "", 1)
	default:
		return "", false
	}

	word = strings.TrimSpace(word)
	word = punctRegex.ReplaceAllString(word, "")
	word = articleRegex.ReplaceAllString(word, "")

	// 纯数字或算式交给后续阶段处理
	if word == "" || len(word) <= 1 || numericOnlyRegex.MatchString(word) {
		return "", false
	}

	definition, err := b.dict.Lookup(ctx, word)
	if err != nil {
		logger.Warn("词典查询失败",
			zap.String("word", word),
			zap.Error(err))
		return "", false
	}
	return "Definition of " + word + ": " + definition, true
}

// tryConversationRules 分词后按关键词计分，取最高分规则的随机回复
func (b *Bot) tryConversationRules(lower string) (string, bool) {
	tokens := tokenize(lower)

	bestScore := 0
	var bestResponses []string
	for _, rule := range conversationRules {
		score := 0
		for _, keyword := range rule.pattern {
			if tokens[keyword] || strings.Contains(lower, keyword) {
				score++
			}
		}
		// 整句短语命中给大幅加分
		if len(rule.pattern) > 2 && strings.Contains(lower, strings.Join(rule.pattern, " ")) {
			score += 5
		}
		if score > bestScore {
			bestScore = score
			bestResponses = rule.responses
		}
	}

	if bestScore == 0 {
		return "", false
	}
	return bestResponses[b.intn(len(bestResponses))], true
}

func tokenize(lower string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range tokenSplitRegex.Split(lower, -1) {
		if tok != "" {
			tokens[tok] = true
		}
	}
	return tokens
}
