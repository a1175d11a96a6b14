// Package morse 提供文本与摩尔斯电码的双向转换
//
// 编码规则：输入先转大写，逐字符查表，未收录字符原样保留，所有结果用单个空格连接
// 空格编码为 "/"（词间隔），但 "/" 本身编码为 "-..-."
// 解码时未知token映射为空字符串，因此往返转换对未收录字符和词间隔是有损的
// 这是摩尔斯电码本身的歧义，刻意保留，不做"修复"
package morse

// codeTable 字符→摩尔斯电码映射表（字母、数字、常用标点）
var codeTable = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".", 'F': "..-.",
	'G': "--.", 'H': "....", 'I': "..", 'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---", 'P': ".--.", 'Q': "--.-", 'R': ".-.",
	'S': "...", 'T': "-", 'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..",
	'1': ".----", '2': "..---", '3': "...--", '4': "....-", '5': ".....",
	'6': "-....", '7': "--...", '8': "---..", '9': "----.", '0': "-----",
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '/': "-..-.", ' ': "/",
}

// reverseTable 摩尔斯电码→字符反查表，由 codeTable 构建
// 注意 " "→"/" 与 "/"→"-..-." 不冲突，反查表无歧义键
var reverseTable = buildReverseTable()

func buildReverseTable() map[string]rune {
	m := make(map[string]rune, len(codeTable))
	for ch, code := range codeTable {
		m[code] = ch
	}
	return m
}

// TextToMorse 文本转摩尔斯电码
// 未收录字符原样透传，token之间用单个空格连接
func TextToMorse(text string) string {
	out := make([]byte, 0, len(text)*4)
	for _, ch := range upper(text) {
		if len(out) > 0 {
			out = append(out, ' ')
		}
		if code, ok := codeTable[ch]; ok {
			out = append(out, code...)
		} else {
			out = appendRune(out, ch)
		}
	}
	return string(out)
}

// MorseToText 摩尔斯电码转文本
// 按空格切分token，未知token映射为空字符串后拼接
func MorseToText(code string) string {
	out := make([]rune, 0, len(code)/2)
	start := 0
	for i := 0; i <= len(code); i++ {
		if i == len(code) || code[i] == ' ' {
			if token := code[start:i]; token != "" {
				if ch, ok := reverseTable[token]; ok {
					out = append(out, ch)
				}
			}
			start = i + 1
		}
	}
	return string(out)
}

// upper ASCII大写转换，非字母字符不变
func upper(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		if r >= 'a' && r <= 'z' {
			rs[i] = r - 'a' + 'A'
		}
	}
	return rs
}

func appendRune(b []byte, r rune) []byte {
	return append(b, string(r)...)
}
