// Package learn 内置摩尔斯电码学习课程目录
// 课程目录是静态数据，完成记录落库
package learn

// Lesson 单个课程
type Lesson struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Characters  string `json:"characters,omitempty"`
	Points      int    `json:"points"`
}

// Module 课程模块，按难度递进
type Module struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Lessons     []Lesson `json:"lessons"`
}

// Catalogue 返回完整课程目录，顺序即学习顺序
func Catalogue() []Module {
	return modules
}

// FindLesson 按课程 ID 查找，找不到返回 nil
func FindLesson(lessonID string) *Lesson {
	for i := range modules {
		for j := range modules[i].Lessons {
			if modules[i].Lessons[j].ID == lessonID {
				return &modules[i].Lessons[j]
			}
		}
	}
	return nil
}

var modules = []Module{
	{
		ID:          "basics-1",
		Title:       "The Easy Letters",
		Description: "Start with the simplest Morse patterns: E, T, A, N.",
		Lessons: []Lesson{
			{ID: "basics-1-learn", Title: "Meet E, T, A, N", Description: "Learn the dot and dash patterns for your first four letters.", Type: "learn", Characters: "ETAN", Points: 10},
			{ID: "basics-1-practice", Title: "Practice E, T, A, N", Description: "Translate short sequences using only your first letters.", Type: "practice", Characters: "ETAN", Points: 15},
			{ID: "basics-1-quiz", Title: "Quiz: E, T, A, N", Description: "Prove you know them cold.", Type: "quiz", Characters: "ETAN", Points: 25},
		},
	},
	{
		ID:          "basics-2",
		Title:       "Common Letters",
		Description: "Add the most frequent letters in English: I, S, O, H, M.",
		Lessons: []Lesson{
			{ID: "basics-2-learn", Title: "Meet I, S, O, H, M", Description: "Five more letters, including the famous SOS trio.", Type: "learn", Characters: "ISOHM", Points: 10},
			{ID: "basics-2-practice", Title: "Practice I, S, O, H, M", Description: "Mix the new letters with the ones you already know.", Type: "practice", Characters: "ETANISOHM", Points: 15},
			{ID: "basics-2-quiz", Title: "Quiz: First Nine Letters", Description: "All nine letters so far, random order.", Type: "quiz", Characters: "ETANISOHM", Points: 25},
		},
	},
	{
		ID:          "alphabet",
		Title:       "The Full Alphabet",
		Description: "Complete the alphabet, one group at a time.",
		Lessons: []Lesson{
			{ID: "alphabet-1", Title: "R, D, L, U, W", Description: "Mid-frequency letters round out common words.", Type: "learn", Characters: "RDLUW", Points: 10},
			{ID: "alphabet-2", Title: "C, G, K, P, B", Description: "Letters with mixed dot-dash patterns.", Type: "learn", Characters: "CGKPB", Points: 10},
			{ID: "alphabet-3", Title: "F, V, J, Q, X, Y, Z", Description: "The rare letters complete your alphabet.", Type: "learn", Characters: "FVJQXYZ", Points: 10},
			{ID: "alphabet-quiz", Title: "Quiz: A to Z", Description: "Every letter, no hints.", Type: "quiz", Characters: "ABCDEFGHIJKLMNOPQRSTUVWXYZ", Points: 50},
		},
	},
	{
		ID:          "numbers",
		Title:       "Numbers",
		Description: "Digits 0 through 9 follow a simple five-symbol pattern.",
		Lessons: []Lesson{
			{ID: "numbers-learn", Title: "Meet the Digits", Description: "Spot the pattern: dashes fill in from opposite ends.", Type: "learn", Characters: "0123456789", Points: 10},
			{ID: "numbers-quiz", Title: "Quiz: Digits", Description: "Translate numbers both directions.", Type: "quiz", Characters: "0123456789", Points: 30},
		},
	},
	{
		ID:          "words",
		Title:       "Words and Sentences",
		Description: "Put it all together with real words and phrases.",
		Lessons: []Lesson{
			{ID: "words-common", Title: "Common Words", Description: "Translate everyday words like HELLO and THANKS.", Type: "practice", Points: 20},
			{ID: "words-sentences", Title: "Full Sentences", Description: "Whole sentences with the / word separator.", Type: "practice", Points: 25},
			{ID: "words-final", Title: "Final Exam", Description: "Mixed letters, numbers, and punctuation at speed.", Type: "quiz", Points: 100},
		},
	},
}
