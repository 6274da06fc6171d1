package service

import (
	"strings"
	"unicode"
)

const (
	LangEnglish = "en"
	LangHindi   = "hi"
)

const SystemPrompt = `You are EduDBT Assistant, a friendly guide for Indian students.
Explain Aadhaar linking and seeding, Direct Benefit Transfer (DBT), bank account requirements and government scholarships (NSP, state portals) in simple language.
Give short, step-by-step answers. Never ask for or repeat full Aadhaar, bank account numbers, OTPs or passwords.
When unsure, point the student to the official portal or their institution's scholarship nodal officer.
Reply in the language the student writes in.`

type cannedKind int

const (
	cannedNone cannedKind = iota
	cannedGreeting
	cannedThanks
)

var (
	greetingWords = map[string]bool{"hello": true, "hi": true, "hey": true, "namaste": true}
	thanksWords   = map[string]bool{"thanks": true, "dhanyavad": true, "shukriya": true}

	cannedReplies = map[cannedKind]map[string]string{
		cannedGreeting: {
			LangEnglish: "Hello! I can help you with Aadhaar linking, DBT and scholarships. What would you like to know?",
			LangHindi:   "नमस्ते! मैं आधार लिंकिंग, DBT और छात्रवृत्ति के बारे में आपकी मदद कर सकता हूँ। आप क्या जानना चाहेंगे?",
		},
		cannedThanks: {
			LangEnglish: "You're welcome! Feel free to ask if you have more questions about DBT or scholarships.",
			LangHindi:   "आपका स्वागत है! DBT या छात्रवृत्ति के बारे में और कोई सवाल हो तो ज़रूर पूछें।",
		},
	}

	fallbackReplies = map[string]string{
		LangEnglish: "Sorry, I'm having trouble answering right now. Please try again in a little while.",
		LangHindi:   "क्षमा करें, मैं अभी उत्तर नहीं दे पा रहा हूँ। कृपया थोड़ी देर बाद फिर से प्रयास करें।",
	}
)

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// matchCanned looks for greeting or thanks words as whole words, so "hi"
// matches "Hi there" but not "this" or "higher".
func matchCanned(msg string) cannedKind {
	ws := words(msg)
	for i, w := range ws {
		if thanksWords[w] || (w == "thank" && i+1 < len(ws) && ws[i+1] == "you") {
			return cannedThanks
		}
	}
	for _, w := range ws {
		if greetingWords[w] {
			return cannedGreeting
		}
	}
	return cannedNone
}

func cannedReply(kind cannedKind, lang string) string {
	return pick(cannedReplies[kind], lang)
}

func fallbackReply(lang string) string {
	return pick(fallbackReplies, lang)
}

func pick(m map[string]string, lang string) string {
	if v, ok := m[lang]; ok {
		return v
	}
	return m[LangEnglish]
}
