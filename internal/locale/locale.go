// Package locale holds the per-deployment wording: block markers, trigger
// words, transcript notices and the output language requested from the model.
package locale

import (
	"fmt"
	"sort"
)

// Bundle is one deployment locale.
type Bundle struct {
	Code string

	OpenMarker  string
	CloseMarker string
	Separator   string

	// Triggers mark an utterance as a question-generation request.
	Triggers []string
	// Language is the output language named in the generation instruction.
	Language string

	Welcome          string
	documentReady    string // format: source name
	ExtractionFailed string
	ModelCallFailed  string
	MalformedReply   string
	summary          string // format: count
}

// DocumentReady is the notice appended after a successful load.
func (b Bundle) DocumentReady(sourceName string) string {
	return fmt.Sprintf(b.documentReady, sourceName)
}

// Summary is the display payload that replaces a reply yielding n questions.
func (b Bundle) Summary(n int) string {
	return fmt.Sprintf(b.summary, n)
}

const (
	English = "en"
	Arabic  = "ar"
)

var bundles = map[string]Bundle{
	English: {
		Code:             English,
		OpenMarker:       ":::QUESTION:::",
		CloseMarker:      ":::END:::",
		Separator:        "||",
		Triggers:         []string{"generate", "question", "quiz", "test", "exam"},
		Language:         "English",
		Welcome:          "Welcome to Q-Bank. Upload a PDF to start asking about its content.",
		documentReady:    "Document %q processed. You can ask questions now.",
		ExtractionFailed: "Error: the extraction service could not process the file. Make sure it is running and try again.",
		ModelCallFailed:  "Failed to reach the model API.",
		MalformedReply:   "Invalid response from the model.",
		summary:          "Extracted %d questions successfully!",
	},
	Arabic: {
		Code:             Arabic,
		OpenMarker:       ":::سؤال:::",
		CloseMarker:      ":::نهاية:::",
		Separator:        "||",
		Triggers:         []string{"ولد", "اسئلة", "اختبار"},
		Language:         "Arabic",
		Welcome:          "مرحباً بك في Q-BANK PRO. قم برفع ملف PDF ليتم تحليله.",
		documentReady:    "تم تحليل الملف \"%s\" بنجاح! يمكنك الآن طرح الأسئلة.",
		ExtractionFailed: "خطأ: تأكد من تشغيل خدمة استخراج النصوص وأعد المحاولة.",
		ModelCallFailed:  "فشل الاتصال بواجهة النموذج.",
		MalformedReply:   "خطأ في الاستجابة.",
		summary:          "تم استخراج %d سؤال بنجاح!",
	},
}

// Lookup returns the bundle for code.
func Lookup(code string) (Bundle, error) {
	b, ok := bundles[code]
	if !ok {
		return Bundle{}, fmt.Errorf("unknown locale %q (available: %v)", code, Codes())
	}
	return b, nil
}

// MustLookup is Lookup for compile-time constants.
func MustLookup(code string) Bundle {
	b, err := Lookup(code)
	if err != nil {
		panic(err)
	}
	return b
}

// Codes lists the available locale codes, sorted.
func Codes() []string {
	codes := make([]string, 0, len(bundles))
	for c := range bundles {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
