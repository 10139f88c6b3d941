package session

import (
	"github.com/go-playground/locales/ar"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/lshigami/coursexam/internal/scoring"
	"github.com/rs/zerolog/log"
)

type NoticeKey string

const (
	NoticeSubmitFailed      NoticeKey = "submit_failed"
	NoticeNameRequired      NoticeKey = "name_required"
	NoticeIncomplete        NoticeKey = "incomplete"
	NoticeNoSelections      NoticeKey = "no_selections"
	NoticeCertificateReady  NoticeKey = "certificate_ready"
	NoticeRetake            NoticeKey = "retake"
	NoticePassed            NoticeKey = "passed"
	NoticeCompleted         NoticeKey = "completed"
	NoticePlacementComplete NoticeKey = "placement_complete"
)

// Notice is a message for the learner. Blocking notices must be dismissed
// before the learner can continue.
type Notice struct {
	Key      NoticeKey
	Text     string
	Blocking bool
}

var catalog = map[string]map[NoticeKey]string{
	"en": {
		NoticeSubmitFailed:      "Something went wrong",
		NoticeNameRequired:      "Please enter your name for the certificate",
		NoticeIncomplete:        "Answer every question before submitting",
		NoticeNoSelections:      "Choose at least one answer before submitting",
		NoticeCertificateReady:  "Your certificate is ready!",
		NoticeRetake:            "Review the course and retake the exam",
		NoticePassed:            "Well done, you passed",
		NoticeCompleted:         "Quiz completed",
		NoticePlacementComplete: "Placement test complete",
	},
	"ar": {
		NoticeSubmitFailed:      "هناك شئ غير صحيح",
		NoticeNameRequired:      "يرجى إدخال اسمك للشهادة",
		NoticeIncomplete:        "أجب عن جميع الأسئلة قبل الإرسال",
		NoticeNoSelections:      "اختر إجابة واحدة على الأقل قبل الإرسال",
		NoticeCertificateReady:  "شهادتك جاهزة!",
		NoticeRetake:            "راجع الدورة وأعد الاختبار",
		NoticePassed:            "أحسنت، لقد نجحت",
		NoticeCompleted:         "اكتمل الاختبار القصير",
		NoticePlacementComplete: "اكتمل اختبار تحديد المستوى",
	},
}

var translators = newTranslators()

func newTranslators() *ut.UniversalTranslator {
	_en := en.New()
	uni := ut.New(_en, _en, ar.New())
	for locale, texts := range catalog {
		trans, _ := uni.GetTranslator(locale)
		for key, text := range texts {
			if err := trans.Add(string(key), text, false); err != nil {
				log.Error().Err(err).Str("locale", locale).Str("key", string(key)).Msg("Failed to register notice")
			}
		}
	}
	return uni
}

// translate falls back to English for unknown locales and to the key itself
// for unknown keys.
func translate(locale string, key NoticeKey) string {
	trans, _ := translators.GetTranslator(locale)
	text, err := trans.T(string(key))
	if err != nil {
		return string(key)
	}
	return text
}

func newNotice(locale string, key NoticeKey, blocking bool) *Notice {
	return &Notice{Key: key, Text: translate(locale, key), Blocking: blocking}
}

func outcomeNotice(outcome scoring.Outcome) NoticeKey {
	switch outcome {
	case scoring.OutcomeCertificate:
		return NoticeCertificateReady
	case scoring.OutcomeRetake:
		return NoticeRetake
	case scoring.OutcomePassed:
		return NoticePassed
	case scoring.OutcomePlacement:
		return NoticePlacementComplete
	default:
		return NoticeCompleted
	}
}
