// Package i18n holds the static localization table for the report
// conversation. Every prompt key must be present for every supported
// language; a gap is a configuration error caught by Validate at startup,
// never a runtime fallback.
package i18n

import (
	"fmt"
	"reflect"
)

// Language is an ISO 639-1 code of a supported conversation language.
type Language string

const (
	// Ukrainian is the default language offered first in the picker.
	Ukrainian Language = "uk"
	// Russian is the second supported language.
	Russian Language = "ru"
)

// Messages carries every user-facing prompt for one language.
type Messages struct {
	NativeName       string
	ChooseLanguage   string
	Welcome          string
	CreateReport     string
	Attach           string
	Done             string
	FileAdded        string
	NoFiles          string
	SelectChannels   string
	Confirm          string
	ChooseAtLeastOne string
	ReportSaved      string
	SaveFailed       string
	StartFirst       string
	ChooseLangFirst  string
}

var catalog = map[Language]Messages{
	Ukrainian: {
		NativeName:       "Українська",
		ChooseLanguage:   "Обери мову / Выберите язык",
		Welcome:          "Ласкаво просимо! Скористайтеся меню для створення звіту.",
		CreateReport:     "🆕 Створити звіт",
		Attach:           `Додайте файли звіту. Коли готові — натисніть "✅ Готово".`,
		Done:             "✅ Готово",
		FileAdded:        `Файл додано. Можете додати ще або натиснути "✅ Готово".`,
		NoFiles:          "Спочатку додайте файли.",
		SelectChannels:   "Оберіть канали:",
		Confirm:          "🚀 Підтвердити",
		ChooseAtLeastOne: "Оберіть хоча б один канал.",
		ReportSaved:      "✅ Звіт збережено!",
		SaveFailed:       "❌ Помилка збереження.",
		StartFirst:       "Спочатку надішліть /start",
		ChooseLangFirst:  "Спочатку оберіть мову.",
	},
	Russian: {
		NativeName:       "Русский",
		ChooseLanguage:   "Выберите язык / Оберіть мову",
		Welcome:          "Привет! Используйте меню для создания отчёта.",
		CreateReport:     "🆕 Создать отчёт",
		Attach:           `Прикрепите файлы отчёта. Когда готовы — нажмите "✅ Готово".`,
		Done:             "✅ Готово",
		FileAdded:        `Файл добавлен. Можно ещё или нажать "✅ Готово".`,
		NoFiles:          "Сначала добавьте файлы.",
		SelectChannels:   "Выберите каналы:",
		Confirm:          "🚀 Подтвердить",
		ChooseAtLeastOne: "Выберите хотя бы один канал.",
		ReportSaved:      "✅ Отчёт сохранён!",
		SaveFailed:       "❌ Ошибка сохранения.",
		StartFirst:       "Сначала отправьте /start",
		ChooseLangFirst:  "Сначала выберите язык.",
	},
}

// Supported returns the supported languages in picker order.
func Supported() []Language {
	return []Language{Ukrainian, Russian}
}

// Lookup returns the message set for a language.
func Lookup(lang Language) (Messages, bool) {
	m, ok := catalog[lang]
	return m, ok
}

// Default returns the message set shown before a language is chosen.
func Default() Messages {
	return catalog[Ukrainian]
}

// Validate confirms every prompt key is populated for every supported
// language. Called once at startup; an error here is fatal.
func Validate() error {
	for _, lang := range Supported() {
		m, ok := catalog[lang]
		if !ok {
			return fmt.Errorf("i18n: language %q missing from catalog", lang)
		}
		v := reflect.ValueOf(m)
		for i := 0; i < v.NumField(); i++ {
			if v.Field(i).String() == "" {
				return fmt.Errorf("i18n: language %q is missing prompt %q", lang, v.Type().Field(i).Name)
			}
		}
	}
	return nil
}
