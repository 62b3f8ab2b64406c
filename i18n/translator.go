package i18n

import (
	"strings"
	"sync/atomic"
)

// Message codes for every violation produced by the core and the built-in
// constraints.
const (
	CodeInputNull      = "input_null"
	CodeNotNull        = "not_null"
	CodeSizeNull       = "size_null"
	CodeSizeSmaller    = "size_smaller"
	CodeSizeGreater    = "size_greater"
	CodeNotEmptyNull   = "not_empty_null"
	CodeNotEmptyEmpty  = "not_empty_empty"
	CodeNotBlankNull   = "not_blank_null"
	CodeNotBlankBlank  = "not_blank_blank"
	CodePatternNull    = "pattern_null"
	CodePatternInvalid = "pattern_mismatch"
	CodeRangeNull      = "range_null"
	CodeRangeSmaller   = "range_smaller"
	CodeRangeGreater   = "range_greater"
)

// Translator retrieves localized messages for violation codes.
// data provides values substituted into {name} placeholders (for example,
// "from", "to" or "size").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		CodeInputNull:      "Input value is null",
		CodeNotNull:        "Should be not null, but was null",
		CodeSizeNull:       "Size should be in range from '{from}' to '{to}', but value was null",
		CodeSizeSmaller:    "Size should be in range from '{from}' to '{to}', but was smaller: {size}",
		CodeSizeGreater:    "Size should be in range from '{from}' to '{to}', but was greater: {size}",
		CodeNotEmptyNull:   "Should be not empty, but was null",
		CodeNotEmptyEmpty:  "Should be not empty, but was empty",
		CodeNotBlankNull:   "Should be not blank, but was null",
		CodeNotBlankBlank:  "Should be not blank, but was blank",
		CodePatternNull:    "Should match pattern '{pattern}', but value was null",
		CodePatternInvalid: "Should match pattern '{pattern}', but was: '{value}'",
		CodeRangeNull:      "Should be in range from '{from}' to '{to}', but value was null",
		CodeRangeSmaller:   "Should be in range from '{from}' to '{to}', but was smaller: {value}",
		CodeRangeGreater:   "Should be in range from '{from}' to '{to}', but was greater: {value}",
	},
	"ja": {
		CodeInputNull:      "入力値が null です",
		CodeNotNull:        "null は許可されていません",
		CodeSizeNull:       "サイズは '{from}' から '{to}' の範囲である必要がありますが、値が null です",
		CodeSizeSmaller:    "サイズは '{from}' から '{to}' の範囲である必要がありますが、小さすぎます: {size}",
		CodeSizeGreater:    "サイズは '{from}' から '{to}' の範囲である必要がありますが、大きすぎます: {size}",
		CodeNotEmptyNull:   "空であってはなりませんが、null です",
		CodeNotEmptyEmpty:  "空であってはなりません",
		CodeNotBlankNull:   "空白であってはなりませんが、null です",
		CodeNotBlankBlank:  "空白であってはなりません",
		CodePatternNull:    "パターン '{pattern}' に一致する必要がありますが、null です",
		CodePatternInvalid: "パターン '{pattern}' に一致しません: '{value}'",
		CodeRangeNull:      "'{from}' から '{to}' の範囲である必要がありますが、null です",
		CodeRangeSmaller:   "'{from}' から '{to}' の範囲である必要がありますが、小さすぎます: {value}",
		CodeRangeGreater:   "'{from}' から '{to}' の範囲である必要がありますが、大きすぎます: {value}",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		tmpl, ok = dictionaries["en"][code]
		if !ok {
			return code
		}
	}
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

type holder struct{ tr Translator }

var currentTranslator atomic.Pointer[holder]

func init() { currentTranslator.Store(&holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator.Store(&holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). A nil Translator restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	currentTranslator.Store(&holder{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return currentTranslator.Load().tr.Message(code, data)
}
