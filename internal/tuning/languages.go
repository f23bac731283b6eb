package tuning

import "strings"

// DefaultLang is assigned to examples saved without a language
const DefaultLang = "English"

// SupportedLangs lists the languages an example can be tagged with
var SupportedLangs = []string{
	"Afrikaans", "Albanian", "Amharic", "Arabic", "Armenian", "Aymara", "Azerbaijani",
	"Belarusian", "Bengali", "Berber", "Bislama", "Bosnian", "Bulgarian", "Burmese",
	"Catalan", "Chichewa", "Comorian", "Croatian", "Czech", "Danish", "Dari", "Dhivehi",
	"Dutch", "Dzongkha", "English", "Estonian", "Fijian", "Filipino", "Finnish", "French",
	"Georgian", "German", "Greek", "Guarani", "Haitian Creole", "Hebrew", "Hindi",
	"Hiri Motu", "Hungarian", "Icelandic", "Indonesian", "Irish", "Italian", "Japanese",
	"Kazakh", "Khmer", "Kinyarwanda", "Kirundi", "Korean", "Kurdish", "Kyrgyz", "Lao",
	"Latvian", "Lithuanian", "Luxembourgish", "Malagasy", "Malay", "Maltese", "Mandarin",
	"Marshallese", "Mongolian", "Montenegrin", "Māori", "Nauruan", "Ndebele", "Nepali",
	"Norwegian", "Palauan", "Pashto", "Persian", "Polish", "Portuguese", "Quechua",
	"Romanian", "Romansh", "Russian", "Samoan", "Sango", "Serbian", "Sesotho",
	"Seychellois Creole", "Shona", "Sinhala", "Slovak", "Slovene", "Somali", "Sotho",
	"Spanish", "Swahili", "Swati", "Swedish", "Tajik", "Tamazight", "Tamil", "Tetum",
	"Thai", "Tigrinya", "Tok Pisin", "Tongan", "Tsonga", "Tswana", "Turkish", "Turkmen",
	"Tuvaluan", "Ukrainian", "Urdu", "Uzbek", "Venda", "Vietnamese", "Xhosa", "Zulu",
}

// IsSupported reports whether lang is in SupportedLangs
func IsSupported(lang string) bool {
	for _, l := range SupportedLangs {
		if l == lang {
			return true
		}
	}
	return false
}

// CanonicalLang returns the supported spelling of lang, matched ignoring
// case. Unknown languages are returned trimmed.
func CanonicalLang(lang string) string {
	lang = strings.TrimSpace(lang)
	for _, l := range SupportedLangs {
		if strings.EqualFold(l, lang) {
			return l
		}
	}
	return lang
}
