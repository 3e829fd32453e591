// Package langs holds the supported-language table for the translation service.
package langs

import "sort"

// Set maps a language code to its display name. Validation only needs
// membership, but the display names are useful for listing endpoints
// and error messages.
type Set map[string]string

// Supported is the language table accepted by AWS Translate.
var Supported = Set{
	"af":    "Afrikaans",
	"sq":    "Albanian",
	"am":    "Amharic",
	"ar":    "Arabic",
	"hy":    "Armenian",
	"az":    "Azerbaijani",
	"bn":    "Bengali",
	"bs":    "Bosnian",
	"bg":    "Bulgarian",
	"ca":    "Catalan",
	"zh":    "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",
	"hr":    "Croatian",
	"cs":    "Czech",
	"da":    "Danish",
	"fa-AF": "Dari",
	"nl":    "Dutch",
	"en":    "English",
	"et":    "Estonian",
	"fa":    "Farsi (Persian)",
	"tl":    "Filipino, Tagalog",
	"fi":    "Finnish",
	"fr":    "French",
	"fr-CA": "French (Canada)",
	"ka":    "Georgian",
	"de":    "German",
	"el":    "Greek",
	"gu":    "Gujarati",
	"ht":    "Haitian Creole",
	"ha":    "Hausa",
	"he":    "Hebrew",
	"hi":    "Hindi",
	"hu":    "Hungarian",
	"is":    "Icelandic",
	"id":    "Indonesian",
	"ga":    "Irish",
	"it":    "Italian",
	"ja":    "Japanese",
	"kn":    "Kannada",
	"kk":    "Kazakh",
	"ko":    "Korean",
	"lv":    "Latvian",
	"lt":    "Lithuanian",
	"mk":    "Macedonian",
	"ms":    "Malay",
	"ml":    "Malayalam",
	"mt":    "Maltese",
	"mr":    "Marathi",
	"mn":    "Mongolian",
	"no":    "Norwegian (Bokmål)",
	"ps":    "Pashto",
	"pl":    "Polish",
	"pt":    "Portuguese (Brazil)",
	"pt-PT": "Portuguese (Portugal)",
	"pa":    "Punjabi",
	"ro":    "Romanian",
	"ru":    "Russian",
	"sr":    "Serbian",
	"si":    "Sinhala",
	"sk":    "Slovak",
	"sl":    "Slovenian",
	"so":    "Somali",
	"es":    "Spanish",
	"es-MX": "Spanish (Mexico)",
	"sw":    "Swahili",
	"sv":    "Swedish",
	"ta":    "Tamil",
	"te":    "Telugu",
	"th":    "Thai",
	"tr":    "Turkish",
	"uk":    "Ukrainian",
	"ur":    "Urdu",
	"uz":    "Uzbek",
	"vi":    "Vietnamese",
	"cy":    "Welsh",
}

// Contains reports whether code is in the set.
func (s Set) Contains(code string) bool {
	_, ok := s[code]
	return ok
}

// Codes returns all language codes in the set, sorted.
func (s Set) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
