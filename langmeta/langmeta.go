// Package langmeta provides a shared language metadata registry (native and
// English names, emoji flags) used by the CLI UI and the oracle prompts.
package langmeta

import "strings"

// Meta describes language display metadata.
type Meta struct {
	// Name is the native language name, shown in status output.
	Name string
	// English is the English language name, used in oracle prompts.
	English string
	// Flag is the emoji flag.
	Flag string
}

// Registry contains canonical language metadata.
// Locale variants are resolved in Resolve() via normalization and base fallback.
var Registry = map[string]Meta{
	"ar":    {Name: "العربية", English: "Arabic", Flag: "🇸🇦"},
	"bg":    {Name: "Български", English: "Bulgarian", Flag: "🇧🇬"},
	"cs":    {Name: "Čeština", English: "Czech", Flag: "🇨🇿"},
	"da":    {Name: "Dansk", English: "Danish", Flag: "🇩🇰"},
	"de":    {Name: "Deutsch", English: "German", Flag: "🇩🇪"},
	"el":    {Name: "Ελληνικά", English: "Greek", Flag: "🇬🇷"},
	"en":    {Name: "English", English: "English", Flag: "🇺🇸"},
	"en-GB": {Name: "English (UK)", English: "British English", Flag: "🇬🇧"},
	"en-US": {Name: "English (US)", English: "American English", Flag: "🇺🇸"},
	"es":    {Name: "Español", English: "Spanish", Flag: "🇪🇸"},
	"fa":    {Name: "فارسی", English: "Persian", Flag: "🇮🇷"},
	"fi":    {Name: "Suomi", English: "Finnish", Flag: "🇫🇮"},
	"fr":    {Name: "Français", English: "French", Flag: "🇫🇷"},
	"he":    {Name: "עברית", English: "Hebrew", Flag: "🇮🇱"},
	"hi":    {Name: "हिन्दी", English: "Hindi", Flag: "🇮🇳"},
	"hu":    {Name: "Magyar", English: "Hungarian", Flag: "🇭🇺"},
	"id":    {Name: "Bahasa Indonesia", English: "Indonesian", Flag: "🇮🇩"},
	"it":    {Name: "Italiano", English: "Italian", Flag: "🇮🇹"},
	"ja":    {Name: "日本語", English: "Japanese", Flag: "🇯🇵"},
	"ko":    {Name: "한국어", English: "Korean", Flag: "🇰🇷"},
	"ms":    {Name: "Bahasa Melayu", English: "Malay", Flag: "🇲🇾"},
	"nl":    {Name: "Nederlands", English: "Dutch", Flag: "🇳🇱"},
	"no":    {Name: "Norsk", English: "Norwegian", Flag: "🇳🇴"},
	"pl":    {Name: "Polski", English: "Polish", Flag: "🇵🇱"},
	"pt":    {Name: "Português", English: "Portuguese", Flag: "🇵🇹"},
	"pt-BR": {Name: "Português (Brasil)", English: "Brazilian Portuguese", Flag: "🇧🇷"},
	"ro":    {Name: "Română", English: "Romanian", Flag: "🇷🇴"},
	"ru":    {Name: "Русский", English: "Russian", Flag: "🇷🇺"},
	"sk":    {Name: "Slovenčina", English: "Slovak", Flag: "🇸🇰"},
	"sv":    {Name: "Svenska", English: "Swedish", Flag: "🇸🇪"},
	"th":    {Name: "ไทย", English: "Thai", Flag: "🇹🇭"},
	"tr":    {Name: "Türkçe", English: "Turkish", Flag: "🇹🇷"},
	"uk":    {Name: "Українська", English: "Ukrainian", Flag: "🇺🇦"},
	"vi":    {Name: "Tiếng Việt", English: "Vietnamese", Flag: "🇻🇳"},
	"zh":    {Name: "中文", English: "Chinese", Flag: "🇨🇳"},
	"zh-CN": {Name: "简体中文", English: "Simplified Chinese", Flag: "🇨🇳"},
	"zh-TW": {Name: "繁體中文", English: "Traditional Chinese", Flag: "🇹🇼"},
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort language metadata for language codes,
// supporting variants like zh_CN, zh-CN, and locale fallbacks.
func Resolve(lang string) Meta {
	if m, ok := Registry[lang]; ok {
		return m
	}
	normalized := canonicalize(lang)
	if m, ok := Registry[normalized]; ok {
		return m
	}
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		if m, ok := Registry[parts[0]]; ok {
			return m
		}
	}
	return Meta{Name: lang, English: lang, Flag: ""}
}

// EnglishName returns the English name for a language code, or the code
// itself when unknown. Oracle prompts use this form.
func EnglishName(lang string) string {
	return Resolve(lang).English
}
