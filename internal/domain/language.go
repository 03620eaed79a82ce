package domain

import (
	"fmt"
	"strings"
)

// Language is a canonical language name accepted by the judge.
type Language string

const (
	LangCpp        Language = "c++"
	LangJava       Language = "java"
	LangJavaScript Language = "javascript"
)

// engineLanguageIDs maps canonical names to Judge0 CE language ids.
var engineLanguageIDs = map[Language]int{
	LangCpp:        54,
	LangJava:       62,
	LangJavaScript: 63,
}

var languageAliases = map[string]Language{
	"cpp": LangCpp,
}

// ParseLanguage resolves a user-supplied language name, case-insensitively.
func ParseLanguage(name string) (Language, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := languageAliases[n]; ok {
		return alias, nil
	}
	lang := Language(n)
	if _, ok := engineLanguageIDs[lang]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
	}
	return lang, nil
}

// EngineID returns the execution engine's id for the language.
func (l Language) EngineID() (int, error) {
	id, ok := engineLanguageIDs[l]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, string(l))
	}
	return id, nil
}

// IsValid checks if the language is supported.
func (l Language) IsValid() bool {
	_, ok := engineLanguageIDs[l]
	return ok
}

// LanguageInfo describes a supported language.
type LanguageInfo struct {
	Name     Language `json:"name"`
	EngineID int      `json:"engine_id"`
	Version  string   `json:"version"`
	Aliases  []string `json:"aliases,omitempty"`
}

// SupportedLanguages lists the languages the judge accepts.
func SupportedLanguages() []LanguageInfo {
	return []LanguageInfo{
		{Name: LangCpp, EngineID: 54, Version: "GCC 9.2.0", Aliases: []string{"cpp"}},
		{Name: LangJava, EngineID: 62, Version: "OpenJDK 13.0.1"},
		{Name: LangJavaScript, EngineID: 63, Version: "Node.js 12.14.0"},
	}
}
