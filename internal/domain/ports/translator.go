package ports

// Translator resolve message IDs para o idioma informado
type Translator interface {
	T(lang, key string, params ...map[string]interface{}) string
	GetDefaultLanguage() string
}
