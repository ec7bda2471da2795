package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/handlers/middleware"
)

const fallbackLanguage = "en"

// T traduz uma chave no idioma da requisição.
// Sem tradutor no contexto a própria chave é devolvida.
func T(c *gin.Context, key string, params ...map[string]interface{}) string {
	value, _ := c.Get(middleware.TranslatorContextKey)
	translator, ok := value.(ports.Translator)
	if !ok {
		return key
	}
	return translator.T(GetLanguage(c), key, params...)
}

// GetLanguage retorna o idioma resolvido pelo middleware de i18n
func GetLanguage(c *gin.Context) string {
	if lang := c.GetString(middleware.LanguageContextKey); lang != "" {
		return lang
	}
	return fallbackLanguage
}
