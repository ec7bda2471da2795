package middleware

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/domain/ports"
)

const (
	// LanguageContextKey guarda o idioma resolvido da requisição
	LanguageContextKey = "language"
	// TranslatorContextKey guarda o tradutor usado por handlers e DTOs
	TranslatorContextKey = "translator"
)

// Catalog é o tradutor que também informa quais idiomas possui
type Catalog interface {
	ports.Translator
	IsLanguageSupported(lang string) bool
}

// I18nMiddleware resolve o idioma de cada requisição
type I18nMiddleware struct {
	catalog Catalog
}

// NewI18nMiddleware cria um novo middleware de i18n
func NewI18nMiddleware(catalog Catalog) *I18nMiddleware {
	return &I18nMiddleware{catalog: catalog}
}

// DetectLanguage escolhe o idioma na ordem ?lang=, Accept-Language e padrão.
// O idioma escolhido volta no header Content-Language.
func (m *I18nMiddleware) DetectLanguage() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := ""
		if q := c.Query("lang"); q != "" && m.catalog.IsLanguageSupported(q) {
			lang = q
		}
		if lang == "" {
			lang = m.parseAcceptLanguage(c.GetHeader("Accept-Language"))
		}
		if lang == "" {
			lang = m.catalog.GetDefaultLanguage()
		}

		c.Set(LanguageContextKey, lang)
		c.Set(TranslatorContextKey, ports.Translator(m.catalog))
		c.Header("Content-Language", lang)
		c.Next()
	}
}

type weightedLanguage struct {
	tag    string
	weight float64
}

// parseAcceptLanguage devolve o idioma suportado de maior peso.
// "pt-BR,pt;q=0.9,en;q=0.8" -> "pt-BR"; "en-US" cai para "en".
func (m *I18nMiddleware) parseAcceptLanguage(header string) string {
	if header == "" {
		return ""
	}

	var candidates []weightedLanguage
	for _, part := range strings.Split(header, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if tag == "" || tag == "*" {
			continue
		}
		weight := 1.0
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if w, err := strconv.ParseFloat(q, 64); err == nil {
				weight = w
			}
		}
		if weight <= 0 {
			continue
		}
		candidates = append(candidates, weightedLanguage{tag: tag, weight: weight})
	}
	// estável: empates mantêm a ordem do header
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].weight > candidates[j].weight })

	for _, cand := range candidates {
		if m.catalog.IsLanguageSupported(cand.tag) {
			return cand.tag
		}
		if base, _, found := strings.Cut(cand.tag, "-"); found && m.catalog.IsLanguageSupported(base) {
			return base
		}
	}
	return ""
}
