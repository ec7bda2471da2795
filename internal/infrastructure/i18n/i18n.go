package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

// Service resolve message IDs (chaves dos erros de domínio, notificações
// e validações) para o idioma pedido. Os catálogos são imutáveis após a carga.
type Service struct {
	catalogs        map[string]map[string]string // [idioma][chave]mensagem
	defaultLanguage string

	// templates compilados por mensagem; só mensagens com {{ entram aqui
	templates sync.Map
}

// NewService carrega os catálogos de um diretório em disco
func NewService(localesDir, defaultLang string) (*Service, error) {
	return NewServiceFS(os.DirFS(localesDir), ".", defaultLang)
}

// NewEmbeddedService usa os catálogos embutidos no binário
func NewEmbeddedService(defaultLang string) (*Service, error) {
	return NewServiceFS(embeddedLocales, "locales", defaultLang)
}

// NewServiceFS carrega todos os arquivos <idioma>.json de dir dentro de fsys
func NewServiceFS(fsys fs.FS, dir, defaultLang string) (*Service, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to find locale files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no locale files found in %s", dir)
	}

	s := &Service{
		catalogs:        make(map[string]map[string]string, len(files)),
		defaultLanguage: defaultLang,
	}
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read locale file %s: %w", file, err)
		}
		var messages map[string]string
		if err := json.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("failed to parse locale file %s: %w", file, err)
		}
		s.catalogs[strings.TrimSuffix(path.Base(file), ".json")] = messages
	}

	if _, ok := s.catalogs[defaultLang]; !ok {
		return nil, fmt.Errorf("default language %s not found in locale files", defaultLang)
	}
	return s, nil
}

// T traduz key para lang. A busca segue lang, o idioma base (pt-BR -> pt)
// e o idioma padrão; sem tradução devolve a própria chave.
// Parâmetros são interpolados como template Go ({{.Number}}).
func (s *Service) T(lang, key string, params ...map[string]interface{}) string {
	message, resolved := s.lookup(lang, key)
	if message == "" {
		return key
	}
	if len(params) == 0 || !strings.Contains(message, "{{") {
		return message
	}

	tmpl, err := s.template(resolved, key, message)
	if err != nil {
		return message
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, params[0]); err != nil {
		return message
	}
	return buf.String()
}

// lookup devolve a mensagem e o idioma em que ela foi encontrada
func (s *Service) lookup(lang, key string) (string, string) {
	candidates := []string{lang}
	if base, _, found := strings.Cut(lang, "-"); found {
		candidates = append(candidates, base)
	}
	candidates = append(candidates, s.defaultLanguage)

	for _, candidate := range candidates {
		if msg, ok := s.catalogs[candidate][key]; ok && msg != "" {
			return msg, candidate
		}
	}
	return "", ""
}

func (s *Service) template(lang, key, message string) (*template.Template, error) {
	cacheKey := lang + "\x00" + key
	if cached, ok := s.templates.Load(cacheKey); ok {
		return cached.(*template.Template), nil
	}
	tmpl, err := template.New(key).Parse(message)
	if err != nil {
		return nil, err
	}
	actual, _ := s.templates.LoadOrStore(cacheKey, tmpl)
	return actual.(*template.Template), nil
}

// GetDefaultLanguage retorna o idioma padrão configurado
func (s *Service) GetDefaultLanguage() string {
	return s.defaultLanguage
}

// GetSupportedLanguages lista os idiomas carregados em ordem alfabética
func (s *Service) GetSupportedLanguages() []string {
	langs := make([]string, 0, len(s.catalogs))
	for lang := range s.catalogs {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// IsLanguageSupported verifica se existe catálogo para o idioma
func (s *Service) IsLanguageSupported(lang string) bool {
	_, ok := s.catalogs[lang]
	return ok
}
