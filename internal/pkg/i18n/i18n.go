package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

const DefaultLocale = "en"

type Translations map[string]string

var (
	locales = make(map[string]Translations)
	mu      sync.RWMutex
	once    sync.Once
	loadErr error
)

// Load parses the embedded locale files once.
func Load() error {
	once.Do(func() {
		loadErr = loadTranslations()
	})
	return loadErr
}

func loadTranslations() error {
	mu.Lock()
	defer mu.Unlock()

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		locale := strings.TrimSuffix(entry.Name(), ".yaml")

		data, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return err
		}

		var config struct {
			NotificationTypes Translations `yaml:"NOTIFICATION_TYPES"`
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("failed to parse %s: %w", entry.Name(), err)
		}

		locales[locale] = config.NotificationTypes
	}

	return nil
}

// Translate falls back to English and then to the key itself.
func Translate(locale, key string) string {
	_ = Load()

	mu.RLock()
	defer mu.RUnlock()

	if trans, ok := locales[locale]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if locale != DefaultLocale {
		if trans, ok := locales[DefaultLocale]; ok {
			if val, ok := trans[key]; ok {
				return val
			}
		}
	}

	return key
}
