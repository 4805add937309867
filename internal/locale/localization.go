// Package locale holds the translated UI strings.
package locale

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Language codes
const (
	LanguageSystem     = "system"
	LanguageEnglish    = "en"
	LanguagePortuguese = "pt"
	LanguageRussian    = "ru"
)

// Localization manages UI text translations
type Localization struct {
	mu              sync.RWMutex
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeySettings           = "settings"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeyBrowse             = "browse"
	KeyLanguage           = "language"
	KeyServerURL          = "server_url"
	KeyDownloadDirectory  = "download_directory"
	KeyAutoReveal         = "auto_reveal"
	KeyNotificationDelay  = "notification_delay"
	KeySettingsSaved      = "settings_saved"
	KeyRestartRequired    = "restart_required"
	KeyDropHint           = "drop_hint"
	KeyChooseFile         = "choose_file"
	KeyChangeFile         = "change_file"
	KeySelectFormat       = "select_format"
	KeyCatalogUnavailable = "catalog_unavailable"
	KeyUnsupportedFormat  = "unsupported_format"
	KeyCategoryOther      = "category_other"
	KeyConvert            = "convert"
	KeyConverting         = "converting"
	KeyErrorStatus        = "error_status"
	KeyNetworkError       = "network_error"
	KeyUnexpectedError    = "unexpected_error"
	KeyConversionDone     = "conversion_done"
	KeyDownload           = "download"
	KeyOpen               = "open"
	KeyReveal             = "reveal"
	KeyConvertAnother     = "convert_another"
	KeySavedTo            = "saved_to"
	KeyErrorSaving        = "error_saving"
	KeyErrorOpeningFile   = "error_opening_file"
	KeyImportURL          = "import_url"
	KeyEnterURL           = "enter_url"
	KeyImporting          = "importing"
	KeyPleaseEnterURL     = "please_enter_url"
	KeyInvalidURL         = "invalid_url"
	KeyBusy               = "busy"
	KeyDismiss            = "dismiss"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: LanguageEnglish,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. Unknown codes are ignored.
func (l *Localization) SetLanguage(lang string) {
	if lang == LanguageSystem || lang == "" {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.mu.Lock()
		l.currentLanguage = lang
		l.mu.Unlock()
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.GetCurrentLanguage()]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts[LanguageEnglish]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// Format returns the localized text for key with args substituted
func (l *Localization) Format(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		LanguageEnglish:    "English",
		LanguageRussian:    "Русский",
		LanguagePortuguese: "Português",
	}
}

// systemLanguage maps the POSIX locale variables to a supported code.
func systemLanguage() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := strings.ToLower(os.Getenv(name))
		if value == "" || value == "c" || value == "posix" {
			continue
		}
		switch {
		case strings.HasPrefix(value, LanguagePortuguese):
			return LanguagePortuguese
		case strings.HasPrefix(value, LanguageRussian):
			return LanguageRussian
		default:
			return LanguageEnglish
		}
	}
	return LanguageEnglish
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts[LanguageEnglish] = map[string]string{
		KeyAppTitle:           "Convertudo",
		KeySettings:           "Settings",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeyBrowse:             "Browse",
		KeyLanguage:           "Language",
		KeyServerURL:          "Server URL",
		KeyDownloadDirectory:  "Download Directory",
		KeyAutoReveal:         "Show saved files in folder",
		KeyNotificationDelay:  "Hide errors after (seconds)",
		KeySettingsSaved:      "Settings saved successfully!",
		KeyRestartRequired:    "Server changes apply after restart",
		KeyDropHint:           "Drop a file here or choose one",
		KeyChooseFile:         "Choose file",
		KeyChangeFile:         "Change file",
		KeySelectFormat:       "Select the format...",
		KeyCatalogUnavailable: "Could not load the formats. Check that the server is running.",
		KeyUnsupportedFormat:  "Format \".%s\" not supported",
		KeyCategoryOther:      "Other",
		KeyConvert:            "Convert",
		KeyConverting:         "Converting...",
		KeyErrorStatus:        "Error %d",
		KeyNetworkError:       "Could not reach the conversion server",
		KeyUnexpectedError:    "Unexpected conversion error",
		KeyConversionDone:     "Conversion finished",
		KeyDownload:           "Download",
		KeyOpen:               "Open",
		KeyReveal:             "Show in folder",
		KeyConvertAnother:     "Convert another file",
		KeySavedTo:            "Saved to %s",
		KeyErrorSaving:        "Error saving file",
		KeyErrorOpeningFile:   "Error opening file",
		KeyImportURL:          "Import",
		KeyEnterURL:           "Or paste a media URL (https://...)",
		KeyImporting:          "Importing...",
		KeyPleaseEnterURL:     "Please enter a URL",
		KeyInvalidURL:         "Invalid URL",
		KeyBusy:               "A conversion is already running",
		KeyDismiss:            "Dismiss",
	}

	l.texts[LanguagePortuguese] = map[string]string{
		KeyAppTitle:           "Convertudo",
		KeySettings:           "Configurações",
		KeySave:               "Salvar",
		KeyCancel:             "Cancelar",
		KeyBrowse:             "Procurar",
		KeyLanguage:           "Idioma",
		KeyServerURL:          "URL do servidor",
		KeyDownloadDirectory:  "Pasta de downloads",
		KeyAutoReveal:         "Mostrar arquivos salvos na pasta",
		KeyNotificationDelay:  "Ocultar erros após (segundos)",
		KeySettingsSaved:      "Configurações salvas com sucesso!",
		KeyRestartRequired:    "Mudanças de servidor valem após reiniciar",
		KeyDropHint:           "Arraste um arquivo aqui ou escolha um",
		KeyChooseFile:         "Escolher arquivo",
		KeyChangeFile:         "Trocar arquivo",
		KeySelectFormat:       "Selecione o formato...",
		KeyCatalogUnavailable: "Não foi possível carregar os formatos. Verifique se o servidor está rodando.",
		KeyUnsupportedFormat:  "Formato \".%s\" não suportado",
		KeyCategoryOther:      "Outros",
		KeyConvert:            "Converter",
		KeyConverting:         "Convertendo...",
		KeyErrorStatus:        "Erro %d",
		KeyNetworkError:       "Não foi possível conectar ao servidor de conversão",
		KeyUnexpectedError:    "Erro inesperado na conversão",
		KeyConversionDone:     "Conversão concluída",
		KeyDownload:           "Baixar",
		KeyOpen:               "Abrir",
		KeyReveal:             "Mostrar na pasta",
		KeyConvertAnother:     "Converter outro arquivo",
		KeySavedTo:            "Salvo em %s",
		KeyErrorSaving:        "Erro ao salvar arquivo",
		KeyErrorOpeningFile:   "Erro ao abrir arquivo",
		KeyImportURL:          "Importar",
		KeyEnterURL:           "Ou cole a URL de uma mídia (https://...)",
		KeyImporting:          "Importando...",
		KeyPleaseEnterURL:     "Informe uma URL",
		KeyInvalidURL:         "URL inválida",
		KeyBusy:               "Uma conversão já está em andamento",
		KeyDismiss:            "Fechar",
	}

	l.texts[LanguageRussian] = map[string]string{
		KeyAppTitle:           "Convertudo",
		KeySettings:           "Настройки",
		KeySave:               "Сохранить",
		KeyCancel:             "Отмена",
		KeyBrowse:             "Обзор",
		KeyLanguage:           "Язык",
		KeyServerURL:          "Адрес сервера",
		KeyDownloadDirectory:  "Папка загрузок",
		KeyAutoReveal:         "Показывать сохранённые файлы в папке",
		KeyNotificationDelay:  "Скрывать ошибки через (секунд)",
		KeySettingsSaved:      "Настройки успешно сохранены!",
		KeyRestartRequired:    "Смена сервера вступит в силу после перезапуска",
		KeyDropHint:           "Перетащите файл сюда или выберите его",
		KeyChooseFile:         "Выбрать файл",
		KeyChangeFile:         "Другой файл",
		KeySelectFormat:       "Выберите формат...",
		KeyCatalogUnavailable: "Не удалось загрузить форматы. Проверьте, что сервер запущен.",
		KeyUnsupportedFormat:  "Формат \".%s\" не поддерживается",
		KeyCategoryOther:      "Другое",
		KeyConvert:            "Конвертировать",
		KeyConverting:         "Конвертация...",
		KeyErrorStatus:        "Ошибка %d",
		KeyNetworkError:       "Не удалось связаться с сервером конвертации",
		KeyUnexpectedError:    "Непредвиденная ошибка конвертации",
		KeyConversionDone:     "Конвертация завершена",
		KeyDownload:           "Скачать",
		KeyOpen:               "Открыть",
		KeyReveal:             "Показать в папке",
		KeyConvertAnother:     "Конвертировать другой файл",
		KeySavedTo:            "Сохранено в %s",
		KeyErrorSaving:        "Ошибка сохранения файла",
		KeyErrorOpeningFile:   "Ошибка открытия файла",
		KeyImportURL:          "Импорт",
		KeyEnterURL:           "Или вставьте ссылку на медиа (https://...)",
		KeyImporting:          "Импорт...",
		KeyPleaseEnterURL:     "Введите ссылку",
		KeyInvalidURL:         "Неверная ссылка",
		KeyBusy:               "Конвертация уже выполняется",
		KeyDismiss:            "Закрыть",
	}
}
