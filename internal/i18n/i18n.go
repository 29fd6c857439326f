// Package i18n translates user-facing messages. Traditional Chinese (Taiwan)
// is the default; English is available through Accept-Language.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a translatable message.
type Key string

const (
	MissingCredentials     Key = "missing_credentials"
	InvalidCredentials     Key = "invalid_credentials"
	AccountLocked          Key = "account_locked"
	AuthRequired           Key = "auth_required"
	PasswordChangeRequired Key = "password_change_required"
	PasswordMismatch       Key = "password_mismatch"
	WeakPassword           Key = "weak_password"
	PasswordChanged        Key = "password_changed"
	InvalidRequest         Key = "invalid_request"
	RecordNotFound         Key = "record_not_found"
	InvalidRecord          Key = "invalid_record"
	ProfileNotFound        Key = "profile_not_found"
	InvalidProfile         Key = "invalid_profile"
	PhotoNotFound          Key = "photo_not_found"
	UnsupportedFileType    Key = "unsupported_file_type"
	FileTooLarge           Key = "file_too_large"
	MissingPhoto           Key = "missing_photo"
	StorageUnavailable     Key = "storage_unavailable"
	TooManyRequests        Key = "too_many_requests"
	InternalError          Key = "internal_error"
)

var (
	TraditionalChineseTW = language.MustParse("zh-Hant-TW")
	English              = language.English
)

var messages = map[Key][2]string{
	MissingCredentials:     {"請輸入使用者名稱和密碼", "Please enter username and password"},
	InvalidCredentials:     {"使用者名稱或密碼錯誤", "Invalid username or password"},
	AccountLocked:          {"帳號已被鎖定，請稍後再試", "Account is locked, please try again later"},
	AuthRequired:           {"請先登入", "Please log in first"},
	PasswordChangeRequired: {"請先修改密碼", "Please change your password first"},
	PasswordMismatch:       {"新密碼與確認密碼不符", "New password and confirmation do not match"},
	WeakPassword:           {"密碼不符合要求", "Password does not meet the requirements"},
	PasswordChanged:        {"密碼已更新", "Password updated"},
	InvalidRequest:         {"請求格式錯誤", "Invalid request"},
	RecordNotFound:         {"找不到紀錄", "Record not found"},
	InvalidRecord:          {"餵食紀錄資料不正確", "Invalid feeding record"},
	ProfileNotFound:        {"尚未建立貓咪資料", "No cat profile yet"},
	InvalidProfile:         {"貓咪資料不正確", "Invalid cat profile"},
	PhotoNotFound:          {"找不到照片", "Photo not found"},
	UnsupportedFileType:    {"不支援的檔案類型", "Unsupported file type"},
	FileTooLarge:           {"檔案太大", "File too large"},
	MissingPhoto:           {"請選擇照片", "Please choose a photo"},
	StorageUnavailable:     {"照片儲存服務未設定", "Photo storage is not configured"},
	TooManyRequests:        {"請求太頻繁，請稍後再試", "Too many requests, please try again later"},
	InternalError:          {"伺服器錯誤，請稍後再試", "Server error, please try again later"},
}

// Translator resolves messages for a request's preferred language.
type Translator struct {
	supported []language.Tag
	matcher   language.Matcher
	catalog   catalog.Catalog
}

// New builds a translator whose default language is defaultLang
// ("zh-TW" or "en"; any other value falls back to zh-Hant-TW).
func New(defaultLang string) (*Translator, error) {
	fallback := TraditionalChineseTW
	if tag, err := language.Parse(defaultLang); err == nil {
		if base, _ := tag.Base(); base == mustBase(English) {
			fallback = English
		}
	}

	b := catalog.NewBuilder(catalog.Fallback(fallback))
	for key, texts := range messages {
		if err := b.SetString(TraditionalChineseTW, string(key), texts[0]); err != nil {
			return nil, fmt.Errorf("i18n: %s: %w", key, err)
		}
		if err := b.SetString(English, string(key), texts[1]); err != nil {
			return nil, fmt.Errorf("i18n: %s: %w", key, err)
		}
	}

	// The first supported tag is the matcher's default.
	supported := []language.Tag{fallback}
	if fallback == English {
		supported = append(supported, TraditionalChineseTW)
	} else {
		supported = append(supported, English)
	}

	return &Translator{
		supported: supported,
		matcher:   language.NewMatcher(supported),
		catalog:   b,
	}, nil
}

// Default returns a translator for zh-Hant-TW.
func Default() *Translator {
	t, err := New("zh-TW")
	if err != nil {
		panic(err)
	}
	return t
}

// Tag picks the supported language for an Accept-Language header value.
func (t *Translator) Tag(acceptLanguage string) language.Tag {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return t.supported[0]
	}
	_, idx, _ := t.matcher.Match(prefs...)
	return t.supported[idx]
}

// Printer returns a printer bound to the catalog for the given header value.
func (t *Translator) Printer(acceptLanguage string) *message.Printer {
	return message.NewPrinter(t.Tag(acceptLanguage), message.Catalog(t.catalog))
}

// Message translates key for the given Accept-Language header value.
func (t *Translator) Message(acceptLanguage string, key Key) string {
	return t.Printer(acceptLanguage).Sprintf(string(key))
}

func mustBase(tag language.Tag) language.Base {
	base, _ := tag.Base()
	return base
}
