package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_DefaultsToTraditionalChinese(t *testing.T) {
	tr := Default()

	for _, header := range []string{"", "zh-TW", "zh-Hant", "fr-FR", "not a header;;"} {
		assert.Equal(t, "使用者名稱或密碼錯誤", tr.Message(header, InvalidCredentials), header)
	}
	assert.Equal(t, "請輸入使用者名稱和密碼", tr.Message("", MissingCredentials))
	assert.Equal(t, "帳號已被鎖定，請稍後再試", tr.Message("", AccountLocked))
}

func TestMessage_English(t *testing.T) {
	tr := Default()
	assert.Equal(t, "Invalid username or password", tr.Message("en-US,en;q=0.9", InvalidCredentials))
	assert.Equal(t, "Account is locked, please try again later", tr.Message("en", AccountLocked))
}

func TestNew_EnglishDefault(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)

	assert.Equal(t, English, tr.Tag(""))
	assert.Equal(t, "Please enter username and password", tr.Message("", MissingCredentials))
	assert.Equal(t, "請輸入使用者名稱和密碼", tr.Message("zh-TW", MissingCredentials))
}

func TestEveryKeyHasBothLanguages(t *testing.T) {
	for key, texts := range messages {
		assert.NotEmpty(t, texts[0], key)
		assert.NotEmpty(t, texts[1], key)
	}
}
