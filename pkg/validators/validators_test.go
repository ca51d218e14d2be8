package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsernameValidator(t *testing.T) {
	assert.ErrorIs(t, UsernameValidator(""), ErrUsernameEmpty)
	assert.ErrorIs(t, UsernameValidator("ab"), ErrUsernameTooShort)
	assert.ErrorIs(t, UsernameValidator(strings.Repeat("a", 81)), ErrUsernameTooLong)
	assert.NoError(t, UsernameValidator("ana"))
}

func TestEmailValidator(t *testing.T) {
	assert.ErrorIs(t, EmailValidator(""), ErrEmailEmpty)
	assert.ErrorIs(t, EmailValidator("not-an-email"), ErrEmailInvalid)
	assert.NoError(t, EmailValidator("ana@x.com"))
}

func TestPasswordValidator(t *testing.T) {
	assert.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator("12345"), ErrPasswordTooShort)
	assert.ErrorIs(t, PasswordValidator(strings.Repeat("a", 256)), ErrPasswordTooLong)
	assert.NoError(t, PasswordValidator("secret1"))
}

func TestMediaTypeValidator(t *testing.T) {
	for file, want := range map[string]string{
		"photo.JPG": "image",
		"clip.mp4":  "video",
		"sound.wav": "audio",
	} {
		got, err := MediaTypeValidator(file)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := MediaTypeValidator("script.exe")
	assert.ErrorIs(t, err, ErrMediaTypeNotAllowed)

	_, err = MediaTypeValidator("noextension")
	assert.ErrorIs(t, err, ErrMediaTypeNotAllowed)
}
