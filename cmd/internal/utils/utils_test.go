package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	title := "  padded  "
	req := struct {
		Name   string
		Title  *string
		Emails []string
		Count  int
	}{
		Name:   "  alice ",
		Title:  &title,
		Emails: []string{" a@x.com", "b@x.com  "},
		Count:  3,
	}

	Sanitize(&req)

	assert.Equal(t, "alice", req.Name)
	assert.Equal(t, "padded", *req.Title)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, req.Emails)
	assert.Equal(t, 3, req.Count)
}

func TestSanitizeSkipsOptedOutFields(t *testing.T) {
	req := struct {
		Username string
		Password string `sanitize:"-"`
	}{
		Username: " alice ",
		Password: "  pass word ",
	}

	Sanitize(&req)

	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "  pass word ", req.Password)
}

func TestSanitizePanicsOnNonPointer(t *testing.T) {
	assert.Panics(t, func() { Sanitize(struct{}{}) })
}

func TestParseTimestamp(t *testing.T) {
	millis, err := ParseTimestamp("2024-05-01T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:30:00Z", FormatEpoch(millis))

	millis, err = ParseTimestamp("2024-05-01T12:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:30:00Z", FormatEpoch(millis))

	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestCheckFileExt(t *testing.T) {
	valid := []string{"png", "pdf"}

	ext, ok := CheckFileExt("photo.PNG", valid)
	assert.True(t, ok)
	assert.Equal(t, ".PNG", ext)

	_, ok = CheckFileExt("script.sh", valid)
	assert.False(t, ok)

	_, ok = CheckFileExt("README", valid)
	assert.False(t, ok)
}
