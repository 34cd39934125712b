package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/signscribe/internal/sign"
)

func TestSettingsRepository_GetSet(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	_, err := settings.Get("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, settings.Set("theme", "dark"))
	require.NoError(t, settings.Set("theme", "light"))

	v, err := settings.Get("theme")
	require.NoError(t, err)
	assert.Equal(t, "light", v)
}

func TestSettingsRepository_JSON(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	want := sign.DefaultThresholds()
	want.ExtendedMargin = 0.12
	want.MirrorLeft = true
	require.NoError(t, settings.SetJSON(KeyThresholds, want))

	var got sign.Thresholds
	require.NoError(t, settings.GetJSON(KeyThresholds, &got))
	assert.Equal(t, want, got)

	var missing sign.Thresholds
	assert.True(t, errors.Is(settings.GetJSON("nope", &missing), ErrNotFound))

	require.NoError(t, settings.Set("broken", "{"))
	assert.Error(t, settings.GetJSON("broken", &missing))
}
