package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("ENV", "")
	t.Setenv("STAFF_TELEGRAM_IDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone.String())
	assert.Equal(t, 52, cfg.CatalogWeeks)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoad_StaffAndHolidays(t *testing.T) {
	t.Setenv("STAFF_TELEGRAM_IDS", "101, 202")
	t.Setenv("HOLIDAYS", "2026-05-05,2026-05-06")
	t.Setenv("STAFF_CHAT_ID", "-100200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsStaff(101))
	assert.True(t, cfg.IsStaff(202))
	assert.False(t, cfg.IsStaff(303))
	assert.Equal(t, []string{"2026-05-05", "2026-05-06"}, cfg.Holidays)
	assert.Equal(t, int64(-100200), cfg.StaffChatID)
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DB_DSN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("STAFF_TELEGRAM_IDS", "abc")
	_, err = Load()
	require.Error(t, err)
}
