package cache

import (
	"testing"
	"time"

	"github.com/kaplanhukuk/uyap-importer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDetail(caseNumber string) *model.CaseDetail {
	return &model.CaseDetail{
		CaseInfo: model.CaseInfo{Year: "2025", CaseNumber: caseNumber},
	}
}

func TestCacheSetGet(t *testing.T) {
	c := NewCache(10, time.Minute)

	require.NoError(t, c.Set("2025/88", sampleDetail("88")))

	detail, found := c.Get("2025/88")
	require.True(t, found)
	assert.Equal(t, "88", detail.CaseInfo.CaseNumber)

	_, found = c.Get("2025/99")
	assert.False(t, found)
}

func TestCacheDelete(t *testing.T) {
	c := NewCache(10, time.Minute)

	require.NoError(t, c.Set("2025/88", sampleDetail("88")))
	c.Delete("2025/88")

	_, found := c.Get("2025/88")
	assert.False(t, found)
}

func TestCacheClear(t *testing.T) {
	c := NewCache(10, time.Minute)

	require.NoError(t, c.Set("2025/1", sampleDetail("1")))
	require.NoError(t, c.Set("2025/2", sampleDetail("2")))
	c.Clear()

	stats := c.Stats()
	assert.Equal(t, 0, stats.Size)
	assert.Equal(t, int64(0), stats.Hits)
}

func TestCacheStats(t *testing.T) {
	c := NewCache(10, time.Minute)

	require.NoError(t, c.Set("2025/88", sampleDetail("88")))
	c.Get("2025/88")
	c.Get("2025/404")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.False(t, stats.LastAccess.IsZero())
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(2, time.Minute)

	require.NoError(t, c.Set("2025/1", sampleDetail("1")))
	require.NoError(t, c.Set("2025/2", sampleDetail("2")))
	require.NoError(t, c.Set("2025/3", sampleDetail("3")))

	assert.LessOrEqual(t, c.Stats().Size, 2)
}
