package parties

import (
	"testing"

	"github.com/kaplanhukuk/uyap-importer/internal/model"
	"github.com/kaplanhukuk/uyap-importer/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoster = []string{"BATUHAN KAPLAN", "MUSTAFA KAPLAN", "PERİZE KAPLAN", "SELVİ DERTLİ"}

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	log, err := logger.NewLogger("error", "text")
	require.NoError(t, err)
	return New(testRoster, []string{"davacı", "sanık"}, []string{"davalı", "müşteki", "katılan"}, log)
}

func TestClassifyByRoster(t *testing.T) {
	c := newTestClassifier(t)

	res := c.Classify([]model.Party{
		{Name: "YENER SEVEN", Capacity: "Davacı", Counsel: "AV. BATUHAN KAPLAN"},
		{Name: "MEGA İNŞAAT LTD", Capacity: "Davalı", Counsel: "AHMET DEMİR"},
	})

	require.Len(t, res.ClientSide, 1)
	assert.Equal(t, "YENER SEVEN", res.ClientSide[0].Name)
	require.Len(t, res.OpponentSide, 1)
	assert.Equal(t, "MEGA İNŞAAT LTD", res.OpponentSide[0].Name)

	assert.Equal(t, []string{"AV. BATUHAN KAPLAN"}, res.ClientLawyers)
	assert.Equal(t, []string{"AHMET DEMİR"}, res.OpponentLawyers)
}

func TestClassifyRosterBeatsRole(t *testing.T) {
	c := newTestClassifier(t)

	// A defendant represented by the office is still our client.
	res := c.Classify([]model.Party{
		{Name: "HASAN KARA", Capacity: "Davalı", Counsel: "MUSTAFA KAPLAN, AHMET DEMİR"},
		{Name: "YENER SEVEN", Capacity: "Davacı", Counsel: "AYŞE ÖZTÜRK"},
	})

	require.Len(t, res.ClientSide, 1)
	assert.Equal(t, "HASAN KARA", res.ClientSide[0].Name)
	require.Len(t, res.OpponentSide, 1)
	assert.Equal(t, "YENER SEVEN", res.OpponentSide[0].Name)
}

func TestClassifyRoleFallback(t *testing.T) {
	c := newTestClassifier(t)

	// No roster lawyer anywhere: role keywords decide instead.
	res := c.Classify([]model.Party{
		{Name: "YENER SEVEN", Capacity: "Davacı", Counsel: "AHMET DEMİR"},
		{Name: "HASAN KARA", Capacity: "Davalı", Counsel: "AYŞE ÖZTÜRK"},
		{Name: "VELİ AK", Capacity: "Müşteki", Counsel: ""},
	})

	require.Len(t, res.ClientSide, 1)
	assert.Equal(t, "YENER SEVEN", res.ClientSide[0].Name)
	require.Len(t, res.OpponentSide, 2)
}

func TestClassifyFallbackMayLeaveBothSidesEmpty(t *testing.T) {
	c := newTestClassifier(t)

	res := c.Classify([]model.Party{
		{Name: "BELİRSİZ KİŞİ", Capacity: "Tanık", Counsel: "AHMET DEMİR"},
	})

	assert.Empty(t, res.ClientSide)
	assert.Empty(t, res.OpponentSide)
	assert.Empty(t, res.ClientLawyers)
	assert.Empty(t, res.OpponentLawyers)
}

func TestClassifyEmptyInput(t *testing.T) {
	c := newTestClassifier(t)

	res := c.Classify(nil)

	assert.Empty(t, res.ClientSide)
	assert.Empty(t, res.OpponentSide)
}

func TestSplitCounsel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"Single name", "BATUHAN KAPLAN", []string{"BATUHAN KAPLAN"}},
		{"Comma separated", "BATUHAN KAPLAN, SELVİ DERTLİ", []string{"BATUHAN KAPLAN", "SELVİ DERTLİ"}},
		{"Bracket noise", "[AHMET DEMİR], MEHMET YILMAZ", []string{"AHMET DEMİR", "MEHMET YILMAZ"}},
		{"Placeholder dash", "-", nil},
		{"Empty", "", nil},
		{"Dash among names", "AHMET DEMİR, -", []string{"AHMET DEMİR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCounsel(tt.in))
		})
	}
}
