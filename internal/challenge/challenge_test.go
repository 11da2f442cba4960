package challenge

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"daily", TypeDaily, false},
		{"weekly", TypeWeekly, false},
		{"monthly", "", true},
		{"", "", true},
		{"Daily", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnmarshal_LegacyStandardShape(t *testing.T) {
	raw := `{
		"id": "abc",
		"title": "Escucha activa",
		"description": "d",
		"rules": ["r1"],
		"extraTip": "tip",
		"skill": "Empatía",
		"level": "Aprendiz",
		"type": "daily",
		"createdAt": "2026-01-02T03:04:05.678Z"
	}`
	var c Challenge
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, KindStandard, c.Kind)
	assert.Equal(t, "Empatía", c.SkillIdentity())
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 678000000, time.UTC), c.CreatedAt)
}

func TestUnmarshal_LegacyCustomShape(t *testing.T) {
	raw := `{"title":"t","description":"d","objectives":["o"],"metrics":["m"],"skillName":"Asertividad","type":"weekly"}`
	var c Challenge
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, KindCustom, c.Kind)
	assert.Equal(t, "Asertividad", c.SkillIdentity())
	assert.True(t, c.CreatedAt.IsZero())
}

func TestUnmarshal_AmbiguousShape(t *testing.T) {
	raw := `{"title":"t","rules":["r"],"objectives":["o"],"metrics":["m"],"extraTip":"x"}`
	var c Challenge
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, Kind(""), c.Kind)
}

func TestUnmarshal_ExplicitKindWins(t *testing.T) {
	raw := `{"kind":"custom","title":"t","rules":["r"],"extraTip":"x"}`
	var c Challenge
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, KindCustom, c.Kind)
}

func TestUnmarshal_BadTimestamp(t *testing.T) {
	var c Challenge
	err := json.Unmarshal([]byte(`{"createdAt":"yesterday"}`), &c)
	require.Error(t, err)
}

func TestMarshal_OmitsOtherVariant(t *testing.T) {
	c := Challenge{
		ID:        "1",
		Kind:      KindStandard,
		Title:     "t",
		Type:      TypeDaily,
		Skill:     "Liderazgo",
		Rules:     []string{"r"},
		ExtraTip:  "tip",
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "objectives")
	assert.NotContains(t, fields, "skillName")
	assert.Equal(t, `"2026-03-01T00:00:00Z"`, string(fields["createdAt"]))
}
