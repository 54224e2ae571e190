package classify

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terralith/sitepoint-cli/internal/model"
)

func TestThreeWayLabel(t *testing.T) {
	rules := ThreeWay()

	tests := []struct {
		name     string
		lon      float64
		expected string
	}{
		{"far west", -120.5, model.RegionWestern},
		{"just west of boundary", -100.0001, model.RegionWestern},
		{"western boundary is central", -100.0, model.RegionCentral},
		{"central", -92.3, model.RegionCentral},
		{"central-eastern boundary is central", -85.0, model.RegionCentral},
		{"just east of boundary", -84.9999, model.RegionEastern},
		{"far east", -70.0, model.RegionEastern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, rules.Label(tt.lon))
		})
	}
}

func TestTwoWayLabel(t *testing.T) {
	rules := TwoWay()

	assert.Equal(t, model.RegionEastern, rules.Label(-94.9))
	assert.Equal(t, model.RegionWestern, rules.Label(-95.0))
	assert.Equal(t, model.RegionWestern, rules.Label(-120.0))
}

func TestLabelFirstMatchWins(t *testing.T) {
	// Overlapping rules: the earlier one must win.
	rules := RuleSet{
		{Op: OpLT, Threshold: 0, Label: "First"},
		{Op: OpLT, Threshold: 10, Label: "Second"},
	}
	assert.Equal(t, "First", rules.Label(-5))
	assert.Equal(t, "Second", rules.Label(5))
	assert.Equal(t, model.RegionUnclassified, rules.Label(50))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		specs   []string
		want    RuleSet
		wantErr bool
	}{
		{
			name:  "three-way preset",
			specs: []string{"three-way"},
			want:  ThreeWay(),
		},
		{
			name:  "two-way preset",
			specs: []string{"two-way"},
			want:  TwoWay(),
		},
		{
			name:  "explicit rules with spaces",
			specs: []string{"lon < -100 = Western", "lon>=-100=Eastern"},
			want: RuleSet{
				{Op: OpLT, Threshold: -100, Label: "Western"},
				{Op: OpGE, Threshold: -100, Label: "Eastern"},
			},
		},
		{
			name:    "missing operator",
			specs:   []string{"lon-100=Western"},
			wantErr: true,
		},
		{
			name:    "missing label",
			specs:   []string{"lon<-100"},
			wantErr: true,
		},
		{
			name:    "non-numeric threshold",
			specs:   []string{"lon<abc=Western"},
			wantErr: true,
		},
		{
			name:    "no lon prefix",
			specs:   []string{"lat<-100=Western"},
			wantErr: true,
		},
		{
			name:    "empty",
			specs:   nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.specs)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, eris.Is(err, model.ErrConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.Error(t, RuleSet{}.Validate())
	assert.Error(t, RuleSet{{Op: "!=", Threshold: 0, Label: "X"}}.Validate())
	assert.Error(t, RuleSet{{Op: OpLT, Threshold: 0, Label: ""}}.Validate())
	assert.NoError(t, ThreeWay().Validate())
}
