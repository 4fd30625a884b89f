package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/laeextract/internal/model"
)

func TestClotBurden(t *testing.T) {
	tests := []struct {
		name  string
		sites Sites
		want  float64
	}{
		{
			name:  "no occlusion",
			sites: Sites{},
			want:  0,
		},
		{
			name: "both main branches total",
			sites: Sites{
				MainBranchRight: model.MainBranchTotal,
				MainBranchLeft:  model.MainBranchTotal,
			},
			want: 40,
		},
		{
			name: "left lobes plus right main partial",
			sites: Sites{
				MainBranchLeft:  model.MainBranchNone,
				UpperLobeLeft:   model.LobeSubsegmental,
				LowerLobeLeft:   model.LobePartial,
				MainBranchRight: model.MainBranchPartial,
			},
			want: 16,
		},
		{
			name: "occluded main branch masks its lobes",
			sites: Sites{
				MainBranchRight: model.MainBranchTotal,
				UpperLobeRight:  model.LobeTotal,
				MiddleLobeRight: model.LobeTotal,
				LowerLobeRight:  model.LobeTotal,
			},
			want: 20,
		},
		{
			name: "every lobe total",
			sites: Sites{
				UpperLobeRight:  model.LobeTotal,
				MiddleLobeRight: model.LobeTotal,
				LowerLobeRight:  model.LobeTotal,
				UpperLobeLeft:   model.LobeTotal,
				LowerLobeLeft:   model.LobeTotal,
			},
			want: 40,
		},
		{
			name: "right side segmental and subsegmental",
			sites: Sites{
				UpperLobeRight:  model.LobeSegmental,
				MiddleLobeRight: model.LobeSubsegmental,
				LowerLobeRight:  model.LobeSegmental,
			},
			want: 1.5 + 0.5 + 2.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClotBurden(tt.sites))
		})
	}
}

func TestClotBurdenBounds(t *testing.T) {
	mains := []model.MainBranchOcclusion{model.MainBranchNone, model.MainBranchTotal, model.MainBranchPartial}
	lobes := []model.LobeOcclusion{
		model.LobeNone, model.LobeTotal, model.LobePartial, model.LobeSegmental, model.LobeSubsegmental,
	}

	for _, mr := range mains {
		for _, ml := range mains {
			for _, a := range lobes {
				for _, b := range lobes {
					s := Sites{
						MainBranchRight: mr, UpperLobeRight: a, MiddleLobeRight: b, LowerLobeRight: a,
						MainBranchLeft: ml, UpperLobeLeft: b, LowerLobeLeft: a,
					}
					got := ClotBurden(s)
					require.GreaterOrEqual(t, got, 0.0)
					require.LessOrEqual(t, got, MaxClotBurden)
				}
			}
		}
	}
}

func TestFromEvaluated(t *testing.T) {
	ev := model.EvaluatedValues{
		MainBranchRight: model.Value(model.MainBranchPartial),
		UpperLobeRight:  model.Value(model.LobeNone),
		MiddleLobeRight: model.Value(model.LobeNone),
		LowerLobeRight:  model.Value(model.LobeNone),
		MainBranchLeft:  model.Value(model.MainBranchNone),
		UpperLobeLeft:   model.Value(model.LobeSubsegmental),
		LowerLobeLeft:   model.Value(model.LobePartial),
	}

	got, ok := FromEvaluated(&ev)
	require.True(t, ok)
	assert.Equal(t, 16.0, got)

	ev.MiddleLobeRight = model.Failed[model.LobeOcclusion](model.MissingField)
	_, ok = FromEvaluated(&ev)
	assert.False(t, ok)
}
