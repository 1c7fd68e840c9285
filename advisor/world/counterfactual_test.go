package world

import (
	"testing"

	"github.com/idanarye/yoetz/advisor"
	"github.com/idanarye/yoetz/advisor/trace"
	"github.com/stretchr/testify/assert"
)

func TestComputeCounterfactual_RanksByScoreThenDeclaration(t *testing.T) {
	// GIVEN champions with a tie between wander and flee
	batch := []advisor.Suggestion{
		advisor.NewSuggestion(2, advisor.Marker(vFlee)),
		advisor.NewSuggestion(2, advisor.Marker(vWander)),
		advisor.NewSuggestion(5, chase{"rat"}),
	}
	v := advisor.Decide(advisor.Idle(), batch, advisor.DefaultPolicy(), 1)

	// WHEN the top 2 are requested
	got := computeCounterfactual(testCatalog, v, 2)

	// THEN chase leads and wander wins the tie for second
	assert.Equal(t, []trace.CandidateScore{{Variant: "chase", Score: 5}, {Variant: "wander", Score: 2}}, got)
}

func TestComputeCounterfactual_ZeroKOrIdle_Nil(t *testing.T) {
	v := advisor.Decide(advisor.Idle(), []advisor.Suggestion{advisor.NewSuggestion(1, advisor.Marker(vFlee))}, advisor.DefaultPolicy(), 1)
	assert.Nil(t, computeCounterfactual(testCatalog, v, 0))

	idle := advisor.Decide(advisor.Idle(), nil, advisor.DefaultPolicy(), 1)
	assert.Nil(t, computeCounterfactual(testCatalog, idle, 3))
}

func TestComputeCounterfactual_KClampedToChampions(t *testing.T) {
	v := advisor.Decide(advisor.Idle(), []advisor.Suggestion{advisor.NewSuggestion(1, advisor.Marker(vFlee))}, advisor.DefaultPolicy(), 1)

	got := computeCounterfactual(testCatalog, v, 10)

	assert.Len(t, got, 1)
}

func TestRenderEvent(t *testing.T) {
	assert.Equal(t, "deactivate(chase)", RenderEvent(testCatalog, advisor.Event{Kind: advisor.EventDeactivate, Variant: vChase}))
	assert.Equal(t, "activate(flee)", RenderEvent(testCatalog, advisor.Event{Kind: advisor.EventActivate, Variant: vFlee, Payload: advisor.Marker(vFlee)}))
	assert.Equal(t, "update(chase {rat})", RenderEvent(testCatalog, advisor.Event{Kind: advisor.EventUpdate, Variant: vChase, Payload: chase{"rat"}}))
}
