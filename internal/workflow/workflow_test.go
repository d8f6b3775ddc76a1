package workflow

import (
	"testing"
	"time"

	"catalog-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingComponent() *model.Component {
	return &model.Component{
		ProtoStatus: model.StatusPending,
		SMSStatus:   model.StatusPending,
		PPSStatus:   model.StatusPending,
	}
}

func TestApplyProtoApproval(t *testing.T) {
	c := pendingComponent()
	now := time.Now()

	err := Apply(c, Transition{Stage: model.StageProto, Status: model.StatusOK, Comment: "looks good"}, now)
	require.NoError(t, err)

	assert.Equal(t, model.StatusOK, c.ProtoStatus)
	assert.Equal(t, "looks good", c.ProtoComment)
	require.NotNil(t, c.ProtoDate)
	assert.Equal(t, now, *c.ProtoDate)
	assert.Equal(t, model.StatusPending, c.SMSStatus)
}

func TestApplySkippingStagesRejected(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *model.Component)
		stage string
	}{
		{
			name:  "sms before proto ok",
			setup: func(c *model.Component) {},
			stage: model.StageSMS,
		},
		{
			name: "pps before sms ok",
			setup: func(c *model.Component) {
				c.ProtoStatus = model.StatusOK
			},
			stage: model.StagePPS,
		},
		{
			name: "sms while proto not_ok",
			setup: func(c *model.Component) {
				c.ProtoStatus = model.StatusNotOK
			},
			stage: model.StageSMS,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := pendingComponent()
			tt.setup(c)
			err := Apply(c, Transition{Stage: tt.stage, Status: model.StatusOK}, time.Now())
			assert.Error(t, err)
		})
	}
}

func TestApplyRegressionResetsLaterStages(t *testing.T) {
	c := pendingComponent()
	now := time.Now()
	require.NoError(t, Apply(c, Transition{Stage: model.StageProto, Status: model.StatusOK}, now))
	require.NoError(t, Apply(c, Transition{Stage: model.StageSMS, Status: model.StatusOK}, now))
	require.NoError(t, Apply(c, Transition{Stage: model.StagePPS, Status: model.StatusOK}, now))

	// Rejecting the prototype after the fact resets SMS and PPS.
	require.NoError(t, Apply(c, Transition{Stage: model.StageProto, Status: model.StatusNotOK, Comment: "cracked housing"}, now))

	assert.Equal(t, model.StatusNotOK, c.ProtoStatus)
	assert.Equal(t, model.StatusPending, c.SMSStatus)
	assert.Nil(t, c.SMSDate)
	assert.Empty(t, c.SMSComment)
	assert.Equal(t, model.StatusPending, c.PPSStatus)
	assert.Nil(t, c.PPSDate)
}

func TestApplyPendingClearsDate(t *testing.T) {
	c := pendingComponent()
	now := time.Now()
	require.NoError(t, Apply(c, Transition{Stage: model.StageProto, Status: model.StatusOK}, now))
	require.NotNil(t, c.ProtoDate)

	require.NoError(t, Apply(c, Transition{Stage: model.StageProto, Status: model.StatusPending}, now))
	assert.Nil(t, c.ProtoDate)
	assert.Equal(t, model.StatusPending, c.ProtoStatus)
}

func TestApplyRejectsUnknownInputs(t *testing.T) {
	c := pendingComponent()
	assert.Error(t, Apply(c, Transition{Stage: "qa", Status: model.StatusOK}, time.Now()))
	assert.Error(t, Apply(c, Transition{Stage: model.StageProto, Status: "approved"}, time.Now()))
}

func TestApprovalStage(t *testing.T) {
	c := pendingComponent()
	assert.Equal(t, "none", c.ApprovalStage())

	now := time.Now()
	require.NoError(t, Apply(c, Transition{Stage: model.StageProto, Status: model.StatusOK}, now))
	assert.Equal(t, model.StageProto, c.ApprovalStage())

	require.NoError(t, Apply(c, Transition{Stage: model.StageSMS, Status: model.StatusOK}, now))
	assert.Equal(t, model.StageSMS, c.ApprovalStage())

	require.NoError(t, Apply(c, Transition{Stage: model.StagePPS, Status: model.StatusOK}, now))
	assert.Equal(t, model.StagePPS, c.ApprovalStage())
}

func TestReset(t *testing.T) {
	c := pendingComponent()
	now := time.Now()
	require.NoError(t, Apply(c, Transition{Stage: model.StageProto, Status: model.StatusOK}, now))
	require.NoError(t, Apply(c, Transition{Stage: model.StageSMS, Status: model.StatusNotOK, Comment: "seams off"}, now))

	Reset(c)
	assert.Equal(t, model.StatusPending, c.ProtoStatus)
	assert.Equal(t, model.StatusPending, c.SMSStatus)
	assert.Equal(t, model.StatusPending, c.PPSStatus)
	assert.Nil(t, c.ProtoDate)
	assert.Empty(t, c.SMSComment)
}
