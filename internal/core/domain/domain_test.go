package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProvider_RequiresPhone(t *testing.T) {
	assert.True(t, ProviderOrange.RequiresPhone())
	assert.False(t, ProviderWave.RequiresPhone())
}

func TestKnownProvider(t *testing.T) {
	assert.True(t, KnownProvider(ProviderOrange))
	assert.True(t, KnownProvider(ProviderWave))
	assert.False(t, KnownProvider(Provider("mtn")))
	assert.False(t, KnownProvider(Provider("")))
}

func TestAdminAction_UpstreamPath(t *testing.T) {
	assert.Equal(t, "validate", AdminActionApprove.UpstreamPath())
	assert.Equal(t, "block", AdminActionBlock.UpstreamPath())
	assert.Equal(t, "refund", AdminActionRefund.UpstreamPath())
}

func TestAdminActionRequest_HasValidReason(t *testing.T) {
	r := AdminActionRequest{Reason: "chargeback dispute"}
	assert.True(t, r.HasValidReason())

	r.Reason = "   "
	assert.False(t, r.HasValidReason())

	r.Reason = ""
	assert.False(t, r.HasValidReason())
}

func TestAdminActionRequest_Normalize(t *testing.T) {
	r := AdminActionRequest{Reason: "  fraud suspicion  "}
	r.Normalize()
	assert.Equal(t, "fraud suspicion", r.Reason)
}

func TestAdminActionRequest_HasValidAmount(t *testing.T) {
	amt := func(v float64) *float64 { return &v }

	cases := []struct {
		name   string
		action AdminAction
		amount *float64
		want   bool
	}{
		{"refund with positive amount", AdminActionRefund, amt(100), true},
		{"refund missing amount", AdminActionRefund, nil, false},
		{"refund zero amount", AdminActionRefund, amt(0), false},
		{"refund negative amount", AdminActionRefund, amt(-5), false},
		{"refund NaN amount", AdminActionRefund, amt(math.NaN()), false},
		{"refund +Inf amount", AdminActionRefund, amt(math.Inf(1)), false},
		{"block ignores amount", AdminActionBlock, nil, true},
		{"approve ignores amount", AdminActionApprove, amt(-1), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := AdminActionRequest{Action: tc.action, Reason: "x", Amount: tc.amount}
			assert.Equal(t, tc.want, r.HasValidAmount())
		})
	}
}

func TestOutcome_Retryable(t *testing.T) {
	assert.True(t, Outcome{Kind: OutcomeRejected, Err: errors.New("x")}.Retryable())
	assert.True(t, Outcome{Kind: OutcomeTransportFailed, Err: errors.New("x")}.Retryable())
	assert.False(t, Outcome{Kind: OutcomeRedirected, PaymentURL: "u"}.Retryable())
	assert.False(t, Outcome{Kind: OutcomeApplied}.Retryable())
	assert.False(t, Outcome{Kind: OutcomeDropped}.Retryable())
}

func TestOperator_IsActive(t *testing.T) {
	op := &Operator{Status: OperatorStatusActive}
	assert.True(t, op.IsActive())

	op.Status = OperatorStatusDisabled
	assert.False(t, op.IsActive())
}
