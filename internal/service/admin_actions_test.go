package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"momo-checkout-console/internal/core/domain"
	"momo-checkout-console/internal/core/ports"
	"momo-checkout-console/internal/core/ports/mocks"
	"momo-checkout-console/pkg/apperror"
	"momo-checkout-console/pkg/singleflight"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupAdminController(t *testing.T) (ports.AdminActionController, *singleflight.Gate, *mocks.MockUpstreamGateway, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockUpstreamGateway(ctrl)
	gate := singleflight.NewGate()
	svc := NewAdminActionController(gate, gateway, zerolog.Nop())
	return svc, gate, gateway, ctrl
}

func f64(v float64) *float64 { return &v }

func TestAdminActions_Approve_Applied(t *testing.T) {
	svc, gate, gateway, ctrl := setupAdminController(t)
	defer ctrl.Finish()

	req := domain.AdminActionRequest{
		Action:    domain.AdminActionApprove,
		Reference: "TX-100",
		Reason:    "verified with customer",
	}
	gateway.EXPECT().SubmitAdminAction(gomock.Any(), req).Return(nil)

	out := svc.Submit(context.Background(), uuid.New(), req, &stubUI{})
	assert.Equal(t, domain.OutcomeApplied, out.Kind)
	assert.NoError(t, out.Err)

	// Unlike a redirect hand-off, the admin gate is returned on success.
	assert.True(t, gate.TryAcquire())
}

func TestAdminActions_Validation_NoNetworkCall(t *testing.T) {
	tests := []struct {
		name     string
		req      domain.AdminActionRequest
		wantCode string
	}{
		{
			name:     "unknown action",
			req:      domain.AdminActionRequest{Action: "escalate", Reference: "TX-1", Reason: "r"},
			wantCode: "VAL_004",
		},
		{
			name:     "missing reference",
			req:      domain.AdminActionRequest{Action: domain.AdminActionBlock, Reason: "fraud"},
			wantCode: "VAL_000",
		},
		{
			name:     "empty reason",
			req:      domain.AdminActionRequest{Action: domain.AdminActionBlock, Reference: "TX-1"},
			wantCode: "VAL_002",
		},
		{
			name:     "whitespace reason",
			req:      domain.AdminActionRequest{Action: domain.AdminActionBlock, Reference: "TX-1", Reason: "   "},
			wantCode: "VAL_002",
		},
		{
			name:     "refund without amount",
			req:      domain.AdminActionRequest{Action: domain.AdminActionRefund, Reference: "TX-1", Reason: "dup"},
			wantCode: "VAL_003",
		},
		{
			name:     "refund zero amount",
			req:      domain.AdminActionRequest{Action: domain.AdminActionRefund, Reference: "TX-1", Reason: "dup", Amount: f64(0)},
			wantCode: "VAL_003",
		},
		{
			name:     "refund negative amount",
			req:      domain.AdminActionRequest{Action: domain.AdminActionRefund, Reference: "TX-1", Reason: "dup", Amount: f64(-5)},
			wantCode: "VAL_003",
		},
		{
			name:     "refund NaN amount",
			req:      domain.AdminActionRequest{Action: domain.AdminActionRefund, Reference: "TX-1", Reason: "dup", Amount: f64(math.NaN())},
			wantCode: "VAL_003",
		},
		{
			name:     "refund infinite amount",
			req:      domain.AdminActionRequest{Action: domain.AdminActionRefund, Reference: "TX-1", Reason: "dup", Amount: f64(math.Inf(1))},
			wantCode: "VAL_003",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gate, _, ctrl := setupAdminController(t)
			defer ctrl.Finish()

			ui := &stubUI{}
			out := svc.Submit(context.Background(), uuid.New(), tt.req, ui)

			require.Equal(t, domain.OutcomeRejected, out.Kind)
			var appErr *apperror.AppError
			require.True(t, errors.As(out.Err, &appErr))
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, appErr.Message, ui.lastMessage())

			// Rejected before acquisition; the gate stays free.
			assert.True(t, gate.TryAcquire())
		})
	}
}

func TestAdminActions_Refund_ValidAmount(t *testing.T) {
	svc, _, gateway, ctrl := setupAdminController(t)
	defer ctrl.Finish()

	gateway.EXPECT().
		SubmitAdminAction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.AdminActionRequest) error {
			assert.Equal(t, domain.AdminActionRefund, req.Action)
			require.NotNil(t, req.Amount)
			assert.Equal(t, 100.0, *req.Amount)
			return nil
		})

	out := svc.Submit(context.Background(), uuid.New(), domain.AdminActionRequest{
		Action:    domain.AdminActionRefund,
		Reference: "TX-2",
		Reason:    "double charge",
		Amount:    f64(100),
	}, &stubUI{})
	assert.Equal(t, domain.OutcomeApplied, out.Kind)
}

func TestAdminActions_BackendRejection(t *testing.T) {
	svc, gate, gateway, ctrl := setupAdminController(t)
	defer ctrl.Finish()

	gateway.EXPECT().
		SubmitAdminAction(gomock.Any(), gomock.Any()).
		Return(apperror.UpstreamRejected("Transaction déjà validée"))

	ui := &stubUI{}
	out := svc.Submit(context.Background(), uuid.New(), domain.AdminActionRequest{
		Action:    domain.AdminActionBlock,
		Reference: "TX-3",
		Reason:    "chargeback risk",
	}, ui)

	assert.Equal(t, domain.OutcomeRejected, out.Kind)
	assert.True(t, out.Retryable())
	assert.Equal(t, "Transaction déjà validée", ui.lastMessage())
	assert.True(t, gate.TryAcquire())
}

func TestAdminActions_TransportFailure(t *testing.T) {
	svc, gate, gateway, ctrl := setupAdminController(t)
	defer ctrl.Finish()

	gateway.EXPECT().
		SubmitAdminAction(gomock.Any(), gomock.Any()).
		Return(apperror.TransportFailure(errors.New("i/o timeout")))

	out := svc.Submit(context.Background(), uuid.New(), domain.AdminActionRequest{
		Action:    domain.AdminActionBlock,
		Reference: "TX-4",
		Reason:    "fraud alert",
	}, &stubUI{})

	assert.Equal(t, domain.OutcomeTransportFailed, out.Kind)
	assert.True(t, gate.TryAcquire())
}

func TestAdminActions_ConcurrentSubmissions_ExactlyOneNetworkCall(t *testing.T) {
	svc, _, gateway, ctrl := setupAdminController(t)
	defer ctrl.Finish()

	const n = 8
	release := make(chan struct{})
	gateway.EXPECT().
		SubmitAdminAction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.AdminActionRequest) error {
			<-release
			return nil
		}).
		Times(1)

	req := domain.AdminActionRequest{
		Action:    domain.AdminActionApprove,
		Reference: "TX-burst",
		Reason:    "verified",
	}

	results := make(chan domain.Outcome, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Submit(context.Background(), uuid.New(), req, &stubUI{})
		}()
	}

	for i := 0; i < n-1; i++ {
		out := <-results
		assert.Equal(t, domain.OutcomeDropped, out.Kind)
	}

	close(release)
	wg.Wait()

	out := <-results
	assert.Equal(t, domain.OutcomeApplied, out.Kind)
}

func TestAdminActions_IndependentFromPaymentGate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	gateway := mocks.NewMockUpstreamGateway(ctrl)

	paymentGate := singleflight.NewGate()
	adminSvc := NewAdminActionController(singleflight.NewGate(), gateway, zerolog.Nop())

	// A payment in flight holds its own gate.
	require.True(t, paymentGate.TryAcquire())

	gateway.EXPECT().SubmitAdminAction(gomock.Any(), gomock.Any()).Return(nil)
	out := adminSvc.Submit(context.Background(), uuid.New(), domain.AdminActionRequest{
		Action:    domain.AdminActionApprove,
		Reference: "TX-5",
		Reason:    "ok",
	}, &stubUI{})
	assert.Equal(t, domain.OutcomeApplied, out.Kind)
}
