package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/xtding233/enchant-engine/internal/enchant"
	"github.com/xtding233/enchant-engine/internal/logger"
	"github.com/xtding233/enchant-engine/internal/orb"
	"github.com/xtding233/enchant-engine/internal/service"
)

func startServer(t *testing.T, rules enchant.Rules) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	svc := service.New(enchant.MustNew(rules), service.Options{Logger: logger.Discard()})
	gs, _ := NewGRPCServer(svc, logger.Discard())
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestHealth(t *testing.T) {
	conn := startServer(t, enchant.DefaultRules())
	resp, err := grpc_health_v1.NewHealthClient(conn).Check(testCtx(t),
		&grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestRateAndCost(t *testing.T) {
	c := NewClient(startServer(t, enchant.DefaultRules()))
	ctx := testCtx(t)

	var rate service.RateResponse
	require.NoError(t, c.Call(ctx, "Rate", service.RateRequest{Level: 0, Item: enchant.Godly, Orb: enchant.Divine}, &rate))
	assert.Equal(t, 100.0, rate.SuccessRate)
	assert.Equal(t, enchant.RiskSafe, rate.Risk)

	var cost service.CostResponse
	require.NoError(t, c.Call(ctx, "Cost", service.CostRequest{Item: enchant.White, Orb: enchant.Minor}, &cost))
	assert.Equal(t, enchant.Cost(1), cost.ExpectedOrbs)
	assert.Len(t, cost.Steps, 1)
}

func TestInfiniteCostSurvivesStruct(t *testing.T) {
	r := enchant.DefaultRules()
	r.LevelPenalty = 50
	c := NewClient(startServer(t, r))

	var cost service.CostResponse
	require.NoError(t, c.Call(testCtx(t), "Cost", service.CostRequest{Item: enchant.Godly, Orb: enchant.Minor}, &cost))
	assert.True(t, cost.ExpectedOrbs.IsInfinite())
}

func TestErrorCodes(t *testing.T) {
	r := enchant.DefaultRules()
	r.Limits.SlowAbove = 1
	r.Limits.ImpracticalAbove = 2
	c := NewClient(startServer(t, r))
	ctx := testCtx(t)

	err := c.Call(ctx, "Rate", service.RateRequest{Item: 99, Orb: enchant.Minor}, nil)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	err = c.Call(ctx, "Simulate", service.SimulateRequest{Item: enchant.Blessed, Orb: enchant.Minor, Runs: 5}, nil)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	err = c.Call(ctx, "Nope", nil, nil)
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestSimulateCompareTables(t *testing.T) {
	c := NewClient(startServer(t, enchant.DefaultRules()))
	ctx := testCtx(t)

	seed := uint64(11)
	var sim service.SimulateResponse
	require.NoError(t, c.Call(ctx, "Simulate", service.SimulateRequest{
		Item: enchant.Radiant, Orb: enchant.Minor, Runs: 300, Seed: &seed,
	}, &sim))
	assert.Equal(t, 300, sim.Stats.Runs)
	assert.NotEmpty(t, sim.RunID)

	var cmp service.CompareResponse
	require.NoError(t, c.Call(ctx, "Compare", service.CompareRequest{
		Level: 1, Item: enchant.Holy, Inventory: orb.Inventory{enchant.Major: 1000},
	}, &cmp))
	require.Len(t, cmp.Policies, 3)
	assert.Equal(t, "Safe Path", cmp.Policies[0].Policy)
	require.NotNil(t, cmp.Policies[0].Affordable)
	assert.True(t, *cmp.Policies[0].Affordable)

	var tables service.TablesResponse
	require.NoError(t, c.Call(ctx, "Tables", nil, &tables))
	assert.Len(t, tables.Items, 5)
	assert.Equal(t, enchant.DefaultLimits(), tables.Limits)
}

func TestToStatus(t *testing.T) {
	assert.Equal(t, codes.ResourceExhausted, status.Code(toStatus(service.ErrBusy)))
	assert.Equal(t, codes.DeadlineExceeded, status.Code(toStatus(context.DeadlineExceeded)))
	assert.Equal(t, codes.Internal, status.Code(toStatus(assert.AnError)))
}
