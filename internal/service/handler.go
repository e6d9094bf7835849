package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// StatsServiceName is the fully-qualified name of the StatsService.
const StatsServiceName = "travelstats.v1.StatsService"

// Procedure paths of the StatsService.
const (
	GetDashboardProcedure         = "/" + StatsServiceName + "/GetDashboard"
	GetFinancialSummaryProcedure  = "/" + StatsServiceName + "/GetFinancialSummary"
	GetPersonalStatsProcedure     = "/" + StatsServiceName + "/GetPersonalStats"
	ListEventsProcedure           = "/" + StatsServiceName + "/ListEvents"
	ListExpensesProcedure         = "/" + StatsServiceName + "/ListExpenses"
	GetEventBalancesProcedure     = "/" + StatsServiceName + "/GetEventBalances"
	RefreshParticipationProcedure = "/" + StatsServiceName + "/RefreshParticipation"
)

// NewStatsServiceHandler builds an HTTP handler serving every StatsService
// procedure. It returns the path prefix to mount it on.
func NewStatsServiceHandler(svc *StatsService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetDashboardProcedure, connect.NewUnaryHandler(GetDashboardProcedure, svc.GetDashboard, opts...))
	mux.Handle(GetFinancialSummaryProcedure, connect.NewUnaryHandler(GetFinancialSummaryProcedure, svc.GetFinancialSummary, opts...))
	mux.Handle(GetPersonalStatsProcedure, connect.NewUnaryHandler(GetPersonalStatsProcedure, svc.GetPersonalStats, opts...))
	mux.Handle(ListEventsProcedure, connect.NewUnaryHandler(ListEventsProcedure, svc.ListEvents, opts...))
	mux.Handle(ListExpensesProcedure, connect.NewUnaryHandler(ListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(GetEventBalancesProcedure, connect.NewUnaryHandler(GetEventBalancesProcedure, svc.GetEventBalances, opts...))
	mux.Handle(RefreshParticipationProcedure, connect.NewUnaryHandler(RefreshParticipationProcedure, svc.RefreshParticipation, opts...))
	return "/" + StatsServiceName + "/", mux
}

// StatsServiceClient calls a remote StatsService.
type StatsServiceClient struct {
	getDashboard         *connect.Client[UserRequest, DashboardResponse]
	getFinancialSummary  *connect.Client[UserRequest, FinancialSummary]
	getPersonalStats     *connect.Client[UserRequest, PersonalStats]
	listEvents           *connect.Client[ListEventsRequest, ListEventsResponse]
	listExpenses         *connect.Client[ListExpensesRequest, ListExpensesResponse]
	getEventBalances     *connect.Client[GetEventBalancesRequest, GetEventBalancesResponse]
	refreshParticipation *connect.Client[UserRequest, RefreshParticipationResponse]
}

// NewStatsServiceClient creates a client for the StatsService at baseURL.
func NewStatsServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *StatsServiceClient {
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &StatsServiceClient{
		getDashboard:         connect.NewClient[UserRequest, DashboardResponse](httpClient, baseURL+GetDashboardProcedure, opts...),
		getFinancialSummary:  connect.NewClient[UserRequest, FinancialSummary](httpClient, baseURL+GetFinancialSummaryProcedure, opts...),
		getPersonalStats:     connect.NewClient[UserRequest, PersonalStats](httpClient, baseURL+GetPersonalStatsProcedure, opts...),
		listEvents:           connect.NewClient[ListEventsRequest, ListEventsResponse](httpClient, baseURL+ListEventsProcedure, opts...),
		listExpenses:         connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+ListExpensesProcedure, opts...),
		getEventBalances:     connect.NewClient[GetEventBalancesRequest, GetEventBalancesResponse](httpClient, baseURL+GetEventBalancesProcedure, opts...),
		refreshParticipation: connect.NewClient[UserRequest, RefreshParticipationResponse](httpClient, baseURL+RefreshParticipationProcedure, opts...),
	}
}

func (c *StatsServiceClient) GetDashboard(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[DashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}

func (c *StatsServiceClient) GetFinancialSummary(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[FinancialSummary], error) {
	return c.getFinancialSummary.CallUnary(ctx, req)
}

func (c *StatsServiceClient) GetPersonalStats(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[PersonalStats], error) {
	return c.getPersonalStats.CallUnary(ctx, req)
}

func (c *StatsServiceClient) ListEvents(ctx context.Context, req *connect.Request[ListEventsRequest]) (*connect.Response[ListEventsResponse], error) {
	return c.listEvents.CallUnary(ctx, req)
}

func (c *StatsServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *StatsServiceClient) GetEventBalances(ctx context.Context, req *connect.Request[GetEventBalancesRequest]) (*connect.Response[GetEventBalancesResponse], error) {
	return c.getEventBalances.CallUnary(ctx, req)
}

func (c *StatsServiceClient) RefreshParticipation(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[RefreshParticipationResponse], error) {
	return c.refreshParticipation.CallUnary(ctx, req)
}
