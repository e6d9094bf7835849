package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/travelstats/internal/calculator"
	"github.com/mmynk/travelstats/internal/display"
	"github.com/mmynk/travelstats/internal/models"
	"github.com/mmynk/travelstats/internal/participation"
	"github.com/mmynk/travelstats/internal/storage"
)

// StatsService serves dashboard statistics and the event/expense lists.
type StatsService struct {
	store     storage.Reader
	registry  *participation.Registry
	engine    *calculator.Engine
	formatter *display.Formatter
}

// NewStatsService creates a new StatsService.
func NewStatsService(store storage.Reader, registry *participation.Registry, engine *calculator.Engine, formatter *display.Formatter) *StatsService {
	return &StatsService{
		store:     store,
		registry:  registry,
		engine:    engine,
		formatter: formatter,
	}
}

// snapshot is everything one request computes over.
type snapshot struct {
	user          models.User
	events        []models.Event
	expenses      []models.Expense
	participation participation.Snapshot
}

func (s snapshot) input() calculator.Input {
	return calculator.Input{
		User:           &s.user,
		Events:         s.events,
		Expenses:       s.expenses,
		Participations: s.participation.Records,
		Loading:        s.participation.Loading,
	}
}

// load fetches the user, then events, expenses and participation concurrently.
func (s *StatsService) load(ctx context.Context, userID string) (*snapshot, error) {
	if userID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("user_id is required"))
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, toConnectError("get user", err)
	}

	snap := &snapshot{user: *user}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, err := s.store.ListEvents(gctx)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		snap.events = events
		return nil
	})
	g.Go(func() error {
		expenses, err := s.store.ListExpenses(gctx)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		snap.expenses = expenses
		return nil
	})
	g.Go(func() error {
		// fetch failures are folded into an empty snapshot by the tracker
		snap.participation = s.registry.Snapshot(gctx, *user)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, toConnectError("load snapshot", err)
	}
	return snap, nil
}

// GetDashboard computes both summary cards.
func (s *StatsService) GetDashboard(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[DashboardResponse], error) {
	snap, err := s.load(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}

	summary := s.engine.Compute(ctx, snap.input())
	names := s.coParticipantNames(ctx, summary.Personal)

	return connect.NewResponse(&DashboardResponse{
		Financial:           toFinancial(summary.Financial, s.formatter),
		Personal:            toPersonal(summary.Personal, names, s.formatter),
		Loading:             snap.participation.Loading,
		ParticipationFailed: snap.participation.Failed,
		Generation:          snap.participation.Generation,
	}), nil
}

// GetFinancialSummary computes the financial summary card.
func (s *StatsService) GetFinancialSummary(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[FinancialSummary], error) {
	snap, err := s.load(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	summary := s.engine.Compute(ctx, snap.input())
	resp := toFinancial(summary.Financial, s.formatter)
	return connect.NewResponse(&resp), nil
}

// GetPersonalStats computes the personal stats card.
func (s *StatsService) GetPersonalStats(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[PersonalStats], error) {
	snap, err := s.load(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	stats := s.engine.Compute(ctx, snap.input()).Personal
	resp := toPersonal(stats, s.coParticipantNames(ctx, stats), s.formatter)
	return connect.NewResponse(&resp), nil
}

// ListEvents returns the events shown under one tab of the events list.
func (s *StatsService) ListEvents(ctx context.Context, req *connect.Request[ListEventsRequest]) (*connect.Response[ListEventsResponse], error) {
	tab := req.Msg.Tab
	if tab == "" {
		tab = TabAll
	}
	switch tab {
	case TabAll, TabActive, TabOrganized, TabParticipating:
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown tab %q", tab))
	}

	snap, err := s.load(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	membership := calculator.ResolveMembership(snap.user, snap.participation.Records)

	events := []models.Event{}
	for _, e := range snap.events {
		var keep bool
		switch tab {
		case TabAll:
			keep = true
		case TabActive:
			keep = e.IsActive() && membership.Has(e.ID)
		case TabOrganized:
			keep = snap.user.IsOrganizerOf(e)
		case TabParticipating:
			keep = membership.Has(e.ID)
		}
		if keep {
			events = append(events, e)
		}
	}

	slog.Debug("ListEvents", "user_id", snap.user.ID, "tab", tab, "count", len(events))
	return connect.NewResponse(&ListEventsResponse{Events: events}), nil
}

// ListExpenses returns expenses, optionally for one event, most recent first.
func (s *StatsService) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	snap, err := s.load(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}

	expenses := []models.Expense{}
	for _, e := range snap.expenses {
		if req.Msg.EventID != "" && e.EventID != req.Msg.EventID {
			continue
		}
		expenses = append(expenses, e)
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].OccurredAt().After(expenses[j].OccurredAt())
	})

	return connect.NewResponse(&ListExpensesResponse{Expenses: expenses}), nil
}

// GetEventBalances returns net balances and simplified debts for one event.
func (s *StatsService) GetEventBalances(ctx context.Context, req *connect.Request[GetEventBalancesRequest]) (*connect.Response[GetEventBalancesResponse], error) {
	if req.Msg.EventID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("event_id is required"))
	}

	all, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, toConnectError("list expenses", err)
	}
	var expenses []models.Expense
	for _, e := range all {
		if e.EventID == req.Msg.EventID {
			expenses = append(expenses, e)
		}
	}

	members, debts := calculator.CalculateEventBalances(expenses)
	resp := &GetEventBalancesResponse{
		Members: make([]MemberBalance, len(members)),
		Debts:   make([]DebtEdge, len(debts)),
	}
	for i, m := range members {
		resp.Members[i] = MemberBalance{UserID: m.UserID, NetBalance: m.NetBalance, TotalPaid: m.TotalPaid, TotalOwed: m.TotalOwed}
	}
	for i, d := range debts {
		resp.Debts[i] = DebtEdge{From: d.From, To: d.To, Amount: d.Amount}
	}
	return connect.NewResponse(resp), nil
}

// RefreshParticipation re-fetches the participation snapshot of a user.
func (s *StatsService) RefreshParticipation(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[RefreshParticipationResponse], error) {
	if req.Msg.UserID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("user_id is required"))
	}
	user, err := s.store.GetUser(ctx, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError("get user", err)
	}

	applied := s.registry.Refresh(ctx, *user)
	snap := s.registry.Tracker(user.ID).Snapshot()
	return connect.NewResponse(&RefreshParticipationResponse{
		Applied:    applied,
		Generation: snap.Generation,
		Records:    len(snap.Records),
		Failed:     snap.Failed,
	}), nil
}

// coParticipantNames resolves the display name of the top co-participant.
// Lookup failures only cost the name.
func (s *StatsService) coParticipantNames(ctx context.Context, stats calculator.PersonalStats) map[string]string {
	names := map[string]string{}
	if stats.TopCoParticipant == nil {
		return names
	}
	id := stats.TopCoParticipant.UserID
	users, err := s.store.ListUsers(ctx, []string{id})
	if err != nil {
		slog.Warn("Failed to resolve co-participant name", "user_id", id, "error", err)
		return names
	}
	for _, u := range users {
		if u.Is(id) && u.DisplayName != "" {
			names[id] = u.DisplayName
		}
	}
	return names
}

func toConnectError(op string, err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	slog.Error("StatsService failure", "operation", op, "error", err)
	return connect.NewError(connect.CodeInternal, fmt.Errorf("%s: %w", op, err))
}
