package view

import (
	"context"
	"fmt"
	"testing"

	"github.com/riskibarqy/sleeper-league-viewer/internal/domain/league"
	leaguemock "github.com/riskibarqy/sleeper-league-viewer/internal/mocks/domain/league"
	"github.com/riskibarqy/sleeper-league-viewer/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRoot_StartsWithoutLeagueAndWeekOne(t *testing.T) {
	t.Parallel()

	provider := leaguemock.NewProvider(t)
	svc := usecase.NewLeagueService(provider)
	root := NewRoot(svc, svc, nil, nil)
	defer root.Close()

	page := root.View()
	assert.Equal(t, "", page.LeagueID)
	assert.Equal(t, 1, page.Week)
	assert.Nil(t, page.Matchups)
	assert.False(t, page.Loading())
}

func TestRoot_WeekChangesBeforeSelectionDoNotFetch(t *testing.T) {
	t.Parallel()

	provider := leaguemock.NewProvider(t)
	svc := usecase.NewLeagueService(provider)
	root := NewRoot(svc, svc, nil, nil)
	defer root.Close()

	root.SetWeek(0)
	root.SetWeek(25)
	root.Wait()

	page := root.View()
	assert.Equal(t, 25, page.Week, "week is stored as given")
	assert.Nil(t, page.Matchups)
}

func TestRoot_SelectionMountsViewerAndWeekRefetches(t *testing.T) {
	t.Parallel()

	provider := leaguemock.NewProvider(t)
	provider.On("GetLeague", mock.Anything, "123").
		Return(league.Summary{Name: "A", Season: "2024", Status: "in_season"}, nil).Once()
	provider.On("ListMatchups", mock.Anything, "123", 1).
		Return([]league.Matchup{{MatchupID: 1, RosterID: 10, Points: 88.5}}, nil).Once()
	provider.On("ListMatchups", mock.Anything, "123", 3).
		Return([]league.Matchup{}, nil).Once()

	svc := usecase.NewLeagueService(provider)
	root := NewRoot(svc, svc, newTestPool(t), nil)
	defer root.Close()

	root.SubmitLeague(context.Background(), "123")
	root.Wait()

	page := root.View()
	assert.Equal(t, "123", page.LeagueID)
	require.NotNil(t, page.Input.League)
	assert.Equal(t, "A", page.Input.League.Name)
	require.NotNil(t, page.Matchups)
	assert.Equal(t, 1, page.Matchups.Week)
	require.Len(t, page.Matchups.Rows, 1)

	root.SetWeek(3)
	root.Wait()

	page = root.View()
	require.NotNil(t, page.Matchups)
	assert.Equal(t, 3, page.Matchups.Week)
	assert.True(t, page.Matchups.Empty)
}

func TestRoot_FailedLookupKeepsViewerUnmounted(t *testing.T) {
	t.Parallel()

	provider := leaguemock.NewProvider(t)
	provider.On("GetLeague", mock.Anything, "404").
		Return(league.Summary{}, fmt.Errorf("%w: sleeper status=404", usecase.ErrNotFound)).Once()

	svc := usecase.NewLeagueService(provider)
	root := NewRoot(svc, svc, nil, nil)
	defer root.Close()

	root.SubmitLeague(context.Background(), "404")
	root.Wait()

	page := root.View()
	assert.Equal(t, "League not found", page.Input.Error)
	assert.Equal(t, "", page.LeagueID)
	assert.Nil(t, page.Matchups)
	provider.AssertNotCalled(t, "ListMatchups", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoot_SelectingAnotherLeagueKeepsWeek(t *testing.T) {
	t.Parallel()

	lister := &recordingLister{results: map[int][]league.Matchup{4: {}}}
	lookup := lookupFunc(func(_ context.Context, id string) (league.Summary, error) {
		return league.Summary{Name: "League " + id}, nil
	})
	root := NewRoot(lookup, lister, nil, nil)
	defer root.Close()

	root.SetWeek(4)
	root.SubmitLeague(context.Background(), "1")
	root.Wait()
	root.SubmitLeague(context.Background(), "2")
	root.Wait()

	assert.Equal(t, []listCall{
		{LeagueID: "1", Week: 4},
		{LeagueID: "2", Week: 4},
	}, lister.Calls())
	assert.Equal(t, "2", root.View().LeagueID)
}

func TestPageView_LoadingCoversBothParts(t *testing.T) {
	t.Parallel()

	assert.True(t, PageView{Input: InputView{Loading: true}}.Loading())
	assert.True(t, PageView{Matchups: &MatchupsView{Loading: true}}.Loading())
	assert.False(t, PageView{Matchups: &MatchupsView{}}.Loading())
}
