package timing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1analysisbot/pkg/model"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/schedule", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024", r.URL.Query().Get("year"))
		w.Write([]byte(`{"events":[
			{"roundNumber":2,"officialEventName":"Saudi Arabian Grand Prix","country":"Saudi Arabia","sessions":["Race","Practice 1","Qualifying"]},
			{"roundNumber":1,"officialEventName":"Bahrain Grand Prix","country":"Bahrain","sessions":["Practice 1","Race"]}
		]}`))
	})
	mux.HandleFunc("/v1/laps", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Practice 1", r.URL.Query().Get("session"))
		w.Write([]byte(`{"fields":["driver","lapNumber","lapTime","pitInTime","pitOutTime","trackStatus","compound","tyreAge","stint"],
			"laps":[
				{"driver":"VER","lapNumber":2,"lapTime":92.41,"pitInTime":null,"pitOutTime":null,"trackStatus":"1","compound":"SOFT","tyreAge":3,"stint":1},
				{"driver":"VER","lapNumber":3,"lapTime":null,"pitInTime":5120.2,"pitOutTime":null,"trackStatus":"1","compound":"SOFT","tyreAge":null,"stint":1}
			]}`))
	})
	mux.HandleFunc("/v1/results", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fields":["abbreviation","teamName","position"],
			"results":[{"abbreviation":"VER","teamName":"Red Bull Racing","position":1}]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestProviderSchedule(t *testing.T) {
	server := newTestServer(t)
	p := NewProvider(server.URL)

	events, err := p.Schedule(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, 2024, events[0].Year)
	assert.Equal(t, 2, events[0].Round)
	assert.Equal(t, "Saudi Arabian Grand Prix", events[0].OfficialName)
	// sessions are returned in on-track order
	assert.Equal(t, []string{"Practice 1", "Qualifying", "Race"}, events[0].Sessions)
}

func TestProviderLapsMapsNulls(t *testing.T) {
	server := newTestServer(t)
	p := NewProvider(server.URL)

	ref := model.SessionRef{Year: 2024, Round: 1, Session: "Practice 1"}
	table, err := p.Laps(context.Background(), ref)
	require.NoError(t, err)
	require.Len(t, table.Laps, 2)
	assert.True(t, table.HasField("tyreAge"))

	flying := table.Laps[0]
	assert.InDelta(t, 92.41, flying.LapTime, 1e-9)
	assert.Equal(t, model.CompoundSoft, flying.Compound)
	assert.Equal(t, 3, flying.TyreAge)
	assert.False(t, flying.HasPitActivity())

	inLap := table.Laps[1]
	assert.False(t, inLap.HasTime())
	assert.True(t, inLap.HasPitActivity())
	assert.Equal(t, -1, inLap.TyreAge, "null tyre age maps to the missing sentinel")
}

func TestProviderResults(t *testing.T) {
	server := newTestServer(t)
	p := NewProvider(server.URL)

	ref := model.SessionRef{Year: 2024, Round: 1, Session: "Race"}
	table, err := p.Results(context.Background(), ref)
	require.NoError(t, err)
	require.Len(t, table.Results, 1)
	assert.Equal(t, "Red Bull Racing", table.Results[0].TeamName)
	assert.Equal(t, 1, table.Results[0].Position)
}

func TestProviderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	p := NewProvider(server.URL)
	_, err := p.Schedule(context.Background(), 2024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}
