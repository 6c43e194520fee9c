package timing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"f1analysisbot/pkg/model"
)

// Provider fetches timing tables from the external data service. It is a
// plain HTTP JSON client; caching happens in the Manager.
type Provider struct {
	apiDomain string
}

func NewProvider(domain string) *Provider {
	return &Provider{apiDomain: domain}
}

type scheduleResponse struct {
	Events []wireEvent `json:"events"`
}

type wireEvent struct {
	RoundNumber       int      `json:"roundNumber"`
	OfficialEventName string   `json:"officialEventName"`
	Country           string   `json:"country"`
	Sessions          []string `json:"sessions"`
}

type lapsResponse struct {
	Fields []string  `json:"fields"`
	Laps   []wireLap `json:"laps"`
}

// wireLap mirrors one provider lap row. Nullable columns come through as
// JSON null and are mapped to the model's sentinel values.
type wireLap struct {
	Driver      string   `json:"driver"`
	LapNumber   int      `json:"lapNumber"`
	LapTime     *float64 `json:"lapTime"`
	PitInTime   *float64 `json:"pitInTime"`
	PitOutTime  *float64 `json:"pitOutTime"`
	TrackStatus string   `json:"trackStatus"`
	Compound    string   `json:"compound"`
	TyreAge     *int     `json:"tyreAge"`
	Stint       int      `json:"stint"`
}

type resultsResponse struct {
	Fields  []string     `json:"fields"`
	Results []wireResult `json:"results"`
}

type wireResult struct {
	Abbreviation string `json:"abbreviation"`
	TeamName     string `json:"teamName"`
	Position     int    `json:"position"`
}

// Schedule fetches the race calendar for a season, testing sessions
// excluded.
func (p *Provider) Schedule(ctx context.Context, year int) ([]model.Event, error) {
	url := fmt.Sprintf("%s/v1/schedule?year=%d", p.apiDomain, year)
	var resp scheduleResponse
	if err := p.getJSON(ctx, url, &resp); err != nil {
		return nil, errors.Wrapf(err, "fetching %d schedule", year)
	}

	events := make([]model.Event, 0, len(resp.Events))
	for _, e := range resp.Events {
		events = append(events, model.Event{
			Year:         year,
			Round:        e.RoundNumber,
			OfficialName: e.OfficialEventName,
			Country:      e.Country,
			Sessions:     model.SortSessions(e.Sessions),
		})
	}
	return events, nil
}

// Laps fetches the laps table for a session.
func (p *Provider) Laps(ctx context.Context, ref model.SessionRef) (*model.LapTable, error) {
	url := fmt.Sprintf("%s/v1/laps?year=%d&round=%d&session=%s", p.apiDomain, ref.Year, ref.Round, url.QueryEscape(ref.Session))
	var resp lapsResponse
	if err := p.getJSON(ctx, url, &resp); err != nil {
		return nil, errors.Wrapf(err, "fetching laps for %s", ref)
	}

	table := &model.LapTable{Fields: resp.Fields, Laps: make([]model.Lap, 0, len(resp.Laps))}
	for _, l := range resp.Laps {
		table.Laps = append(table.Laps, model.Lap{
			Driver:      l.Driver,
			LapNumber:   l.LapNumber,
			LapTime:     floatOrZero(l.LapTime),
			PitInTime:   floatOrZero(l.PitInTime),
			PitOutTime:  floatOrZero(l.PitOutTime),
			TrackStatus: l.TrackStatus,
			Compound:    model.ParseCompound(l.Compound),
			TyreAge:     intOrMissing(l.TyreAge),
			Stint:       l.Stint,
		})
	}
	return table, nil
}

// Results fetches the session classification table.
func (p *Provider) Results(ctx context.Context, ref model.SessionRef) (*model.ResultTable, error) {
	url := fmt.Sprintf("%s/v1/results?year=%d&round=%d&session=%s", p.apiDomain, ref.Year, ref.Round, url.QueryEscape(ref.Session))
	var resp resultsResponse
	if err := p.getJSON(ctx, url, &resp); err != nil {
		return nil, errors.Wrapf(err, "fetching results for %s", ref)
	}

	table := &model.ResultTable{Fields: resp.Fields, Results: make([]model.Result, 0, len(resp.Results))}
	for _, r := range resp.Results {
		table.Results = append(table.Results, model.Result{
			Abbreviation: r.Abbreviation,
			TeamName:     r.TeamName,
			Position:     r.Position,
		})
	}
	return table, nil
}

func (p *Provider) getJSON(ctx context.Context, url string, v any) error {
	// Make a get request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	// Do the request
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}

	// Close the response body on function return
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	// Read the response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, v)
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func intOrMissing(i *int) int {
	if i == nil {
		return -1
	}
	return *i
}
