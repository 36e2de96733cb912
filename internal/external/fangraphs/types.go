package fangraphs

import "encoding/json"

// Row is one player's line from a FanGraphs leaderboard. Every numeric
// column lands in Stats keyed by its API field name ("K%", "Stuff+",
// "Stf+ FA", ...). Rate columns come back as decimals, e.g. 0.276 for
// 27.6%.
type Row struct {
	FangraphsID int                `json:"playerid"`
	Name        string             `json:"name"`
	Season      int                `json:"season"`
	Stats       map[string]float64 `json:"stats"`
}

// Stat returns a stat value and whether the leaderboard reported it
func (r *Row) Stat(name string) (float64, bool) {
	v, ok := r.Stats[name]
	return v, ok
}

// apiResponse is the envelope the leaderboard API wraps rows in
type apiResponse struct {
	Data []json.RawMessage `json:"data"`
}

// UnmarshalJSON folds the API's flat mixed-type object into the Row shape.
// It also accepts the Row's own marshaled form, so cached rows round-trip.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Stats = make(map[string]float64)
	for key, val := range raw {
		switch key {
		case "playerid", "PlayerId":
			if f, ok := val.(float64); ok {
				r.FangraphsID = int(f)
			}
		case "PlayerName", "Name", "name":
			if s, ok := val.(string); ok {
				r.Name = s
			}
		case "Season", "season":
			if f, ok := val.(float64); ok {
				r.Season = int(f)
			}
		case "stats":
			if m, ok := val.(map[string]interface{}); ok {
				for k, v := range m {
					if f, ok := v.(float64); ok {
						r.Stats[k] = f
					}
				}
			}
		default:
			if f, ok := val.(float64); ok {
				r.Stats[key] = f
			}
		}
	}
	return nil
}
