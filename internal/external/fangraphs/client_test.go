package fangraphs

import (
	"encoding/json"
	"testing"
)

const sampleJSON = `{
	"data": [
		{"playerid": 15640, "PlayerName": "Aaron Judge", "Season": 2024,
		 "K%": 0.245, "BB%": 0.189, "wRC+": 218, "PA": 704, "Team": "NYY"},
		{"playerid": 19611, "PlayerName": "Juan Soto", "Season": 2024,
		 "K%": 0.168, "BB%": 0.182, "wRC+": 180, "PA": 713, "Team": "NYY"}
	]
}`

func TestParseJSON(t *testing.T) {
	rows, err := parseJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("parseJSON: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	judge := rows[0]
	if judge.FangraphsID != 15640 || judge.Name != "Aaron Judge" || judge.Season != 2024 {
		t.Errorf("unexpected identity: %+v", judge)
	}
	if v, ok := judge.Stat("K%"); !ok || v != 0.245 {
		t.Errorf("K%% = %v (%v), want 0.245", v, ok)
	}
	if v, ok := judge.Stat("wRC+"); !ok || v != 218 {
		t.Errorf("wRC+ = %v (%v), want 218", v, ok)
	}
	if _, ok := judge.Stat("Team"); ok {
		t.Error("string columns must not land in Stats")
	}
}

func TestParseJSON_NotJSON(t *testing.T) {
	if _, err := parseJSON([]byte("<html><body>leaders</body></html>")); err == nil {
		t.Error("expected error for HTML body")
	}
}

func TestRowCacheRoundTrip(t *testing.T) {
	row := Row{
		FangraphsID: 15640,
		Name:        "Aaron Judge",
		Season:      2024,
		Stats:       map[string]float64{"K%": 0.245, "Stuff+": 0},
	}

	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Row
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.FangraphsID != row.FangraphsID || back.Name != row.Name || back.Season != row.Season {
		t.Errorf("identity lost in round trip: %+v", back)
	}
	if v, ok := back.Stat("K%"); !ok || v != 0.245 {
		t.Errorf("K%% = %v (%v) after round trip, want 0.245", v, ok)
	}
}

const sampleHTML = `<html><body>
<table class="rgMasterTable">
<thead><tr><th>#</th><th>Name</th><th>Season</th><th>K%</th><th>BB%</th><th>wRC+</th></tr></thead>
<tbody>
<tr><td>1</td><td><a href="/players/aaron-judge/15640/stats?playerid=15640&position=OF">Aaron Judge</a></td><td>2024</td><td>24.5 %</td><td>18.9 %</td><td>218</td></tr>
<tr><td>2</td><td><a href="/players/juan-soto/19611/stats?playerid=19611">Juan Soto</a></td><td>2024</td><td>16.8 %</td><td>18.2 %</td><td>180</td></tr>
</tbody>
</table>
</body></html>`

func TestParseHTMLTable(t *testing.T) {
	rows, err := parseHTMLTable([]byte(sampleHTML))
	if err != nil {
		t.Fatalf("parseHTMLTable: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	judge := rows[0]
	if judge.Name != "Aaron Judge" || judge.FangraphsID != 15640 || judge.Season != 2024 {
		t.Errorf("unexpected identity: %+v", judge)
	}
	// Percent cells normalize to the API's decimal convention
	if v, ok := judge.Stat("K%"); !ok || v != 0.245 {
		t.Errorf("K%% = %v (%v), want 0.245", v, ok)
	}
	if v, ok := judge.Stat("wRC+"); !ok || v != 218 {
		t.Errorf("wRC+ = %v (%v), want 218", v, ok)
	}
}

func TestParseHTMLTable_NoTable(t *testing.T) {
	if _, err := parseHTMLTable([]byte("<html><body><p>maintenance</p></body></html>")); err == nil {
		t.Error("expected error when no table rows exist")
	}
}
