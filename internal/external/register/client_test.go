package register

import "testing"

const shardCSV = `name_last,name_first,key_mlbam,key_fangraphs,key_retro
Judge,Aaron,592450,15640,judga001
Ohtani,Shohei,660271,19755,ohtas001
Prospect,Unsigned,999001,-1,
Historic,Player,,1043,histp101
`

func TestParseShard(t *testing.T) {
	table := make(map[int]int)
	if err := parseShard([]byte(shardCSV), table); err != nil {
		t.Fatalf("parseShard: %v", err)
	}

	if len(table) != 2 {
		t.Fatalf("expected 2 mapped players, got %d", len(table))
	}
	if table[592450] != 15640 {
		t.Errorf("Judge: got %d, want 15640", table[592450])
	}
	if table[660271] != 19755 {
		t.Errorf("Ohtani: got %d, want 19755", table[660271])
	}
	if _, ok := table[999001]; ok {
		t.Error("player with key_fangraphs=-1 should not be mapped")
	}
}

func TestParseShardMissingColumns(t *testing.T) {
	table := make(map[int]int)
	err := parseShard([]byte("name_last,name_first\nJudge,Aaron\n"), table)
	if err == nil {
		t.Fatal("expected error for shard without id columns")
	}
}
