package completion

import (
	"testing"
)

func rankLabels(cands []Candidate, raw string, cfg MatchConfig) []string {
	ranked, _ := Rank(cands, raw, cfg)

	return labels(ranked)
}

func TestRankEmptyInputKeepsNaturalOrder(t *testing.T) {
	t.Parallel()

	cands := []Candidate{
		{Label: "Beta"},
		{Label: "Alpha"},
		{Label: "Type", SortWeight: -1},
	}

	got := rankLabels(cands, "", DefaultMatch)

	if got[0] != "Type" {
		t.Errorf("ranked = %v, want weighted Type first", got)
	}
	if got[1] != "Beta" || got[2] != "Alpha" {
		t.Errorf("ranked = %v, want stable input order after weights", got)
	}
}

func TestRankFiltersBySubsequence(t *testing.T) {
	t.Parallel()

	cands := []Candidate{
		{Label: "BucketName"},
		{Label: "Tags"},
		{Label: "VersioningConfiguration"},
	}

	got := rankLabels(cands, "bname", MatchConfig{MaxDistance: -1, MinMatchLen: 1})

	if len(got) != 1 || got[0] != "BucketName" {
		t.Errorf("ranked = %v, want only BucketName", got)
	}
}

func TestRankKeepsExactCandidates(t *testing.T) {
	t.Parallel()

	cands := []Candidate{
		{Label: "true", Exact: true},
		{Label: "false", Exact: true},
	}

	got := rankLabels(cands, "tr", MatchConfig{MaxDistance: 4, MinMatchLen: 1})

	if len(got) != 2 {
		t.Fatalf("ranked = %v, want both exact candidates kept", got)
	}
	if got[0] != "true" {
		t.Errorf("ranked = %v, want matched true ahead of pinned false", got)
	}
}

func TestRankMaxDistanceCutoff(t *testing.T) {
	t.Parallel()

	cands := []Candidate{
		{Label: "Status"},
		{Label: "SuspendProcessesAndWaitForever"},
	}

	got := rankLabels(cands, "stat", MatchConfig{MaxDistance: 4, MinMatchLen: 1})

	if len(got) != 1 || got[0] != "Status" {
		t.Errorf("ranked = %v, want the distant match cut off", got)
	}
}

func TestRankMinMatchLen(t *testing.T) {
	t.Parallel()

	cands := []Candidate{
		{Label: "AWS::S3::Bucket"},
		{Label: "AWS::Lambda::Alias"},
	}

	// Below the minimum length the full population stays.
	got := rankLabels(cands, "a", MatchConfig{MaxDistance: -1, MinMatchLen: 2})

	if len(got) != 2 {
		t.Errorf("ranked = %v, want full set below min match length", got)
	}
}

func TestRankTruncates(t *testing.T) {
	t.Parallel()

	cands := make([]Candidate, MaxCandidates+50)
	for i := range cands {
		cands[i] = Candidate{Label: "X"}
	}

	ranked, incomplete := Rank(cands, "", DefaultMatch)

	if len(ranked) != MaxCandidates {
		t.Errorf("len = %d, want %d", len(ranked), MaxCandidates)
	}
	if !incomplete {
		t.Error("incomplete = false after truncation")
	}
}
