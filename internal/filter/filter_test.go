package filter

import (
	"reflect"
	"testing"

	"github.com/tswoboda/voicedash/internal/store"
)

func testDataset() *store.Dataset {
	return &store.Dataset{
		CampaignCode: "test",
		Rows: map[string][]store.Row{
			"q1": {
				{RawResponse: "I want safety", Tokens: []string{"want", "safety"},
					CanonicalCode: "SAFETY", ParentCategory: "RIGHTS",
					Alpha2Country: "US", Region: "Texas", Gender: "Female", Age: "30", AgeBucket: "25-34"},
				{RawResponse: "Clean water", Tokens: []string{"clean", "water"},
					CanonicalCode: "ACCESS/QUALITY", ParentCategory: "HEALTH",
					Alpha2Country: "KE", Region: "Nairobi", Gender: "Female", Age: "22", AgeBucket: "20-24"},
				{RawResponse: "Safe water", Tokens: []string{"safe", "water"},
					CanonicalCode: "SAFETY", ParentCategory: "RIGHTS",
					Alpha2Country: "KE", Region: "Kisumu", Gender: "Male", Age: "40", AgeBucket: "35-44"},
			},
		},
	}
}

func TestApplyNilFilterSelectsEverything(t *testing.T) {
	ds := testDataset()
	rows := Apply(ds, "q1", nil)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	// The returned slice must be independent of the dataset's own.
	rows[0] = store.Row{}
	if ds.Rows["q1"][0].RawResponse != "I want safety" {
		t.Error("Apply leaked a mutable reference to the dataset")
	}
}

func TestApplyConjunctive(t *testing.T) {
	ds := testDataset()
	rows := Apply(ds, "q1", &Filter{Countries: []string{"KE"}, Genders: []string{"Female"}})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].RawResponse != "Clean water" {
		t.Errorf("unexpected row %q", rows[0].RawResponse)
	}
}

func TestApplyTopicSubCodeMatch(t *testing.T) {
	ds := testDataset()
	rows := Apply(ds, "q1", &Filter{ResponseTopics: []string{"QUALITY"}})
	if len(rows) != 1 || rows[0].CanonicalCode != "ACCESS/QUALITY" {
		t.Fatalf("expected the composite-code row, got %v", rows)
	}

	// Parent category codes select their whole subtree.
	rows = Apply(ds, "q1", &Filter{ResponseTopics: []string{"RIGHTS"}})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for parent category, got %d", len(rows))
	}
}

func TestApplyTopicExactMatch(t *testing.T) {
	ds := testDataset()
	f := &Filter{ResponseTopics: []string{"QUALITY"}, OnlyResponsesFromCategories: true}
	if rows := Apply(ds, "q1", f); len(rows) != 0 {
		t.Fatalf("expected no exact match for sub-code, got %d rows", len(rows))
	}

	f = &Filter{ResponseTopics: []string{"ACCESS/QUALITY"}, OnlyResponsesFromCategories: true}
	if rows := Apply(ds, "q1", f); len(rows) != 1 {
		t.Fatalf("expected exactly the composite row, got %d rows", len(rows))
	}
}

func TestApplyKeywordIncludeExclude(t *testing.T) {
	ds := testDataset()
	rows := Apply(ds, "q1", &Filter{KeywordFilter: "water"})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows mentioning water, got %d", len(rows))
	}

	rows = Apply(ds, "q1", &Filter{KeywordFilter: "water", KeywordExclude: "clean"})
	if len(rows) != 1 || rows[0].RawResponse != "Safe water" {
		t.Fatalf("expected only the safe water row, got %v", rows)
	}
}

func TestApplyAgeFallsBackToBucket(t *testing.T) {
	ds := &store.Dataset{Rows: map[string][]store.Row{
		"q1": {{RawResponse: "x", AgeBucket: "25-34"}},
	}}
	rows := Apply(ds, "q1", &Filter{Ages: []string{"25-34"}})
	if len(rows) != 1 {
		t.Fatalf("expected bucket match for pre-bucketed row, got %d rows", len(rows))
	}
}

func TestApplyIdempotent(t *testing.T) {
	ds := testDataset()
	f := &Filter{Countries: []string{"KE"}}
	once := Apply(ds, "q1", f)

	again := Apply(&store.Dataset{Rows: map[string][]store.Row{"q1": once}}, "q1", f)
	if !reflect.DeepEqual(once, again) {
		t.Error("applying the same filter twice changed the selection")
	}
}

func TestApplyEmptyResult(t *testing.T) {
	rows := Apply(testDataset(), "q1", &Filter{Countries: []string{"BR"}})
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected a well-formed empty slice, got %v", rows)
	}
	if got := Apply(testDataset(), "missing", nil); len(got) != 0 {
		t.Fatalf("expected no rows for an unknown question code, got %d", len(got))
	}
}

func TestIdenticalReflexiveAndSymmetric(t *testing.T) {
	f := &Filter{Countries: []string{"US", "KE"}, KeywordFilter: "water"}
	if !Identical(f, f) {
		t.Error("a filter must be identical to itself")
	}

	g := &Filter{Countries: []string{"KE", "US"}, KeywordFilter: "water"}
	if !Identical(f, g) || !Identical(g, f) {
		t.Error("set equality must be order independent and symmetric")
	}

	h := &Filter{Countries: []string{"KE"}}
	if Identical(f, h) != Identical(h, f) {
		t.Error("Identical must be symmetric for unequal filters too")
	}
}

func TestIdenticalNilAndZero(t *testing.T) {
	if !Identical(nil, nil) {
		t.Error("two absent filters are identical")
	}
	if !Identical(nil, &Filter{}) {
		t.Error("an absent filter equals a zero filter")
	}
	if Identical(nil, &Filter{Countries: []string{"US"}}) {
		t.Error("a constrained filter is not identical to an absent one")
	}
}

func TestDescribe(t *testing.T) {
	got := Describe(nil, 42, "woman", "women")
	if got != "42 women" {
		t.Errorf("unexpected description %q", got)
	}

	got = Describe(&Filter{Countries: []string{"US", "KE"}, KeywordFilter: "water"}, 1532, "woman", "women")
	want := `1532 women in Kenya and United States who mentioned "water"`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = Describe(&Filter{}, 1, "respondent", "respondents")
	if got != "1 respondent" {
		t.Errorf("unexpected singular description %q", got)
	}
}
